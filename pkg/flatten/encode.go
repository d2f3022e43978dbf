package flatten

import (
	"fmt"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Marshal serializes a FlatResult as a single-level block-style YAML mapping,
// preserving entry order. The output round-trips into the same flattened
// shape when re-parsed: flattening is lossy with respect to the original
// nesting, so the flat form is the canonical one here.
//
// Duplicate keys (possible before collision resolution) are emitted as-is;
// YAML mappings tolerate this for display purposes.
func Marshal(result domain.FlatResult) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, entry := range result {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: entry.Key}
		valNode := &yaml.Node{}
		if entry.Value == nil {
			valNode.Kind = yaml.ScalarNode
			valNode.Tag = "!!null"
			valNode.Value = "null"
		} else if err := valNode.Encode(entry.Value); err != nil {
			return "", fmt.Errorf("failed to encode value for %q: %w", entry.Key, err)
		}
		root.Content = append(root.Content, keyNode, valNode)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("failed to marshal flat result: %w", err)
	}
	return string(data), nil
}
