// Package file provides a DocumentLoader that reads YAML documents from the
// local filesystem, preserving mapping order.
package file

import (
	"context"
	"fmt"
	"os"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.DocumentLoader for YAML files.
// The zero value is ready to use.
type Loader struct{}

// NewLoader creates a new YAML file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the YAML file at source.
// Returns domain.ErrDocumentNotFound if the file is missing and
// domain.ErrParse if it is malformed.
func (l *Loader) Load(ctx context.Context, source string) (domain.Document, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, source)
		}
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return Decode(data)
}

// Decode parses raw YAML bytes into a Document.
// It goes through yaml.Node rather than map[string]any so mapping order
// survives; plain Go maps would scramble it.
func Decode(data []byte) (domain.Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
	}

	// An empty file parses to an empty document node: surface it as a nil
	// scalar so the reconciler's root validation rejects it.
	if len(root.Content) == 0 {
		return domain.Scalar{Value: nil}, nil
	}
	return decodeNode(root.Content[0])
}

func decodeNode(n *yaml.Node) (domain.Document, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(n.Alias)

	case yaml.MappingNode:
		mapping := make(domain.Mapping, 0, len(n.Content)/2)
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if seen[key] {
				return nil, fmt.Errorf("%w: duplicate mapping key %q at line %d", domain.ErrParse, key, n.Content[i].Line)
			}
			seen[key] = true

			value, err := decodeNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			mapping = append(mapping, domain.MappingEntry{Key: key, Value: value})
		}
		return mapping, nil

	case yaml.SequenceNode:
		seq := make(domain.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			value, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			seq = append(seq, value)
		}
		return seq, nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrParse, err)
		}
		// Normalize integer width so scalar values compare predictably.
		if i, ok := v.(int); ok {
			v = int64(i)
		}
		return domain.Scalar{Value: v}, nil

	default:
		return nil, fmt.Errorf("%w: unsupported node kind %d at line %d", domain.ErrParse, n.Kind, n.Line)
	}
}
