// Package flatten converts a nested Document into a flat ordered list of
// dotted/indexed key paths and scalar values.
package flatten

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// DefaultSeparator joins mapping keys in flattened paths.
const DefaultSeparator = "."

// Option configures a flattening pass.
type Option func(*config)

type config struct {
	prefix string
	sep    string
}

// WithPrefix sets an initial key prefix for all produced entries.
func WithPrefix(prefix string) Option {
	return func(c *config) {
		c.prefix = prefix
	}
}

// WithSeparator overrides the mapping key separator (default ".").
func WithSeparator(sep string) Option {
	return func(c *config) {
		c.sep = sep
	}
}

// Flatten walks doc depth-first and returns its flat form.
//
// Mapping keys are joined with the separator, sequence positions are encoded
// as a 1-based "[i]" suffix on the preceding key segment, and whitespace in
// raw mapping keys is normalized to "_". An empty mapping or sequence at any
// level contributes zero entries.
//
// Flatten accepts a mapping, sequence or scalar at any depth, the root
// included. Root-type policy (rejecting bare scalars) is enforced one layer
// up by the reconciler, not here.
//
// Duplicate keys are possible in the output (a mapping key "x[1]" can collide
// with the first element of a sequence under "x"); they are emitted as-is and
// resolved by the reconciler's naming policy.
func Flatten(doc domain.Document, opts ...Option) domain.FlatResult {
	cfg := config{sep: DefaultSeparator}
	for _, opt := range opts {
		opt(&cfg)
	}

	out := make(domain.FlatResult, 0)
	walk(doc, cfg.prefix, cfg.sep, &out)
	return out
}

func walk(doc domain.Document, prefix, sep string, out *domain.FlatResult) {
	switch d := doc.(type) {
	case domain.Mapping:
		for _, entry := range d {
			key := NormalizeKey(entry.Key)
			childKey := key
			if prefix != "" {
				childKey = prefix + sep + key
			}
			walk(entry.Value, childKey, sep, out)
		}

	case domain.Sequence:
		for i, item := range d {
			indexed := fmt.Sprintf("%s[%d]", prefix, i+1)
			switch v := item.(type) {
			case domain.Mapping:
				for _, entry := range v {
					walk(entry.Value, indexed+sep+NormalizeKey(entry.Key), sep, out)
				}
			case domain.Sequence:
				walk(v, indexed, sep, out)
			case domain.Scalar:
				*out = append(*out, domain.FlatEntry{Key: indexed, Value: v.Value})
			}
		}

	case domain.Scalar:
		*out = append(*out, domain.FlatEntry{Key: prefix, Value: d.Value})
	}
}

// NormalizeKey replaces every whitespace rune in a raw mapping key with "_".
func NormalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, key)
}
