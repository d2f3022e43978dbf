package domain

// Document is an arbitrary nested value read from an external structured-data
// source. It is one of Scalar, Sequence or Mapping.
//
// Go maps do not preserve insertion order, so Mapping is a slice of entries.
// Order matters for deterministic flattening output, not for correctness.
type Document interface {
	isDocument()
}

// Scalar is a leaf value: string, int64, float64, bool or nil.
type Scalar struct {
	Value any
}

// Sequence is an ordered list of documents.
type Sequence []Document

// MappingEntry is a single key/value pair inside a Mapping.
type MappingEntry struct {
	Key   string
	Value Document
}

// Mapping is an ordered list of key/value pairs. Keys are unique within one
// mapping; the loader is responsible for rejecting duplicates.
type Mapping []MappingEntry

func (Scalar) isDocument()   {}
func (Sequence) isDocument() {}
func (Mapping) isDocument()  {}

// Map builds a Mapping from alternating key/value arguments.
// Intended for tests and examples: domain.Map("a", domain.Str("x")).
func Map(pairs ...any) Mapping {
	if len(pairs)%2 != 0 {
		panic("domain.Map: odd number of arguments")
	}
	m := make(Mapping, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m = append(m, MappingEntry{
			Key:   pairs[i].(string),
			Value: pairs[i+1].(Document),
		})
	}
	return m
}

// Str wraps a string scalar.
func Str(s string) Scalar { return Scalar{Value: s} }

// Int wraps an integer scalar.
func Int(i int64) Scalar { return Scalar{Value: i} }

// Bool wraps a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Value: b} }

// Seq builds a Sequence from its arguments.
func Seq(items ...Document) Sequence { return Sequence(items) }
