package domain

// FlatEntry is a single flattened key/value pair. Key is a synthetic dotted
// path ("server.host", "items[2].name"); Value is always a scalar.
type FlatEntry struct {
	Key   string
	Value any
}

// FlatResult is the ordered output of one flattening pass, depth-first
// pre-order over the source Document. Duplicate keys are possible here;
// the reconciler's naming policy resolves them, the flattener does not.
type FlatResult []FlatEntry

// Keys returns the entry keys in order.
func (r FlatResult) Keys() []string {
	keys := make([]string, len(r))
	for i, e := range r {
		keys[i] = e.Key
	}
	return keys
}
