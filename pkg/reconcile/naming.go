package reconcile

import (
	"fmt"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// NamingScheme selects how flattened keys become slot names.
type NamingScheme string

const (
	// NamingVerbatim uses the flattened key as the slot name.
	NamingVerbatim NamingScheme = "verbatim"
	// NamingPrefixed prepends a prefix (default "output_") to the key.
	NamingPrefixed NamingScheme = "prefixed"
)

// DefaultPrefix is the slot name prefix used by NamingPrefixed.
const DefaultPrefix = "output_"

// Valid reports whether the scheme is one of the known values.
func (s NamingScheme) Valid() bool {
	return s == NamingVerbatim || s == NamingPrefixed
}

// namedEntry pairs a flattened entry with its resolved slot name.
type namedEntry struct {
	name  string
	entry domain.FlatEntry
}

// resolveNames derives a unique slot name per entry, in entry order.
// Collisions within the pass (and with reserved fixed-slot names) are
// resolved by appending _1, _2, ... to the candidate. The result is
// deterministic for a given entry order.
func resolveNames(entries domain.FlatResult, scheme NamingScheme, prefix string, reserved map[string]bool) []namedEntry {
	used := make(map[string]bool, len(entries))
	named := make([]namedEntry, 0, len(entries))

	for _, entry := range entries {
		candidate := entry.Key
		if scheme == NamingPrefixed {
			candidate = prefix + entry.Key
		}

		name := candidate
		for counter := 1; used[name] || reserved[name]; counter++ {
			name = fmt.Sprintf("%s_%d", candidate, counter)
		}
		used[name] = true
		named = append(named, namedEntry{name: name, entry: entry})
	}
	return named
}
