package domain

// Outcome reports exactly which slots one reconciliation pass touched.
// It is always returned as an explicit value; the reconciler never mutates a
// caller-supplied set as a side channel.
type Outcome struct {
	// Created, Updated and Deleted hold managed slot names, in pass order.
	Created []string `json:"created"`
	Updated []string `json:"updated"`
	Deleted []string `json:"deleted"`

	// Serialized is the flattened-and-filtered result as written to the
	// fixed output slot.
	Serialized string `json:"serialized"`

	// Status is the human-readable message written to the fixed status slot.
	Status string `json:"status"`

	// Fixed holds the names of fixed slots written during the pass
	// (the output and status slots).
	Fixed []string `json:"fixed"`
}

// Touched returns the names of every slot the pass created, updated, deleted
// or wrote as a fixed slot. Order: created, updated, deleted, fixed.
func (o *Outcome) Touched() []string {
	names := make([]string, 0, len(o.Created)+len(o.Updated)+len(o.Deleted)+len(o.Fixed))
	names = append(names, o.Created...)
	names = append(names, o.Updated...)
	names = append(names, o.Deleted...)
	names = append(names, o.Fixed...)
	return names
}
