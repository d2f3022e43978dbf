package domain

// SlotKind constants define how a slot may be used by the host.
const (
	// SlotKindOutput marks a slot that only emits values downstream.
	SlotKindOutput = "output-only"
	// SlotKindProperty marks a slot that the user can set on the node panel.
	SlotKindProperty = "property"
)

// SlotSpec describes a slot to be created in the parameter registry.
// It is an explicit value type: slot construction never goes through a
// loosely-typed attribute bag.
type SlotSpec struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Settable     bool   `json:"settable"`
	DisplayLabel string `json:"display_label,omitempty"`

	// Managed is true for slots owned by the reconciler. Fixed slots
	// (source input, filter input, serialized output, status) are unmanaged
	// and survive every reconciliation pass.
	Managed bool `json:"managed"`
}

// Slot is a named output unit owned by the registry.
type Slot struct {
	Spec  SlotSpec `json:"spec"`
	Value string   `json:"value"`
}
