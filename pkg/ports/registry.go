package ports

import (
	"context"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// SlotRegistry is the host's mutable collection of named parameter slots.
// The reconciler creates, updates and deletes managed slots through it.
//
// Error contract: Create returns domain.ErrNameConflict if the name already
// exists; SetValue returns domain.ErrUnknownSlot if the slot is absent;
// Remove is a no-op for absent slots. Those two errors indicate reconciler
// bugs and must propagate unmodified.
type SlotRegistry interface {
	// Exists reports whether a slot with the given name exists,
	// managed or not.
	Exists(ctx context.Context, name string) (bool, error)

	// Create adds a new slot with an empty value.
	Create(ctx context.Context, spec domain.SlotSpec) error

	// Remove deletes a slot by name.
	Remove(ctx context.Context, name string) error

	// SetValue updates the current value of an existing slot.
	SetValue(ctx context.Context, name, value string) error

	// Get returns the slot with the given name, or domain.ErrUnknownSlot.
	Get(ctx context.Context, name string) (domain.Slot, error)

	// ManagedNames returns the names of all reconciler-owned slots.
	// Order is unspecified.
	ManagedNames(ctx context.Context) ([]string, error)
}
