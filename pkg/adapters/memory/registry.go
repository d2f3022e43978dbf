// Package memory provides an in-memory SlotRegistry.
// It is the default backend and the test workhorse.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// Registry implements ports.SlotRegistry in memory.
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	slots map[string]domain.Slot
}

// NewRegistry creates a new empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{
		slots: make(map[string]domain.Slot),
	}
}

// Exists reports whether a slot exists.
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.slots[name]
	return ok, nil
}

// Create adds a new slot with an empty value.
func (r *Registry) Create(ctx context.Context, spec domain.SlotSpec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[spec.Name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrNameConflict, spec.Name)
	}
	r.slots[spec.Name] = domain.Slot{Spec: spec}
	return nil
}

// Remove deletes a slot. Removing an absent slot is a no-op.
func (r *Registry) Remove(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.slots, name)
	return nil
}

// SetValue updates the value of an existing slot.
func (r *Registry) SetValue(ctx context.Context, name, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, ok := r.slots[name]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSlot, name)
	}
	slot.Value = value
	r.slots[name] = slot
	return nil
}

// Get returns a slot by name.
func (r *Registry) Get(ctx context.Context, name string) (domain.Slot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[name]
	if !ok {
		return domain.Slot{}, fmt.Errorf("%w: %s", domain.ErrUnknownSlot, name)
	}
	return slot, nil
}

// ManagedNames returns the names of all reconciler-owned slots.
func (r *Registry) ManagedNames(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.slots))
	for name, slot := range r.slots {
		if slot.Spec.Managed {
			names = append(names, name)
		}
	}
	return names, nil
}
