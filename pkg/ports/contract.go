package ports

import (
	"context"
	"testing"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSlotRegistryContract runs a suite of tests to verify that a SlotRegistry
// implementation adheres to the defined interface contract.
// The registry must be empty when the suite starts.
func RunSlotRegistryContract(t *testing.T, reg SlotRegistry) {
	ctx := context.Background()

	t.Run("Create and Get", func(t *testing.T) {
		spec := domain.SlotSpec{
			Name:         "output_server.host",
			Kind:         domain.SlotKindOutput,
			Settable:     false,
			DisplayLabel: "server.host",
			Managed:      true,
		}
		require.NoError(t, reg.Create(ctx, spec))

		slot, err := reg.Get(ctx, spec.Name)
		require.NoError(t, err)
		assert.Equal(t, spec, slot.Spec)
		assert.Empty(t, slot.Value, "new slots start with an empty value")

		exists, err := reg.Exists(ctx, spec.Name)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Create conflict", func(t *testing.T) {
		err := reg.Create(ctx, domain.SlotSpec{Name: "output_server.host", Managed: true})
		assert.ErrorIs(t, err, domain.ErrNameConflict)
	})

	t.Run("SetValue", func(t *testing.T) {
		require.NoError(t, reg.SetValue(ctx, "output_server.host", "localhost"))

		slot, err := reg.Get(ctx, "output_server.host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", slot.Value)
	})

	t.Run("SetValue unknown slot", func(t *testing.T) {
		err := reg.SetValue(ctx, "no-such-slot", "v")
		assert.ErrorIs(t, err, domain.ErrUnknownSlot)
	})

	t.Run("Get unknown slot", func(t *testing.T) {
		_, err := reg.Get(ctx, "no-such-slot")
		assert.ErrorIs(t, err, domain.ErrUnknownSlot)
	})

	t.Run("ManagedNames excludes fixed slots", func(t *testing.T) {
		fixed := domain.SlotSpec{Name: "status_message", Kind: domain.SlotKindProperty, Settable: true}
		require.NoError(t, reg.Create(ctx, fixed))

		names, err := reg.ManagedNames(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, "output_server.host")
		assert.NotContains(t, names, "status_message")
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, reg.Remove(ctx, "output_server.host"))

		exists, err := reg.Exists(ctx, "output_server.host")
		require.NoError(t, err)
		assert.False(t, exists)

		names, err := reg.ManagedNames(ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, "output_server.host")
	})

	t.Run("Remove absent is a no-op", func(t *testing.T) {
		assert.NoError(t, reg.Remove(ctx, "output_server.host"))
		assert.NoError(t, reg.Remove(ctx, "never-existed"))
	})
}
