package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/redis"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, opts ...redis.Option) (*redis.Registry, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisRegistry_Contract(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ports.RunSlotRegistryContract(t, reg)
}

func TestRedisRegistry_Prefix(t *testing.T) {
	reg, mr := newTestRegistry(t, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := reg.Create(ctx, domain.SlotSpec{
		Name:    "output_a",
		Kind:    domain.SlotKindOutput,
		Managed: true,
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:output_a"), "expected slot key with custom prefix")
	assert.True(t, mr.Exists("custom:app:managed"), "expected managed index with custom prefix")

	names, err := reg.ManagedNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "output_a")
}

func TestRedisRegistry_ValueSurvivesReconnect(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	ctx := context.Background()

	first := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	require.NoError(t, first.Create(ctx, domain.SlotSpec{Name: "output_a", Managed: true}))
	require.NoError(t, first.SetValue(ctx, "output_a", "42"))
	require.NoError(t, first.Close())

	// A fresh client sees the same registry state.
	second := redis.NewFromClient(backend.NewClient(&backend.Options{Addr: mr.Addr()}))
	slot, err := second.Get(ctx, "output_a")
	require.NoError(t, err)
	assert.Equal(t, "42", slot.Value)
	assert.True(t, slot.Spec.Managed)
}
