package nodedev_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nodedev "github.com/ian-griptape-ai/node-development"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/file"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/memory"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
)

func newLoaderNode(t *testing.T, name, content string) (*nodes.YAMLLoader, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return nodes.NewYAMLLoader(name, memory.NewRegistry(), file.NewLoader()), path
}

func TestHost_RegisterAndRun(t *testing.T) {
	ctx := context.Background()
	host := nodedev.New()

	node, path := newLoaderNode(t, "loader", "a: 1\n")
	require.NoError(t, host.Register(ctx, node))
	_, err := node.SetSource(ctx, path)
	require.NoError(t, err)

	outcome, err := host.Run(ctx, "loader")
	require.NoError(t, err)
	assert.Equal(t, []string{"output_a"}, outcome.Updated)
}

func TestHost_RejectsDuplicateNames(t *testing.T) {
	ctx := context.Background()
	host := nodedev.New()

	first, _ := newLoaderNode(t, "loader", "a: 1\n")
	second, _ := newLoaderNode(t, "loader", "b: 2\n")

	require.NoError(t, host.Register(ctx, first))
	err := host.Register(ctx, second)
	assert.ErrorContains(t, err, "already registered")
}

func TestHost_RunUnknownNode(t *testing.T) {
	host := nodedev.New()
	_, err := host.Run(context.Background(), "ghost")
	assert.ErrorContains(t, err, "node not found")
}

func TestHost_RunAllPreservesRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	host := nodedev.New()

	for _, name := range []string{"alpha", "beta"} {
		node, path := newLoaderNode(t, name, "x: 1\n")
		require.NoError(t, host.Register(ctx, node))
		_, err := node.SetSource(ctx, path)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"alpha", "beta"}, host.Names())

	outcomes, err := host.RunAll(ctx)
	require.NoError(t, err)
	assert.Len(t, outcomes, 2)
}

func TestHost_NotifyValueSet(t *testing.T) {
	ctx := context.Background()
	host := nodedev.New()

	node, path := newLoaderNode(t, "loader", "a: 1\n")
	require.NoError(t, host.Register(ctx, node))
	_, err := node.SetSource(ctx, path)
	require.NoError(t, err)

	// Unrelated parameter: node ignores the notification.
	outcome, err := host.NotifyValueSet(ctx, "loader", "yaml_data")
	require.NoError(t, err)
	assert.Nil(t, outcome)

	outcome, err = host.NotifyValueSet(ctx, "loader", "yaml_file")
	require.NoError(t, err)
	require.NotNil(t, outcome)
	assert.Equal(t, []string{"output_a"}, outcome.Updated)
}
