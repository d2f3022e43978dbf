package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ian-griptape-ai/node-development/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "host.yaml", `
nodes:
  - name: loader
    source: config.yaml
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Registry.Backend)
	require.Len(t, cfg.Nodes, 1)
	assert.Equal(t, "prefixed", cfg.Nodes[0].Naming)
}

func TestLoadConfig_RejectsUnknownBackend(t *testing.T) {
	path := writeFile(t, t.TempDir(), "host.yaml", `
registry:
  backend: etcd
nodes:
  - name: loader
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown registry backend")
}

func TestLoadConfig_RejectsDuplicateNodeNames(t *testing.T) {
	path := writeFile(t, t.TempDir(), "host.yaml", `
nodes:
  - name: loader
  - name: loader
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "duplicate node name")
}

func TestLoadConfig_RejectsBadNaming(t *testing.T) {
	path := writeFile(t, t.TempDir(), "host.yaml", `
nodes:
  - name: loader
    naming: camel
`)
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "unknown naming scheme")
}

func TestRunOnce_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.yaml", "server:\n  host: localhost\nport: 8080\n")
	cfgPath := writeFile(t, dir, "host.yaml", `
nodes:
  - name: loader
    source: `+filepath.Join(dir, "doc.yaml")+`
`)

	var out bytes.Buffer
	err := RunOnce(context.Background(), cfgPath, logging.NewNop(), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "loader: YAML file loaded successfully")
	assert.Contains(t, out.String(), "created 2")
}

func TestRunOnce_FilterFromConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.yaml", "host: a\nport: 1\n")
	cfgPath := writeFile(t, dir, "host.yaml", `
nodes:
  - name: loader
    source: `+filepath.Join(dir, "doc.yaml")+`
    filter: host
`)

	var out bytes.Buffer
	err := RunOnce(context.Background(), cfgPath, logging.NewNop(), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created 1")
}

func TestNewRuntime_MetricsRegistry(t *testing.T) {
	cfg, err := LoadConfig(writeFile(t, t.TempDir(), "host.yaml", `
metrics: true
nodes:
  - name: loader
`))
	require.NoError(t, err)

	rt, err := NewRuntime(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer rt.Close()

	assert.NotNil(t, rt.Prom)
	assert.Equal(t, []string{"loader"}, rt.Host.Names())
}
