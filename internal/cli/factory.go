// Package cli wires configuration files into a running node host. It is the
// shared plumbing behind the run, watch, serve and mcp commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/yaml.v3"

	nodedev "github.com/ian-griptape-ai/node-development"
	"github.com/ian-griptape-ai/node-development/internal/dto"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/file"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/memory"
	"github.com/ian-griptape-ai/node-development/pkg/adapters/redis"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
	"github.com/ian-griptape-ai/node-development/pkg/observability"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
	"github.com/ian-griptape-ai/node-development/pkg/reconcile"
)

// LoadConfig reads and decodes a host configuration file.
func LoadConfig(path string) (*dto.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	var cfg dto.Config
	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *dto.Config) {
	if cfg.Registry.Backend == "" {
		cfg.Registry.Backend = "memory"
	}
	if cfg.Registry.Redis.Addr == "" {
		cfg.Registry.Redis.Addr = "localhost:6379"
	}
	for i := range cfg.Nodes {
		if cfg.Nodes[i].Naming == "" {
			cfg.Nodes[i].Naming = string(reconcile.NamingPrefixed)
		}
	}
}

func validate(cfg *dto.Config) error {
	switch cfg.Registry.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown registry backend: %s", cfg.Registry.Backend)
	}
	seen := make(map[string]bool, len(cfg.Nodes))
	for _, nc := range cfg.Nodes {
		if nc.Name == "" {
			return fmt.Errorf("node without a name in config")
		}
		if seen[nc.Name] {
			return fmt.Errorf("duplicate node name: %s", nc.Name)
		}
		seen[nc.Name] = true
		if !reconcile.NamingScheme(nc.Naming).Valid() {
			return fmt.Errorf("node %s: unknown naming scheme: %s", nc.Name, nc.Naming)
		}
	}
	return nil
}

// Runtime bundles the host with the resources it owns. Close releases
// backend connections.
type Runtime struct {
	Host *nodedev.Host

	// Prom is non-nil when metrics are enabled; the serve command exposes
	// it on /metrics.
	Prom *prometheus.Registry

	closers []func() error
}

// Close releases every backend resource the runtime owns.
func (rt *Runtime) Close() error {
	var first error
	for _, c := range rt.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewRuntime builds a host from a decoded configuration: one registry
// namespace and one YAML loader node per node entry. Initial source and
// filter values are stored without triggering a pass; the first explicit run
// reconciles them.
func NewRuntime(ctx context.Context, cfg *dto.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{
		Host: nodedev.New(nodedev.WithLogger(logger)),
	}

	var hooks *observability.Metrics
	if cfg.Metrics {
		rt.Prom = prometheus.NewRegistry()
		hooks = observability.NewMetrics(rt.Prom)
	}

	for _, nc := range cfg.Nodes {
		reg, err := rt.buildRegistry(cfg.Registry, nc.Name)
		if err != nil {
			rt.Close()
			return nil, err
		}

		opts := []nodes.Option{
			nodes.WithNaming(reconcile.NamingScheme(nc.Naming)),
			nodes.WithLogger(logger),
		}
		if nc.Prefix != "" {
			opts = append(opts, nodes.WithPrefix(nc.Prefix))
		}
		if nc.Label != "" {
			opts = append(opts, nodes.WithDocumentLabel(nc.Label))
		}
		if hooks != nil {
			opts = append(opts, nodes.WithLifecycleHooks(hooks.Hooks()))
		}

		node := nodes.NewYAMLLoader(nc.Name, reg, file.NewLoader(), opts...)
		if err := rt.Host.Register(ctx, node); err != nil {
			rt.Close()
			return nil, err
		}

		fixed := node.Slots()
		if nc.Source != "" {
			if err := reg.SetValue(ctx, fixed.Source, nc.Source); err != nil {
				rt.Close()
				return nil, fmt.Errorf("node %s: %w", nc.Name, err)
			}
		}
		if nc.Filter != "" {
			if err := reg.SetValue(ctx, fixed.Filter, nc.Filter); err != nil {
				rt.Close()
				return nil, fmt.Errorf("node %s: %w", nc.Name, err)
			}
		}
	}

	return rt, nil
}

// buildRegistry creates a per-node registry namespace. Nodes never share a
// namespace: fixed slot names would collide.
func (rt *Runtime) buildRegistry(cfg dto.RegistryConfig, nodeName string) (ports.SlotRegistry, error) {
	switch cfg.Backend {
	case "redis":
		prefix := cfg.Redis.Prefix
		if prefix == "" {
			prefix = "nodedev:"
		}
		reg := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(fmt.Sprintf("%s%s:slot:", prefix, nodeName)))
		rt.closers = append(rt.closers, reg.Close)
		return reg, nil
	default:
		return memory.NewRegistry(), nil
	}
}
