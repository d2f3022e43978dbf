package nodedev

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/nodes"
)

// Host is the high-level entry point for the library. It owns a set of named
// nodes and serializes their execution, standing in for the full visual
// editor runtime during development and testing.
type Host struct {
	mu     sync.Mutex
	nodes  map[string]nodes.Node
	order  []string
	logger *slog.Logger
}

// Option defines a functional option for configuring the Host.
type Option func(*Host)

// WithLogger sets a custom structured logger for the host.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Host) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// New initializes a new Host.
func New(opts ...Option) *Host {
	h := &Host{
		nodes:  make(map[string]nodes.Node),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a node and runs its Setup. Node names must be unique.
func (h *Host) Register(ctx context.Context, n nodes.Node) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := n.Name()
	if _, ok := h.nodes[name]; ok {
		return fmt.Errorf("node already registered: %s", name)
	}
	if err := n.Setup(ctx); err != nil {
		return fmt.Errorf("setup failed for node %s: %w", name, err)
	}
	h.nodes[name] = n
	h.order = append(h.order, name)
	h.logger.Debug("node registered", "node", name)
	return nil
}

// Get returns a registered node by name.
func (h *Host) Get(name string) (nodes.Node, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[name]
	return n, ok
}

// Names returns the registered node names in registration order.
func (h *Host) Names() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, len(h.order))
	copy(names, h.order)
	return names
}

// Run executes one node by name.
func (h *Host) Run(ctx context.Context, name string) (*domain.Outcome, error) {
	n, ok := h.Get(name)
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}

	outcome, err := n.Process(ctx)
	if err != nil {
		h.logger.Error("node run failed", "node", name, "err", err)
		return outcome, err
	}
	h.logger.Info("node run complete", "node", name, "status", outcome.Status)
	return outcome, nil
}

// RunAll executes every registered node in registration order.
// It stops at the first failure.
func (h *Host) RunAll(ctx context.Context) (map[string]*domain.Outcome, error) {
	outcomes := make(map[string]*domain.Outcome, len(h.Names()))
	for _, name := range h.Names() {
		outcome, err := h.Run(ctx, name)
		if outcome != nil {
			outcomes[name] = outcome
		}
		if err != nil {
			return outcomes, fmt.Errorf("node %s: %w", name, err)
		}
	}
	return outcomes, nil
}

// NotifyValueSet forwards a property-change notification to a node,
// mirroring the host editor's after-value-set callback.
func (h *Host) NotifyValueSet(ctx context.Context, name, param string) (*domain.Outcome, error) {
	n, ok := h.Get(name)
	if !ok {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return n.AfterValueSet(ctx, param)
}
