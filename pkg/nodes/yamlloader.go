package nodes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
	"github.com/ian-griptape-ai/node-development/pkg/reconcile"
)

// YAMLLoader loads a YAML document, flattens it and mirrors the flattened
// entries as managed output slots in the registry. It owns four fixed slots
// (source path, key filter, serialized output, status message) and
// re-reconciles whenever the source or filter property changes.
//
// Node state lives in the registry, not on the struct: the current source
// path and filter are read back from the fixed property slots on every pass.
type YAMLLoader struct {
	name   string
	reg    ports.SlotRegistry
	loader ports.DocumentLoader
	rec    *reconcile.Reconciler
	fixed  reconcile.FixedSlots
	logger *slog.Logger

	// mu serializes passes so the flatten -> filter -> name -> diff ->
	// apply sequence stays atomic even under a concurrent host.
	mu sync.Mutex
}

// Option configures a YAMLLoader.
type Option func(*options)

type options struct {
	scheme reconcile.NamingScheme
	prefix string
	fixed  reconcile.FixedSlots
	label  string
	logger *slog.Logger
	hooks  domain.LifecycleHooks
}

// WithNaming selects the managed slot naming scheme.
func WithNaming(scheme reconcile.NamingScheme) Option {
	return func(o *options) {
		o.scheme = scheme
	}
}

// WithPrefix overrides the prefixed-scheme slot prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithFixedSlots overrides the fixed slot names.
func WithFixedSlots(fixed reconcile.FixedSlots) Option {
	return func(o *options) {
		o.fixed = fixed
	}
}

// WithDocumentLabel sets the status-message label for the source.
func WithDocumentLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks for passes.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(o *options) {
		o.hooks = hooks
	}
}

// NewYAMLLoader creates a YAML loader node bound to a registry and a
// document loader.
func NewYAMLLoader(name string, reg ports.SlotRegistry, loader ports.DocumentLoader, opts ...Option) *YAMLLoader {
	o := options{
		scheme: reconcile.NamingPrefixed,
		prefix: reconcile.DefaultPrefix,
		fixed:  reconcile.DefaultFixedSlots(),
		label:  "YAML file",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &YAMLLoader{
		name:   name,
		reg:    reg,
		loader: loader,
		fixed:  o.fixed,
		logger: o.logger.With("node", name),
		rec: reconcile.New(
			reconcile.WithName(name),
			reconcile.WithNaming(o.scheme),
			reconcile.WithPrefix(o.prefix),
			reconcile.WithFixedSlots(o.fixed),
			reconcile.WithDocumentLabel(o.label),
			reconcile.WithLogger(o.logger),
			reconcile.WithLifecycleHooks(o.hooks),
		),
	}
}

// Name returns the node name.
func (n *YAMLLoader) Name() string {
	return n.name
}

// Setup creates the four fixed slots if they are absent.
func (n *YAMLLoader) Setup(ctx context.Context) error {
	specs := []domain.SlotSpec{
		{Name: n.fixed.Source, Kind: domain.SlotKindProperty, Settable: true, DisplayLabel: "YAML File Path"},
		{Name: n.fixed.Filter, Kind: domain.SlotKindProperty, Settable: true, DisplayLabel: "Key Filter"},
		{Name: n.fixed.Output, Kind: domain.SlotKindOutput, Settable: false, DisplayLabel: "YAML Data"},
		{Name: n.fixed.Status, Kind: domain.SlotKindProperty, Settable: false, DisplayLabel: "Status"},
	}
	for _, spec := range specs {
		exists, err := n.reg.Exists(ctx, spec.Name)
		if err != nil {
			return fmt.Errorf("failed to inspect slot %s: %w", spec.Name, err)
		}
		if exists {
			continue
		}
		if err := n.reg.Create(ctx, spec); err != nil {
			return fmt.Errorf("failed to create fixed slot %s: %w", spec.Name, err)
		}
	}
	return nil
}

// Process runs one reconciliation pass with the current source and filter.
func (n *YAMLLoader) Process(ctx context.Context) (*domain.Outcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	source, err := n.slotValue(ctx, n.fixed.Source)
	if err != nil {
		return nil, err
	}
	filter, err := n.slotValue(ctx, n.fixed.Filter)
	if err != nil {
		return nil, err
	}

	outcome, err := n.rec.LoadAndReconcile(ctx, n.loader, source, filter, n.reg)
	if err != nil {
		n.logger.Warn("reconciliation failed", "source", source, "err", err)
		return outcome, err
	}
	return outcome, nil
}

// AfterValueSet re-reconciles when the source path or the filter changed.
// Changes to any other slot are ignored.
func (n *YAMLLoader) AfterValueSet(ctx context.Context, param string) (*domain.Outcome, error) {
	if param != n.fixed.Source && param != n.fixed.Filter {
		return nil, nil
	}
	return n.Process(ctx)
}

// SetParam stores a value in a property slot and runs the node's
// after-value-set reaction. Unknown slots yield domain.ErrUnknownSlot.
func (n *YAMLLoader) SetParam(ctx context.Context, param, value string) (*domain.Outcome, error) {
	if err := n.reg.SetValue(ctx, param, value); err != nil {
		return nil, err
	}
	return n.AfterValueSet(ctx, param)
}

// SetSource stores a new source path and triggers a pass.
func (n *YAMLLoader) SetSource(ctx context.Context, source string) (*domain.Outcome, error) {
	return n.SetParam(ctx, n.fixed.Source, source)
}

// SetFilter stores a new key filter and triggers a pass.
func (n *YAMLLoader) SetFilter(ctx context.Context, filter string) (*domain.Outcome, error) {
	return n.SetParam(ctx, n.fixed.Filter, filter)
}

// Snapshot returns the node's fixed slots followed by its managed slots
// sorted by name.
func (n *YAMLLoader) Snapshot(ctx context.Context) ([]domain.Slot, error) {
	names := n.fixed.Names()
	managed, err := n.reg.ManagedNames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(managed)
	names = append(names, managed...)

	slots := make([]domain.Slot, 0, len(names))
	for _, name := range names {
		slot, err := n.reg.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Watch returns a channel signaling changes to the current source document.
// Returns an error if the underlying loader does not support watching.
func (n *YAMLLoader) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := n.loader.(ports.Watchable)
	if !ok {
		return nil, fmt.Errorf("current loader does not support watching")
	}
	source, err := n.slotValue(ctx, n.fixed.Source)
	if err != nil {
		return nil, err
	}
	if source == "" {
		return nil, fmt.Errorf("no source configured for %s", n.name)
	}
	return w.Watch(ctx, source)
}

// Slots returns the node's fixed slot names.
func (n *YAMLLoader) Slots() reconcile.FixedSlots {
	return n.fixed
}

func (n *YAMLLoader) slotValue(ctx context.Context, name string) (string, error) {
	slot, err := n.reg.Get(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to read slot %s: %w", name, err)
	}
	return slot.Value, nil
}
