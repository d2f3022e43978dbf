// Package reconcile implements the parameter reconciliation engine: it
// flattens a source document, filters the result, and synchronizes the flat
// entries against a mutable slot registry with a minimal create/update/delete
// diff.
package reconcile

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/flatten"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
)

// FixedSlots names the four slots a loader node always owns. They are never
// created or deleted by the reconciler, only written to.
type FixedSlots struct {
	Source string
	Filter string
	Output string
	Status string
}

// DefaultFixedSlots returns the slot names used by the YAML loader node.
func DefaultFixedSlots() FixedSlots {
	return FixedSlots{
		Source: "yaml_file",
		Filter: "key_filter",
		Output: "yaml_data",
		Status: "status_message",
	}
}

// Names returns all fixed slot names.
func (f FixedSlots) Names() []string {
	return []string{f.Source, f.Filter, f.Output, f.Status}
}

// Reconciler drives reconciliation passes. Construct with New; the zero
// value is not usable.
//
// A Reconciler is not safe for concurrent passes against the same registry;
// the host is expected to serialize invocations per node instance.
type Reconciler struct {
	name     string
	scheme   NamingScheme
	prefix   string
	docLabel string
	fixed    FixedSlots
	logger   *slog.Logger
	hooks    domain.LifecycleHooks
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithName sets the owning node's name, used in logs and lifecycle events.
func WithName(name string) Option {
	return func(r *Reconciler) {
		r.name = name
	}
}

// WithNaming selects the slot naming scheme (default NamingPrefixed).
func WithNaming(scheme NamingScheme) Option {
	return func(r *Reconciler) {
		r.scheme = scheme
	}
}

// WithPrefix overrides the NamingPrefixed prefix (default "output_").
func WithPrefix(prefix string) Option {
	return func(r *Reconciler) {
		r.prefix = prefix
	}
}

// WithDocumentLabel sets the human-readable source label used in status
// messages (default "YAML file").
func WithDocumentLabel(label string) Option {
	return func(r *Reconciler) {
		r.docLabel = label
	}
}

// WithFixedSlots overrides the fixed slot names.
func WithFixedSlots(fixed FixedSlots) Option {
	return func(r *Reconciler) {
		r.fixed = fixed
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Reconciler) {
		r.hooks = hooks
	}
}

// New creates a Reconciler with the given options.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		scheme:   NamingPrefixed,
		prefix:   DefaultPrefix,
		docLabel: "YAML file",
		fixed:    DefaultFixedSlots(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile runs one pass: validate the root, flatten, filter, resolve slot
// names, diff against the registry's managed slots and apply the minimal set
// of mutations. The serialized flat result and a status message are written
// to the fixed output and status slots.
//
// On a root-type failure the registry is left untouched except for the
// status slot, and the error is returned after the status is recorded. The
// returned Outcome is non-nil in both cases and reports every slot touched.
func (r *Reconciler) Reconcile(ctx context.Context, doc domain.Document, filter string, reg ports.SlotRegistry) (*domain.Outcome, error) {
	start := time.Now()
	r.emitPassStart(ctx, "")
	outcome, err := r.reconcile(ctx, doc, filter, reg)
	r.emitPassEnd(ctx, "", outcome, time.Since(start), err)
	return outcome, err
}

// LoadAndReconcile resolves the source through the loader and runs a pass.
// An empty source is not an error: it only records a "No <label> specified"
// status. Load failures (missing or malformed source) record an error status
// and are re-signaled to the caller; the registry is otherwise untouched.
func (r *Reconciler) LoadAndReconcile(ctx context.Context, loader ports.DocumentLoader, source, filter string, reg ports.SlotRegistry) (*domain.Outcome, error) {
	start := time.Now()
	r.emitPassStart(ctx, source)

	outcome, err := func() (*domain.Outcome, error) {
		if source == "" {
			outcome := &domain.Outcome{}
			if werr := r.writeStatus(ctx, reg, outcome, fmt.Sprintf("No %s specified", r.docLabel)); werr != nil {
				return outcome, werr
			}
			return outcome, nil
		}

		doc, err := loader.Load(ctx, source)
		if err != nil {
			outcome := &domain.Outcome{}
			if werr := r.writeStatus(ctx, reg, outcome, fmt.Sprintf("Error loading %s: %v", r.docLabel, err)); werr != nil {
				return outcome, werr
			}
			return outcome, err
		}

		return r.reconcile(ctx, doc, filter, reg)
	}()

	r.emitPassEnd(ctx, source, outcome, time.Since(start), err)
	return outcome, err
}

func (r *Reconciler) reconcile(ctx context.Context, doc domain.Document, filter string, reg ports.SlotRegistry) (*domain.Outcome, error) {
	outcome := &domain.Outcome{}

	// 1. Root-type validation. Everything up to the apply step is pure, so
	// failing here leaves the registry untouched except for the status slot.
	if err := validateRoot(doc); err != nil {
		if werr := r.writeStatus(ctx, reg, outcome, fmt.Sprintf("Error loading %s: %v", r.docLabel, err)); werr != nil {
			return outcome, werr
		}
		return outcome, err
	}

	// 2. Flatten, 3. filter, 4. resolve names.
	flat := flatten.Flatten(doc)
	flat = filterEntries(flat, filter)
	reserved := make(map[string]bool, 4)
	for _, name := range r.fixed.Names() {
		reserved[name] = true
	}
	desired := resolveNames(flat, r.scheme, r.prefix, reserved)

	// 5. Diff and apply against the registry.
	current, err := reg.ManagedNames(ctx)
	if err != nil {
		return outcome, fmt.Errorf("failed to list managed slots: %w", err)
	}
	currentSet := make(map[string]bool, len(current))
	for _, name := range current {
		currentSet[name] = true
	}

	desiredSet := make(map[string]bool, len(desired))
	for _, d := range desired {
		desiredSet[d.name] = true

		if currentSet[d.name] {
			if err := reg.SetValue(ctx, d.name, formatValue(d.entry.Value)); err != nil {
				return outcome, err
			}
			outcome.Updated = append(outcome.Updated, d.name)
			continue
		}

		spec := domain.SlotSpec{
			Name:         d.name,
			Kind:         domain.SlotKindOutput,
			Settable:     false,
			DisplayLabel: d.entry.Key,
			Managed:      true,
		}
		if err := reg.Create(ctx, spec); err != nil {
			return outcome, err
		}
		if err := reg.SetValue(ctx, d.name, formatValue(d.entry.Value)); err != nil {
			return outcome, err
		}
		outcome.Created = append(outcome.Created, d.name)
	}

	// Purge managed slots whose keys vanished from this pass.
	stale := make([]string, 0)
	for _, name := range current {
		if !desiredSet[name] {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	for _, name := range stale {
		if err := reg.Remove(ctx, name); err != nil {
			return outcome, err
		}
		outcome.Deleted = append(outcome.Deleted, name)
	}

	// 6. Serialize the filtered flat result to the output slot.
	serialized, err := flatten.Marshal(flat)
	if err != nil {
		return outcome, err
	}
	if err := reg.SetValue(ctx, r.fixed.Output, serialized); err != nil {
		return outcome, err
	}
	outcome.Serialized = serialized
	outcome.Fixed = append(outcome.Fixed, r.fixed.Output)

	// 7. Record success.
	if err := r.writeStatus(ctx, reg, outcome, fmt.Sprintf("%s loaded successfully", r.docLabel)); err != nil {
		return outcome, err
	}

	r.logger.Debug("reconciliation pass complete",
		"node", r.name,
		"entries", len(desired),
		"created", len(outcome.Created),
		"updated", len(outcome.Updated),
		"deleted", len(outcome.Deleted),
	)
	return outcome, nil
}

// writeStatus records msg in the status slot and in the outcome.
// The status slot is the one slot written on every pass, failed or not.
func (r *Reconciler) writeStatus(ctx context.Context, reg ports.SlotRegistry, outcome *domain.Outcome, msg string) error {
	if err := reg.SetValue(ctx, r.fixed.Status, msg); err != nil {
		return err
	}
	outcome.Status = msg
	outcome.Fixed = append(outcome.Fixed, r.fixed.Status)
	return nil
}

func (r *Reconciler) emitPassStart(ctx context.Context, source string) {
	if r.hooks.OnPassStart == nil {
		return
	}
	r.hooks.OnPassStart(ctx, &domain.PassEvent{
		Timestamp: time.Now(),
		Node:      r.name,
		Source:    source,
	})
}

func (r *Reconciler) emitPassEnd(ctx context.Context, source string, outcome *domain.Outcome, d time.Duration, err error) {
	if r.hooks.OnPassEnd == nil {
		return
	}
	ev := &domain.PassResultEvent{
		PassEvent: domain.PassEvent{
			Timestamp: time.Now(),
			Node:      r.name,
			Source:    source,
		},
		Duration: d,
		Err:      err,
	}
	if outcome != nil {
		ev.Created = len(outcome.Created)
		ev.Updated = len(outcome.Updated)
		ev.Deleted = len(outcome.Deleted)
	}
	r.hooks.OnPassEnd(ctx, ev)
}

// validateRoot enforces the root-type policy: only mappings and sequences
// may be reconciled. Deeper scalars are handled by the flattener itself.
func validateRoot(doc domain.Document) error {
	switch doc.(type) {
	case domain.Mapping, domain.Sequence:
		return nil
	default:
		return domain.ErrBadRoot
	}
}

// filterEntries retains entries whose flattened key contains filter as a
// case-insensitive substring. An empty filter retains everything.
func filterEntries(entries domain.FlatResult, filter string) domain.FlatResult {
	if filter == "" {
		return entries
	}
	needle := strings.ToLower(filter)
	kept := make(domain.FlatResult, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Key), needle) {
			kept = append(kept, e)
		}
	}
	return kept
}

// formatValue renders a scalar for storage in a string-valued slot.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}
