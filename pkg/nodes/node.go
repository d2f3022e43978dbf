// Package nodes contains the plugin surface driven by the host engine:
// node contracts and the YAML loader node built on the reconciliation core.
package nodes

import (
	"context"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// Node is a plugin unit in the dataflow graph. The host instantiates nodes,
// calls Setup once, and then drives Process and AfterValueSet; invocations
// against one node instance are serialized by the host.
type Node interface {
	// Name returns the unique node name within the host.
	Name() string

	// Setup prepares the node's fixed slots in the registry.
	// It is idempotent: calling it on an already-prepared registry is safe.
	Setup(ctx context.Context) error

	// Process executes the node once and reports the slots it touched.
	Process(ctx context.Context) (*domain.Outcome, error)

	// AfterValueSet notifies the node that one of its property slots
	// changed. Nodes that do not react to the parameter return a nil
	// Outcome and no error.
	AfterValueSet(ctx context.Context, param string) (*domain.Outcome, error)
}

// SlotReader is an optional interface for nodes that can expose their current
// slots for inspection. Transports use it to serve slot listings.
type SlotReader interface {
	Snapshot(ctx context.Context) ([]domain.Slot, error)
}

// ParamSetter is an optional interface for nodes whose property slots can be
// written from outside the editor panel. Implementations store the value and
// run their after-value-set reaction.
type ParamSetter interface {
	SetParam(ctx context.Context, param, value string) (*domain.Outcome, error)
}
