package domain

import (
	"context"
	"time"
)

// PassEvent describes one reconciliation pass for observability consumers.
type PassEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Node      string    `json:"node"`
	Source    string    `json:"source,omitempty"`
}

// PassResultEvent is emitted when a pass finishes, successfully or not.
type PassResultEvent struct {
	PassEvent
	Created  int           `json:"created"`
	Updated  int           `json:"updated"`
	Deleted  int           `json:"deleted"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	OnPassStart func(context.Context, *PassEvent)
	OnPassEnd   func(context.Context, *PassResultEvent)
}
