// Package redis provides a SlotRegistry backed by Redis, for hosts that keep
// node parameter state out-of-process.
package redis

import (
	"context"
	"fmt"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Registry implements ports.SlotRegistry using Redis.
// Each slot lives in a hash keyed by name; managed slot names are indexed in
// a set so ManagedNames does not need a key scan.
type Registry struct {
	client *backend.Client
	prefix string
}

type Option func(*Registry)

// WithPrefix sets the key prefix for slots (default "nodedev:slot:").
func WithPrefix(prefix string) Option {
	return func(r *Registry) {
		r.prefix = prefix
	}
}

// New creates a new Redis registry with options.
func New(address, password string, db int, opts ...Option) *Registry {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis registry from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Registry {
	reg := &Registry{
		client: client,
		prefix: "nodedev:slot:",
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

func (r *Registry) key(name string) string {
	return r.prefix + name
}

func (r *Registry) managedKey() string {
	return r.prefix + "managed"
}

// Exists reports whether a slot exists.
func (r *Registry) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(name)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check slot existence: %w", err)
	}
	return n > 0, nil
}

// Create adds a new slot with an empty value.
func (r *Registry) Create(ctx context.Context, spec domain.SlotSpec) error {
	exists, err := r.Exists(ctx, spec.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", domain.ErrNameConflict, spec.Name)
	}

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, r.key(spec.Name),
		"value", "",
		"kind", spec.Kind,
		"settable", boolField(spec.Settable),
		"label", spec.DisplayLabel,
		"managed", boolField(spec.Managed),
	)
	if spec.Managed {
		pipe.SAdd(ctx, r.managedKey(), spec.Name)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create slot in redis: %w", err)
	}
	return nil
}

// Remove deletes a slot. Removing an absent slot is a no-op.
func (r *Registry) Remove(ctx context.Context, name string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(name))
	pipe.SRem(ctx, r.managedKey(), name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove slot from redis: %w", err)
	}
	return nil
}

// SetValue updates the value of an existing slot.
func (r *Registry) SetValue(ctx context.Context, name, value string) error {
	exists, err := r.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSlot, name)
	}

	if err := r.client.HSet(ctx, r.key(name), "value", value).Err(); err != nil {
		return fmt.Errorf("failed to set slot value: %w", err)
	}
	return nil
}

// Get returns a slot by name.
func (r *Registry) Get(ctx context.Context, name string) (domain.Slot, error) {
	fields, err := r.client.HGetAll(ctx, r.key(name)).Result()
	if err != nil {
		return domain.Slot{}, fmt.Errorf("failed to get slot from redis: %w", err)
	}
	if len(fields) == 0 {
		return domain.Slot{}, fmt.Errorf("%w: %s", domain.ErrUnknownSlot, name)
	}

	return domain.Slot{
		Spec: domain.SlotSpec{
			Name:         name,
			Kind:         fields["kind"],
			Settable:     fields["settable"] == "1",
			DisplayLabel: fields["label"],
			Managed:      fields["managed"] == "1",
		},
		Value: fields["value"],
	}, nil
}

// ManagedNames returns the names of all reconciler-owned slots.
func (r *Registry) ManagedNames(ctx context.Context) ([]string, error) {
	names, err := r.client.SMembers(ctx, r.managedKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list managed slots: %w", err)
	}
	return names, nil
}

// Close closes the redis client.
func (r *Registry) Close() error {
	return r.client.Close()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
