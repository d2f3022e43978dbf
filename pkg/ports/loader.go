package ports

import (
	"context"

	"github.com/ian-griptape-ai/node-development/pkg/domain"
)

// DocumentLoader reads and parses a document source into a Document.
// This decouples the reconciler from files and formats: it never opens a
// file itself.
//
// Load returns domain.ErrDocumentNotFound if the source is missing and
// domain.ErrParse if the source is malformed (both possibly wrapped).
type DocumentLoader interface {
	Load(ctx context.Context, source string) (domain.Document, error)
}

// Watchable is implemented by loaders that can notify about source changes.
// This is typically used for hot-reload in dev mode.
type Watchable interface {
	// Watch returns a channel that receives the source identifier whenever
	// the underlying document changes. The channel closes when ctx ends.
	Watch(ctx context.Context, source string) (<-chan string, error)
}
