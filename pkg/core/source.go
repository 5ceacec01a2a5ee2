package core

import (
	"context"
	"time"
)

// Source defines the contract of the Content Store.
// The pipeline only reads from it; a build never mutates the corpus.
type Source interface {
	// List returns every candidate document, ordered by Path.
	List(ctx context.Context) ([]Document, error)
}

// Watchable defines an interface for sources that can report changes.
type Watchable interface {
	// Watch emits an event for every change to a candidate document until ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}

// SummaryCache remembers the listing view of documents between runs, keyed by
// path and invalidated by modification time.
type SummaryCache interface {
	Load() error
	Get(path string, modTime time.Time) (Summary, bool)
	Set(path string, modTime time.Time, s Summary)
	Prune(keep map[string]bool)
	Save() error
}

// Sink receives the encoded build output.
type Sink interface {
	// Write stores data under the slash separated name.
	Write(ctx context.Context, name string, data []byte) error
	// Retain removes every previously written entry under dir not listed in keep.
	Retain(ctx context.Context, dir string, keep map[string]bool) error
}
