package memory

import "context"

// Capability is the memory store the execution engine consumes. The
// engine never implements retrieval itself; it queries whatever
// implementation a host wires in (vector search, full-text, or — in
// tests — an in-memory stub) and degrades to an empty result set on any
// error rather than aborting the run.
type Capability interface {
	Query(ctx context.Context, task string, topK int) ([]Entry, error)
	Store(ctx context.Context, entry Entry) error
	Stats(ctx context.Context) (Stats, error)
}
