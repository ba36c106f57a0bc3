package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore is a reference Capability implementation: entries live in
// a slice, ranked by cosine similarity of a deterministic embedding. It
// exists for tests and for hosts that have not wired in a real vector or
// full-text store yet.
type InMemoryStore struct {
	mu       sync.RWMutex
	entries  []Entry
	vectors  map[string][]float32
	embedder *SimpleEmbedder
}

// NewInMemoryStore builds an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		vectors:  make(map[string][]float32),
		embedder: NewSimpleEmbedder(0),
	}
}

// Store appends entry, minting an ID if one was not supplied.
func (s *InMemoryStore) Store(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	vec, err := s.embedder.Embed(ctx, entry.Content)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.vectors[entry.ID] = vec
	return nil
}

// Query returns the topK entries most similar to task by cosine distance
// of their deterministic embeddings.
func (s *InMemoryStore) Query(ctx context.Context, task string, topK int) ([]Entry, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	queryVec, err := s.embedder.Embed(ctx, task)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		entry Entry
		score float64
	}
	ranked := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		ranked = append(ranked, scored{entry: e, score: cosine(queryVec, s.vectors[e.ID])})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	out := make([]Entry, len(ranked))
	for i, r := range ranked {
		out[i] = r.entry
	}
	return out, nil
}

// Stats summarizes the store's contents.
func (s *InMemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{TotalEntries: len(s.entries)}
	for i, e := range s.entries {
		if i == 0 || e.CreatedAt.Before(st.OldestEntry) {
			st.OldestEntry = e.CreatedAt
		}
		if i == 0 || e.CreatedAt.After(st.NewestEntry) {
			st.NewestEntry = e.CreatedAt
		}
	}
	return st, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
