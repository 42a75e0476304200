package chunks

import (
	"context"
	"errors"
	"fmt"

	"github.com/paperscope/ragserver/internal/db"
	"github.com/paperscope/ragserver/internal/domain"
)

const (
	// IndexName is the FT index over all paper chunks.
	IndexName = domain.KeyPrefix + "papers:idx"
	// keyPrefix namespaces all chunk keys.
	keyPrefix = domain.KeyPrefix + "papers:"
)

// EnsureCollection creates the chunk index if it does not already exist.
func (r *Repo) EnsureCollection(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, IndexName)
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(IndexName).
		OnJSON().
		Prefix(keyPrefix).
		Tag("$.title", "title").
		Tag("$.doi", "doi").
		Tag("$.doc_id", "doc_id").
		Text("$.content", "content").
		Numeric("$.chunk_index", "chunk_index").
		Numeric("$.created_at", "created_at").
		Numeric("$.citation_count", "citation_count").
		VectorHNSW("$.vector", "vector", r.vectorDim, r.hnswM, r.hnswEFConstruct).
		Build()
	if err != nil {
		return fmt.Errorf("build index definition: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}
