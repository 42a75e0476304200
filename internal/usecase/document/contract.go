package document

import (
	"context"

	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/domain/search/filter"
)

// Repository defines the storage contract for document chunks.
type Repository interface {
	StoreChunks(ctx context.Context, chs []domain.Chunk) (*domain.StoreReport, error)
	SearchVector(ctx context.Context, vector []float32, filters filter.Expression, k int) (
		[]domain.SearchResult, error,
	)
	SearchHybrid(
		ctx context.Context, vector []float32, query string, filters filter.Expression, limit int, alpha float64,
	) ([]domain.SearchResult, error)
	FetchByID(ctx context.Context, id string) (domain.SearchResult, error)
	ListAll(ctx context.Context, limit int) ([]domain.SearchResult, error)
	UpdateByID(ctx context.Context, id string, patch domain.ChunkPatch) (updated int, err error)
	DeleteByID(ctx context.Context, id string) (deleted int, err error)
	Count(ctx context.Context) (int, error)
}

// Loader extracts plain text from document files.
type Loader interface {
	Load(ctx context.Context, path string) (string, error)
	Supports(path string) bool
}

// Splitter cuts text into chunks.
type Splitter interface {
	Split(text string) []string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
