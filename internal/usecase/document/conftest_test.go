package document

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/domain/search/filter"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	storeChunksFn func(ctx context.Context, chs []domain.Chunk) (*domain.StoreReport, error)
	searchVecFn   func(ctx context.Context, vector []float32, filters filter.Expression, k int) (
		[]domain.SearchResult, error,
	)
	searchHybridFn func(
		ctx context.Context, vector []float32, query string, filters filter.Expression, limit int, alpha float64,
	) ([]domain.SearchResult, error)
	fetchByIDFn  func(ctx context.Context, id string) (domain.SearchResult, error)
	listAllFn    func(ctx context.Context, limit int) ([]domain.SearchResult, error)
	updateByIDFn func(ctx context.Context, id string, patch domain.ChunkPatch) (int, error)
	deleteByIDFn func(ctx context.Context, id string) (int, error)
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockRepo) StoreChunks(ctx context.Context, chs []domain.Chunk) (*domain.StoreReport, error) {
	if m.storeChunksFn != nil {
		return m.storeChunksFn(ctx, chs)
	}
	ids := make([]string, len(chs))
	for i := range ids {
		ids[i] = "id"
	}
	return &domain.StoreReport{IDs: ids}, nil
}

func (m *mockRepo) SearchVector(
	ctx context.Context, vector []float32, filters filter.Expression, k int,
) ([]domain.SearchResult, error) {
	if m.searchVecFn != nil {
		return m.searchVecFn(ctx, vector, filters, k)
	}
	return nil, nil
}

func (m *mockRepo) SearchHybrid(
	ctx context.Context, vector []float32, query string, filters filter.Expression, limit int, alpha float64,
) ([]domain.SearchResult, error) {
	if m.searchHybridFn != nil {
		return m.searchHybridFn(ctx, vector, query, filters, limit, alpha)
	}
	return nil, nil
}

func (m *mockRepo) FetchByID(ctx context.Context, id string) (domain.SearchResult, error) {
	if m.fetchByIDFn != nil {
		return m.fetchByIDFn(ctx, id)
	}
	return domain.SearchResult{}, domain.ErrDocumentNotFound
}

func (m *mockRepo) ListAll(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockRepo) UpdateByID(ctx context.Context, id string, patch domain.ChunkPatch) (int, error) {
	if m.updateByIDFn != nil {
		return m.updateByIDFn(ctx, id, patch)
	}
	return 0, nil
}

func (m *mockRepo) DeleteByID(ctx context.Context, id string) (int, error) {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return 0, nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockLoader implements Loader for tests.
type mockLoader struct {
	text string
	err  error
}

func (m *mockLoader) Load(_ context.Context, _ string) (string, error) {
	return m.text, m.err
}

func (m *mockLoader) Supports(_ string) bool { return true }

// mockSplitter implements Splitter for tests: splits on "|".
type mockSplitter struct{}

func (mockSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "|")
}

// mockEmbedder implements Embedder for tests.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	inputs  []string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.inputs = append(m.inputs, text)
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func newTestService(repo *mockRepo, loader *mockLoader, docEmbed, queryEmbed *mockEmbedder) *Service {
	return New(
		repo, loader, mockSplitter{}, docEmbed, queryEmbed,
		Config{DefaultLimit: 10, HybridAlpha: 0.5},
		zap.NewNop(),
	)
}
