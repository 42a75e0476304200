package ragserver

import (
	"context"

	"github.com/paperscope/ragserver/internal/domain"
	documentuc "github.com/paperscope/ragserver/internal/usecase/document"
)

// mockDocs implements documentUseCase for tests.
type mockDocs struct {
	ingestFn func(ctx context.Context, path, originalFilename string, meta *domain.Metadata) (
		*documentuc.IngestResult, error,
	)
	searchTextFn  func(ctx context.Context, req *documentuc.SearchRequest) ([]domain.SearchResult, error)
	searchByDocFn func(ctx context.Context, id string, limit int, scoreThreshold *float64) ([]domain.SearchResult, error)
	listFn        func(ctx context.Context, limit int) ([]domain.SearchResult, error)
	updateFn      func(ctx context.Context, id string, meta *domain.Metadata) (int, error)
	deleteFn      func(ctx context.Context, id string) (int, error)
	countFn       func(ctx context.Context) (int, error)
}

func (m *mockDocs) Ingest(
	ctx context.Context, path, originalFilename string, meta *domain.Metadata,
) (*documentuc.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, path, originalFilename, meta)
	}
	return &documentuc.IngestResult{DocID: "doc-1", Title: originalFilename}, nil
}

func (m *mockDocs) SearchText(
	ctx context.Context, req *documentuc.SearchRequest,
) ([]domain.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, req)
	}
	return nil, nil
}

func (m *mockDocs) SearchByDocument(
	ctx context.Context, id string, limit int, scoreThreshold *float64,
) ([]domain.SearchResult, error) {
	if m.searchByDocFn != nil {
		return m.searchByDocFn(ctx, id, limit, scoreThreshold)
	}
	return nil, nil
}

func (m *mockDocs) List(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDocs) Update(ctx context.Context, id string, meta *domain.Metadata) (int, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, meta)
	}
	return 0, nil
}

func (m *mockDocs) Delete(ctx context.Context, id string) (int, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

func (m *mockDocs) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

func newTestClient(docs *mockDocs) *Client {
	return &Client{docs: docs}
}
