package chi

import (
	"context"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/paperscope/ragserver/internal/domain"
	documentuc "github.com/paperscope/ragserver/internal/usecase/document"
	healthuc "github.com/paperscope/ragserver/internal/usecase/health"
)

// mockDocuments implements documentService for tests.
type mockDocuments struct {
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

func (m *mockDocuments) Ingest(
	ctx context.Context, path, originalFilename string, meta *domain.Metadata,
) (*documentuc.IngestResult, error) {
	if m.ingestFn != nil {
		return m.ingestFn(ctx, path, originalFilename, meta)
	}
	return &documentuc.IngestResult{DocID: "doc-1", Title: originalFilename, StoredIDs: []string{"id-0"}}, nil
}

func (m *mockDocuments) SearchText(
	ctx context.Context, req *documentuc.SearchRequest,
) ([]domain.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, req)
	}
	return nil, nil
}

func (m *mockDocuments) SearchByDocument(
	ctx context.Context, id string, limit int, scoreThreshold *float64,
) ([]domain.SearchResult, error) {
	if m.searchByDocFn != nil {
		return m.searchByDocFn(ctx, id, limit, scoreThreshold)
	}
	return nil, nil
}

func (m *mockDocuments) List(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDocuments) Update(ctx context.Context, id string, meta *domain.Metadata) (int, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, meta)
	}
	return 0, nil
}

func (m *mockDocuments) Delete(ctx context.Context, id string) (int, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return 0, nil
}

func (m *mockDocuments) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

// mockHealth implements healthService for tests.
type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	if m.report.Status == "" {
		return healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}}
	}
	return m.report
}

func newTestServer(docs *mockDocuments, health *mockHealth) *httptest.Server {
	if health == nil {
		health = &mockHealth{}
	}
	s := NewServer(docs, health, ServerConfig{MaxUploadMB: 1}, zap.NewNop())
	r := chirouter.NewRouter()
	s.Routes(r)
	return httptest.NewServer(r)
}
