// Package chi exposes the document service over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/logger"
	documentuc "github.com/paperscope/ragserver/internal/usecase/document"
	healthuc "github.com/paperscope/ragserver/internal/usecase/health"
	"github.com/paperscope/ragserver/internal/version"
)

// documentService is the slice of the document use case the transport needs.
type documentService interface {
	Ingest(ctx context.Context, path, originalFilename string, meta *domain.Metadata) (*documentuc.IngestResult, error)
	SearchText(ctx context.Context, req *documentuc.SearchRequest) ([]domain.SearchResult, error)
	SearchByDocument(ctx context.Context, id string, limit int, scoreThreshold *float64) ([]domain.SearchResult, error)
	List(ctx context.Context, limit int) ([]domain.SearchResult, error)
	Update(ctx context.Context, id string, meta *domain.Metadata) (int, error)
	Delete(ctx context.Context, id string) (int, error)
	Count(ctx context.Context) (int, error)
}

// healthService aggregates component health checks.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// ServerConfig holds upload limits.
type ServerConfig struct {
	MaxUploadMB int
	TempDir     string // empty means the OS default temp directory
}

// Server implements the HTTP API.
type Server struct {
	documents      documentService
	health         healthService
	logger         *zap.Logger
	errorHandlers  []errorHandler
	maxUploadBytes int64
	tempDir        string
}

// NewServer creates an HTTP API server.
func NewServer(documents documentService, health healthService, cfg ServerConfig, logger *zap.Logger) *Server {
	maxUploadMB := cfg.MaxUploadMB
	if maxUploadMB <= 0 {
		maxUploadMB = 50
	}
	return &Server{
		documents:      documents,
		health:         health,
		logger:         logger,
		errorHandlers:  domainErrorHandlers(),
		maxUploadBytes: int64(maxUploadMB) << 20,
		tempDir:        cfg.TempDir,
	}
}

// log prefers the request-scoped logger so request fields such as the
// request id stay on every line.
func (s *Server) log(r *http.Request) *zap.Logger {
	if l, ok := logger.TryFromContext(r.Context()); ok {
		return l
	}
	return s.logger
}

// Routes registers all endpoints on the given router.
func (s *Server) Routes(r chirouter.Router) {
	r.Get("/", s.Banner)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/upload", s.Upload)
	r.Get("/documents", s.ListDocuments)
	r.Put("/documents/{id}", s.UpdateDocument)
	r.Delete("/documents/{id}", s.DeleteDocument)
	r.Post("/search", s.Search)
	r.Post("/search/similarity", s.SearchSimilarity)
	r.Get("/stats", s.Stats)
}

// Banner handles GET /.
func (s *Server) Banner(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, bannerResponse{
		Service: "ragserver",
		Version: version.Version,
		Status:  "running",
	})
}

// Upload handles POST /upload: a multipart form with a "file" part plus
// optional metadata fields.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, codePayloadTooLarge,
				"upload exceeds the size limit")
			return
		}
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	meta, err := metadataFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	tmpPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.log(r).Error("Failed to save upload", zap.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}
	defer func() { _ = os.Remove(tmpPath) }()

	result, err := s.documents.Ingest(r.Context(), tmpPath, header.Filename, meta)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp := uploadResponse{
		DocID:         result.DocID,
		Title:         result.Title,
		ChunksStored:  len(result.StoredIDs),
		ChunksSkipped: len(result.Skipped),
	}
	for _, f := range result.Skipped {
		resp.Skipped = append(resp.Skipped, skippedItem{Index: f.Index, Reason: f.Reason})
	}

	writeJSON(w, http.StatusCreated, resp)
}

// saveUpload spools the uploaded file to a temp file, keeping the original
// extension so the loader can dispatch on it.
func (s *Server) saveUpload(file multipart.File, filename string) (string, error) {
	tmp, err := os.CreateTemp(s.tempDir, "upload-*"+filepath.Ext(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	results, err := s.documents.SearchText(r.Context(), &documentuc.SearchRequest{
		Query:          req.Query,
		Limit:          req.Limit,
		Alpha:          req.Alpha,
		ScoreThreshold: req.ScoreThreshold,
		TargetTitles:   req.TargetTitles,
		ExcludeTitles:  req.ExcludeTitles,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(results))
}

// SearchSimilarity handles POST /search/similarity.
func (s *Server) SearchSimilarity(w http.ResponseWriter, r *http.Request) {
	var req similarityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.DocID == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "doc_id is required")
		return
	}

	results, err := s.documents.SearchByDocument(r.Context(), req.DocID, req.Limit, req.ScoreThreshold)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSearchResponse(results))
}

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be a positive integer")
			return
		}
		limit = n
	}

	results, err := s.documents.List(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(&results[i])
	}

	writeJSON(w, http.StatusOK, documentListResponse{Items: items, Total: len(items)})
}

// UpdateDocument handles PUT /documents/{id}.
func (s *Server) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.documents.Update(r.Context(), id, req.toMetadata())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updateResponse{Updated: updated})
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chirouter.URLParam(r, "id")

	deleted, err := s.documents.Delete(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{Deleted: deleted})
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	count, err := s.documents.Count(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{TotalChunks: count})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func toSearchResponse(results []domain.SearchResult) searchResponse {
	items := make([]searchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToDTO(&results[i])
	}
	return searchResponse{Items: items, Total: len(items)}
}

// metadataFromForm reads optional metadata fields from the upload form.
func metadataFromForm(r *http.Request) (*domain.Metadata, error) {
	meta := &domain.Metadata{
		Title:         formPtr(r, "title"),
		Authors:       formPtr(r, "authors"),
		Year:          formPtr(r, "year"),
		Venue:         formPtr(r, "venue"),
		TLDR:          formPtr(r, "tldr"),
		OpenAccessPDF: formPtr(r, "open_access_pdf"),
	}

	if raw := r.FormValue("citation_count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("citation_count must be an integer")
		}
		meta.CitationCount = &count
	}

	return meta, nil
}

func formPtr(r *http.Request, name string) *string {
	if v := r.FormValue(name); v != "" {
		return &v
	}
	return nil
}
