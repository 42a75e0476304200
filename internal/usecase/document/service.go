// Package document implements the core ingestion and retrieval workflows:
// load, split, embed, store on the way in; vector, hybrid, and
// similar-document search on the way out.
package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/domain/search/filter"
	"github.com/paperscope/ragserver/internal/metrics"
)

// sepToken joins the document title with chunk text before embedding, so the
// vector carries document identity alongside content.
const sepToken = " [SEP] "

// oversampleFactor controls how many raw hits similar-document search fetches
// per requested result before diversity filtering.
const oversampleFactor = 4

// similarDefaultLimit is the default distinct-title cap for similar-document
// search when the caller supplies no limit.
const similarDefaultLimit = 5

// Config holds search defaults.
type Config struct {
	DefaultLimit int
	HybridAlpha  float64
}

// Service orchestrates the document pipeline.
type Service struct {
	repo         Repository
	loader       Loader
	splitter     Splitter
	docEmbed     Embedder
	queryEmbed   Embedder
	defaultLimit int
	hybridAlpha  float64
	logger       *zap.Logger
}

// New creates a document service. docEmbed vectorizes chunk text during
// ingestion; queryEmbed vectorizes search queries (usually wrapped with a
// query instruction).
func New(
	repo Repository,
	loader Loader,
	splitter Splitter,
	docEmbed, queryEmbed Embedder,
	cfg Config,
	logger *zap.Logger,
) *Service {
	defaultLimit := cfg.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	alpha := cfg.HybridAlpha
	if alpha < 0 || alpha > 1 {
		alpha = 0.5
	}
	return &Service{
		repo:         repo,
		loader:       loader,
		splitter:     splitter,
		docEmbed:     docEmbed,
		queryEmbed:   queryEmbed,
		defaultLimit: defaultLimit,
		hybridAlpha:  alpha,
		logger:       logger,
	}
}

// IngestResult reports the outcome of one document ingestion.
type IngestResult struct {
	DocID     string
	Title     string
	StoredIDs []string
	Skipped   []domain.ChunkFailure
}

// Ingest loads the file at path, splits it into chunks, embeds each chunk,
// and stores the results. A document with no extractable text yields an
// empty result. A chunk that fails to embed or store is skipped and
// reported; the ingestion fails only when chunks existed and none survived.
func (s *Service) Ingest(
	ctx context.Context, path, originalFilename string, meta *domain.Metadata,
) (*IngestResult, error) {
	text, err := s.loader.Load(ctx, path)
	if err != nil {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("load document: %w", err)
	}

	docMeta := domain.ResolveDocumentMeta(originalFilename, time.Now(), meta)
	docID := uuid.NewString()

	parts := s.splitter.Split(text)
	if len(parts) == 0 {
		// No extractable text is not an ingestion failure.
		metrics.IngestDocumentsTotal.WithLabelValues("empty").Inc()
		s.logger.Warn("No chunks extracted from document",
			zap.String("title", docMeta.Title),
			zap.String("filename", originalFilename),
		)
		return &IngestResult{DocID: docID, Title: docMeta.Title}, nil
	}

	chs := make([]domain.Chunk, 0, len(parts))
	origIdx := make([]int, 0, len(parts))
	var skipped []domain.ChunkFailure

	for i, part := range parts {
		embRes, err := s.docEmbed.Embed(ctx, docMeta.Title+sepToken+part)
		if err != nil {
			skipped = append(skipped, domain.ChunkFailure{Index: i, Reason: err.Error()})
			s.logger.Warn("Failed to embed chunk",
				zap.String("title", docMeta.Title),
				zap.Int("chunk_index", i),
				zap.Error(err),
			)
			continue
		}
		chs = append(chs, domain.Chunk{
			DocID:         docID,
			Title:         docMeta.Title,
			Content:       part,
			Authors:       docMeta.Authors,
			Published:     docMeta.Published,
			DOI:           docMeta.DOI,
			ChunkIndex:    i,
			Venue:         docMeta.Venue,
			CitationCount: docMeta.CitationCount,
			TLDR:          docMeta.TLDR,
			OpenAccessPDF: docMeta.OpenAccessPDF,
			Vector:        embRes.Embedding,
		})
		origIdx = append(origIdx, i)
	}

	result := &IngestResult{DocID: docID, Title: docMeta.Title, Skipped: skipped}

	if len(chs) > 0 {
		report, err := s.repo.StoreChunks(ctx, chs)
		if err != nil {
			metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("store chunks: %w", err)
		}
		result.StoredIDs = report.IDs
		// Store skip indexes refer to positions in chs; map back to
		// positions in the original chunk sequence.
		for _, f := range report.Skipped {
			if f.Index >= 0 && f.Index < len(origIdx) {
				f.Index = origIdx[f.Index]
			}
			result.Skipped = append(result.Skipped, f)
		}
	}

	metrics.IngestChunksStoredTotal.Add(float64(len(result.StoredIDs)))
	metrics.IngestChunksSkippedTotal.Add(float64(len(result.Skipped)))

	if len(result.StoredIDs) == 0 {
		metrics.IngestDocumentsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: all %d chunks failed", domain.ErrNoChunksProcessed, len(parts))
	}

	metrics.IngestDocumentsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Document ingested",
		zap.String("doc_id", docID),
		zap.String("title", docMeta.Title),
		zap.Int("chunks_stored", len(result.StoredIDs)),
		zap.Int("chunks_skipped", len(result.Skipped)),
	)
	return result, nil
}

// SearchRequest carries text search parameters. Nil optionals fall back to
// service defaults.
type SearchRequest struct {
	Query          string
	Limit          int
	Alpha          *float64 // vector weight in [0,1]
	ScoreThreshold *float64 // minimum similarity in [0,1]
	TargetTitles   []string
	ExcludeTitles  []string
}

// SearchText runs hybrid retrieval for a text query.
func (s *Service) SearchText(ctx context.Context, req *SearchRequest) ([]domain.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: query is empty", domain.ErrInvalidArgument)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}

	alpha := s.hybridAlpha
	if req.Alpha != nil {
		if *req.Alpha < 0 || *req.Alpha > 1 {
			return nil, fmt.Errorf("%w: alpha must be in [0,1]", domain.ErrInvalidArgument)
		}
		alpha = *req.Alpha
	}

	filters, err := filter.TitleFilter(req.TargetTitles, req.ExcludeTitles)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}

	embRes, err := s.queryEmbed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.SearchHybrid(ctx, embRes.Embedding, query, filters, limit, alpha)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}

	// A similarity threshold of t keeps hits within distance 1-t.
	if req.ScoreThreshold != nil {
		maxDistance := 1 - *req.ScoreThreshold
		filtered := results[:0]
		for _, r := range results {
			if r.Distance <= maxDistance {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	return results, nil
}

// SearchByDocument finds chunks similar to the given chunk's document,
// spreading results across at most limit distinct titles. The source
// document is not excluded; its own chunks rank first and anchor the set.
func (s *Service) SearchByDocument(
	ctx context.Context, id string, limit int, scoreThreshold *float64,
) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = similarDefaultLimit
	}

	src, err := s.repo.FetchByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch source chunk: %w", err)
	}
	if len(src.Vector) == 0 {
		return nil, fmt.Errorf("%w: source chunk has no vector", domain.ErrInvalidArgument)
	}

	hits, err := s.repo.SearchVector(ctx, src.Vector, filter.Expression{}, limit*oversampleFactor)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	if scoreThreshold != nil {
		maxDistance := 1 - *scoreThreshold
		kept := hits[:0]
		for _, h := range hits {
			if h.Distance <= maxDistance {
				kept = append(kept, h)
			}
		}
		hits = kept
	}

	return filterDiverse(hits, limit), nil
}

// List returns one summary entry per stored document, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	results, err := s.repo.ListAll(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return results, nil
}

// Update applies a metadata patch to the chunk with the given id and every
// chunk of the same document. Returns the number of chunks updated.
// The patch may be empty; a missing id still reports not-found.
func (s *Service) Update(ctx context.Context, id string, meta *domain.Metadata) (int, error) {
	patch := metadataToPatch(meta)
	updated, err := s.repo.UpdateByID(ctx, id, patch)
	if err != nil {
		return 0, fmt.Errorf("update document: %w", err)
	}
	return updated, nil
}

// Delete removes the chunk with the given id and every chunk of the same
// document. Returns the number of chunks removed.
func (s *Service) Delete(ctx context.Context, id string) (int, error) {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete document: %w", err)
	}
	return deleted, nil
}

// Count returns the total number of stored chunks.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// metadataToPatch converts caller metadata into a chunk patch. A malformed
// year is silently ignored, matching ingestion defaults.
func metadataToPatch(meta *domain.Metadata) domain.ChunkPatch {
	var patch domain.ChunkPatch
	if meta == nil {
		return patch
	}
	patch.Title = meta.Title
	patch.Authors = meta.Authors
	if published, ok := domain.YearToPublished(meta.Year); ok {
		patch.Published = &published
	}
	patch.Venue = meta.Venue
	patch.CitationCount = meta.CitationCount
	patch.TLDR = meta.TLDR
	patch.OpenAccessPDF = meta.OpenAccessPDF
	return patch
}
