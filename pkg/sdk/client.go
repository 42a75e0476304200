package ragserver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/paperscope/ragserver/internal/db"
	dbRedis "github.com/paperscope/ragserver/internal/db/redis"
	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/loader"
	chunksrepo "github.com/paperscope/ragserver/internal/repository/chunks"
	"github.com/paperscope/ragserver/internal/splitter"
	documentuc "github.com/paperscope/ragserver/internal/usecase/document"
)

const defaultReadinessTimeout = 10 * time.Second

// documentUseCase is the internal service surface, substitutable in tests.
type documentUseCase interface {
	Ingest(ctx context.Context, path, originalFilename string, meta *domain.Metadata) (
		*documentuc.IngestResult, error,
	)
	SearchText(ctx context.Context, req *documentuc.SearchRequest) ([]domain.SearchResult, error)
	SearchByDocument(ctx context.Context, id string, limit int, scoreThreshold *float64) ([]domain.SearchResult, error)
	List(ctx context.Context, limit int) ([]domain.SearchResult, error)
	Update(ctx context.Context, id string, meta *domain.Metadata) (int, error)
	Delete(ctx context.Context, id string) (int, error)
	Count(ctx context.Context) (int, error)
}

// Client is the ragserver SDK entry point.
type Client struct {
	store db.Store
	docs  documentUseCase
	obs   *observer
}

// New creates a ragserver Client, connects to Redis, and ensures the search
// index exists. The provided context covers the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		vectorDimensions: 1536,
		chunkSize:        1000,
		defaultLimit:     10,
		hybridAlpha:      0.5,
		queryInstruction: "user's question [SEP] ",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("ragserver: redis address required (use WithRedis)")
	}
	if cfg.embedder == nil {
		return nil, errors.New("ragserver: embedder required (use WithEmbedder)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Username: cfg.username,
		Password: cfg.password,
		DB:       cfg.db,
	})
	if err != nil {
		return nil, fmt.Errorf("ragserver: create store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragserver: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	repo := chunksrepo.New(store, chunksrepo.Config{
		VectorDim:       cfg.vectorDimensions,
		HNSWM:           cfg.hnswM,
		HNSWEFConstruct: cfg.hnswEFConstruct,
		BatchSize:       cfg.batchSize,
	})
	if err := repo.EnsureCollection(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("ragserver: ensure index: %w", err)
	}

	return wireClient(store, repo, cfg, obs), nil
}

func wireClient(store db.Store, repo *chunksrepo.Repo, cfg *clientConfig, obs *observer) *Client {
	docEmbed := &embedderAdapter{inner: cfg.embedder}
	var queryEmbed domain.Embedder = docEmbed
	if cfg.queryInstruction != "" {
		queryEmbed = domain.NewInstructionEmbedder(docEmbed, cfg.queryInstruction)
	}

	svc := documentuc.New(
		repo,
		loader.New(),
		splitter.New(cfg.chunkSize, cfg.chunkOverlap),
		docEmbed, queryEmbed,
		documentuc.Config{
			DefaultLimit: cfg.defaultLimit,
			HybridAlpha:  cfg.hybridAlpha,
		},
		zap.NewNop(),
	)

	return &Client{store: store, docs: svc, obs: obs}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// IngestFile loads, chunks, embeds, and stores the file at path. The file
// name (without directory) becomes the fallback title and DOI stem.
func (c *Client) IngestFile(ctx context.Context, path string, meta *Metadata) (report *IngestReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	result, err := c.docs.Ingest(ctx, path, filepath.Base(path), meta.toDomain())
	if err != nil {
		return nil, err
	}

	report = &IngestReport{
		DocID:     result.DocID,
		Title:     result.Title,
		StoredIDs: result.StoredIDs,
	}
	for _, f := range result.Skipped {
		report.Skipped = append(report.Skipped, SkippedChunk{Index: f.Index, Reason: f.Reason})
	}
	return report, nil
}

// Search runs hybrid retrieval for a text query.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) (results []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req := &documentuc.SearchRequest{Query: query}
	if opts != nil {
		req.Limit = opts.Limit
		req.Alpha = opts.Alpha
		req.ScoreThreshold = opts.ScoreThreshold
		req.TargetTitles = opts.TargetTitles
		req.ExcludeTitles = opts.ExcludeTitles
	}

	hits, err := c.docs.SearchText(ctx, req)
	if err != nil {
		return nil, err
	}
	return resultsFromDomain(hits), nil
}

// SearchSimilar finds chunks similar to the document that contains the given
// chunk id, spread across at most limit distinct titles. A non-nil
// scoreThreshold drops hits below that similarity.
func (c *Client) SearchSimilar(
	ctx context.Context, id string, limit int, scoreThreshold *float64,
) (results []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_similar", start, err) }()

	hits, err := c.docs.SearchByDocument(ctx, id, limit, scoreThreshold)
	if err != nil {
		return nil, err
	}
	return resultsFromDomain(hits), nil
}

// ListDocuments returns one summary entry per stored document, newest first.
// At most limit entries are returned; zero means the server default.
func (c *Client) ListDocuments(ctx context.Context, limit int) (results []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list", start, err) }()

	hits, err := c.docs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return resultsFromDomain(hits), nil
}

// UpdateDocument applies a metadata patch to the chunk with the given id and
// every chunk of the same document. Returns the number of chunks updated.
func (c *Client) UpdateDocument(ctx context.Context, id string, meta *Metadata) (updated int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("update", start, err) }()

	return c.docs.Update(ctx, id, meta.toDomain())
}

// DeleteDocument removes the chunk with the given id and every chunk of the
// same document. Returns the number of chunks removed.
func (c *Client) DeleteDocument(ctx context.Context, id string) (deleted int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete", start, err) }()

	return c.docs.Delete(ctx, id)
}

// CountChunks returns the total number of stored chunks.
func (c *Client) CountChunks(ctx context.Context) (count int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("count", start, err) }()

	return c.docs.Count(ctx)
}

// embedderAdapter wraps the public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}
