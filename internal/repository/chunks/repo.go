// Package chunks persists document chunks and their embeddings in the
// vector store and serves vector, keyword, and hybrid retrieval over them.
package chunks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/paperscope/ragserver/internal/db"
	"github.com/paperscope/ragserver/internal/domain"
	"github.com/paperscope/ragserver/internal/domain/search/filter"
)

// listPreviewRunes caps Content length in document listings.
const listPreviewRunes = 200

// listDefaultLimit caps document listings when no limit is given.
const listDefaultLimit = 100

// maxFanout bounds how many chunks a title-wide update or delete touches.
const maxFanout = 10000

// store is the consumer interface for chunk persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) []error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	DelMulti(ctx context.Context, keys []string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Config holds index parameters for the chunk repository.
type Config struct {
	VectorDim       int
	HNSWM           int
	HNSWEFConstruct int
	BatchSize       int
}

// Repo implements usecase/document.Repository on top of db.Store.
type Repo struct {
	store           store
	vectorDim       int
	hnswM           int
	hnswEFConstruct int
	batchSize       int
}

// New creates a chunk repository.
func New(s store, cfg Config) *Repo {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Repo{
		store:           s,
		vectorDim:       cfg.VectorDim,
		hnswM:           cfg.HNSWM,
		hnswEFConstruct: cfg.HNSWEFConstruct,
		batchSize:       batchSize,
	}
}

// StoreChunks writes chunks in pipelined batches. A chunk with a missing or
// wrong-dimension vector is skipped before the write; a failed write is
// recorded in the report and does not abort the rest of the batch.
func (r *Repo) StoreChunks(ctx context.Context, chs []domain.Chunk) (*domain.StoreReport, error) {
	report := &domain.StoreReport{}
	now := time.Now()

	for start := 0; start < len(chs); start += r.batchSize {
		end := min(start+r.batchSize, len(chs))
		batch := chs[start:end]

		items := make([]db.JSONSetItem, 0, len(batch))
		ids := make([]string, 0, len(batch))
		indexes := make([]int, 0, len(batch))

		for i := range batch {
			if len(batch[i].Vector) == 0 {
				report.Skipped = append(report.Skipped, domain.ChunkFailure{
					Index:  start + i,
					Reason: "missing vector",
				})
				continue
			}
			if r.vectorDim > 0 && len(batch[i].Vector) != r.vectorDim {
				report.Skipped = append(report.Skipped, domain.ChunkFailure{
					Index:  start + i,
					Reason: fmt.Sprintf("vector dimension %d, want %d", len(batch[i].Vector), r.vectorDim),
				})
				continue
			}
			data, err := json.Marshal(newChunkDoc(&batch[i], now))
			if err != nil {
				report.Skipped = append(report.Skipped, domain.ChunkFailure{
					Index:  start + i,
					Reason: err.Error(),
				})
				continue
			}
			id := uuid.NewString()
			items = append(items, db.JSONSetItem{Key: keyFor(id), Path: "$", Data: data})
			ids = append(ids, id)
			indexes = append(indexes, start+i)
		}

		if len(items) == 0 {
			continue
		}

		errs := r.store.JSONSetMulti(ctx, items)
		for i, err := range errs {
			if err != nil {
				report.Skipped = append(report.Skipped, domain.ChunkFailure{
					Index:  indexes[i],
					Reason: err.Error(),
				})
				continue
			}
			report.IDs = append(report.IDs, ids[i])
		}
	}

	return report, nil
}

// SearchVector runs KNN retrieval and returns hits ranked by similarity.
func (r *Repo) SearchVector(
	ctx context.Context, vector []float32, filters filter.Expression, k int,
) ([]domain.SearchResult, error) {
	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Filters:      filters,
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: knn search: %w", domain.ErrStorage, err)
	}

	results := make([]domain.SearchResult, 0, len(res.Entries))
	for _, entry := range res.Entries {
		sr, err := entryToResult(entry)
		if err != nil {
			continue
		}
		sr.Score = entry.Score
		sr.Distance = 1 - entry.Score
		results = append(results, sr)
	}
	return results, nil
}

// SearchHybrid combines KNN and BM25 retrieval. Alpha is the vector weight:
// 1 is pure vector search, 0 is pure keyword search.
func (r *Repo) SearchHybrid(
	ctx context.Context, vector []float32, query string, filters filter.Expression, limit int, alpha float64,
) ([]domain.SearchResult, error) {
	vecHits, err := r.SearchVector(ctx, vector, filters, limit)
	if err != nil {
		return nil, err
	}

	kwRes, err := r.store.SearchBM25(ctx, &db.TextQuery{
		IndexName:    IndexName,
		Query:        query,
		Filters:      filters,
		TopK:         limit,
		ReturnFields: []string{"$"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: bm25 search: %w", domain.ErrStorage, err)
	}

	kwHits := make([]domain.SearchResult, 0, len(kwRes.Entries))
	for _, entry := range kwRes.Entries {
		sr, err := entryToResult(entry)
		if err != nil {
			continue
		}
		sr.Score = entry.Score
		kwHits = append(kwHits, sr)
	}

	return fuseAlpha(vecHits, kwHits, alpha, limit), nil
}

// FetchByID returns a single chunk, vector included.
func (r *Repo) FetchByID(ctx context.Context, id string) (domain.SearchResult, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return domain.SearchResult{}, err
	}
	return doc.toResult(id), nil
}

// ListAll returns one entry per distinct title, newest first, with content
// truncated to a short preview. At most limit entries are returned; a
// non-positive limit falls back to the default.
func (r *Repo) ListAll(ctx context.Context, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = listDefaultLimit
	}
	res, err := r.store.SearchList(ctx, IndexName, "*", 0, maxFanout, []string{"$"})
	if err != nil {
		return nil, fmt.Errorf("%w: list: %w", domain.ErrStorage, err)
	}

	type entry struct {
		id        string
		doc       chunkDoc
		createdAt int64
	}
	all := make([]entry, 0, len(res.Entries))
	for _, e := range res.Entries {
		raw, ok := e.Fields["$"]
		if !ok {
			continue
		}
		doc, err := parseChunkDoc([]byte(raw))
		if err != nil {
			continue
		}
		all = append(all, entry{id: extractID(e.Key), doc: doc, createdAt: doc.CreatedAt})
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].createdAt > all[j].createdAt })

	seen := make(map[string]bool)
	results := make([]domain.SearchResult, 0, len(all))
	for _, e := range all {
		if seen[e.doc.Title] {
			continue
		}
		seen[e.doc.Title] = true

		sr := e.doc.toResult(e.id)
		sr.Vector = nil
		if runes := []rune(sr.Content); len(runes) > listPreviewRunes {
			sr.Content = string(runes[:listPreviewRunes])
		}
		results = append(results, sr)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// UpdateByID applies a metadata patch to the chunk and, when it carries a
// title, to every chunk sharing that title. Returns the number of chunks
// updated.
func (r *Repo) UpdateByID(ctx context.Context, id string, patch domain.ChunkPatch) (int, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return 0, err
	}

	keys, err := r.fanoutKeys(ctx, id, doc.Title)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, key := range keys {
		raw, err := r.store.JSONGet(ctx, key, "$")
		if err != nil {
			continue
		}
		d, err := parseChunkDoc(raw)
		if err != nil {
			continue
		}
		d.applyPatch(patch)
		data, err := json.Marshal(d)
		if err != nil {
			continue
		}
		if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
			continue
		}
		updated++
	}
	return updated, nil
}

// DeleteByID removes the chunk and, when it carries a title, every chunk
// sharing that title. Returns the number of chunks removed.
func (r *Repo) DeleteByID(ctx context.Context, id string) (int, error) {
	doc, err := r.getDoc(ctx, id)
	if err != nil {
		return 0, err
	}

	keys, err := r.fanoutKeys(ctx, id, doc.Title)
	if err != nil {
		return 0, err
	}

	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("%w: delete: %w", domain.ErrStorage, err)
	}
	return len(keys), nil
}

// Count returns the total number of stored chunks.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName, "*")
	if err != nil {
		return 0, fmt.Errorf("%w: count: %w", domain.ErrStorage, err)
	}
	return n, nil
}

func (r *Repo) getDoc(ctx context.Context, id string) (chunkDoc, error) {
	raw, err := r.store.JSONGet(ctx, keyFor(id), "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return chunkDoc{}, domain.ErrDocumentNotFound
		}
		return chunkDoc{}, fmt.Errorf("%w: json.get %s: %w", domain.ErrStorage, id, err)
	}
	return parseChunkDoc(raw)
}

// fanoutKeys resolves the set of keys an update or delete touches: all chunks
// of the record's title, or just the record itself when it has no title.
func (r *Repo) fanoutKeys(ctx context.Context, id, title string) ([]string, error) {
	if title == "" {
		return []string{keyFor(id)}, nil
	}

	query := "@title:{" + db.EscapeTag(title) + "}"
	res, err := r.store.SearchList(ctx, IndexName, query, 0, maxFanout, []string{"doc_id"})
	if err != nil {
		return nil, fmt.Errorf("%w: list by title: %w", domain.ErrStorage, err)
	}
	if len(res.Entries) == 0 {
		return []string{keyFor(id)}, nil
	}

	keys := make([]string, 0, len(res.Entries))
	for _, e := range res.Entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

func entryToResult(e db.SearchEntry) (domain.SearchResult, error) {
	raw, ok := e.Fields["$"]
	if !ok {
		return domain.SearchResult{}, fmt.Errorf("missing document body for %s", e.Key)
	}
	doc, err := parseChunkDoc([]byte(raw))
	if err != nil {
		return domain.SearchResult{}, err
	}
	return doc.toResult(extractID(e.Key)), nil
}

func keyFor(id string) string {
	return keyPrefix + id
}

func extractID(key string) string {
	if len(key) > len(keyPrefix) && key[:len(keyPrefix)] == keyPrefix {
		return key[len(keyPrefix):]
	}
	return key
}
