package db

import "github.com/paperscope/ragserver/internal/domain/search/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// TextQuery is the input for BM25 text search.
type TextQuery struct {
	IndexName    string
	Query        string
	Filters      filter.Expression
	TopK         int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
// For KNN searches Score is a similarity (1 - cosine distance, clamped to
// [0,1]); for BM25 searches it is the raw relevance score.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
