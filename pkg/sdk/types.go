package ragserver

import (
	"time"

	"github.com/paperscope/ragserver/internal/domain"
)

// Metadata carries optional document metadata for ingestion and updates.
// Empty string fields are treated as absent.
type Metadata struct {
	Title         string
	Authors       string
	Year          string
	Venue         string
	CitationCount *int
	TLDR          string
	OpenAccessPDF string
}

// IngestReport is the outcome of one file ingestion.
type IngestReport struct {
	DocID     string
	Title     string
	StoredIDs []string
	Skipped   []SkippedChunk
}

// SkippedChunk records one chunk that failed to embed or store.
type SkippedChunk struct {
	Index  int
	Reason string
}

// SearchResult is a single ranked hit.
type SearchResult struct {
	ID            string
	Title         string
	Content       string
	Authors       string
	Published     time.Time
	DOI           string
	Score         float64
	Distance      float64
	ChunkIndex    int
	Venue         string
	CitationCount *int
	TLDR          string
	OpenAccessPDF string
}

// SearchOptions tunes a hybrid search. The zero value uses server defaults.
type SearchOptions struct {
	Limit          int
	Alpha          *float64 // vector weight in [0,1]
	ScoreThreshold *float64 // minimum similarity in [0,1]
	TargetTitles   []string
	ExcludeTitles  []string
}

func (m *Metadata) toDomain() *domain.Metadata {
	if m == nil {
		return nil
	}
	meta := &domain.Metadata{CitationCount: m.CitationCount}
	if m.Title != "" {
		meta.Title = &m.Title
	}
	if m.Authors != "" {
		meta.Authors = &m.Authors
	}
	if m.Year != "" {
		meta.Year = &m.Year
	}
	if m.Venue != "" {
		meta.Venue = &m.Venue
	}
	if m.TLDR != "" {
		meta.TLDR = &m.TLDR
	}
	if m.OpenAccessPDF != "" {
		meta.OpenAccessPDF = &m.OpenAccessPDF
	}
	return meta
}

func resultFromDomain(r *domain.SearchResult) SearchResult {
	return SearchResult{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Authors:       r.Authors,
		Published:     r.Published,
		DOI:           r.DOI,
		Score:         r.Score,
		Distance:      r.Distance,
		ChunkIndex:    r.ChunkIndex,
		Venue:         r.Venue,
		CitationCount: r.CitationCount,
		TLDR:          r.TLDR,
		OpenAccessPDF: r.OpenAccessPDF,
	}
}

func resultsFromDomain(rs []domain.SearchResult) []SearchResult {
	out := make([]SearchResult, len(rs))
	for i := range rs {
		out[i] = resultFromDomain(&rs[i])
	}
	return out
}
