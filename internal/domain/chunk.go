package domain

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "ragserver:"

// Chunk is the atomic stored unit: a contiguous slice of one document's text
// together with the document metadata and its embedding vector.
//
// DOI + ChunkIndex form the logical identity of a chunk within a document;
// the store assigns its own opaque physical id. All chunks of one document
// share the same Title; title is the de facto document grouping key.
type Chunk struct {
	DocID         string
	Title         string
	Content       string
	Authors       string
	Published     time.Time
	DOI           string
	ChunkIndex    int
	Venue         string
	CitationCount *int
	TLDR          string
	OpenAccessPDF string
	Vector        []float32
}

// ChunkFailure records one chunk that was skipped during ingestion or storage.
type ChunkFailure struct {
	Index  int
	Reason string
}

// StoreReport describes the outcome of a batched chunk write: the store ids
// of persisted chunks plus the chunks that were skipped.
type StoreReport struct {
	IDs     []string
	Skipped []ChunkFailure
}

// Metadata carries caller-supplied document metadata. Nil fields are absent.
type Metadata struct {
	Title         *string
	Authors       *string
	Year          *string
	Venue         *string
	CitationCount *int
	TLDR          *string
	OpenAccessPDF *string
}

// DocumentMeta is the resolved per-document metadata applied to every chunk.
type DocumentMeta struct {
	Title         string
	Authors       string
	Published     time.Time
	DOI           string
	Venue         string
	CitationCount *int
	TLDR          string
	OpenAccessPDF string
}

// ResolveDocumentMeta merges caller-supplied metadata over ingestion defaults:
// title = original filename, authors = "Unknown", published = now,
// doi = "uploaded_<stem>". A malformed year is silently ignored; a valid year
// becomes January 1 of that year, UTC.
func ResolveDocumentMeta(originalFilename string, now time.Time, m *Metadata) DocumentMeta {
	stem := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))

	meta := DocumentMeta{
		Title:     originalFilename,
		Authors:   "Unknown",
		Published: now.UTC(),
		DOI:       "uploaded_" + stem,
	}
	if meta.Title == "" {
		meta.Title = stem
	}

	if m == nil {
		return meta
	}
	if m.Title != nil && *m.Title != "" {
		meta.Title = *m.Title
	}
	if m.Authors != nil && *m.Authors != "" {
		meta.Authors = *m.Authors
	}
	if published, ok := YearToPublished(m.Year); ok {
		meta.Published = published
	}
	if m.Venue != nil {
		meta.Venue = *m.Venue
	}
	if m.CitationCount != nil {
		count := *m.CitationCount
		meta.CitationCount = &count
	}
	if m.TLDR != nil {
		meta.TLDR = *m.TLDR
	}
	if m.OpenAccessPDF != nil {
		meta.OpenAccessPDF = *m.OpenAccessPDF
	}
	return meta
}

// YearToPublished converts a year string to a January 1 UTC date.
// Nil, empty, or non-numeric years report ok=false.
func YearToPublished(year *string) (time.Time, bool) {
	if year == nil {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(*year))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), true
}

// ChunkPatch is a partial metadata update applied to every chunk sharing the
// target's title. Nil fields are unchanged.
type ChunkPatch struct {
	Title         *string
	Authors       *string
	Published     *time.Time
	Venue         *string
	CitationCount *int
	TLDR          *string
	OpenAccessPDF *string
}

// IsEmpty reports whether the patch changes nothing.
func (p ChunkPatch) IsEmpty() bool {
	return p.Title == nil && p.Authors == nil && p.Published == nil &&
		p.Venue == nil && p.CitationCount == nil && p.TLDR == nil &&
		p.OpenAccessPDF == nil
}
