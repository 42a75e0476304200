package domain

import "time"

// SearchResult is a transient ranked hit; it is never persisted.
//
// Score is a similarity in [0,1]: 1 - distance when a distance metric was
// used, or the raw hybrid relevance score when no distance is available.
type SearchResult struct {
	ID            string
	Title         string
	Content       string
	Authors       string
	Published     time.Time
	DOI           string
	Score         float64
	Distance      float64
	Vector        []float32
	ChunkIndex    int
	Venue         string
	CitationCount *int
	TLDR          string
	OpenAccessPDF string
}
