package chi

import (
	"time"

	"github.com/paperscope/ragserver/internal/domain"
)

// uploadResponse reports the outcome of one document upload.
type uploadResponse struct {
	DocID         string        `json:"doc_id"`
	Title         string        `json:"title"`
	ChunksStored  int           `json:"chunks_stored"`
	ChunksSkipped int           `json:"chunks_skipped"`
	Skipped       []skippedItem `json:"skipped,omitempty"`
}

type skippedItem struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// searchRequest is the POST /search body.
type searchRequest struct {
	Query          string   `json:"query"`
	Limit          int      `json:"limit,omitempty"`
	Alpha          *float64 `json:"alpha,omitempty"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty"`
	TargetTitles   []string `json:"target_titles,omitempty"`
	ExcludeTitles  []string `json:"exclude_titles,omitempty"`
}

// similarityRequest is the POST /search/similarity body.
type similarityRequest struct {
	DocID          string   `json:"doc_id"`
	Limit          int      `json:"limit,omitempty"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty"`
}

type searchResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

type searchResultItem struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Authors       string     `json:"authors,omitempty"`
	Published     *time.Time `json:"published,omitempty"`
	DOI           string     `json:"doi,omitempty"`
	Score         float64    `json:"score"`
	Distance      float64    `json:"distance"`
	ChunkIndex    int        `json:"chunk_index"`
	Venue         string     `json:"venue,omitempty"`
	CitationCount *int       `json:"citation_count,omitempty"`
	TLDR          string     `json:"tldr,omitempty"`
	OpenAccessPDF string     `json:"open_access_pdf,omitempty"`
}

type documentListResponse struct {
	Items []searchResultItem `json:"items"`
	Total int                `json:"total"`
}

// updateRequest is the PUT /documents/{id} body. Absent fields are unchanged.
type updateRequest struct {
	Title         *string `json:"title,omitempty"`
	Authors       *string `json:"authors,omitempty"`
	Year          *string `json:"year,omitempty"`
	Venue         *string `json:"venue,omitempty"`
	CitationCount *int    `json:"citation_count,omitempty"`
	TLDR          *string `json:"tldr,omitempty"`
	OpenAccessPDF *string `json:"open_access_pdf,omitempty"`
}

type updateResponse struct {
	Updated int `json:"updated"`
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

type statsResponse struct {
	TotalChunks int `json:"total_chunks"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type bannerResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

func searchResultToDTO(r *domain.SearchResult) searchResultItem {
	item := searchResultItem{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		Authors:       r.Authors,
		DOI:           r.DOI,
		Score:         r.Score,
		Distance:      r.Distance,
		ChunkIndex:    r.ChunkIndex,
		Venue:         r.Venue,
		CitationCount: r.CitationCount,
		TLDR:          r.TLDR,
		OpenAccessPDF: r.OpenAccessPDF,
	}
	if !r.Published.IsZero() {
		published := r.Published.UTC()
		item.Published = &published
	}
	return item
}

func (req *updateRequest) toMetadata() *domain.Metadata {
	return &domain.Metadata{
		Title:         req.Title,
		Authors:       req.Authors,
		Year:          req.Year,
		Venue:         req.Venue,
		CitationCount: req.CitationCount,
		TLDR:          req.TLDR,
		OpenAccessPDF: req.OpenAccessPDF,
	}
}
