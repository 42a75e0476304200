package chunks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/paperscope/ragserver/internal/domain"
)

// chunkDoc is the JSON shape stored at ragserver:papers:<id>.
type chunkDoc struct {
	DocID         string    `json:"doc_id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Authors       string    `json:"authors"`
	Published     string    `json:"published"` // RFC3339
	DOI           string    `json:"doi"`
	ChunkIndex    int       `json:"chunk_index"`
	Venue         string    `json:"venue,omitempty"`
	CitationCount *int      `json:"citation_count,omitempty"`
	TLDR          string    `json:"tldr,omitempty"`
	OpenAccessPDF string    `json:"open_access_pdf,omitempty"`
	CreatedAt     int64     `json:"created_at"` // unix milliseconds
	Vector        []float32 `json:"vector"`
}

func newChunkDoc(c *domain.Chunk, createdAt time.Time) chunkDoc {
	return chunkDoc{
		DocID:         c.DocID,
		Title:         c.Title,
		Content:       c.Content,
		Authors:       c.Authors,
		Published:     c.Published.UTC().Format(time.RFC3339),
		DOI:           c.DOI,
		ChunkIndex:    c.ChunkIndex,
		Venue:         c.Venue,
		CitationCount: c.CitationCount,
		TLDR:          c.TLDR,
		OpenAccessPDF: c.OpenAccessPDF,
		CreatedAt:     createdAt.UnixMilli(),
		Vector:        c.Vector,
	}
}

func (d *chunkDoc) toResult(id string) domain.SearchResult {
	published, _ := time.Parse(time.RFC3339, d.Published)
	return domain.SearchResult{
		ID:            id,
		Title:         d.Title,
		Content:       d.Content,
		Authors:       d.Authors,
		Published:     published,
		DOI:           d.DOI,
		Vector:        d.Vector,
		ChunkIndex:    d.ChunkIndex,
		Venue:         d.Venue,
		CitationCount: d.CitationCount,
		TLDR:          d.TLDR,
		OpenAccessPDF: d.OpenAccessPDF,
	}
}

// parseChunkDoc accepts both a bare object and the single-element array
// JSON.GET returns for the "$" path.
func parseChunkDoc(data []byte) (chunkDoc, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var docs []chunkDoc
		if err := json.Unmarshal([]byte(trimmed), &docs); err != nil {
			return chunkDoc{}, fmt.Errorf("unmarshal chunk array: %w", err)
		}
		if len(docs) == 0 {
			return chunkDoc{}, fmt.Errorf("empty chunk array")
		}
		return docs[0], nil
	}

	var doc chunkDoc
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return chunkDoc{}, fmt.Errorf("unmarshal chunk: %w", err)
	}
	return doc, nil
}

func (d *chunkDoc) applyPatch(p domain.ChunkPatch) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Authors != nil {
		d.Authors = *p.Authors
	}
	if p.Published != nil {
		d.Published = p.Published.UTC().Format(time.RFC3339)
	}
	if p.Venue != nil {
		d.Venue = *p.Venue
	}
	if p.CitationCount != nil {
		count := *p.CitationCount
		d.CitationCount = &count
	}
	if p.TLDR != nil {
		d.TLDR = *p.TLDR
	}
	if p.OpenAccessPDF != nil {
		d.OpenAccessPDF = *p.OpenAccessPDF
	}
}
