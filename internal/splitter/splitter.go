// Package splitter cuts document text into fixed-size overlapping chunks.
package splitter

import "strings"

// Splitter produces deterministic rune-window chunks: fixed chunk size with a
// fixed overlap between consecutive chunks. Same input, same parameters, same
// chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a splitter. Overlap must be smaller than chunkSize; the
// constructor clamps invalid values rather than failing, since parameters
// come from validated config.
func New(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}
}

// Split cuts text into chunks. Leading and trailing whitespace is trimmed
// from the input and from each chunk; empty input yields no chunks. Every
// rune of the trimmed input appears in at least one chunk.
func (s *Splitter) Split(text string) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	runes := []rune(trimmed)
	if len(runes) <= s.chunkSize {
		return []string{trimmed}
	}

	step := s.chunkSize - s.overlap
	chunks := make([]string, 0, (len(runes)+step-1)/step)

	for start := 0; start < len(runes); start += step {
		end := min(start+s.chunkSize, len(runes))
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
