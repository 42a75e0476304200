package document

import "github.com/paperscope/ragserver/internal/domain"

// filterDiverse spreads similar-document hits across at most maxTitles
// distinct titles. Hits are walked in rank order; every chunk of an accepted
// title is kept, chunks of titles beyond the cap are dropped.
func filterDiverse(hits []domain.SearchResult, maxTitles int) []domain.SearchResult {
	if maxTitles <= 0 {
		return nil
	}

	accepted := make(map[string]bool, maxTitles)
	results := make([]domain.SearchResult, 0, len(hits))

	for _, h := range hits {
		if !accepted[h.Title] {
			if len(accepted) >= maxTitles {
				continue
			}
			accepted[h.Title] = true
		}
		results = append(results, h)
	}
	return results
}
