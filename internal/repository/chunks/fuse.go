package chunks

import (
	"sort"

	"github.com/paperscope/ragserver/internal/domain"
)

// fuseAlpha merges vector and keyword hit lists into a single ranking.
//
// Vector hits carry a cosine similarity in [0,1]; keyword hits carry raw BM25
// scores, which are normalized by the list maximum before blending. The fused
// score is alpha*similarity + (1-alpha)*normalizedBM25, with a missing side
// contributing zero. Vector hits keep their similarity as Score and their
// real distance; keyword-only hits expose the fused score.
func fuseAlpha(vecHits, kwHits []domain.SearchResult, alpha float64, limit int) []domain.SearchResult {
	maxBM25 := 0.0
	for _, h := range kwHits {
		if h.Score > maxBM25 {
			maxBM25 = h.Score
		}
	}

	type fused struct {
		result domain.SearchResult
		score  float64
		order  int
	}
	merged := make(map[string]*fused, len(vecHits)+len(kwHits))

	for i, h := range vecHits {
		merged[h.ID] = &fused{
			result: h,
			score:  alpha * h.Score,
			order:  i,
		}
	}

	for i, h := range kwHits {
		norm := 0.0
		if maxBM25 > 0 {
			norm = h.Score / maxBM25
		}
		if f, ok := merged[h.ID]; ok {
			f.score += (1 - alpha) * norm
			continue
		}
		h.Score = (1 - alpha) * norm
		h.Distance = 1 - h.Score
		merged[h.ID] = &fused{
			result: h,
			score:  (1 - alpha) * norm,
			order:  len(vecHits) + i,
		}
	}

	ranked := make([]*fused, 0, len(merged))
	for _, f := range merged {
		ranked = append(ranked, f)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].order < ranked[j].order
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	results := make([]domain.SearchResult, 0, len(ranked))
	for _, f := range ranked {
		results = append(results, f.result)
	}
	return results
}
