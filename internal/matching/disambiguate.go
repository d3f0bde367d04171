package matching

import (
	"hot100/internal/models"
)

// MatchScore is the similarity of a candidate's catalog artist and title to
// the closer of the post-title and media-title pairs it was found for
func MatchScore(m models.CatalogMatch) int {
	catalog := m.Record.PrimaryArtist + " " + m.Record.Title
	return BestScore(catalog,
		m.Identity.PostArtist+" "+m.Identity.PostSong,
		m.Identity.MediaArtist+" "+m.Identity.MediaSong,
	)
}

// Best returns the index and score of the highest-scoring candidate.
// Ties go to the earliest candidate. Returns -1 for an empty slice.
func Best(candidates []models.CatalogMatch) (int, int) {
	bestIdx, bestScore := -1, -1
	for i, c := range candidates {
		if s := MatchScore(c); s > bestScore {
			bestIdx, bestScore = i, s
		}
	}
	return bestIdx, bestScore
}

// groupKey identifies the post a candidate belongs to
func groupKey(m models.CatalogMatch) any {
	if m.PostID != "" {
		return m.PostID
	}
	return m.Identity
}

// Disambiguate keeps one candidate per post: the only one when a post has a
// single candidate, otherwise the best scoring. Survivors keep their input order.
func Disambiguate(candidates []models.CatalogMatch) []models.CatalogMatch {
	groups := make(map[any][]int)
	var order []any
	for i, c := range candidates {
		key := groupKey(c)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	keep := make([]bool, len(candidates))
	for _, key := range order {
		idxs := groups[key]
		if len(idxs) == 1 {
			keep[idxs[0]] = true
			continue
		}

		group := make([]models.CatalogMatch, len(idxs))
		for j, idx := range idxs {
			group[j] = candidates[idx]
		}
		best, _ := Best(group)
		keep[idxs[best]] = true
	}

	out := make([]models.CatalogMatch, 0, len(order))
	for i, c := range candidates {
		if keep[i] {
			out = append(out, c)
		}
	}
	return out
}
