package format

import (
	"hot100/internal/models"
)

// ExtremeTrack is one end of a feature's range
type ExtremeTrack struct {
	Track   string  `json:"track"`
	Value   float64 `json:"value"`
	Link    string  `json:"link"`
	Artwork string  `json:"artwork"`
}

// Extreme holds the tracks with the lowest and highest value of one feature
type Extreme struct {
	Feature models.Feature `json:"feature"`
	Max     ExtremeTrack   `json:"max"`
	Min     ExtremeTrack   `json:"min"`
}

// Extremes finds, for each feature, the catalog tracks with the highest and
// lowest value. Ties go to the earlier row. Features no row carries are left out.
func Extremes(songs []models.MergedSong) []Extreme {
	var out []Extreme
	for _, feature := range models.Features {
		maxIdx, minIdx := -1, -1
		var maxVal, minVal float64

		for i := range songs {
			if !songs[i].HasCatalog() {
				continue
			}
			v, ok := songs[i].Catalog.Features[feature]
			if !ok {
				continue
			}
			if maxIdx < 0 || v > maxVal {
				maxIdx, maxVal = i, v
			}
			if minIdx < 0 || v < minVal {
				minIdx, minVal = i, v
			}
		}

		if maxIdx < 0 {
			continue
		}
		out = append(out, Extreme{
			Feature: feature,
			Max:     extremeTrack(songs[maxIdx].Catalog, feature, maxVal),
			Min:     extremeTrack(songs[minIdx].Catalog, feature, minVal),
		})
	}
	return out
}

func extremeTrack(r *models.CatalogRecord, feature models.Feature, v float64) ExtremeTrack {
	return ExtremeTrack{
		Track:   r.Title + " - " + r.PrimaryArtist,
		Value:   FeatureValue(feature, v),
		Link:    r.TrackURL(),
		Artwork: r.ArtworkURL,
	}
}
