package format

import (
	"strings"
)

const (
	watchVideosURL = "http://www.youtube.com/watch_videos?video_ids="

	// DefaultPlaylistChunk is the most videos an anonymous playlist link takes
	DefaultPlaylistChunk = 50
)

// WatchVideosLinks builds anonymous playlist links over the video IDs in
// order, chunk IDs per link. Empty and repeated IDs are skipped.
func WatchVideosLinks(ids []string, chunk int) []string {
	if chunk <= 0 {
		chunk = DefaultPlaylistChunk
	}

	seen := make(map[string]bool, len(ids))
	var clean []string
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}

	var links []string
	for start := 0; start < len(clean); start += chunk {
		end := min(start+chunk, len(clean))
		links = append(links, watchVideosURL+strings.Join(clean[start:end], ","))
	}
	return links
}
