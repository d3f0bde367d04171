package normalize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"hot100/internal/models"
)

// separators in priority order
var separators = []string{" -- ", " - ", " – ", " — ", " ~ ", " | ", " -", "- "}

var (
	// Trailing markers not in brackets
	trailingNoiseRegex = regexp.MustCompile(`(?i)(?:\s+|\s*[-–—|]\s*)\b(official\s*(music\s*|lyric\s*)?video|official\s*audio|lyrics?\s*(video)?|music\s*video|visuali[sz]er|hd|hq|4k)\s*$`)

	// Auto-generated "Artist - Topic" channel marker
	topicRegex = regexp.MustCompile(`(?i)\s+-\s+topic(\s+-\s+|\s*$)`)

	// Artist "Song Title" (straight or curly quotes)
	quotedSongRegex = regexp.MustCompile("^(.+?)\\s+[\"“](.+?)[\"”]$")

	featRegex = regexp.MustCompile(`(?i)\s*\b(feat\.?|ft\.?)\s+`)
)

// opening quote -> closing quotes accepted for it
var quotePairs = map[rune]string{
	'"': "\"”",
	'“': "”\"",
	'\'': "'’",
	'‘': "’'",
}

// ParseArtistSong splits a cleaned title into artist and song.
// ok is false when no confident split exists; callers skip the candidate.
func ParseArtistSong(title string) (artist, song string, ok bool) {
	cleaned := strings.TrimSpace(trailingNoiseRegex.ReplaceAllString(title, ""))
	cleaned = topicRegex.ReplaceAllString(cleaned, "$1")
	if cleaned == "" {
		return "", "", false
	}

	for _, sep := range separators {
		idx := strings.Index(cleaned, sep)
		if idx <= 0 {
			continue
		}
		a, s := tidy(cleaned[:idx]), tidy(cleaned[idx+len(sep):])
		if a != "" && s != "" {
			return a, s, true
		}
	}

	if m := quotedSongRegex.FindStringSubmatch(cleaned); m != nil {
		if a, s := tidy(m[1]), tidy(m[2]); a != "" && s != "" {
			return a, s, true
		}
	}

	return "", "", false
}

// ParseTitle runs the full normalizer over one title field
func ParseTitle(raw string) models.ParsedTitle {
	parsed := models.ParsedTitle{Genres: ExtractGenres(raw)}
	if artist, song, ok := ParseArtistSong(CleanTitle(raw)); ok {
		parsed.Artist = artist
		parsed.Song = song
	}
	return parsed
}

// tidy trims one pair of surrounding quotes and whitespace and normalizes
// featuring notation
func tidy(s string) string {
	s = unquote(strings.TrimSpace(s))
	s = featRegex.ReplaceAllString(s, " feat. ")
	return strings.Join(strings.Fields(s), " ")
}

// unquote removes quotes only when both ends form a pair, so quotes inside
// the text survive
func unquote(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	closers, ok := quotePairs[first]
	if !ok {
		return s
	}
	last, lastSize := utf8.DecodeLastRuneInString(s)
	if len(s) < size+lastSize || !strings.ContainsRune(closers, last) {
		return s
	}
	return strings.TrimSpace(s[size : len(s)-lastSize])
}
