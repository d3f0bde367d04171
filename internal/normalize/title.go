// Package normalize turns free-text post titles into search-ready strings,
// artist/song pairs and genre tags. Every function degrades to a best-effort
// result instead of failing: one malformed title must not stop a batch.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Everything before the first " [", "(" or "{", across line breaks
	untilBracketRegex = regexp.MustCompile(`(?s)^.*?(?:\s\[|\(|\{)`)

	bracketTagRegex = regexp.MustCompile(`\[(.*?)\]`)

	rnbRegex            = regexp.MustCompile(`r & b`)
	hipHopRegex         = regexp.MustCompile(`hip-hop`)
	genreSeparatorRegex = regexp.MustCompile(`/|\||\s&\s`)
	spaceBeforeComma    = regexp.MustCompile(`\s+,`)
	extraWhitespace     = regexp.MustCompile(`\s{2,}`)

	nonAlphanumericRegex = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
)

// CleanTitle strips emoji, cuts the title at the first bracket, parenthesis or
// brace, removes apostrophes and trims surrounding whitespace.
// Returns the original title when nothing usable is left.
func CleanTitle(title string) string {
	cleaned := gomoji.RemoveEmojis(title)

	if loc := untilBracketRegex.FindStringIndex(cleaned); loc != nil {
		cut := cleaned[:loc[1]]
		cut = strings.TrimRight(cut, "[({")
		cleaned = cut
	}

	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return title
	}
	return cleaned
}

// ExtractGenres returns the lowercase, deduplicated genre tags found between
// square brackets, in order of appearance.
func ExtractGenres(title string) []string {
	tags := bracketTagRegex.FindAllStringSubmatch(title, -1)
	if len(tags) == 0 {
		return nil
	}

	parts := make([]string, 0, len(tags))
	for _, tag := range tags {
		parts = append(parts, tag[1])
	}

	joined := strings.ToLower(strings.Join(parts, ", "))
	joined = rnbRegex.ReplaceAllString(joined, "r&b")
	joined = hipHopRegex.ReplaceAllString(joined, "hip hop")
	joined = genreSeparatorRegex.ReplaceAllString(joined, ", ")
	joined = spaceBeforeComma.ReplaceAllString(joined, ",")
	joined = extraWhitespace.ReplaceAllString(joined, " ")
	joined = strings.ReplaceAll(joined, "?", "")

	var genres []string
	seen := make(map[string]bool)
	for _, g := range strings.Split(joined, ",") {
		g = strings.TrimSpace(g)
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}

	return genres
}

// Fold lowercases s, removes diacritics and punctuation and collapses
// whitespace, for comparing strings from different sources.
func Fold(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	s = nonAlphanumericRegex.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
