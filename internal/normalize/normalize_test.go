package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"genre brackets", "Artist X - Song Y [Pop, R & B]", "Artist X - Song Y"},
		{"parenthesis", "Artist X - Song Y (Official Video)", "Artist X - Song Y"},
		{"brace", "Artist X - Song Y {live}", "Artist X - Song Y"},
		{"first bracket wins", "Artist X - Song Y (feat. Z) [Rock]", "Artist X - Song Y"},
		{"apostrophes removed", "The Band - 'Song Title' [indie]", "The Band - Song Title"},
		{"leading whitespace", "   Artist - Song [pop]", "Artist - Song"},
		{"no brackets", "Artist - Song", "Artist - Song"},
		{"emoji removed", "🔥 Artist - Song 🔥 [pop]", "Artist - Song"},
		{"nothing left falls back", "(Live) Artist - Song", "(Live) Artist - Song"},
		{"line break before bracket", "Multi\nLine - Song Z [rock]", "Multi\nLine - Song Z"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanTitle(tt.input))
		})
	}
}

func TestCleanTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"Artist - Song",
		"  The Band - Another Song  ",
		"Someone's Band - Song",
		"🔥 Artist - Song",
		"(Live) Artist - Song",
		"Artist X - Song Y [Pop]",
	}

	for _, input := range inputs {
		once := CleanTitle(input)
		assert.Equal(t, once, CleanTitle(once), "input %q", input)
	}
}

func TestExtractGenres(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"genre list", "Artist X - Song Y [Pop, R & B]", []string{"pop", "r&b"}},
		{"hip-hop", "A - B [Hip-Hop]", []string{"hip hop"}},
		{"slash separator", "A - B [Rock/Indie]", []string{"rock", "indie"}},
		{"pipe separator", "A - B [Jazz | Soul]", []string{"jazz", "soul"}},
		{"ampersand separator", "A - B [Folk & Country]", []string{"folk", "country"}},
		{"multiple tags", "A - B [Pop] (2020) [Electronic]", []string{"pop", "electronic"}},
		{"duplicates removed", "A - B [Rock, rock/Rock]", []string{"rock"}},
		{"extra whitespace", "A - B [Post  Rock ,  Shoegaze]", []string{"post rock", "shoegaze"}},
		{"no tags", "A - B (Live)", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractGenres(tt.input))
		})
	}
}

func TestParseArtistSong(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		artist string
		song   string
		ok     bool
	}{
		{"dash", "Artist X - Song Y", "Artist X", "Song Y", true},
		{"en dash", "Artist X – Song Y", "Artist X", "Song Y", true},
		{"double dash", "Artist X -- Song Y", "Artist X", "Song Y", true},
		{"pipe", "Artist X | Song Y", "Artist X", "Song Y", true},
		{"quoted song", `Artist X "Song Y"`, "Artist X", "Song Y", true},
		{"quoted after dash", `Artist X - "Song Y"`, "Artist X", "Song Y", true},
		{"trailing noise", "Artist X - Song Y Official Video", "Artist X", "Song Y", true},
		{"topic channel", "Artist X - Topic - Song Y", "Artist X", "Song Y", true},
		{"featuring", "Artist X ft. Z - Song Y", "Artist X feat. Z", "Song Y", true},
		{"curly quoted after dash", "Artist X - “Song Y”", "Artist X", "Song Y", true},
		{"inner quotes kept", `Artist - Song, "Y"`, "Artist", `Song, "Y"`, true},
		{"leading quote without pair", `Artist - "Song" Remix`, "Artist", `"Song" Remix`, true},
		{"no separator", "Just a title", "", "", false},
		{"leading separator", "- Song Y", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			artist, song, ok := ParseArtistSong(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.artist, artist)
			assert.Equal(t, tt.song, song)
		})
	}
}

func TestParseTitle(t *testing.T) {
	parsed := ParseTitle("Artist X - Song Y [Pop, R & B]")

	assert.Equal(t, "Artist X", parsed.Artist)
	assert.Equal(t, "Song Y", parsed.Song)
	assert.Equal(t, []string{"pop", "r&b"}, parsed.Genres)
	assert.True(t, parsed.HasArtistSong())

	multiline := ParseTitle("Multi\nLine - Song Z [rock]")
	assert.Equal(t, "Multi Line", multiline.Artist)
	assert.Equal(t, "Song Z", multiline.Song)
	assert.Equal(t, []string{"rock"}, multiline.Genres)

	unparsed := ParseTitle("What are you all listening to this week?")
	assert.False(t, unparsed.HasArtistSong())
	assert.Empty(t, unparsed.Artist)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "beyonce halo", Fold("Beyoncé - Halo!"))
	assert.Equal(t, "sigur ros svefn g englar", Fold("Sigur Rós — Svefn-g-englar"))
	assert.Equal(t, "", Fold("  ...  "))
}
