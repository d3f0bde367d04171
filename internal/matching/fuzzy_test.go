package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	assert.Equal(t, 100, Score("Artist X Song Y", "artist x song y"))
	assert.Equal(t, 100, Score("Beyoncé Halo", "beyonce - halo!"))
	assert.Equal(t, 0, Score("", "anything"))
	assert.Equal(t, 0, Score("...", "anything"))

	// Reordered tokens score close to, but below, an exact match
	reordered := Score("Song Y Artist X", "Artist X Song Y")
	assert.Equal(t, 95, reordered)

	// Extra featured artist is penalised
	featuring := Score("Artist X ft. Z Song Y", "Artist X Song Y")
	assert.Less(t, featuring, 100)
	assert.Greater(t, featuring, 80)

	unrelated := Score("Completely Different", "Artist X Song Y")
	assert.Less(t, unrelated, 50)
}

func TestScore_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"Daft Punk Get Lucky", "Daft Punk feat. Pharrell Get Lucky"},
		{"Radiohead Creep", "Radiohead Creep Acoustic"},
		{"A", "Something much longer than a"},
	}
	for _, p := range pairs {
		assert.Equal(t, Score(p[0], p[1]), Score(p[1], p[0]), "%q vs %q", p[0], p[1])
	}
}

func TestScore_PartialWindow(t *testing.T) {
	// Short string found verbatim inside a much longer one
	assert.Equal(t, 90, Score("creep", "radioheadcreeplive"))

	// Whole-token subset
	assert.Equal(t, 95, Score("creep", "radiohead creep live at glastonbury"))
}

func TestBestScore(t *testing.T) {
	assert.Equal(t, 100, BestScore("Artist X Song Y", "nope", "Artist X Song Y"))
	assert.Equal(t, 0, BestScore("Artist X Song Y", "", "   "))
	assert.Equal(t, Score("a b", "a b c"), BestScore("a b", "", "a b c"))
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 100, ratio("abc", "abc"))
	assert.Equal(t, 0, ratio("abc", "xyz"))
	assert.Equal(t, 75, ratio("abcd", "abce"))
}

func TestTokenSetRatio(t *testing.T) {
	assert.Equal(t, 100, tokenSetRatio("artist x song y", "song y artist x"))
	assert.Equal(t, 100, tokenSetRatio("artist x song y", "artist x song y ft z"))
}
