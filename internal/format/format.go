// Package format derives the display fields of the published charts.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sosodev/duration"

	"hot100/internal/models"
)

// Missing is shown in place of a value the platforms did not return
const Missing = "-"

var countSuffixes = []string{"", "K", "M", "B", "T"}

var keyNames = []string{"C", "C#/Db", "D", "D#/Eb", "E", "F", "F#/Gb", "G", "G#/Ab", "A", "A#/Bb", "B"}

// FormatMillis renders a track length as MM:SS
func FormatMillis(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", (total/60)%60, total%60)
}

// VideoDuration converts an ISO 8601 duration (PT3M33S) to HH:MM:SS.
// Returns "" for anything it cannot parse.
func VideoDuration(iso string) string {
	if iso == "" {
		return ""
	}
	d, err := duration.Parse(iso)
	if err != nil {
		return ""
	}
	total := int64(d.ToTimeDuration().Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}

// HumanCount rounds n to three significant digits and abbreviates it
// with K, M, B or T: 1256 -> "1.26K", 999 -> "999", 1000000 -> "1M"
func HumanCount(n int64) string {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(float64(n), 'g', 3, 64), 64)

	magnitude := 0
	for math.Abs(v) >= 1000 && magnitude < len(countSuffixes)-1 {
		magnitude++
		v /= 1000
	}

	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	return s + countSuffixes[magnitude]
}

// OptionalCount is HumanCount for counters a platform may hide
func OptionalCount(n *int64) string {
	if n == nil {
		return Missing
	}
	return HumanCount(*n)
}

// ExactCount renders n with thousands separators
func ExactCount(n int64) string {
	return humanize.Comma(n)
}

// Percent scales a 0-1 ratio to a percentage rounded to two decimals
func Percent(ratio float64) float64 {
	return math.Round(ratio*100*100) / 100
}

// PercentLabel renders a 0-1 ratio as a percentage: 0.975 -> "97.5%"
func PercentLabel(ratio float64) string {
	return strconv.FormatFloat(Percent(ratio), 'f', -1, 64) + "%"
}

// KeyName returns the pitch-class name for a catalog key, or "" when the
// key is unknown (-1) or out of range
func KeyName(pitchClass int) string {
	if pitchClass < 0 || pitchClass >= len(keyNames) {
		return ""
	}
	return keyNames[pitchClass]
}

// ModeName returns "major" for 1 and "minor" for 0
func ModeName(mode int) string {
	switch mode {
	case 1:
		return "major"
	case 0:
		return "minor"
	}
	return ""
}

// PublishDate renders a timestamp as YYYY-MM-DD, "" for the zero time
func PublishDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

// ExplicitLabel renders the explicit flag
func ExplicitLabel(explicit bool) string {
	if explicit {
		return "Explicit"
	}
	return "Clean"
}

// FeatureValue is the display value of a normalized feature: loudness and
// tempo are truncated to whole numbers, the rest keep two decimals
func FeatureValue(f models.Feature, v float64) float64 {
	if f.IsNativeScale() {
		return math.Trunc(v)
	}
	return math.Round(v*100) / 100
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return Missing
	}
	return s
}
