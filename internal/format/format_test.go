package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hot100/internal/models"
)

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		ms       int
		expected string
	}{
		{213000, "03:33"},
		{5000, "00:05"},
		{0, "00:00"},
		{59999, "00:59"},
		{-10, "00:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatMillis(tt.ms), "ms=%d", tt.ms)
	}
}

func TestVideoDuration(t *testing.T) {
	tests := []struct {
		iso      string
		expected string
	}{
		{"PT3M33S", "00:03:33"},
		{"PT1H2M3S", "01:02:03"},
		{"PT45S", "00:00:45"},
		{"PT10M", "00:10:00"},
		{"P1DT1S", "24:00:01"},
		{"", ""},
		{"three minutes", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, VideoDuration(tt.iso), "iso=%q", tt.iso)
	}
}

func TestHumanCount(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1256, "1.26K"},
		{12345, "12.3K"},
		{999999, "1M"},
		{1500000, "1.5M"},
		{2_340_000_000, "2.34B"},
		{-1256, "-1.26K"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, HumanCount(tt.n), "n=%d", tt.n)
	}
}

func TestOptionalCount(t *testing.T) {
	n := int64(1256)
	assert.Equal(t, "1.26K", OptionalCount(&n))
	assert.Equal(t, Missing, OptionalCount(nil))
}

func TestExactCount(t *testing.T) {
	assert.Equal(t, "1,256", ExactCount(1256))
	assert.Equal(t, "12", ExactCount(12))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 97.0, Percent(0.97))
	assert.Equal(t, 12.34, Percent(0.1234))
	assert.Equal(t, 0.0, Percent(0))
}

func TestPercentLabel(t *testing.T) {
	assert.Equal(t, "97%", PercentLabel(0.97))
	assert.Equal(t, "97.5%", PercentLabel(0.975))
	assert.Equal(t, "100%", PercentLabel(1))
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "C", KeyName(0))
	assert.Equal(t, "C#/Db", KeyName(1))
	assert.Equal(t, "B", KeyName(11))
	assert.Equal(t, "", KeyName(-1))
	assert.Equal(t, "", KeyName(12))
}

func TestModeName(t *testing.T) {
	assert.Equal(t, "major", ModeName(1))
	assert.Equal(t, "minor", ModeName(0))
	assert.Equal(t, "", ModeName(-1))
}

func TestPublishDate(t *testing.T) {
	assert.Equal(t, "2023-04-01", PublishDate(time.Date(2023, 4, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", PublishDate(time.Time{}))
}

func TestFeatureValue(t *testing.T) {
	assert.Equal(t, 120.0, FeatureValue(models.FeatureTempo, 120.9))
	assert.Equal(t, -5.0, FeatureValue(models.FeatureLoudness, -5.7))
	assert.Equal(t, 65.43, FeatureValue(models.FeatureEnergy, 65.4321))
}

func TestExplicitLabel(t *testing.T) {
	assert.Equal(t, "Explicit", ExplicitLabel(true))
	assert.Equal(t, "Clean", ExplicitLabel(false))
}
