package transform

import (
	"fmt"
	"slices"
	"testing"
)

func TestPopularityCategory(t *testing.T) {
	tc := []struct {
		popularity int
		want       string
	}{
		{0, VeryLow},
		{19, VeryLow},
		{20, Low},
		{39, Low},
		{40, Medium},
		{59, Medium},
		{60, High},
		{79, High},
		{80, VeryHigh},
		{100, VeryHigh},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprint(tt.popularity), func(t *testing.T) {
			if got := PopularityCategory(tt.popularity); got != tt.want {
				t.Errorf("PopularityCategory(%d) = %q, want %q", tt.popularity, got, tt.want)
			}
		})
	}

	t.Run("every value lands in one bin", func(t *testing.T) {
		bins := []string{VeryLow, Low, Medium, High, VeryHigh}
		for p := 0; p <= 100; p++ {
			if !slices.Contains(bins, PopularityCategory(p)) {
				t.Fatalf("PopularityCategory(%d) = %q, not a known bin", p, PopularityCategory(p))
			}
		}
	})
}

func TestDurationCategory(t *testing.T) {
	tc := []struct {
		seconds int
		want    string
	}{
		{0, "very_short"},
		{59, "very_short"},
		{60, "short"},
		{179, "short"},
		{180, "medium"},
		{299, "medium"},
		{300, "long"},
		{599, "long"},
		{600, "very_long"},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprint(tt.seconds), func(t *testing.T) {
			if got := DurationCategory(tt.seconds); got != tt.want {
				t.Errorf("DurationCategory(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestViewCategory(t *testing.T) {
	tc := []struct {
		views int64
		want  string
	}{
		{0, "low"},
		{9_999, "low"},
		{10_000, "moderate"},
		{100_000, "popular"},
		{1_000_000, "very_popular"},
		{10_000_000, "viral"},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprint(tt.views), func(t *testing.T) {
			if got := ViewCategory(tt.views); got != tt.want {
				t.Errorf("ViewCategory(%d) = %q, want %q", tt.views, got, tt.want)
			}
		})
	}
}

func TestFeatureLabels(t *testing.T) {
	tc := []struct {
		name  string
		value float64
		fn    func(float64) string
		want  string
	}{
		{"energy low edge", 0.2, EnergyLevel, Low},
		{"energy very high", 0.8, EnergyLevel, VeryHigh},
		{"energy very low", 0.19, EnergyLevel, VeryLow},
		{"mood neutral", 0.4, Mood, "neutral"},
		{"mood very positive", 0.95, Mood, "very_positive"},
		{"mood very negative", 0, Mood, "very_negative"},
		{"dance moderate", 0.4, DanceabilityLevel, "moderate"},
		{"dance not danceable", 0.39, DanceabilityLevel, "not_danceable"},
		{"dance very", 0.8, DanceabilityLevel, "very_danceable"},
		{"strength weak", 0.3, CorrelationStrength, "weak"},
		{"strength very weak", 0.29, CorrelationStrength, "very_weak"},
		{"strength strong", 0.7, CorrelationStrength, "strong"},
		{"strength very strong", 1, CorrelationStrength, "very_strong"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.value); got != tt.want {
				t.Errorf("label(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
