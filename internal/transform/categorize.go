package transform

// Category labels shared by several bins.
const (
	VeryLow  = "very_low"
	Low      = "low"
	Medium   = "medium"
	High     = "high"
	VeryHigh = "very_high"
)

// PopularityCategory bins a 0-100 popularity. Lower bounds are inclusive.
func PopularityCategory(popularity int) string {
	switch {
	case popularity >= 80:
		return VeryHigh
	case popularity >= 60:
		return High
	case popularity >= 40:
		return Medium
	case popularity >= 20:
		return Low
	default:
		return VeryLow
	}
}

// DurationCategory bins a duration in seconds.
func DurationCategory(seconds int) string {
	switch {
	case seconds < 60:
		return "very_short"
	case seconds < 180:
		return "short"
	case seconds < 300:
		return "medium"
	case seconds < 600:
		return "long"
	default:
		return "very_long"
	}
}

// ViewCategory bins a YouTube view count.
func ViewCategory(views int64) string {
	switch {
	case views >= 10_000_000:
		return "viral"
	case views >= 1_000_000:
		return "very_popular"
	case views >= 100_000:
		return "popular"
	case views >= 10_000:
		return "moderate"
	default:
		return "low"
	}
}

// EnergyLevel bins the energy dimension.
func EnergyLevel(energy float64) string {
	switch {
	case energy >= 0.8:
		return VeryHigh
	case energy >= 0.6:
		return High
	case energy >= 0.4:
		return Medium
	case energy >= 0.2:
		return Low
	default:
		return VeryLow
	}
}

// Mood bins valence into a mood label.
func Mood(valence float64) string {
	switch {
	case valence >= 0.8:
		return "very_positive"
	case valence >= 0.6:
		return "positive"
	case valence >= 0.4:
		return "neutral"
	case valence >= 0.2:
		return "negative"
	default:
		return "very_negative"
	}
}

// DanceabilityLevel bins danceability into four labels.
func DanceabilityLevel(danceability float64) string {
	switch {
	case danceability >= 0.8:
		return "very_danceable"
	case danceability >= 0.6:
		return "danceable"
	case danceability >= 0.4:
		return "moderate"
	default:
		return "not_danceable"
	}
}

// CorrelationStrength bins a similarity score.
func CorrelationStrength(score float64) string {
	switch {
	case score >= 0.9:
		return "very_strong"
	case score >= 0.7:
		return "strong"
	case score >= 0.5:
		return "moderate"
	case score >= 0.3:
		return "weak"
	default:
		return "very_weak"
	}
}
