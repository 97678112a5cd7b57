package transform

import (
	"strings"
	"unicode/utf8"

	"github.com/desertthunder/tubecorr/internal/models"
)

var (
	musicKeywords    = []string{"music", "song", "official", "video", "audio", "lyrics", "album"}
	officialKeywords = []string{"official", "vevo", "records", "music"}
)

// Engagement holds the per-video rate metrics. All rates are 0 when views is 0.
type Engagement struct {
	LikeRate        float64
	CommentRate     float64
	EngagementRate  float64
	EngagementScore float64
}

// EngagementMetrics computes like, comment and engagement rates plus the 0-100 engagement score.
func EngagementMetrics(views, likes, comments int64) Engagement {
	var e Engagement
	if views > 0 {
		e.LikeRate = float64(likes) / float64(views)
		e.CommentRate = float64(comments) / float64(views)
		e.EngagementRate = float64(likes+comments) / float64(views)
	}
	e.EngagementScore = min(100, e.EngagementRate*1000)
	return e
}

// DanceScore weighs danceability, energy and valence 0.4/0.3/0.3.
func DanceScore(danceability, energy, valence float64) float64 {
	return danceability*0.4 + energy*0.3 + valence*0.3
}

// MoodScore weighs valence, energy and non-acousticness 0.5/0.3/0.2.
func MoodScore(valence, energy, acousticness float64) float64 {
	return valence*0.5 + energy*0.3 + (1-acousticness)*0.2
}

// EnrichTrack recomputes the derived fields of t from its source fields.
func EnrichTrack(t models.Track) models.Track {
	t.ArtistCount = len(t.Artists)
	t.IsCollaboration = t.ArtistCount > 1
	t.MarketCount = len(t.AvailableMarkets)
	t.NameLength = utf8.RuneCountInString(t.Name)
	t.ArtistNameLength = utf8.RuneCountInString(t.ArtistName)
	t.PopularityCategory = PopularityCategory(t.Popularity)
	t.DurationCategory = DurationCategory(t.DurationSeconds)
	return t
}

// EnrichFeatures recomputes the composite scores and labels of f.
func EnrichFeatures(f models.AudioFeatures) models.AudioFeatures {
	f.EnergyLevel = EnergyLevel(f.Energy)
	f.Mood = Mood(f.Valence)
	f.DanceabilityLevel = DanceabilityLevel(f.Danceability)
	f.DanceScore = DanceScore(f.Danceability, f.Energy, f.Valence)
	f.MoodScore = MoodScore(f.Valence, f.Energy, f.Acousticness)
	return f
}

// EnrichVideo recomputes engagement metrics, categories and content flags of v.
func EnrichVideo(v models.Video) models.Video {
	e := EngagementMetrics(v.ViewCount, v.LikeCount, v.CommentCount)
	v.LikeRate = e.LikeRate
	v.CommentRate = e.CommentRate
	v.EngagementRate = e.EngagementRate
	v.EngagementScore = e.EngagementScore

	v.ViewCategory = ViewCategory(v.ViewCount)
	v.DurationCategory = DurationCategory(v.DurationSeconds)
	v.IsMusicVideo = IsMusicVideo(v)
	v.IsOfficial = IsOfficial(v)
	v.TagCount = len(v.Tags)
	v.TitleLength = utf8.RuneCountInString(v.Title)
	v.DescriptionLength = utf8.RuneCountInString(v.Description)
	return v
}

// IsMusicVideo applies the music-video heuristic: at least two music keywords in the title,
// at least three keyword hits across tags, or a directed artist/track search origin.
func IsMusicVideo(v models.Video) bool {
	title := strings.ToLower(v.Title)
	titleScore := 0
	for _, kw := range musicKeywords {
		if strings.Contains(title, kw) {
			titleScore++
		}
	}

	tagScore := 0
	for _, tag := range v.Tags {
		tag = strings.ToLower(tag)
		for _, kw := range musicKeywords {
			if strings.Contains(tag, kw) {
				tagScore++
			}
		}
	}

	return titleScore >= 2 || tagScore >= 3 || v.HasSearchOrigin()
}

// IsOfficial reports whether the title or channel name carries an official-content keyword.
func IsOfficial(v models.Video) bool {
	title := strings.ToLower(v.Title)
	channel := strings.ToLower(v.ChannelTitle)
	for _, kw := range officialKeywords {
		if strings.Contains(title, kw) || strings.Contains(channel, kw) {
			return true
		}
	}
	return false
}
