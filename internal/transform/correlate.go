package transform

import (
	"time"

	"github.com/desertthunder/tubecorr/internal/models"
)

// Correlate runs matcher for every track and builds one [models.Correlation] per match,
// grouped by track in input order and by descending score within a track. Tracks without
// matches contribute nothing. features is optional and keyed by track id.
//
// CreatedAt is left zero; [Transformer.Correlate] stamps it.
func Correlate(tracks []models.Track, videos []models.Video, matcher *Matcher, features map[string]models.AudioFeatures) []models.Correlation {
	if matcher == nil {
		matcher = NewMatcher(DefaultThreshold, DefaultTopK)
	}
	cands := prepare(videos)

	var out []models.Correlation
	for _, track := range tracks {
		f, hasFeatures := features[track.TrackID]
		for _, m := range matcher.rank(newTrackKey(track), cands) {
			c := NewCorrelation(track, m.Video, m.Score)
			if hasFeatures {
				c.HasAudioFeatures = true
				c.DanceScore = f.DanceScore
				c.MoodScore = f.MoodScore
			}
			out = append(out, c)
		}
	}
	return out
}

// NewCorrelation builds the correlation record for one scored track/video pair.
func NewCorrelation(track models.Track, video models.Video, similarity float64) models.Correlation {
	durationSim := DurationSimilarity(track.DurationSeconds, video.DurationSeconds)
	ratio, cross := CrossPlatformMetrics(track.Popularity, video.ViewCount)

	return models.Correlation{
		CorrelationID: track.TrackID + "_" + video.VideoID,
		TrackID:       track.TrackID,
		VideoID:       video.VideoID,

		SpotifyTrackName:       track.Name,
		SpotifyArtistName:      track.ArtistName,
		SpotifyPopularity:      track.Popularity,
		SpotifyDurationSeconds: track.DurationSeconds,

		YouTubeTitle:           video.Title,
		YouTubeChannel:         video.ChannelTitle,
		YouTubeViewCount:       video.ViewCount,
		YouTubeLikeCount:       video.LikeCount,
		YouTubeDurationSeconds: video.DurationSeconds,

		SimilarityScore:           similarity,
		CorrelationStrength:       CorrelationStrength(similarity),
		DurationDifferenceSeconds: abs(track.DurationSeconds - video.DurationSeconds),
		DurationSimilarity:        durationSim,

		SpotifyYouTubeRatio: ratio,
		CrossPlatformScore:  cross,
		PlatformConsistency: durationSim,

		DataSource: "correlation_engine",
	}
}

// DurationSimilarity is 1 minus the relative difference of two durations, floored at 0.
// It is 0 when either duration is 0.
func DurationSimilarity(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	diff := float64(abs(a - b))
	return max(0, 1-diff/float64(max(a, b)))
}

// CrossPlatformMetrics returns views per popularity point and the weighted 0-100 cross-platform
// score (0.3 * popularity + 0.7 * min(100, views/10000)).
func CrossPlatformMetrics(popularity int, views int64) (ratio, score float64) {
	ratio = float64(views) / float64(max(popularity, 1))
	score = float64(popularity)*0.3 + min(100, float64(views)/10000)*0.7
	return ratio, score
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func stamp(cs []models.Correlation, now time.Time) []models.Correlation {
	for i := range cs {
		cs[i].CreatedAt = now
	}
	return cs
}
