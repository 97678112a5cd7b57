package models

import (
	"time"
)

// Track is a normalized Spotify track.
type Track struct {
	TrackID             string    `json:"track_id"`
	Name                string    `json:"name"`
	ArtistName          string    `json:"artist_name"`
	Artists             []string  `json:"artists"`
	AlbumID             string    `json:"album_id"`
	AlbumName           string    `json:"album_name"`
	Popularity          int       `json:"popularity"`
	DurationMS          int       `json:"duration_ms"`
	DurationSeconds     int       `json:"duration_seconds"`
	Explicit            bool      `json:"explicit"`
	IsLocal             bool      `json:"is_local"`
	PreviewURL          string    `json:"preview_url"`
	ReleaseDate         string    `json:"release_date"` // YYYY-MM-DD or empty
	TotalTracks         int       `json:"total_tracks"`
	DiscNumber          int       `json:"disc_number"`
	TrackNumber         int       `json:"track_number"`
	AvailableMarkets    []string  `json:"available_markets"`
	ExtractionTimestamp string    `json:"extraction_timestamp"`
	SourcePlaylistID    string    `json:"source_playlist_id"`
	DataSource          string    `json:"data_source"`
	TransformedAt       time.Time `json:"transformed_at"`

	// Derived
	MarketCount        int    `json:"market_count"`
	ArtistCount        int    `json:"artist_count"`
	IsCollaboration    bool   `json:"is_collaboration"`
	NameLength         int    `json:"name_length"`
	ArtistNameLength   int    `json:"artist_name_length"`
	PopularityCategory string `json:"popularity_category"`
	DurationCategory   string `json:"duration_category"`
}

// AudioFeatures is the normalized audio analysis for one track.
//
// The seven perceptual dimensions are clamped to [0, 1].
type AudioFeatures struct {
	TrackID             string    `json:"track_id"`
	Danceability        float64   `json:"danceability"`
	Energy              float64   `json:"energy"`
	Speechiness         float64   `json:"speechiness"`
	Acousticness        float64   `json:"acousticness"`
	Instrumentalness    float64   `json:"instrumentalness"`
	Liveness            float64   `json:"liveness"`
	Valence             float64   `json:"valence"`
	Loudness            float64   `json:"loudness"`
	Tempo               float64   `json:"tempo"`
	Key                 int       `json:"key"`  // -1 if unknown
	Mode                int       `json:"mode"` // -1 if unknown
	TimeSignature       int       `json:"time_signature"`
	DurationMS          int       `json:"duration_ms"`
	ExtractionTimestamp string    `json:"extraction_timestamp"`
	DataSource          string    `json:"data_source"`
	TransformedAt       time.Time `json:"transformed_at"`

	// Derived
	EnergyLevel       string  `json:"energy_level"`
	Mood              string  `json:"mood"`
	DanceabilityLevel string  `json:"danceability_level"`
	DanceScore        float64 `json:"dance_score"`
	MoodScore         float64 `json:"mood_score"`
}

// Video is a normalized YouTube video.
type Video struct {
	VideoID              string    `json:"video_id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"` // at most 1000 characters
	ChannelID            string    `json:"channel_id"`
	ChannelTitle         string    `json:"channel_title"`
	ViewCount            int64     `json:"view_count"`
	LikeCount            int64     `json:"like_count"`
	DislikeCount         int64     `json:"dislike_count"`
	CommentCount         int64     `json:"comment_count"`
	FavoriteCount        int64     `json:"favorite_count"`
	PublishedAt          string    `json:"published_at"`
	PublishedDate        string    `json:"published_date"`
	Tags                 []string  `json:"tags"`
	CategoryID           string    `json:"category_id"`
	DefaultLanguage      string    `json:"default_language"`
	DefaultAudioLanguage string    `json:"default_audio_language"`
	Duration             string    `json:"duration"` // compact code, e.g. PT4M13S
	DurationSeconds      int       `json:"duration_seconds"`
	Dimension            string    `json:"dimension"`
	Definition           string    `json:"definition"`
	Caption              string    `json:"caption"`
	LicensedContent      bool      `json:"licensed_content"`
	UploadStatus         string    `json:"upload_status"`
	PrivacyStatus        string    `json:"privacy_status"`
	License              string    `json:"license"`
	Embeddable           bool      `json:"embeddable"`
	PublicStatsViewable  bool      `json:"public_stats_viewable"`
	ExtractionTimestamp  string    `json:"extraction_timestamp"`
	SourceRegion         string    `json:"source_region"`
	SearchArtist         string    `json:"search_artist"`
	SearchTrack          string    `json:"search_track"`
	DataSource           string    `json:"data_source"`
	TransformedAt        time.Time `json:"transformed_at"`

	// Derived
	LikeRate          float64 `json:"like_rate"`
	CommentRate       float64 `json:"comment_rate"`
	EngagementRate    float64 `json:"engagement_rate"`
	EngagementScore   float64 `json:"engagement_score"` // 0-100
	ViewCategory      string  `json:"view_category"`
	DurationCategory  string  `json:"duration_category"`
	IsMusicVideo      bool    `json:"is_music_video"`
	IsOfficial        bool    `json:"is_official"`
	TagCount          int     `json:"tag_count"`
	TitleLength       int     `json:"title_length"`
	DescriptionLength int     `json:"description_length"`
}

// HasSearchOrigin reports whether the video was fetched through a directed artist/track query.
func (v Video) HasSearchOrigin() bool {
	return v.SearchArtist != "" && v.SearchTrack != ""
}

// Correlation links one track to one candidate video.
//
// CorrelationID is "{track_id}_{video_id}". The same video may correlate with many tracks.
type Correlation struct {
	CorrelationID string `json:"correlation_id"`
	TrackID       string `json:"track_id"`
	VideoID       string `json:"video_id"`

	SpotifyTrackName       string `json:"spotify_track_name"`
	SpotifyArtistName      string `json:"spotify_artist_name"`
	SpotifyPopularity      int    `json:"spotify_popularity"`
	SpotifyDurationSeconds int    `json:"spotify_duration_seconds"`

	YouTubeTitle           string `json:"youtube_title"`
	YouTubeChannel         string `json:"youtube_channel"`
	YouTubeViewCount       int64  `json:"youtube_view_count"`
	YouTubeLikeCount       int64  `json:"youtube_like_count"`
	YouTubeDurationSeconds int    `json:"youtube_duration_seconds"`

	SimilarityScore           float64 `json:"similarity_score"`
	CorrelationStrength       string  `json:"correlation_strength"`
	DurationDifferenceSeconds int     `json:"duration_difference_seconds"`
	DurationSimilarity        float64 `json:"duration_similarity"`

	SpotifyYouTubeRatio float64 `json:"spotify_youtube_ratio"`
	CrossPlatformScore  float64 `json:"cross_platform_score"`
	PlatformConsistency float64 `json:"platform_consistency"`

	// Populated only when audio features exist for the track.
	HasAudioFeatures bool    `json:"has_audio_features"`
	DanceScore       float64 `json:"dance_score,omitempty"`
	MoodScore        float64 `json:"mood_score,omitempty"`

	DataSource string    `json:"data_source"`
	CreatedAt  time.Time `json:"created_at"`
}

// RankedCount is one entry of a top-N breakdown.
type RankedCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RegionalAggregate summarizes video engagement for one region code.
type RegionalAggregate struct {
	RegionCode          string        `json:"region_code"`
	TotalVideos         int           `json:"total_videos"`
	TotalViews          int64         `json:"total_views"`
	TotalLikes          int64         `json:"total_likes"`
	TotalComments       int64         `json:"total_comments"`
	MusicVideosCount    int           `json:"music_videos_count"`
	OfficialVideosCount int           `json:"official_videos_count"`
	AvgDuration         float64       `json:"avg_duration"` // seconds
	AvgViewsPerVideo    float64       `json:"avg_views_per_video"`
	AvgLikesPerVideo    float64       `json:"avg_likes_per_video"`
	AvgCommentsPerVideo float64       `json:"avg_comments_per_video"`
	AvgEngagementRate   float64       `json:"avg_engagement_rate"`
	Top5Channels        []RankedCount `json:"top_5_channels"`
	Top5Categories      []RankedCount `json:"top_5_categories"`
	CreatedAt           time.Time     `json:"created_at"`
}
