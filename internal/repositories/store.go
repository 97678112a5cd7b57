package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// Collection names as reported in [models.LoadResult] and [Store.Counts].
const (
	CollectionTracks       = "tracks"
	CollectionFeatures     = "audio_features"
	CollectionVideos       = "videos"
	CollectionCorrelations = "correlations"
	CollectionRegions      = "regional_stats"
)

var (
	tracksCollection = collection[models.Track]{
		name:    CollectionTracks,
		table:   "tracks",
		key:     "track_id",
		columns: []string{"name", "artist_name", "popularity"},
		keyOf:   func(t models.Track) string { return t.TrackID },
		values:  func(t models.Track) []any { return []any{t.Name, t.ArtistName, t.Popularity} },
	}

	featuresCollection = collection[models.AudioFeatures]{
		name:    CollectionFeatures,
		table:   "audio_features",
		key:     "track_id",
		columns: []string{"energy_level", "mood"},
		keyOf:   func(f models.AudioFeatures) string { return f.TrackID },
		values:  func(f models.AudioFeatures) []any { return []any{f.EnergyLevel, f.Mood} },
	}

	videosCollection = collection[models.Video]{
		name:    CollectionVideos,
		table:   "videos",
		key:     "video_id",
		columns: []string{"title", "channel_title", "source_region", "view_count"},
		keyOf:   func(v models.Video) string { return v.VideoID },
		values:  func(v models.Video) []any { return []any{v.Title, v.ChannelTitle, v.SourceRegion, v.ViewCount} },
	}

	appearancesCollection = collection[models.Video]{
		name:    CollectionVideos,
		table:   "video_appearances",
		key:     "appearance_id",
		columns: []string{"video_id", "source_region", "search_artist", "search_track"},
		keyOf:   AppearanceID,
		values: func(v models.Video) []any {
			return []any{v.VideoID, v.SourceRegion, v.SearchArtist, v.SearchTrack}
		},
	}

	correlationsCollection = collection[models.Correlation]{
		name:    CollectionCorrelations,
		table:   "correlations",
		key:     "correlation_id",
		columns: []string{"track_id", "video_id", "similarity_score", "correlation_strength"},
		keyOf:   func(c models.Correlation) string { return c.CorrelationID },
		values: func(c models.Correlation) []any {
			return []any{c.TrackID, c.VideoID, c.SimilarityScore, c.CorrelationStrength}
		},
	}

	regionsCollection = collection[models.RegionalAggregate]{
		name:    CollectionRegions,
		table:   "regional_stats",
		key:     "region_code",
		columns: []string{"total_videos", "total_views"},
		keyOf:   func(r models.RegionalAggregate) string { return r.RegionCode },
		values:  func(r models.RegionalAggregate) []any { return []any{r.TotalVideos, r.TotalViews} },
	}
)

// Store persists the pipeline's output collections and serves the read queries behind the API.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore creates a new Store with the given database connection
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// UpsertTracks writes tracks keyed by track id.
func (s *Store) UpsertTracks(ctx context.Context, tracks []models.Track, batchSize int) (models.LoadResult, error) {
	return upsert(ctx, s.db, tracksCollection, tracks, batchSize, s.now())
}

// UpsertFeatures writes audio features keyed by track id.
func (s *Store) UpsertFeatures(ctx context.Context, features []models.AudioFeatures, batchSize int) (models.LoadResult, error) {
	return upsert(ctx, s.db, featuresCollection, features, batchSize, s.now())
}

// AppearanceID identifies where a video was found: its id plus the chart region and the
// directed search that returned it. It is empty for a video without an id.
func AppearanceID(v models.Video) string {
	if v.VideoID == "" {
		return ""
	}
	return strings.Join([]string{v.VideoID, v.SourceRegion, shared.SearchKey(v.SearchArtist, v.SearchTrack)}, "|")
}

// UpsertVideos writes videos keyed by video id, and records every chart or search appearance
// of each video so that a video found in several places keeps all of them. The result
// describes the videos table.
func (s *Store) UpsertVideos(ctx context.Context, videos []models.Video, batchSize int) (models.LoadResult, error) {
	now := s.now()
	result, err := upsert(ctx, s.db, videosCollection, videos, batchSize, now)
	if err != nil {
		return result, err
	}

	if _, err := upsert(ctx, s.db, appearancesCollection, videos, batchSize, now); err != nil {
		return result, fmt.Errorf("failed to record video appearances: %w", err)
	}
	return result, nil
}

// UpsertCorrelations writes correlations keyed by "{track_id}_{video_id}".
func (s *Store) UpsertCorrelations(ctx context.Context, correlations []models.Correlation, batchSize int) (models.LoadResult, error) {
	return upsert(ctx, s.db, correlationsCollection, correlations, batchSize, s.now())
}

// UpsertRegions writes regional aggregates keyed by region code.
func (s *Store) UpsertRegions(ctx context.Context, regions []models.RegionalAggregate, batchSize int) (models.LoadResult, error) {
	return upsert(ctx, s.db, regionsCollection, regions, batchSize, s.now())
}

// ReplaceCorrelations swaps the stored correlations for correlations.
func (s *Store) ReplaceCorrelations(ctx context.Context, correlations []models.Correlation) (models.LoadResult, error) {
	return replace(ctx, s.db, correlationsCollection, correlations, s.now())
}

// ReplaceRegions swaps the stored regional aggregates for regions.
func (s *Store) ReplaceRegions(ctx context.Context, regions []models.RegionalAggregate) (models.LoadResult, error) {
	return replace(ctx, s.db, regionsCollection, regions, s.now())
}

// Tracks returns every stored track ordered by id.
func (s *Store) Tracks(ctx context.Context) ([]models.Track, error) {
	return queryData[models.Track](ctx, s.db, "SELECT data FROM tracks ORDER BY track_id")
}

// Features returns every stored audio feature record ordered by track id.
func (s *Store) Features(ctx context.Context) ([]models.AudioFeatures, error) {
	return queryData[models.AudioFeatures](ctx, s.db, "SELECT data FROM audio_features ORDER BY track_id")
}

// Videos returns every stored video ordered by id.
func (s *Store) Videos(ctx context.Context) ([]models.Video, error) {
	return queryData[models.Video](ctx, s.db, "SELECT data FROM videos ORDER BY video_id")
}

// Appearances returns every recorded appearance of every video, ordered by video id.
func (s *Store) Appearances(ctx context.Context) ([]models.Video, error) {
	return queryData[models.Video](ctx, s.db, "SELECT data FROM video_appearances ORDER BY video_id, appearance_id")
}

// TopCorrelations returns the limit highest scoring correlations. A non-positive limit returns all.
func (s *Store) TopCorrelations(ctx context.Context, limit int) ([]models.Correlation, error) {
	if limit <= 0 {
		limit = -1
	}
	return queryData[models.Correlation](ctx, s.db,
		"SELECT data FROM correlations ORDER BY similarity_score DESC, correlation_id LIMIT ?", limit)
}

// TrackCorrelations returns the correlations of one track, best first.
func (s *Store) TrackCorrelations(ctx context.Context, trackID string) ([]models.Correlation, error) {
	return queryData[models.Correlation](ctx, s.db,
		"SELECT data FROM correlations WHERE track_id = ? ORDER BY similarity_score DESC, correlation_id", trackID)
}

// Regions returns every regional aggregate, most viewed first.
func (s *Store) Regions(ctx context.Context) ([]models.RegionalAggregate, error) {
	return queryData[models.RegionalAggregate](ctx, s.db,
		"SELECT data FROM regional_stats ORDER BY total_views DESC, region_code")
}

// Region returns the aggregate for one region code.
func (s *Store) Region(ctx context.Context, code string) (*models.RegionalAggregate, error) {
	regions, err := queryData[models.RegionalAggregate](ctx, s.db,
		"SELECT data FROM regional_stats WHERE region_code = ?", code)
	if err != nil {
		return nil, err
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("region %s not found: %w", code, sql.ErrNoRows)
	}
	return &regions[0], nil
}

// Counts returns the number of stored records per collection.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	counts := make(map[string]int, 5)
	for _, table := range []string{CollectionTracks, CollectionFeatures, CollectionVideos, CollectionCorrelations, CollectionRegions} {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}
