package transform

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// Record kinds reported in a [Skip].
const (
	KindTrack    = "track"
	KindFeatures = "features"
	KindVideo    = "video"
)

// Skip describes a record that could not be transformed and was dropped from its batch.
type Skip struct {
	Kind   string `json:"kind"`
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

func (s Skip) Error() string {
	return fmt.Sprintf("%v: %s %s: %s", shared.ErrRecordSkipped, s.Kind, s.ID, s.Reason)
}

// Batch is the outcome of transforming a collection: the records that succeeded, in input
// order, and the ones that were skipped.
type Batch[T any] struct {
	Records []T
	Skipped []Skip
}

// Transformer drives the normalizers over whole collections with best-effort semantics and
// stamps transformation times.
type Transformer struct {
	logger  *log.Logger
	matcher *Matcher
	now     func() time.Time
}

// Option configures a [Transformer].
type Option func(*Transformer)

// WithMatcher sets the matcher used by [Transformer.Correlate].
func WithMatcher(m *Matcher) Option {
	return func(t *Transformer) { t.matcher = m }
}

// WithClock replaces [time.Now].
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) { t.now = now }
}

// NewTransformer creates a [Transformer]. A nil logger discards output.
func NewTransformer(logger *log.Logger, opts ...Option) *Transformer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	t := &Transformer{
		logger:  logger,
		matcher: NewMatcher(DefaultThreshold, DefaultTopK),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tracks normalizes raw tracks.
func (t *Transformer) Tracks(raws []models.RawTrack) Batch[models.Track] {
	now := t.now()
	b := normalizeAll(t.logger, KindTrack, raws,
		func(r models.RawTrack) string { return firstString(r.TrackID, r.ID) },
		func(r models.RawTrack) models.Track {
			tr := NormalizeTrack(r)
			tr.TransformedAt = now
			return tr
		})
	t.logger.Info("transformed tracks", "in", len(raws), "out", len(b.Records), "skipped", len(b.Skipped))
	return b
}

// Features normalizes raw audio features.
func (t *Transformer) Features(raws []models.RawAudioFeatures) Batch[models.AudioFeatures] {
	now := t.now()
	b := normalizeAll(t.logger, KindFeatures, raws,
		func(r models.RawAudioFeatures) string { return firstString(r.TrackID, r.ID) },
		func(r models.RawAudioFeatures) models.AudioFeatures {
			f := NormalizeFeatures(r)
			f.TransformedAt = now
			return f
		})
	t.logger.Info("transformed audio features", "in", len(raws), "out", len(b.Records), "skipped", len(b.Skipped))
	return b
}

// Videos normalizes raw videos.
func (t *Transformer) Videos(raws []models.RawVideo) Batch[models.Video] {
	now := t.now()
	b := normalizeAll(t.logger, KindVideo, raws,
		func(r models.RawVideo) string { return firstString(r.VideoID, r.ID) },
		func(r models.RawVideo) models.Video {
			v := NormalizeVideo(r)
			v.TransformedAt = now
			return v
		})
	t.logger.Info("transformed videos", "in", len(raws), "out", len(b.Records), "skipped", len(b.Skipped))
	return b
}

// Correlate links tracks to videos with the configured matcher. features may be nil.
func (t *Transformer) Correlate(tracks []models.Track, videos []models.Video, features []models.AudioFeatures) []models.Correlation {
	byTrack := make(map[string]models.AudioFeatures, len(features))
	for _, f := range features {
		byTrack[f.TrackID] = f
	}

	out := stamp(Correlate(tracks, videos, t.matcher, byTrack), t.now())
	t.logger.Info("correlated tracks with videos", "tracks", len(tracks), "videos", len(videos), "correlations", len(out))
	return out
}

// Regions aggregates videos by region.
func (t *Transformer) Regions(videos []models.Video) []models.RegionalAggregate {
	fold := NewRegionFold()
	for _, v := range videos {
		fold.Add(v)
	}
	out := fold.Finalize(t.now())
	t.logger.Info("aggregated regional data", "videos", len(videos), "regions", len(out))
	return out
}

// normalizeAll applies fn to every raw record. A record whose transformation panics is logged
// under its best-effort identifier and dropped; the rest of the batch continues.
func normalizeAll[R, T any](logger *log.Logger, kind string, raws []R, id func(R) string, fn func(R) T) Batch[T] {
	b := Batch[T]{Records: make([]T, 0, len(raws))}
	for _, raw := range raws {
		rec, skip := normalizeOne(kind, raw, id, fn)
		if skip != nil {
			logger.Warn("skipping record", "kind", skip.Kind, "id", skip.ID, "reason", skip.Reason)
			b.Skipped = append(b.Skipped, *skip)
			continue
		}
		b.Records = append(b.Records, rec)
	}
	return b
}

func normalizeOne[R, T any](kind string, raw R, id func(R) string, fn func(R) T) (rec T, skip *Skip) {
	defer func() {
		if r := recover(); r != nil {
			skip = &Skip{Kind: kind, ID: safeID(raw, id), Reason: fmt.Sprint(r)}
		}
	}()
	return fn(raw), nil
}

func safeID[R any](raw R, id func(R) string) (s string) {
	defer func() {
		if recover() != nil {
			s = unknownKey
		}
	}()
	if s = id(raw); s == "" {
		s = unknownKey
	}
	return s
}
