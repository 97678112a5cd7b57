// package tasks orchestrates the extract, transform and load stages of a correlation run.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/services"
	"github.com/desertthunder/tubecorr/internal/shared"
	"github.com/desertthunder/tubecorr/internal/transform"
)

// DefaultWorkers bounds concurrent video extraction requests.
const DefaultWorkers = 4

// Store persists transformed collections and reads them back for re-correlation.
//
// Implemented by [repositories.Store].
type Store interface {
	UpsertTracks(ctx context.Context, tracks []models.Track, batchSize int) (models.LoadResult, error)
	UpsertFeatures(ctx context.Context, features []models.AudioFeatures, batchSize int) (models.LoadResult, error)
	UpsertVideos(ctx context.Context, videos []models.Video, batchSize int) (models.LoadResult, error)
	UpsertCorrelations(ctx context.Context, correlations []models.Correlation, batchSize int) (models.LoadResult, error)
	UpsertRegions(ctx context.Context, regions []models.RegionalAggregate, batchSize int) (models.LoadResult, error)

	ReplaceCorrelations(ctx context.Context, correlations []models.Correlation) (models.LoadResult, error)
	ReplaceRegions(ctx context.Context, regions []models.RegionalAggregate) (models.LoadResult, error)

	Tracks(ctx context.Context) ([]models.Track, error)
	Features(ctx context.Context) ([]models.AudioFeatures, error)
	Appearances(ctx context.Context) ([]models.Video, error)
}

// RunRecorder keeps the bookkeeping record of pipeline runs.
//
// Implemented by [repositories.RunRepository].
type RunRecorder interface {
	Start(ctx context.Context, run *models.RunStats) error
	Finish(ctx context.Context, run *models.RunStats, runErr error) error
}

// ETL defines the stages of a correlation run.
type ETL interface {
	// Extract pulls playlist tracks, audio features, popular videos and directed search results.
	Extract(ctx context.Context, progress chan<- ProgressUpdate) (*models.RawDataset, error)

	// Transform normalizes the raw dataset, then correlates tracks with videos and aggregates regions.
	Transform(ctx context.Context, raw *models.RawDataset, progress chan<- ProgressUpdate) (*Dataset, error)

	// Load upserts every non-empty collection of the dataset.
	Load(ctx context.Context, ds *Dataset, progress chan<- ProgressUpdate) ([]models.LoadResult, error)

	// Run executes all three stages and records the run.
	Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error)
}

// SearchQuery is one directed artist/track video search.
type SearchQuery struct {
	Artist string
	Track  string
}

// Dataset is the transformed output of one run.
type Dataset struct {
	Tracks       []models.Track
	Features     []models.AudioFeatures
	Videos       []models.Video
	Correlations []models.Correlation
	Regions      []models.RegionalAggregate
	Skipped      []transform.Skip
}

// Counts returns the number of records per collection.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		"tracks":         len(d.Tracks),
		"audio_features": len(d.Features),
		"videos":         len(d.Videos),
		"correlations":   len(d.Correlations),
		"regional_stats": len(d.Regions),
	}
}

// RunResult contains everything a full run produced.
type RunResult struct {
	Run     *models.RunStats
	Raw     *models.RawDataset
	Dataset *Dataset
	Loads   []models.LoadResult
}

// PipelineOpts contains the dependencies of a [Pipeline]. Either source may be nil to skip
// that side of extraction; Store and Runs are required only by the stages that use them.
type PipelineOpts struct {
	Config  shared.PipelineConfig
	Tracks  services.TrackSource
	Videos  services.VideoSource
	Store   Store
	Runs    RunRecorder
	Logger  *log.Logger
	Clock   func() time.Time
	Workers int
}

// Pipeline implements [ETL].
type Pipeline struct {
	config      shared.PipelineConfig
	tracks      services.TrackSource
	videos      services.VideoSource
	store       Store
	runs        RunRecorder
	transformer *transform.Transformer
	logger      *log.Logger
	workers     int
}

// NewPipeline creates a new Pipeline with the provided dependencies.
func NewPipeline(opts PipelineOpts) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}

	topts := []transform.Option{
		transform.WithMatcher(transform.NewMatcher(opts.Config.MatchThreshold, opts.Config.MatchTopK)),
	}
	if opts.Clock != nil {
		topts = append(topts, transform.WithClock(opts.Clock))
	}

	return &Pipeline{
		config:      opts.Config,
		tracks:      opts.Tracks,
		videos:      opts.Videos,
		store:       opts.Store,
		runs:        opts.Runs,
		transformer: transform.NewTransformer(opts.Logger.WithPrefix("transform"), topts...),
		logger:      opts.Logger,
		workers:     opts.Workers,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Extract pulls raw records from the configured sources.
//
// Failures of a single playlist, region or query are recorded in the dataset's Errors and do
// not stop extraction. It fails with [shared.ErrNoData] when nothing at all was extracted.
func (p *Pipeline) Extract(ctx context.Context, progress chan<- ProgressUpdate) (*models.RawDataset, error) {
	if p.tracks == nil && p.videos == nil {
		return nil, fmt.Errorf("%w: no extraction source configured", shared.ErrServiceUnavailable)
	}

	raw := &models.RawDataset{}
	if p.tracks != nil {
		if err := p.extractTracks(ctx, raw, progress); err != nil {
			return raw, err
		}
	}
	if p.videos != nil {
		if err := p.extractVideos(ctx, raw, progress); err != nil {
			return raw, err
		}
	}

	p.logger.Info("extraction finished", "tracks", len(raw.Tracks), "features", len(raw.Features), "videos", len(raw.Videos), "errors", len(raw.Errors))
	if len(raw.Tracks) == 0 && len(raw.Videos) == 0 {
		return raw, shared.ErrNoData
	}
	return raw, nil
}

func (p *Pipeline) extractTracks(ctx context.Context, raw *models.RawDataset, progress chan<- ProgressUpdate) error {
	ids := p.config.PlaylistIDs
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		tracks, err := p.tracks.PlaylistTracks(ctx, id)
		if err != nil {
			p.note(raw, "playlist %s: %v", id, err)
			continue
		}
		raw.Tracks = append(raw.Tracks, tracks...)
		sendProgress(progress, playlistUpdate(i+1, len(ids), id, len(tracks)))
	}

	if !p.config.EnableAudioFeatures || len(raw.Tracks) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(raw.Tracks))
	trackIDs := make([]string, 0, len(raw.Tracks))
	for _, t := range raw.Tracks {
		id := transform.NormalizeTrack(t).TrackID
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		trackIDs = append(trackIDs, id)
	}

	features, err := p.tracks.AudioFeatures(ctx, trackIDs)
	raw.Features = append(raw.Features, features...)
	if err != nil {
		p.note(raw, "audio features: %v", err)
	}
	sendProgress(progress, featuresUpdate(len(trackIDs), len(features)))
	return ctx.Err()
}

// extractVideos fetches every region chart and search query with a bounded number of
// concurrent requests. Results keep configuration order: regions first, then queries.
func (p *Pipeline) extractVideos(ctx context.Context, raw *models.RawDataset, progress chan<- ProgressUpdate) error {
	regions := p.config.RegionCodes
	queries := SearchQueries(raw.Tracks, p.config.SearchQueriesFromTracks)

	results := make([][]models.RawVideo, len(regions)+len(queries))
	notes := make([]string, len(results))

	var regionsDone, queriesDone counter
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, region := range regions {
		g.Go(func() error {
			videos, err := p.videos.PopularVideos(gctx, region, p.config.MaxResultsPerRegion)
			if err != nil {
				notes[i] = fmt.Sprintf("region %s: %v", region, err)
			}
			results[i] = videos
			sendProgress(progress, regionUpdate(regionsDone.next(), len(regions), region, len(videos)))
			return nil
		})
	}

	for j, q := range queries {
		i := len(regions) + j
		g.Go(func() error {
			videos, err := p.videos.SearchVideos(gctx, q.Artist, q.Track, p.config.MaxResultsPerQuery)
			if err != nil {
				notes[i] = fmt.Sprintf("search %s - %s: %v", q.Artist, q.Track, err)
			}
			results[i] = videos
			sendProgress(progress, searchUpdate(queriesDone.next(), len(queries), q, len(videos)))
			return nil
		})
	}

	_ = g.Wait()

	for i := range results {
		raw.Videos = append(raw.Videos, results[i]...)
		if notes[i] != "" {
			p.note(raw, "%s", notes[i])
		}
	}
	return ctx.Err()
}

// counter numbers progress steps completed by concurrent workers.
type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) next() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return c.n
}

func (p *Pipeline) note(raw *models.RawDataset, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.logger.Error("extraction failed", "detail", msg)
	raw.Errors = append(raw.Errors, msg)
}

// SearchQueries derives directed search queries from the first tracks that carry both an
// artist and a name, deduplicated case-insensitively and capped at limit.
func SearchQueries(tracks []models.RawTrack, limit int) []SearchQuery {
	if limit <= 0 {
		return nil
	}

	seen := make(map[string]bool)
	var queries []SearchQuery
	for _, raw := range tracks {
		t := transform.NormalizeTrack(raw)
		if t.ArtistName == "" || t.Name == "" {
			continue
		}

		key := shared.SearchKey(t.ArtistName, t.Name)
		if seen[key] {
			continue
		}
		seen[key] = true

		queries = append(queries, SearchQuery{Artist: t.ArtistName, Track: t.Name})
		if len(queries) == limit {
			break
		}
	}
	return queries
}

// Transform normalizes the three raw collections concurrently, then runs the correlator and the
// regional aggregator concurrently over the normalized records. The enable_* switches gate
// audio features, correlation and regional analysis.
func (p *Pipeline) Transform(ctx context.Context, raw *models.RawDataset, progress chan<- ProgressUpdate) (*Dataset, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil dataset", shared.ErrInvalidInput)
	}

	ds := &Dataset{}
	var trackSkips, featureSkips, videoSkips []transform.Skip

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		b := p.transformer.Tracks(raw.Tracks)
		ds.Tracks, trackSkips = b.Records, b.Skipped
		return nil
	})
	if p.config.EnableAudioFeatures {
		g.Go(func() error {
			b := p.transformer.Features(raw.Features)
			ds.Features, featureSkips = b.Records, b.Skipped
			return nil
		})
	}
	g.Go(func() error {
		b := p.transformer.Videos(raw.Videos)
		ds.Videos, videoSkips = b.Records, b.Skipped
		return nil
	})
	_ = g.Wait()

	ds.Skipped = slices.Concat(trackSkips, featureSkips, videoSkips)
	sendProgress(progress, normalizeUpdate(ds))

	if err := ctx.Err(); err != nil {
		return ds, err
	}

	g, _ = errgroup.WithContext(ctx)
	if p.config.EnableCorrelation && len(ds.Tracks) > 0 && len(ds.Videos) > 0 {
		g.Go(func() error {
			ds.Correlations = p.transformer.Correlate(ds.Tracks, ds.Videos, ds.Features)
			sendProgress(progress, correlateUpdate(len(ds.Correlations)))
			return nil
		})
	}
	if p.config.EnableRegionalAnalysis && len(ds.Videos) > 0 {
		g.Go(func() error {
			ds.Regions = p.transformer.Regions(ds.Videos)
			sendProgress(progress, aggregateUpdate(len(ds.Regions)))
			return nil
		})
	}
	_ = g.Wait()

	return ds, ctx.Err()
}

// Load upserts the non-empty collections in dependency order: tracks, audio features, videos,
// correlations, regional statistics.
func (p *Pipeline) Load(ctx context.Context, ds *Dataset, progress chan<- ProgressUpdate) ([]models.LoadResult, error) {
	if p.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", shared.ErrInvalidInput)
	}

	batch := p.config.BatchSize
	steps := []struct {
		n    int
		load func() (models.LoadResult, error)
	}{
		{len(ds.Tracks), func() (models.LoadResult, error) { return p.store.UpsertTracks(ctx, ds.Tracks, batch) }},
		{len(ds.Features), func() (models.LoadResult, error) { return p.store.UpsertFeatures(ctx, ds.Features, batch) }},
		{len(ds.Videos), func() (models.LoadResult, error) { return p.store.UpsertVideos(ctx, ds.Videos, batch) }},
		{len(ds.Correlations), func() (models.LoadResult, error) { return p.store.UpsertCorrelations(ctx, ds.Correlations, batch) }},
		{len(ds.Regions), func() (models.LoadResult, error) { return p.store.UpsertRegions(ctx, ds.Regions, batch) }},
	}

	total := 0
	for _, s := range steps {
		if s.n > 0 {
			total++
		}
	}

	var results []models.LoadResult
	for _, s := range steps {
		if s.n == 0 {
			continue
		}

		res, err := s.load()
		results = append(results, res)
		sendProgress(progress, loadUpdate(len(results), total, res))
		p.logger.Info("loaded collection", "collection", res.Collection, "inserted", res.Inserted, "updated", res.Updated, "errors", res.Errors)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Run executes Extract, Transform and Load and records the run. The run is finished even when
// ctx is cancelled so that it never stays in the running state.
func (p *Pipeline) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunResult, error) {
	result := &RunResult{Run: &models.RunStats{}}
	runs := p.runs
	if runs == nil {
		runs = memoryRuns{}
	}
	if err := runs.Start(ctx, result.Run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	err := p.run(ctx, result, progress)

	if ferr := runs.Finish(context.WithoutCancel(ctx), result.Run, err); ferr != nil {
		err = errors.Join(err, fmt.Errorf("failed to finish run: %w", ferr))
	}
	if err != nil {
		p.logger.Error("pipeline run failed", "run", result.Run.ID, "err", err)
	} else {
		p.logger.Info("pipeline run finished", "run", result.Run.ID, "duration", result.Run.Duration())
	}
	return result, err
}

// memoryRuns stamps runs without persisting them.
type memoryRuns struct{}

func (memoryRuns) Start(_ context.Context, run *models.RunStats) error {
	run.ID = shared.GenerateID()
	run.StartedAt = time.Now().UTC()
	run.Status = models.RunRunning
	return nil
}

func (memoryRuns) Finish(_ context.Context, run *models.RunStats, runErr error) error {
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Status = models.RunSucceeded
	if runErr != nil {
		run.Status = models.RunFailed
		run.Error = runErr.Error()
	}
	return nil
}

func (p *Pipeline) run(ctx context.Context, result *RunResult, progress chan<- ProgressUpdate) error {
	logger := p.logger.With("run", result.Run.ID)

	logger.Info("extracting")
	raw, err := p.Extract(ctx, progress)
	result.Raw = raw
	if raw != nil {
		result.Run.ExtractNotes = raw.Errors
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	logger.Info("transforming")
	ds, err := p.Transform(ctx, raw, progress)
	result.Dataset = ds
	if ds != nil {
		result.Run.Counts = ds.Counts()
		result.Run.Skipped = len(ds.Skipped)
	}
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	logger.Info("loading")
	loads, err := p.Load(ctx, ds, progress)
	result.Loads = loads
	for _, l := range loads {
		result.Run.LoadErrors += l.Errors
	}
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// Recorrelate correlates the stored tracks with every stored video appearance and replaces the
// stored correlations with the result.
func (p *Pipeline) Recorrelate(ctx context.Context, progress chan<- ProgressUpdate) ([]models.Correlation, models.LoadResult, error) {
	if p.store == nil {
		return nil, models.LoadResult{}, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}

	tracks, err := p.store.Tracks(ctx)
	if err != nil {
		return nil, models.LoadResult{}, err
	}
	videos, err := p.store.Appearances(ctx)
	if err != nil {
		return nil, models.LoadResult{}, err
	}
	var features []models.AudioFeatures
	if p.config.EnableAudioFeatures {
		if features, err = p.store.Features(ctx); err != nil {
			return nil, models.LoadResult{}, err
		}
	}
	if len(tracks) == 0 || len(videos) == 0 {
		return nil, models.LoadResult{}, fmt.Errorf("%w: need stored tracks and videos", shared.ErrNoData)
	}

	corrs := p.transformer.Correlate(tracks, videos, features)
	sendProgress(progress, correlateUpdate(len(corrs)))

	res, err := p.store.ReplaceCorrelations(ctx, corrs)
	sendProgress(progress, loadUpdate(1, 1, res))
	return corrs, res, err
}

// Reaggregate rebuilds the regional statistics from every stored video appearance and replaces
// the stored statistics with them.
func (p *Pipeline) Reaggregate(ctx context.Context, progress chan<- ProgressUpdate) ([]models.RegionalAggregate, models.LoadResult, error) {
	if p.store == nil {
		return nil, models.LoadResult{}, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}

	videos, err := p.store.Appearances(ctx)
	if err != nil {
		return nil, models.LoadResult{}, err
	}
	if len(videos) == 0 {
		return nil, models.LoadResult{}, fmt.Errorf("%w: no stored videos", shared.ErrNoData)
	}

	regions := p.transformer.Regions(videos)
	sendProgress(progress, aggregateUpdate(len(regions)))

	res, err := p.store.ReplaceRegions(ctx, regions)
	sendProgress(progress, loadUpdate(1, 1, res))
	return regions, res, err
}
