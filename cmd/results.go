package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubecorr/internal/formatter"
	"github.com/desertthunder/tubecorr/internal/shared"
	"github.com/desertthunder/tubecorr/internal/tasks"
)

// Correlate rebuilds correlations from the stored tracks and videos and prints the best ones.
func (r *Runner) Correlate(ctx context.Context, cmd *cli.Command) error {
	db, store, _, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	p := tasks.NewPipeline(tasks.PipelineOpts{Config: r.config.Pipeline, Store: store, Logger: r.logger})
	if _, _, err := p.Recorrelate(ctx, nil); err != nil {
		return err
	}

	top, err := store.TopCorrelations(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(top, cmd.Bool("pretty"))
	}

	rows := make([][]string, 0, len(top))
	for i, c := range top {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.SpotifyArtistName + " - " + c.SpotifyTrackName,
			c.YouTubeTitle,
			fmt.Sprintf("%.3f", c.SimilarityScore),
			c.CorrelationStrength,
			strconv.FormatInt(c.YouTubeViewCount, 10),
			formatter.FormatDuration(c.SpotifyDurationSeconds) + " / " + formatter.FormatDuration(c.YouTubeDurationSeconds),
		})
	}

	r.writePlain("Top %d correlations:\n", len(top))
	r.writePlain("%s\n", renderTable(
		[]string{"#", "Track", "Video", "Score", "Strength", "Views", "Duration"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight},
	))
	return nil
}

// Regions rebuilds the regional statistics from the stored videos and prints them.
func (r *Runner) Regions(ctx context.Context, cmd *cli.Command) error {
	db, store, _, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	p := tasks.NewPipeline(tasks.PipelineOpts{Config: r.config.Pipeline, Store: store, Logger: r.logger})
	if _, _, err := p.Reaggregate(ctx, nil); err != nil {
		return err
	}

	regions, err := store.Regions(ctx)
	if err != nil {
		return err
	}
	if cmd.Bool("json") {
		return r.writeJSON(regions, cmd.Bool("pretty"))
	}

	rows := make([][]string, 0, len(regions))
	for _, a := range regions {
		channel := "-"
		if len(a.Top5Channels) > 0 {
			channel = a.Top5Channels[0].Name
		}
		rows = append(rows, []string{
			a.RegionCode,
			strconv.Itoa(a.TotalVideos),
			strconv.FormatInt(a.TotalViews, 10),
			strconv.Itoa(a.MusicVideosCount),
			strconv.Itoa(a.OfficialVideosCount),
			fmt.Sprintf("%.4f", a.AvgEngagementRate),
			channel,
		})
	}

	r.writePlain("%s\n", renderTable(
		[]string{"Region", "Videos", "Views", "Music", "Official", "Engagement", "Top channel"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft},
	))
	return nil
}

// Export writes the stored correlations and regional statistics as report files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	db, store, _, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	progress, stop := r.watch()
	result, err := tasks.ExportReport(ctx, store, tasks.ExportOpts{
		Format:    cmd.String("format"),
		OutputDir: cmd.String("dir"),
		Limit:     int(cmd.Int("limit")),
	}, progress)
	stop()
	if err != nil {
		return err
	}

	r.writePlain("✓ Report written to %s\n", result.Directory)
	for _, f := range result.Files {
		r.writePlain("  %s\n", f)
	}
	return nil
}

// Stats prints the stored record counts, the latest run summary and recent runs.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	db, store, runs, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	recent, err := runs.List(ctx, int(cmd.Int("runs")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"counts": counts, "runs": recent}, cmd.Bool("pretty"))
	}

	rows := [][]string{}
	for _, k := range []string{"tracks", "audio_features", "videos", "correlations", "regional_stats"} {
		rows = append(rows, []string{k, strconv.Itoa(counts[k])})
	}
	r.writePlain("%s\n", renderTable([]string{"Collection", "Records"}, rows, []columnAlignment{alignLeft, alignRight}))

	latest, err := runs.Latest(ctx)
	if err != nil && !errors.Is(err, shared.ErrRunNotFound) {
		return err
	}
	r.writePlainln("%s", formatter.RenderSummary(latest, nil))

	if len(recent) > 1 {
		rows = rows[:0]
		for _, run := range recent {
			rows = append(rows, []string{run.StartedAt.Format("2006-01-02 15:04:05"), run.Status, run.ID})
		}
		r.writePlainln("Recent runs:")
		r.writePlain("%s\n", renderTable([]string{"Started", "Status", "ID"}, rows, nil))
	}
	return nil
}
