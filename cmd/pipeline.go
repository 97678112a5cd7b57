package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/gofrs/flock"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubecorr/internal/formatter"
	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
	"github.com/desertthunder/tubecorr/internal/tasks"
)

// PipelineRun extracts from the configured sources, transforms and loads, then prints the run summary.
func (r *Runner) PipelineRun(ctx context.Context, cmd *cli.Command) error {
	db, store, runs, err := r.openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	unlock, err := r.lockRun()
	if err != nil {
		return err
	}
	defer unlock()

	useJSON := cmd.Bool("json")

	var progress chan tasks.ProgressUpdate
	stop := func() {}
	if !useJSON {
		progress, stop = r.watch()
	}

	result, err := r.pipeline(store, runs).Run(ctx, progress)
	stop()
	if result == nil {
		return err
	}

	if dump := cmd.String("dump"); dump != "" && result.Raw != nil {
		if derr := tasks.WriteDataset(dump, result.Raw); derr != nil {
			r.logger.Warn("failed to write raw dump", "path", dump, "error", derr)
		} else {
			r.logger.Info("raw dump saved", "path", dump)
		}
	}

	if useJSON {
		if werr := r.writeJSON(map[string]any{"run": result.Run, "loads": result.Loads}, cmd.Bool("pretty")); werr != nil {
			return werr
		}
	} else {
		r.writePlainln("%s", formatter.RenderSummary(result.Run, result.Loads))
	}
	return err
}

// lockRun takes the run lock of the configured database, so that two runs never load into it at once.
func (r *Runner) lockRun() (func(), error) {
	lock := flock.New(r.config.Database.Path + ".lock")

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is held", shared.ErrRunInProgress, lock.Path())
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", "path", lock.Path(), "error", err)
		}
	}, nil
}

// PipelineExtract pulls raw records and writes them to a dump file for a later 'transform'.
func (r *Runner) PipelineExtract(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	output := cmd.String("output")

	progress, stop := r.watch()
	raw, err := r.pipeline(nil, nil).Extract(ctx, progress)
	stop()
	if err != nil {
		return err
	}

	if err := tasks.WriteDataset(output, raw); err != nil {
		return err
	}

	r.writePlain("✓ Extracted %d tracks, %d audio features, %d videos\n", len(raw.Tracks), len(raw.Features), len(raw.Videos))
	for _, note := range raw.Errors {
		r.writePlain("  ! %s\n", note)
	}
	r.writePlain("✓ Saved to %s\n", output)
	return nil
}

// Transform normalizes, correlates and aggregates a raw dump, optionally loading the result.
func (r *Runner) Transform(ctx context.Context, cmd *cli.Command) error {
	raw, err := tasks.ReadDataset(cmd.String("input"))
	if err != nil {
		return err
	}

	var (
		store tasks.Store
		loads []models.LoadResult
	)
	if cmd.Bool("load") {
		db, s, _, err := r.openStore()
		if err != nil {
			return err
		}
		defer db.Close()
		store = s
	} else if err := r.config.Validate(); err != nil {
		return err
	}

	p := tasks.NewPipeline(tasks.PipelineOpts{Config: r.config.Pipeline, Store: store, Logger: r.logger})
	ds, err := p.Transform(ctx, raw, nil)
	if err != nil {
		return err
	}

	if store != nil {
		if loads, err = p.Load(ctx, ds, nil); err != nil {
			return err
		}
	}

	counts := ds.Counts()
	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"counts": counts, "skipped": ds.Skipped, "loads": loads}, cmd.Bool("pretty"))
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r.writePlain("Transformed %s\n", cmd.String("input"))
	for _, k := range keys {
		r.writePlain("  %-16s %d\n", k, counts[k])
	}
	if len(ds.Skipped) > 0 {
		r.writePlain("  %-16s %d\n", "skipped", len(ds.Skipped))
	}
	for _, l := range loads {
		r.writePlain("✓ Loaded %s: %d inserted, %d updated, %d errors\n", l.Collection, l.Inserted, l.Updated, l.Errors)
	}
	if store == nil {
		r.writePlain("(not loaded, pass --load to persist)\n")
	}
	return nil
}
