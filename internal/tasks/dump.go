package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/tubecorr/internal/formatter"
	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// WriteDataset dumps a raw extraction as indented JSON. Absent raw fields stay absent in the file.
func WriteDataset(path string, raw *models.RawDataset) error {
	if raw == nil {
		return fmt.Errorf("%w: nil dataset", shared.ErrInvalidInput)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// ReadDataset reads a raw extraction written by [WriteDataset] or produced by another extractor
// with the same record shapes.
func ReadDataset(path string) (*models.RawDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var raw models.RawDataset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %v", shared.ErrInvalidInput, path, err)
	}
	return &raw, nil
}

// ReportSource reads the stored results a report is built from.
type ReportSource interface {
	TopCorrelations(ctx context.Context, limit int) ([]models.Correlation, error)
	Regions(ctx context.Context) ([]models.RegionalAggregate, error)
}

// ExportOpts contains configuration for report exports.
type ExportOpts struct {
	Format    string // csv, markdown or json
	OutputDir string // defaults to tubecorr_export_{epoch}
	Limit     int    // maximum correlations, highest score first; non-positive exports all
}

// ExportReport writes the stored correlations and regional statistics to opts.OutputDir.
func ExportReport(ctx context.Context, src ReportSource, opts ExportOpts, progress chan<- ProgressUpdate) (*formatter.ReportResult, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tubecorr_export_%d", time.Now().Unix())
	}

	corrs, err := src.TopCorrelations(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read correlations: %w", err)
	}
	regions, err := src.Regions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}

	result, err := formatter.WriteReport(opts.OutputDir, opts.Format, corrs, regions)
	if err != nil {
		return nil, err
	}
	sendProgress(progress, exportUpdate(result.Files))
	return result, nil
}
