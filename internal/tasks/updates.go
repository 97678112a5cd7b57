package tasks

import (
	"fmt"

	"github.com/desertthunder/tubecorr/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ExtractTracks Phase = iota
	ExtractFeatures
	ExtractPopular
	ExtractSearch
	Normalize
	Correlate
	Aggregate
	Load
	Export
)

func (p Phase) String() string {
	switch p {
	case ExtractTracks:
		return "extract_tracks"
	case ExtractFeatures:
		return "extract_features"
	case ExtractPopular:
		return "extract_popular"
	case ExtractSearch:
		return "extract_search"
	case Normalize:
		return "normalize"
	case Correlate:
		return "correlate"
	case Aggregate:
		return "aggregate"
	case Load:
		return "load"
	case Export:
		return "export"
	default:
		return ""
	}
}

func playlistUpdate(step, total int, playlistID string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Playlist %s: %d tracks", step, total, playlistID, count),
	}
}

func featuresUpdate(requested, received int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractFeatures,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Audio features: %d of %d tracks", received, requested),
	}
}

func regionUpdate(step, total int, region string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractPopular,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Region %s: %d videos", step, total, region, count),
	}
}

func searchUpdate(step, total int, q SearchQuery, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractSearch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s: %d videos", step, total, q.Artist, q.Track, count),
	}
}

func normalizeUpdate(ds *Dataset) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Normalize,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Normalized %d tracks, %d features, %d videos (%d skipped)", len(ds.Tracks), len(ds.Features), len(ds.Videos), len(ds.Skipped)),
	}
}

func correlateUpdate(n int) ProgressUpdate {
	return ProgressUpdate{Phase: Correlate, Step: 1, Total: 1, Message: fmt.Sprintf("Correlated %d track/video pairs", n)}
}

func aggregateUpdate(n int) ProgressUpdate {
	return ProgressUpdate{Phase: Aggregate, Step: 1, Total: 1, Message: fmt.Sprintf("Aggregated %d regions", n)}
}

func loadUpdate(step, total int, res models.LoadResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Load,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %d inserted, %d updated, %d errors", step, total, res.Collection, res.Inserted, res.Updated, res.Errors),
		Data:    res,
	}
}

func exportUpdate(files []string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Export,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote %d files", len(files)),
		Data:    files,
	}
}
