package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/models"
	th "github.com/desertthunder/tubecorr/internal/testing"
)

func sampleCorrelations() []models.Correlation {
	return []models.Correlation{
		{
			CorrelationID: "t1_v1", TrackID: "t1", VideoID: "v1",
			SpotifyTrackName: "Hello", SpotifyArtistName: "Adele", SpotifyPopularity: 90, SpotifyDurationSeconds: 295,
			YouTubeTitle: "Adele - Hello (Official Video)", YouTubeChannel: "AdeleVEVO", YouTubeViewCount: 1000000,
			SimilarityScore: 0.97, CorrelationStrength: "very_strong", DurationDifferenceSeconds: 5, CrossPlatformScore: 97,
		},
		{
			CorrelationID: "t1_v2", TrackID: "t1", VideoID: "v2",
			SpotifyTrackName: "Hello", SpotifyArtistName: "Adele", SpotifyPopularity: 90, SpotifyDurationSeconds: 295,
			YouTubeTitle: "Hello | Live", YouTubeChannel: "Fan", YouTubeViewCount: 10,
			SimilarityScore: 0.45, CorrelationStrength: "weak", DurationDifferenceSeconds: 60, CrossPlatformScore: 27,
		},
		{
			CorrelationID: "t2_v1", TrackID: "t2", VideoID: "v1",
			SpotifyTrackName: "Someone Like You", SpotifyArtistName: "Adele", SpotifyPopularity: 80, SpotifyDurationSeconds: 285,
			YouTubeTitle: "Adele - Hello (Official Video)", YouTubeChannel: "AdeleVEVO", YouTubeViewCount: 1000000,
			SimilarityScore: 0.31, CorrelationStrength: "weak", DurationDifferenceSeconds: 5, CrossPlatformScore: 94,
		},
	}
}

func sampleRegions() []models.RegionalAggregate {
	return []models.RegionalAggregate{
		{
			RegionCode: "BR", TotalVideos: 2, TotalViews: 3000, TotalLikes: 150, TotalComments: 30,
			MusicVideosCount: 1, OfficialVideosCount: 2, AvgDuration: 245.5, AvgViewsPerVideo: 1500, AvgEngagementRate: 0.06,
			Top5Channels:   []models.RankedCount{{Name: "AdeleVEVO", Count: 2}},
			Top5Categories: []models.RankedCount{{Name: "10", Count: 2}},
		},
		{RegionCode: "unknown", TotalVideos: 1},
	}
}

func TestExporters(t *testing.T) {
	t.Run("CorrelationsCSV", func(t *testing.T) {
		data, err := CorrelationsCSV(sampleCorrelations())
		if err != nil {
			t.Fatalf("CorrelationsCSV failed: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 4 {
			t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[0], "Correlation ID,Track ID,Video ID") {
			t.Errorf("CSV missing headers, got: %s", lines[0])
		}
		if !strings.Contains(lines[1], "t1_v1,t1,v1,Hello,Adele,Adele - Hello (Official Video),AdeleVEVO,0.9700,very_strong,5,90,1000000,97.00") {
			t.Errorf("unexpected first row: %s", lines[1])
		}
	})

	t.Run("RegionsCSV", func(t *testing.T) {
		data, err := RegionsCSV(sampleRegions())
		if err != nil {
			t.Fatalf("RegionsCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "BR,2,3000,150,30,1,2,245.5,1500.0,0.0600,AdeleVEVO,10") {
			t.Errorf("unexpected BR row, got: %s", output)
		}
		if !strings.Contains(output, "unknown,1,0,0,0,0,0,0.0,0.0,0.0000,,") {
			t.Errorf("unexpected unknown row, got: %s", output)
		}
	})

	t.Run("CorrelationsMarkdown", func(t *testing.T) {
		data, err := CorrelationsMarkdown(sampleCorrelations())
		if err != nil {
			t.Fatalf("CorrelationsMarkdown failed: %v", err)
		}

		output := string(data)
		if strings.Count(output, "## Adele - ") != 2 {
			t.Errorf("expected one section per track, got: %s", output)
		}
		if !strings.Contains(output, "**Correlations**: 3") {
			t.Errorf("Markdown missing count")
		}
		if !strings.Contains(output, `| Hello \| Live | Fan | 0.45 | weak | 10 | 60s |`) {
			t.Errorf("Markdown should escape pipes in titles, got: %s", output)
		}
		if strings.Index(output, "Hello (Official Video) | AdeleVEVO | 0.97") > strings.Index(output, "## Adele - Someone Like You") {
			t.Errorf("expected correlations grouped by track")
		}
	})

	t.Run("RegionsMarkdown", func(t *testing.T) {
		data, err := RegionsMarkdown(sampleRegions())
		if err != nil {
			t.Fatalf("RegionsMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "| BR | 2 | 3000 | 1500 | 6.00% | 1 | 2 | 4:05 |") {
			t.Errorf("unexpected BR row, got: %s", output)
		}
		if !strings.Contains(output, "1. AdeleVEVO (2)") {
			t.Errorf("Markdown missing channel ranking")
		}
		if !strings.Contains(output, "## unknown\n\n**Top channels**\n\n_none_") {
			t.Errorf("expected empty rankings for unknown region, got: %s", output)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		data, err := CorrelationsCSV(nil)
		if err != nil {
			t.Fatalf("CorrelationsCSV failed: %v", err)
		}
		if strings.Count(string(data), "\n") != 1 {
			t.Errorf("expected only the header row, got: %q", data)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{295, "4:55"},
		{3723, "1:02:03"},
		{-5, "0:00"},
	}

	for _, tt := range tc {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWriteReport(t *testing.T) {
	tc := []struct {
		format string
		files  []string
	}{
		{FormatCSV, []string{"correlations.csv", "regions.csv"}},
		{FormatMarkdown, []string{"correlations.md", "regions.md"}},
		{FormatJSON, []string{"correlations.json", "regions.json"}},
		{"", []string{"correlations.json", "regions.json"}},
	}

	for _, tt := range tc {
		t.Run(tt.format, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "report")

			result, err := WriteReport(dir, tt.format, sampleCorrelations(), sampleRegions())
			if err != nil {
				t.Fatalf("WriteReport failed: %v", err)
			}

			th.AssertDirExists(t, dir)
			if len(result.Files) != len(tt.files) {
				t.Fatalf("expected %d files, got %v", len(tt.files), result.Files)
			}
			for i, name := range tt.files {
				if want := filepath.Join(dir, name); result.Files[i] != want {
					t.Errorf("file %d = %s, want %s", i, result.Files[i], want)
				}
				th.AssertFileExists(t, result.Files[i])
			}
		})
	}

	t.Run("JSON Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := WriteReport(dir, FormatJSON, sampleCorrelations(), nil); err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}

		var got []models.Correlation
		if err := json.Unmarshal([]byte(th.MustReadFile(t, filepath.Join(dir, "correlations.json"))), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 3 || got[2].CorrelationID != "t2_v1" {
			t.Errorf("unexpected correlations: %+v", got)
		}
	})

	t.Run("Unsupported Format", func(t *testing.T) {
		if _, err := WriteReport(t.TempDir(), "xml", nil, nil); err == nil {
			t.Error("expected error for unsupported format")
		}
	})

	t.Run("Unwritable Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := WriteReport(filepath.Join(file, "sub"), FormatCSV, nil, nil); err == nil {
			t.Error("expected error when the directory cannot be created")
		}
	})
}

func TestRenderSummary(t *testing.T) {
	started := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(1500 * time.Millisecond)

	t.Run("Succeeded", func(t *testing.T) {
		run := &models.RunStats{
			ID: "run-1", Status: models.RunSucceeded, StartedAt: started, FinishedAt: &finished,
			Counts:  map[string]int{"tracks": 2, "videos": 3},
			Skipped: 1, ExtractNotes: []string{"region XX: quota exceeded"},
		}
		loads := []models.LoadResult{{Collection: "tracks", Processed: 2, Inserted: 1, Updated: 1}}

		out := RenderSummary(run, loads)
		for _, want := range []string{"run-1", models.RunSucceeded, "1.5s", "tracks", "videos", "Skipped", "2 processed, 1 inserted, 1 updated", "region XX: quota exceeded"} {
			if !strings.Contains(out, want) {
				t.Errorf("summary missing %q:\n%s", want, out)
			}
		}
		if strings.Index(out, "tracks") > strings.Index(out, "videos") {
			t.Errorf("expected counts sorted by name")
		}
	})

	t.Run("Failed", func(t *testing.T) {
		run := &models.RunStats{ID: "run-2", Status: models.RunFailed, StartedAt: started, Error: "boom", LoadErrors: 4}
		out := RenderSummary(run, nil)
		if !strings.Contains(out, "error: boom") || !strings.Contains(out, "Load errors") {
			t.Errorf("summary missing failure details:\n%s", out)
		}
	})

	t.Run("No Run", func(t *testing.T) {
		if out := RenderSummary(nil, nil); !strings.Contains(out, "no pipeline runs") {
			t.Errorf("unexpected output: %s", out)
		}
	})
}
