// package formatter renders correlations and regional statistics as CSV, Markdown or JSON reports,
// and pipeline runs as styled terminal summaries
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/models"
)

// Report formats
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

var (
	correlationHeaders = []string{
		"Correlation ID", "Track ID", "Video ID", "Track", "Artist", "Video Title", "Channel",
		"Similarity", "Strength", "Duration Diff", "Popularity", "Views", "Cross Platform Score",
	}
	regionHeaders = []string{
		"Region", "Videos", "Views", "Likes", "Comments", "Music Videos", "Official Videos",
		"Avg Duration", "Avg Views", "Engagement Rate", "Top Channel", "Top Category",
	}
)

// CorrelationsCSV converts correlations to CSV with one row per track/video pair.
func CorrelationsCSV(corrs []models.Correlation) ([]byte, error) {
	rows := make([][]string, 0, len(corrs))
	for _, c := range corrs {
		rows = append(rows, []string{
			c.CorrelationID,
			c.TrackID,
			c.VideoID,
			c.SpotifyTrackName,
			c.SpotifyArtistName,
			c.YouTubeTitle,
			c.YouTubeChannel,
			strconv.FormatFloat(c.SimilarityScore, 'f', 4, 64),
			c.CorrelationStrength,
			strconv.Itoa(c.DurationDifferenceSeconds),
			strconv.Itoa(c.SpotifyPopularity),
			strconv.FormatInt(c.YouTubeViewCount, 10),
			strconv.FormatFloat(c.CrossPlatformScore, 'f', 2, 64),
		})
	}
	return writeCSV(correlationHeaders, rows)
}

// RegionsCSV converts regional aggregates to CSV with one row per region code.
func RegionsCSV(regions []models.RegionalAggregate) ([]byte, error) {
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		rows = append(rows, []string{
			r.RegionCode,
			strconv.Itoa(r.TotalVideos),
			strconv.FormatInt(r.TotalViews, 10),
			strconv.FormatInt(r.TotalLikes, 10),
			strconv.FormatInt(r.TotalComments, 10),
			strconv.Itoa(r.MusicVideosCount),
			strconv.Itoa(r.OfficialVideosCount),
			strconv.FormatFloat(r.AvgDuration, 'f', 1, 64),
			strconv.FormatFloat(r.AvgViewsPerVideo, 'f', 1, 64),
			strconv.FormatFloat(r.AvgEngagementRate, 'f', 4, 64),
			leader(r.Top5Channels),
			leader(r.Top5Categories),
		})
	}
	return writeCSV(regionHeaders, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// CorrelationsMarkdown renders correlations grouped by track, strongest match first within each track.
func CorrelationsMarkdown(corrs []models.Correlation) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Track ↔ Video Correlations\n\n")
	fmt.Fprintf(&buf, "**Correlations**: %d\n\n", len(corrs))

	for i, c := range corrs {
		if i == 0 || corrs[i-1].TrackID != c.TrackID {
			if i > 0 {
				buf.WriteString("\n")
			}
			fmt.Fprintf(&buf, "## %s - %s\n\n", escape(c.SpotifyArtistName), escape(c.SpotifyTrackName))
			fmt.Fprintf(&buf, "Popularity %d, %s\n\n", c.SpotifyPopularity, FormatDuration(c.SpotifyDurationSeconds))
			buf.WriteString("| Video | Channel | Similarity | Strength | Views | Duration Diff |\n")
			buf.WriteString("|---|---|---|---|---|---|\n")
		}
		fmt.Fprintf(&buf, "| %s | %s | %.2f | %s | %d | %ds |\n",
			escape(c.YouTubeTitle), escape(c.YouTubeChannel), c.SimilarityScore,
			c.CorrelationStrength, c.YouTubeViewCount, c.DurationDifferenceSeconds)
	}

	return buf.Bytes(), nil
}

// RegionsMarkdown renders regional aggregates as a table followed by the per-region rankings.
func RegionsMarkdown(regions []models.RegionalAggregate) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Regional Engagement\n\n")
	fmt.Fprintf(&buf, "**Regions**: %d\n\n", len(regions))

	buf.WriteString("| Region | Videos | Views | Avg Views | Engagement | Music | Official | Avg Duration |\n")
	buf.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, r := range regions {
		fmt.Fprintf(&buf, "| %s | %d | %d | %.0f | %.2f%% | %d | %d | %s |\n",
			r.RegionCode, r.TotalVideos, r.TotalViews, r.AvgViewsPerVideo, r.AvgEngagementRate*100,
			r.MusicVideosCount, r.OfficialVideosCount, FormatDuration(int(r.AvgDuration)))
	}

	for _, r := range regions {
		fmt.Fprintf(&buf, "\n## %s\n\n", r.RegionCode)
		writeRanking(&buf, "Top channels", r.Top5Channels)
		writeRanking(&buf, "Top categories", r.Top5Categories)
	}

	return buf.Bytes(), nil
}

func writeRanking(buf *bytes.Buffer, title string, ranked []models.RankedCount) {
	fmt.Fprintf(buf, "**%s**\n\n", title)
	if len(ranked) == 0 {
		buf.WriteString("_none_\n\n")
		return
	}
	for i, rc := range ranked {
		fmt.Fprintf(buf, "%d. %s (%d)\n", i+1, escape(rc.Name), rc.Count)
	}
	buf.WriteString("\n")
}

// ToJSON marshals v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// FormatDuration formats seconds as m:ss, or h:mm:ss from one hour up.
func FormatDuration(seconds int) string {
	seconds = max(seconds, 0)
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func leader(ranked []models.RankedCount) string {
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Name
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// ReportResult contains the paths of files created by [WriteReport]
type ReportResult struct {
	Directory string
	Files     []string
}

// WriteReport writes correlations and regional statistics to dir in the given format.
//
// Creates correlations.{ext} and regions.{ext}; an empty format defaults to JSON.
func WriteReport(dir, format string, corrs []models.Correlation, regions []models.RegionalAggregate) (*ReportResult, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		corrData, regionData []byte
		ext                  string
		err                  error
	)

	switch format {
	case FormatCSV:
		ext = "csv"
		if corrData, err = CorrelationsCSV(corrs); err == nil {
			regionData, err = RegionsCSV(regions)
		}
	case FormatMarkdown:
		ext = "md"
		if corrData, err = CorrelationsMarkdown(corrs); err == nil {
			regionData, err = RegionsMarkdown(regions)
		}
	case FormatJSON, "":
		ext = "json"
		if corrData, err = ToJSON(corrs); err == nil {
			regionData, err = ToJSON(regions)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s report: %w", ext, err)
	}

	result := &ReportResult{Directory: dir}
	for _, f := range []struct {
		name string
		data []byte
	}{
		{"correlations", corrData},
		{"regions", regionData},
	} {
		path := filepath.Join(dir, f.name+"."+ext)
		if err := os.WriteFile(path, f.data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
	}
	return result, nil
}
