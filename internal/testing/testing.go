// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tubecorr/internal/models"
)

// MockTrackSource is a test double for services.TrackSource.
//
// Playlists maps playlist ids to their raw tracks; ids missing from the map fail with PlaylistErr.
type MockTrackSource struct {
	Playlists   map[string][]models.RawTrack
	Features    []models.RawAudioFeatures
	PlaylistErr error
	FeaturesErr error

	mu        sync.Mutex
	Requested []string
}

func (m *MockTrackSource) PlaylistTracks(ctx context.Context, playlistID string) ([]models.RawTrack, error) {
	tracks, ok := m.Playlists[playlistID]
	if !ok {
		err := m.PlaylistErr
		if err == nil {
			err = errors.New("playlist not found")
		}
		return nil, err
	}
	return tracks, nil
}

func (m *MockTrackSource) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.RawAudioFeatures, error) {
	m.mu.Lock()
	m.Requested = append(m.Requested, trackIDs...)
	m.mu.Unlock()
	if m.FeaturesErr != nil {
		return nil, m.FeaturesErr
	}
	return m.Features, nil
}

func (m *MockTrackSource) Name() string { return "mock-tracks" }

// MockVideoSource is a test double for services.VideoSource. Calls may arrive concurrently.
type MockVideoSource struct {
	Popular   map[string][]models.RawVideo
	Search    map[string][]models.RawVideo // keyed by "artist|track" as given
	RegionErr error

	mu       sync.Mutex
	Searches []string
}

func (m *MockVideoSource) PopularVideos(ctx context.Context, region string, limit int) ([]models.RawVideo, error) {
	if m.RegionErr != nil {
		return nil, m.RegionErr
	}
	videos := m.Popular[region]
	return videos[:min(limit, len(videos))], nil
}

func (m *MockVideoSource) SearchVideos(ctx context.Context, artist, track string, limit int) ([]models.RawVideo, error) {
	m.mu.Lock()
	m.Searches = append(m.Searches, artist+"|"+track)
	m.mu.Unlock()
	videos := m.Search[artist+"|"+track]
	return videos[:min(limit, len(videos))], nil
}

func (m *MockVideoSource) Name() string { return "mock-videos" }

// RawTrack builds a raw track with the fields the matcher reads.
func RawTrack(id, name, artist string, popularity, durationMS int) models.RawTrack {
	return models.RawTrack{
		TrackID:    models.V(id),
		Name:       models.V(name),
		ArtistName: models.V(artist),
		Artists:    models.V([]string{artist}),
		Popularity: models.V(popularity),
		DurationMS: models.V(durationMS),
	}
}

// RawVideo builds a raw video with a title, channel and view count.
func RawVideo(id, title, channel string, views int64) models.RawVideo {
	return models.RawVideo{
		VideoID:      models.V(id),
		Title:        models.V(title),
		ChannelTitle: models.V(channel),
		ViewCount:    models.V(views),
		Duration:     models.V("PT4M50S"),
		CategoryID:   models.V("10"),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
