// package services defines the extraction sources and their HTTP clients
//
// Spotify (client credentials), YouTube Data API (API key)
package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

// TrackSource extracts tracks and their audio features.
type TrackSource interface {
	// PlaylistTracks returns every track of a playlist, stamped with source_playlist_id.
	PlaylistTracks(ctx context.Context, playlistID string) ([]models.RawTrack, error)

	// AudioFeatures returns the audio features of the given tracks. Tracks without features are omitted.
	AudioFeatures(ctx context.Context, trackIDs []string) ([]models.RawAudioFeatures, error)

	// Name returns the name of the service
	Name() string
}

// VideoSource extracts videos.
type VideoSource interface {
	// PopularVideos returns up to limit videos from the most-popular chart of region.
	PopularVideos(ctx context.Context, region string, limit int) ([]models.RawVideo, error)

	// SearchVideos returns up to limit videos for a directed artist/track query.
	SearchVideos(ctx context.Context, artist, track string, limit int) ([]models.RawVideo, error)

	// Name returns the name of the service
	Name() string
}

// Option configures a service client.
type Option func(*client)

// WithHTTPClient sets the HTTP client used for API requests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *client) { cl.http = c }
}

// WithClock replaces [time.Now] for extraction timestamps.
func WithClock(now func() time.Time) Option {
	return func(cl *client) { cl.now = now }
}

// client is the HTTP plumbing shared by the service implementations.
type client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

func newClient(name string, requestsPerSecond float64, opts ...Option) *client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	c := &client{
		name:    name,
		http:    http.DefaultClient,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) timestamp() string {
	return c.now().UTC().Format(time.RFC3339)
}

// apiError is returned for non-2xx responses. It unwraps to [shared.ErrAPIRequest] and, when
// Sentinel is set, to the more specific error as well.
type apiError struct {
	Service  string
	Status   int
	Body     string
	Sentinel error
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Service, e.Status, e.Body)
}

func (e *apiError) Unwrap() []error {
	if e.Sentinel != nil {
		return []error{shared.ErrAPIRequest, e.Sentinel}
	}
	return []error{shared.ErrAPIRequest}
}

// getJSON waits for the rate limiter, performs a GET request and decodes the JSON response into result.
func (c *client) getJSON(ctx context.Context, httpClient *http.Client, url string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s request failed: %w", shared.ErrServiceUnavailable, c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &apiError{Service: c.name, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// chunk splits ids into slices of at most size elements.
func chunk(ids []string, size int) [][]string {
	var out [][]string
	for size < len(ids) {
		ids, out = ids[size:], append(out, ids[:size:size])
	}
	if len(ids) > 0 {
		out = append(out, ids)
	}
	return out
}
