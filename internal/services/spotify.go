// Spotify Web API implementation of [TrackSource]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/tubecorr/internal/models"
	"github.com/desertthunder/tubecorr/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageSize  = 100
	audioFeaturesPage = 100
)

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Artists          []SpotifyArtist `json:"artists"`
	Album            SpotifyAlbum    `json:"album"`
	DurationMS       int             `json:"duration_ms"`
	Explicit         bool            `json:"explicit"`
	Popularity       int             `json:"popularity"`
	PreviewURL       string          `json:"preview_url"`
	AvailableMarkets []string        `json:"available_markets"`
	DiscNumber       int             `json:"disc_number"`
	TrackNumber      int             `json:"track_number"`
	IsLocal          bool            `json:"is_local"`
}

// SpotifyPlaylistTrack represents a track within a playlist context. Track is nil for removed
// or unavailable items.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks represents one page of playlist items.
type SpotifyPlaylistTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyService implements [TrackSource] for the Spotify Web API.
// Uses the [clientcredentials] grant; the token is fetched on first use and refreshed automatically.
type SpotifyService struct {
	*client
	config  *clientcredentials.Config
	baseURL string

	mu     sync.Mutex
	authed *http.Client
}

// NewSpotifyService creates a new Spotify service from the configured credentials.
func NewSpotifyService(cfg shared.SpotifyConfig, requestsPerSecond float64, opts ...Option) (*SpotifyService, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("%w: missing spotify client_id", shared.ErrMissingCredentials)
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: missing spotify client_secret", shared.ErrMissingCredentials)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}

	return &SpotifyService{
		client: newClient("spotify", requestsPerSecond, opts...),
		config: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     tokenURL,
		},
		baseURL: baseURL,
	}, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate requests an app token to verify the credentials and prepares the authorized client.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticate(ctx)
}

func (s *SpotifyService) authenticate(ctx context.Context) error {
	// Token refreshes outlive the request that triggered the first fetch.
	base := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, s.http)

	tok, err := s.config.Token(base)
	if err != nil {
		return fmt.Errorf("%w: spotify token request: %w", shared.ErrAuthFailed, err)
	}

	s.authed = oauth2.NewClient(base, oauth2.ReuseTokenSource(tok, s.config.TokenSource(base)))
	return nil
}

func (s *SpotifyService) httpClient(ctx context.Context) (*http.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authed == nil {
		if err := s.authenticate(ctx); err != nil {
			return nil, err
		}
	}
	return s.authed, nil
}

func (s *SpotifyService) get(ctx context.Context, url string, result any) error {
	hc, err := s.httpClient(ctx)
	if err != nil {
		return err
	}
	return s.getJSON(ctx, hc, url, result)
}

// PlaylistTracks returns every track of a playlist by following the paging "next" links.
// Items without a track or track id are skipped.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) ([]models.RawTrack, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	next := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", s.baseURL, url.PathEscape(playlistID), playlistPageSize)
	extractedAt := s.timestamp()

	var tracks []models.RawTrack
	for next != "" {
		var page SpotifyPlaylistTracks
		if err := s.get(ctx, next, &page); err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				apiErr.Sentinel = shared.ErrPlaylistNotFound
			}
			return nil, fmt.Errorf("playlist %s: %w", playlistID, err)
		}

		for _, item := range page.Items {
			if item.Track == nil || item.Track.ID == "" {
				continue
			}
			tracks = append(tracks, rawTrack(*item.Track, playlistID, extractedAt))
		}

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}

	return tracks, nil
}

// AudioFeatures requests features in chunks of 100 ids. Ids Spotify has no analysis for come
// back as null and are omitted.
func (s *SpotifyService) AudioFeatures(ctx context.Context, trackIDs []string) ([]models.RawAudioFeatures, error) {
	extractedAt := models.V(s.timestamp())

	var features []models.RawAudioFeatures
	for _, ids := range chunk(trackIDs, audioFeaturesPage) {
		endpoint := fmt.Sprintf("%s/audio-features?ids=%s", s.baseURL, url.QueryEscape(strings.Join(ids, ",")))

		var response struct {
			AudioFeatures []*models.RawAudioFeatures `json:"audio_features"`
		}
		if err := s.get(ctx, endpoint, &response); err != nil {
			return features, fmt.Errorf("audio features: %w", err)
		}

		for _, f := range response.AudioFeatures {
			if f == nil {
				continue
			}
			f.ExtractionTimestamp = extractedAt
			features = append(features, *f)
		}
	}

	return features, nil
}

// rawTrack flattens a playlist track into the extractor's record shape.
func rawTrack(t SpotifyTrack, playlistID, extractedAt string) models.RawTrack {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	raw := models.RawTrack{
		TrackID:             models.V(t.ID),
		Name:                models.V(t.Name),
		Artists:             models.V(artists),
		AlbumID:             models.V(t.Album.ID),
		AlbumName:           models.V(t.Album.Name),
		Popularity:          models.V(t.Popularity),
		DurationMS:          models.V(t.DurationMS),
		Explicit:            models.V(t.Explicit),
		IsLocal:             models.V(t.IsLocal),
		PreviewURL:          models.V(t.PreviewURL),
		ReleaseDate:         models.V(t.Album.ReleaseDate),
		TotalTracks:         models.V(t.Album.TotalTracks),
		DiscNumber:          models.V(t.DiscNumber),
		TrackNumber:         models.V(t.TrackNumber),
		AvailableMarkets:    models.V(t.AvailableMarkets),
		ExtractionTimestamp: models.V(extractedAt),
		SourcePlaylistID:    models.V(playlistID),
	}
	if len(artists) > 0 {
		raw.ArtistName = models.V(artists[0])
	}
	return raw
}
