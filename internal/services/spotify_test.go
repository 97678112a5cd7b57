package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/desertthunder/tubecorr/internal/shared"
	"github.com/desertthunder/tubecorr/internal/transform"
)

// spotifyServer fakes the token endpoint and the playlist/audio-features endpoints.
func spotifyServer(t *testing.T, tokenRequests *atomic.Int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			http.Error(w, "bad grant", http.StatusBadRequest)
			return
		}
		id, secret, ok := r.BasicAuth()
		if !ok {
			id, secret = r.Form.Get("client_id"), r.Form.Get("client_secret")
		}
		if id != "id" || secret != "secret" {
			http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"app-token","token_type":"Bearer","expires_in":3600}`)
	})

	mux.HandleFunc("GET /v1/playlists/{id}/tracks", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer app-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if r.PathValue("id") != "pl1" {
			http.Error(w, `{"error":{"status":404}}`, http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "" {
			next := srv.URL + "/v1/playlists/pl1/tracks?offset=2&limit=100"
			fmt.Fprintf(w, `{"items": [
				{"track": {"id": "t1", "name": "Hello", "artists": [{"name": "Adele"}], "album": {"id": "a1", "name": "25", "release_date": "2015", "total_tracks": 11}, "popularity": 90, "duration_ms": 295000, "available_markets": ["US", "GB"], "disc_number": 1, "track_number": 1}},
				{"track": null}
			], "total": 3, "next": %q}`, next)
			return
		}
		fmt.Fprint(w, `{"items": [
			{"track": {"id": "t2", "name": "Under Pressure", "artists": [{"name": "Queen"}, {"name": "David Bowie"}], "album": {"id": "a2"}, "popularity": 85}},
			{"track": {"id": "", "name": "local file", "is_local": true}}
		], "total": 3, "next": null}`)
	})

	mux.HandleFunc("GET /v1/audio-features", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		items := make([]any, 0, len(ids))
		for _, id := range ids {
			if id == "missing" {
				items = append(items, nil)
				continue
			}
			items = append(items, map[string]any{"id": id, "danceability": 0.8, "energy": "0.5", "key": 5, "mode": 1})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"audio_features": items})
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestSpotify(t *testing.T, srv *httptest.Server, secret string) *SpotifyService {
	t.Helper()
	svc, err := NewSpotifyService(shared.SpotifyConfig{
		ClientID:     "id",
		ClientSecret: secret,
		TokenURL:     srv.URL + "/token",
		BaseURL:      srv.URL + "/v1",
	}, 0, WithClock(func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }))
	if err != nil {
		t.Fatalf("failed to create spotify service: %v", err)
	}
	return svc
}

func TestSpotifyService(t *testing.T) {
	ctx := context.Background()

	t.Run("NewSpotifyService", func(t *testing.T) {
		tc := []struct {
			name string
			cfg  shared.SpotifyConfig
		}{
			{name: "Missing Client ID", cfg: shared.SpotifyConfig{ClientSecret: "s"}},
			{name: "Missing Client Secret", cfg: shared.SpotifyConfig{ClientID: "i"}},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := NewSpotifyService(tt.cfg, 1); !errors.Is(err, shared.ErrMissingCredentials) {
					t.Errorf("expected ErrMissingCredentials, got %v", err)
				}
			})
		}

		t.Run("Defaults", func(t *testing.T) {
			svc, err := NewSpotifyService(shared.SpotifyConfig{ClientID: "i", ClientSecret: "s"}, 1)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc.baseURL != spotifyBaseURL || svc.config.TokenURL != spotifyTokenURL {
				t.Errorf("unexpected defaults: %s %s", svc.baseURL, svc.config.TokenURL)
			}
			if svc.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", svc.Name())
			}
		})
	})

	t.Run("Authenticate", func(t *testing.T) {
		var tokens atomic.Int32
		srv := spotifyServer(t, &tokens)

		if err := newTestSpotify(t, srv, "secret").Authenticate(ctx); err != nil {
			t.Errorf("expected authentication to succeed, got %v", err)
		}
		if err := newTestSpotify(t, srv, "wrong").Authenticate(ctx); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("PlaylistTracks", func(t *testing.T) {
		var tokens atomic.Int32
		srv := spotifyServer(t, &tokens)
		svc := newTestSpotify(t, srv, "secret")

		raws, err := svc.PlaylistTracks(ctx, "pl1")
		if err != nil {
			t.Fatalf("PlaylistTracks() error = %v", err)
		}
		if len(raws) != 2 {
			t.Fatalf("expected 2 tracks across pages, got %d", len(raws))
		}
		if tokens.Load() != 1 {
			t.Errorf("expected one token request, got %d", tokens.Load())
		}

		first := transform.NormalizeTrack(raws[0])
		if first.TrackID != "t1" || first.ArtistName != "Adele" || first.ReleaseDate != "2015-01-01" || first.MarketCount != 2 {
			t.Errorf("unexpected first track: %+v", first)
		}
		if first.SourcePlaylistID != "pl1" || first.ExtractionTimestamp != "2025-03-01T00:00:00Z" {
			t.Errorf("missing extraction metadata: %+v", first)
		}

		second := transform.NormalizeTrack(raws[1])
		if !second.IsCollaboration || second.ArtistName != "Queen" {
			t.Errorf("unexpected second track: %+v", second)
		}
	})

	t.Run("PlaylistNotFound", func(t *testing.T) {
		var tokens atomic.Int32
		svc := newTestSpotify(t, spotifyServer(t, &tokens), "secret")

		_, err := svc.PlaylistTracks(ctx, "nope")
		if !errors.Is(err, shared.ErrPlaylistNotFound) || !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrPlaylistNotFound and ErrAPIRequest, got %v", err)
		}

		if _, err := svc.PlaylistTracks(ctx, ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("AudioFeatures", func(t *testing.T) {
		var tokens atomic.Int32
		svc := newTestSpotify(t, spotifyServer(t, &tokens), "secret")

		ids := make([]string, 0, 150)
		for i := range 149 {
			ids = append(ids, fmt.Sprintf("t%d", i))
		}
		ids = append(ids, "missing")

		raws, err := svc.AudioFeatures(ctx, ids)
		if err != nil {
			t.Fatalf("AudioFeatures() error = %v", err)
		}
		if len(raws) != 149 {
			t.Fatalf("expected 149 feature records, got %d", len(raws))
		}

		f := transform.NormalizeFeatures(raws[0])
		if f.TrackID != "t0" || f.Danceability != 0.8 || f.Energy != 0.5 || f.Key != 5 || f.TimeSignature != 4 {
			t.Errorf("unexpected features: %+v", f)
		}
	})
}

func TestChunk(t *testing.T) {
	tc := []struct {
		n    int
		size int
		want []int
	}{
		{n: 0, size: 100, want: nil},
		{n: 100, size: 100, want: []int{100}},
		{n: 250, size: 100, want: []int{100, 100, 50}},
	}

	for _, tt := range tc {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			ids := make([]string, tt.n)
			got := chunk(ids, tt.size)
			if len(got) != len(tt.want) {
				t.Fatalf("chunk() = %d chunks, want %d", len(got), len(tt.want))
			}
			for i, c := range got {
				if len(c) != tt.want[i] {
					t.Errorf("chunk %d has %d ids, want %d", i, len(c), tt.want[i])
				}
			}
		})
	}
}
