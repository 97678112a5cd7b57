package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Pipeline    PipelineConfig    `toml:"pipeline"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
	YouTube YouTubeConfig `toml:"youtube"`
}

// SpotifyConfig contains Spotify client-credentials settings. The URLs are only overridden in tests.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenURL     string `toml:"token_url"`
	BaseURL      string `toml:"base_url"`
}

// YouTubeConfig contains YouTube Data API settings.
type YouTubeConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PipelineConfig controls what is extracted and how records are matched and loaded.
type PipelineConfig struct {
	PlaylistIDs             []string `toml:"playlist_ids"`
	RegionCodes             []string `toml:"region_codes"`
	MaxResultsPerRegion     int      `toml:"max_results_per_region"`
	SearchQueriesFromTracks int      `toml:"search_queries_from_tracks"`
	MaxResultsPerQuery      int      `toml:"max_results_per_query"`

	EnableAudioFeatures    bool `toml:"enable_audio_features"`
	EnableCorrelation      bool `toml:"enable_correlation"`
	EnableRegionalAnalysis bool `toml:"enable_regional_analysis"`

	MatchThreshold    float64 `toml:"match_threshold"`
	MatchTopK         int     `toml:"match_top_k"`
	BatchSize         int     `toml:"batch_size"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults, and credentials can be supplied
// through the environment.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.ApplyEnv(os.Getenv)
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials with SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET and YOUTUBE_API_KEY
// when they are set. getenv is usually [os.Getenv].
func (c *Config) ApplyEnv(getenv func(string) string) {
	for _, o := range []struct {
		key string
		dst *string
	}{
		{"SPOTIFY_CLIENT_ID", &c.Credentials.Spotify.ClientID},
		{"SPOTIFY_CLIENT_SECRET", &c.Credentials.Spotify.ClientSecret},
		{"YOUTUBE_API_KEY", &c.Credentials.YouTube.APIKey},
	} {
		if v := getenv(o.key); v != "" {
			*o.dst = v
		}
	}
}

// Validate reports the first invalid pipeline or database setting, wrapped in [ErrInvalidConfig].
func (c *Config) Validate() error {
	p := c.Pipeline
	switch {
	case c.Database.Path == "":
		return fmt.Errorf("%w: database.path is empty", ErrInvalidConfig)
	case p.MatchThreshold < 0 || p.MatchThreshold >= 1:
		return fmt.Errorf("%w: pipeline.match_threshold must be in [0, 1), got %v", ErrInvalidConfig, p.MatchThreshold)
	case p.MatchTopK < 1:
		return fmt.Errorf("%w: pipeline.match_top_k must be at least 1, got %d", ErrInvalidConfig, p.MatchTopK)
	case p.BatchSize < 1:
		return fmt.Errorf("%w: pipeline.batch_size must be at least 1, got %d", ErrInvalidConfig, p.BatchSize)
	case p.MaxResultsPerRegion < 0 || p.MaxResultsPerRegion > 50:
		return fmt.Errorf("%w: pipeline.max_results_per_region must be in [0, 50], got %d", ErrInvalidConfig, p.MaxResultsPerRegion)
	case p.MaxResultsPerQuery < 0 || p.MaxResultsPerQuery > 50:
		return fmt.Errorf("%w: pipeline.max_results_per_query must be in [0, 50], got %d", ErrInvalidConfig, p.MaxResultsPerQuery)
	case p.SearchQueriesFromTracks < 0:
		return fmt.Errorf("%w: pipeline.search_queries_from_tracks is negative", ErrInvalidConfig)
	case p.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: pipeline.requests_per_second must be positive", ErrInvalidConfig)
	}
	return nil
}

// RequireSpotify checks that Spotify client credentials are set.
func (c *Config) RequireSpotify() error {
	s := c.Credentials.Spotify
	if s.ClientID == "" || s.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret", ErrMissingCredentials)
	}
	return nil
}

// RequireYouTube checks that a YouTube API key is set.
func (c *Config) RequireYouTube() error {
	if c.Credentials.YouTube.APIKey == "" {
		return fmt.Errorf("%w: youtube api_key", ErrMissingCredentials)
	}
	return nil
}
