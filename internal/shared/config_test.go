package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./tubecorr.db" {
			t.Errorf("expected database path ./tubecorr.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Pipeline.MatchThreshold != 0.3 || config.Pipeline.MatchTopK != 5 {
			t.Errorf("expected matcher defaults 0.3/5, got %v/%d", config.Pipeline.MatchThreshold, config.Pipeline.MatchTopK)
		}

		if len(config.Pipeline.RegionCodes) != 10 {
			t.Errorf("expected 10 default regions, got %d", len(config.Pipeline.RegionCodes))
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[server]
host = "0.0.0.0"
port = 8080

[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"

[pipeline]
region_codes = ["US"]
match_top_k = 3
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected address 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if config.Pipeline.MatchTopK != 3 || len(config.Pipeline.RegionCodes) != 1 {
			t.Errorf("pipeline overrides not applied: %+v", config.Pipeline)
		}

		if config.Pipeline.BatchSize != 1000 {
			t.Errorf("expected unset batch_size to keep default 1000, got %d", config.Pipeline.BatchSize)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		if !errors.Is(err, ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		config := DefaultConfig()
		env := map[string]string{"SPOTIFY_CLIENT_ID": "env-id", "YOUTUBE_API_KEY": "env-key"}
		config.ApplyEnv(func(k string) string { return env[k] })

		if config.Credentials.Spotify.ClientID != "env-id" || config.Credentials.YouTube.APIKey != "env-key" {
			t.Errorf("env overrides not applied: %+v", config.Credentials)
		}
		if err := config.RequireSpotify(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected missing secret to fail, got %v", err)
		}
		if err := config.RequireYouTube(); err != nil {
			t.Errorf("youtube key set, got %v", err)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	tc := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "threshold too high", mutate: func(c *Config) { c.Pipeline.MatchThreshold = 1 }},
		{name: "negative threshold", mutate: func(c *Config) { c.Pipeline.MatchThreshold = -0.1 }},
		{name: "zero top k", mutate: func(c *Config) { c.Pipeline.MatchTopK = 0 }},
		{name: "zero batch size", mutate: func(c *Config) { c.Pipeline.BatchSize = 0 }},
		{name: "too many results per region", mutate: func(c *Config) { c.Pipeline.MaxResultsPerRegion = 51 }},
		{name: "zero rate", mutate: func(c *Config) { c.Pipeline.RequestsPerSecond = 0 }},
		{name: "empty database path", mutate: func(c *Config) { c.Database.Path = "" }},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
