package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
positioning:
  driver: "sim"
  poll_yield_ms: 2
recording:
  path: "/tmp/track.csv"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
api:
  host: "0.0.0.0"
  port: 8090
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Positioning.Driver != "sim" {
		t.Errorf("Positioning.Driver = %q, want %q", cfg.Positioning.Driver, "sim")
	}
	if cfg.Positioning.PollYieldMs != 2 {
		t.Errorf("Positioning.PollYieldMs = %d, want 2", cfg.Positioning.PollYieldMs)
	}
	if cfg.Recording.Path != "/tmp/track.csv" {
		t.Errorf("Recording.Path = %q, want %q", cfg.Recording.Path, "/tmp/track.csv")
	}
	if cfg.API.Port != 8090 {
		t.Errorf("API.Port = %d, want 8090", cfg.API.Port)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Positioning.Driver != "sim" {
		t.Errorf("default Positioning.Driver = %q, want %q", cfg.Positioning.Driver, "sim")
	}
	if cfg.Positioning.PollYieldMs != 1 {
		t.Errorf("default Positioning.PollYieldMs = %d, want 1", cfg.Positioning.PollYieldMs)
	}
	if cfg.Recording.Path != "log.csv" {
		t.Errorf("default Recording.Path = %q, want %q", cfg.Recording.Path, "log.csv")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("BEACONTRACK_RECORDING_PATH", "/tmp/override.csv")
	t.Setenv("BEACONTRACK_POSITIONING_DRIVER", "sim")

	cfg, err := Load(writeConfig(t, "recording:\n  path: \"file.csv\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Recording.Path != "/tmp/override.csv" {
		t.Errorf("Recording.Path = %q, want env override", cfg.Recording.Path)
	}
	if cfg.Positioning.Driver != "sim" {
		t.Errorf("Positioning.Driver = %q, want env override", cfg.Positioning.Driver)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "empty driver",
			mutate:  func(c *Config) { c.Positioning.Driver = "" },
			wantSub: "positioning.driver",
		},
		{
			name:    "negative poll yield",
			mutate:  func(c *Config) { c.Positioning.PollYieldMs = -1 },
			wantSub: "positioning.poll_yield_ms",
		},
		{
			name:    "empty recording path",
			mutate:  func(c *Config) { c.Recording.Path = "" },
			wantSub: "recording.path",
		},
		{
			name: "history without database",
			mutate: func(c *Config) {
				c.History.Enabled = true
				c.Database.Path = ""
			},
			wantSub: "database.path",
		},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantSub: "api.port",
		},
		{
			name:    "bad qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantSub: "mqtt.qos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantSub)
			}
		})
	}
}
