package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for BeaconTrack Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Positioning PositioningConfig `yaml:"positioning"`
	Recording   RecordingConfig   `yaml:"recording"`
	Database    DatabaseConfig    `yaml:"database"`
	History     HistoryConfig     `yaml:"history"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// PositioningConfig contains positioning source settings.
type PositioningConfig struct {
	// Driver selects the positioning source implementation.
	// "sim" runs the in-process simulated source (no hardware required).
	Driver string `yaml:"driver"`

	// PollYieldMs is the pause between refresh cycles in milliseconds.
	// Keeps the synchroniser loop from busy-spinning between refreshes.
	PollYieldMs int `yaml:"poll_yield_ms"`

	// Sim contains settings for the simulated source.
	Sim SimConfig `yaml:"sim"`
}

// SimConfig contains settings for the simulated positioning source.
type SimConfig struct {
	// MobileTags is the number of simulated mobile tags.
	MobileTags int `yaml:"mobile_tags"`

	// FixedBeacons is the number of simulated fixed beacons.
	FixedBeacons int `yaml:"fixed_beacons"`

	// StepMm is the per-refresh movement of each mobile tag in millimetres.
	StepMm int `yaml:"step_mm"`
}

// RecordingConfig contains sample recording settings.
type RecordingConfig struct {
	// Path is the CSV file written while recording is active.
	// The file is truncated and recreated on every recording start.
	Path string `yaml:"path"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// HistoryConfig contains position history settings.
type HistoryConfig struct {
	// Enabled turns on persistence of merged mobile-tag fixes to SQLite.
	Enabled bool `yaml:"enabled"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: BEACONTRACK_SECTION_KEY
// For example: BEACONTRACK_DATABASE_PATH, BEACONTRACK_API_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Positioning: PositioningConfig{
			Driver:      "sim",
			PollYieldMs: 1,
			Sim: SimConfig{
				MobileTags:   2,
				FixedBeacons: 4,
				StepMm:       25,
			},
		},
		Recording: RecordingConfig{
			Path: "log.csv",
		},
		Database: DatabaseConfig{
			Path:        "./data/beacontrack.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "beacontrack-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: BEACONTRACK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Positioning
	if v := os.Getenv("BEACONTRACK_POSITIONING_DRIVER"); v != "" {
		cfg.Positioning.Driver = v
	}

	// Recording
	if v := os.Getenv("BEACONTRACK_RECORDING_PATH"); v != "" {
		cfg.Recording.Path = v
	}

	// Database
	if v := os.Getenv("BEACONTRACK_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// API
	if v := os.Getenv("BEACONTRACK_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// MQTT
	if v := os.Getenv("BEACONTRACK_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("BEACONTRACK_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("BEACONTRACK_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("BEACONTRACK_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Positioning validation
	if c.Positioning.Driver == "" {
		errs = append(errs, "positioning.driver is required")
	}
	if c.Positioning.PollYieldMs < 0 {
		errs = append(errs, "positioning.poll_yield_ms must not be negative")
	}

	// Recording validation
	if c.Recording.Path == "" {
		errs = append(errs, "recording.path is required")
	}

	// Database validation (only needed when history is persisted)
	if c.History.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when history.enabled is true")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// PollYield returns the synchroniser yield interval as a Duration.
func (c *Config) PollYield() time.Duration {
	return time.Duration(c.Positioning.PollYieldMs) * time.Millisecond
}
