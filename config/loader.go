package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied to zero-valued fields after the file and environment are read.
const (
	DefaultPort           = 16181
	DefaultStaticPath     = "data"
	DefaultTripUpdatesURL = "https://bus.gocitybus.com/GTFSRT/GTFS_TripUpdates.pb"
	DefaultTimeoutMS      = 10000
	DefaultHorizonMinutes = 120
	DefaultSearchLimit    = 5
	DefaultMinScore       = 50
	DefaultGraceMinutes   = 15
)

// DefaultPaths are tried in order when LoadAppConfig is given no path.
var DefaultPaths = []string{"config.yml", "./config/config.yml"}

// Default returns a configuration with every default filled in.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadAppConfig loads and validates the application configuration.
// With an empty path the DefaultPaths are tried and a missing file is not an
// error; an explicit path must exist.
func LoadAppConfig(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct tags on every section.
func Validate(cfg *AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func readConfigFile(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return data, nil
	}
	for _, p := range DefaultPaths {
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return nil, nil
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("NEXTBUS_STATIC_PATH"); v != "" {
		cfg.GTFS.StaticPath = v
	}
	if v := os.Getenv("NEXTBUS_TRIP_UPDATES_URL"); v != "" {
		cfg.GTFSRT.TripUpdatesURL = v
	}
	if v := os.Getenv("NEXTBUS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NEXTBUS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("NEXTBUS_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.GTFS.StaticPath == "" {
		cfg.GTFS.StaticPath = DefaultStaticPath
	}
	if cfg.GTFSRT.TripUpdatesURL == "" {
		cfg.GTFSRT.TripUpdatesURL = DefaultTripUpdatesURL
	}
	if cfg.GTFSRT.TimeoutMS == 0 {
		cfg.GTFSRT.TimeoutMS = DefaultTimeoutMS
	}
	if cfg.GTFSRT.HorizonMinutes == 0 {
		cfg.GTFSRT.HorizonMinutes = DefaultHorizonMinutes
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}
	if cfg.Search.MinScore == 0 {
		cfg.Search.MinScore = DefaultMinScore
	}
	if cfg.Schedule.GraceMinutes == 0 {
		cfg.Schedule.GraceMinutes = DefaultGraceMinutes
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}
