// Package config loads pathviz settings from a YAML file, a .env file and
// PATHVIZ_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/pdrpinto/pathfinding"
	"github.com/pdrpinto/pathfinding/logging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PATHVIZ_"

// Config holds every setting of the pathviz binary.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Grid     GridConfig     `yaml:"grid"`
	Search   SearchConfig   `yaml:"search"`
	Autoplay AutoplayConfig `yaml:"autoplay"`
	Server   ServerConfig   `yaml:"server"`
	History  HistoryConfig  `yaml:"history"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ObstacleConfig struct {
	Clusters int     `yaml:"clusters"`
	Steps    int     `yaml:"steps"`
	Density  float64 `yaml:"density"`
}

type GridConfig struct {
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Seed       int64          `yaml:"seed"`
	NoiseScale float64        `yaml:"noise_scale"`
	Obstacles  ObstacleConfig `yaml:"obstacles"`
}

// SearchConfig selects the search to run. Empty Start and End mean the
// first and last grid cell.
type SearchConfig struct {
	Algorithm string `yaml:"algorithm"`
	Start     string `yaml:"start"`
	End       string `yaml:"end"`
	Step      bool   `yaml:"step"`
	Workers   int    `yaml:"workers"`
}

// AutoplayConfig bounds the delay between automatic steps.
type AutoplayConfig struct {
	Delay     time.Duration `yaml:"delay"`
	Min       time.Duration `yaml:"min"`
	Max       time.Duration `yaml:"max"`
	Increment time.Duration `yaml:"increment"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// HistoryConfig points at the sqlite result history. An empty path disables it.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Grid: GridConfig{
			Width:      15,
			Height:     15,
			NoiseScale: 0.4,
		},
		Search: SearchConfig{Algorithm: pathfinding.AStar.String()},
		Autoplay: AutoplayConfig{
			Delay:     500 * time.Millisecond,
			Min:       50 * time.Millisecond,
			Max:       1000 * time.Millisecond,
			Increment: 50 * time.Millisecond,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file;
// envFile may be empty to skip the .env file, and a missing .env file is not an error.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// applyEnv overrides fields from PATHVIZ_* variables.
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	textFields := map[string]*string{
		"LOG_LEVEL":        &cfg.Log.Level,
		"LOG_FORMAT":       &cfg.Log.Format,
		"SEARCH_ALGORITHM": &cfg.Search.Algorithm,
		"SEARCH_START":     &cfg.Search.Start,
		"SEARCH_END":       &cfg.Search.End,
		"SERVER_ADDR":      &cfg.Server.Addr,
		"HISTORY_PATH":     &cfg.History.Path,
	}
	for key, field := range textFields {
		if value, ok := lookup(EnvPrefix + key); ok {
			*field = value
		}
	}

	intFields := map[string]*int{
		"GRID_WIDTH":     &cfg.Grid.Width,
		"GRID_HEIGHT":    &cfg.Grid.Height,
		"SEARCH_WORKERS": &cfg.Search.Workers,
	}
	for key, field := range intFields {
		if value, ok := lookup(EnvPrefix + key); ok {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*field = parsed
		}
	}

	if value, ok := lookup(EnvPrefix + "GRID_SEED"); ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%sGRID_SEED: %w", EnvPrefix, err)
		}
		cfg.Grid.Seed = seed
	}
	if value, ok := lookup(EnvPrefix + "AUTOPLAY_DELAY"); ok {
		delay, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%sAUTOPLAY_DELAY: %w", EnvPrefix, err)
		}
		cfg.Autoplay.Delay = delay
	}
	return nil
}

// Validate reports the first invalid setting.
func (cfg Config) Validate() error {
	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.Log.Format)
	}
	if cfg.Grid.Width <= 0 || cfg.Grid.Height <= 0 {
		return fmt.Errorf("grid size %dx%d: width and height must be positive", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Grid.Obstacles.Density < 0 || cfg.Grid.Obstacles.Density > 1 {
		return fmt.Errorf("obstacle density %v: must be within [0, 1]", cfg.Grid.Obstacles.Density)
	}
	if _, err := pathfinding.ParseAlgorithm(cfg.Search.Algorithm); err != nil {
		return err
	}
	if cfg.Search.Workers < 0 {
		return fmt.Errorf("search workers %d: must not be negative", cfg.Search.Workers)
	}
	a := cfg.Autoplay
	if a.Min <= 0 || a.Increment <= 0 || a.Min > a.Max {
		return fmt.Errorf("autoplay bounds [%s, %s] step %s are invalid", a.Min, a.Max, a.Increment)
	}
	if a.Delay < a.Min || a.Delay > a.Max {
		return fmt.Errorf("autoplay delay %s: must be within [%s, %s]", a.Delay, a.Min, a.Max)
	}
	return nil
}

// Faster shortens delay by one increment without going below Min.
func (a AutoplayConfig) Faster(delay time.Duration) time.Duration {
	return max(delay-a.Increment, a.Min)
}

// Slower lengthens delay by one increment without going above Max.
func (a AutoplayConfig) Slower(delay time.Duration) time.Duration {
	return min(delay+a.Increment, a.Max)
}
