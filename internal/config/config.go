// Package config builds the explicit configuration value the rest of
// the application is handed at startup. Nothing here is a process-wide
// singleton: Load returns a Config and callers pass it down.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig contains the HTTP listener configuration.
type ServerConfig struct {
	Port int    `yaml:"port" validate:"gt=0,lte=65535"`
	Env  string `yaml:"env" validate:"oneof=development test production"`

	// AllowedOrigins are the presentation-layer origins permitted by
	// the CORS middleware.
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"dive,url"`
}

// SourcesConfig contains the upstream feed wiring.
type SourcesConfig struct {
	TpappsURL        string `yaml:"tpappsURL" validate:"omitempty,url"`
	DikshankURL      string `yaml:"dikshankURL" validate:"omitempty,url"`
	DikshankRelayURL string `yaml:"dikshankRelayURL" validate:"omitempty,url"`

	PollIntervalSeconds   int `yaml:"pollIntervalSeconds" validate:"gte=0"`
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds" validate:"gte=0"`
}

// MapConfig contains what the presentation layer needs to bootstrap
// its map: the tile provider and the GIS dynamic-layer service.
type MapConfig struct {
	TileURL          string `yaml:"tileURL" validate:"required"`
	ArcGISServiceURL string `yaml:"arcgisServiceURL" validate:"omitempty,url"`
}

// Config is the root configuration value.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Sources SourcesConfig `yaml:"sources"`
	Map     MapConfig     `yaml:"map"`
}

// PollInterval returns the poll interval as a duration, defaulting to
// 30 seconds.
func (c Config) PollInterval() time.Duration {
	if c.Sources.PollIntervalSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Sources.PollIntervalSeconds) * time.Second
}

// RequestTimeout returns the upstream request timeout as a duration,
// defaulting to 15 seconds.
func (c Config) RequestTimeout() time.Duration {
	if c.Sources.RequestTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Sources.RequestTimeoutSeconds) * time.Second
}

// Default returns the built-in configuration: the dev origins the
// frontend uses locally, the public OSM tile endpoint, and no upstream
// URLs (those come from the environment or a config file).
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: 5000,
			Env:  "development",
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost:5173",
			},
		},
		Map: MapConfig{
			TileURL: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (if path is non-empty), then environment variables, then validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if env := os.Getenv("ENV"); env != "" {
		cfg.Server.Env = env
	}
	if url := os.Getenv("TPAPPS_API_URL"); url != "" {
		cfg.Sources.TpappsURL = url
	}
	if url := os.Getenv("DIKSHANK_API_URL"); url != "" {
		cfg.Sources.DikshankURL = url
	}
	if url := os.Getenv("DIKSHANK_RELAY_URL"); url != "" {
		cfg.Sources.DikshankRelayURL = url
	}
	if url := os.Getenv("ARCGIS_SERVICE_URL"); url != "" {
		cfg.Map.ArcGISServiceURL = url
	}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		cfg.Server.AllowedOrigins = append([]string{origin}, cfg.Server.AllowedOrigins...)
	}
	return nil
}
