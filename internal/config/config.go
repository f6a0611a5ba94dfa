// Package config loads mudra configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level mudra configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Camera  CameraConfig  `yaml:"camera"`
	Image   ImageConfig   `yaml:"image"`
	Render  RenderConfig  `yaml:"render"`
	Preview PreviewConfig `yaml:"preview"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Tray    bool          `yaml:"tray"`
}

// ServerConfig locates the inference service.
type ServerConfig struct {
	URL     string        `yaml:"url"`
	Mode    string        `yaml:"mode"` // sync | async
	Timeout time.Duration `yaml:"timeout"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
	FPS    int `yaml:"fps"`
}

// ImageConfig controls the uploaded payload.
type ImageConfig struct {
	Format   string `yaml:"format"` // .jpg | .png
	Field    string `yaml:"field"`
	Filename string `yaml:"filename"`
}

// RenderConfig controls the overlay.
type RenderConfig struct {
	BaseRadius float64 `yaml:"base_radius"`
	ShowLabel  bool    `yaml:"show_label"`
}

// PreviewConfig controls the local preview server.
type PreviewConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// StoreConfig controls sample recording. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
	// RecordLabel, when set, replaces the service label on recorded samples.
	RecordLabel string `yaml:"record_label"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration and fills in defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.URL == "" {
		c.Server.URL = "http://localhost:8000"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "sync"
	}
	if c.Server.Timeout <= 0 {
		c.Server.Timeout = 5 * time.Second
	}
	if c.Camera.FPS == 0 {
		c.Camera.FPS = 25
	}
	if c.Image.Format == "" {
		c.Image.Format = ".jpg"
	}
	if c.Image.Field == "" {
		c.Image.Field = "image"
	}
	if c.Image.Filename == "" {
		c.Image.Filename = "image" + c.Image.Format
	}
	if c.Render.BaseRadius <= 0 {
		c.Render.BaseRadius = 3
	}
	if c.Preview.Addr == "" {
		c.Preview.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports configuration values that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.URL) == "" {
		errs = append(errs, errors.New("server.url is required"))
	}
	switch c.Server.Mode {
	case "sync", "async":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q must be sync or async", c.Server.Mode))
	}
	if c.Camera.FPS <= 0 {
		errs = append(errs, fmt.Errorf("camera.fps must be positive, got %d", c.Camera.FPS))
	}
	switch c.Image.Format {
	case ".jpg", ".png":
	default:
		errs = append(errs, fmt.Errorf("image.format %q must be .jpg or .png", c.Image.Format))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level %q: %w", name, err)
	}
	return level, nil
}

// NewLogger builds the process logger: a text handler on stderr at the
// configured level.
func (c *Config) NewLogger() *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
