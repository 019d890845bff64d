// Package config provides the Config struct and loader for .specgain.yaml
// project-level configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modspec/specgain/internal/models"
)

// FileName is the project configuration file looked up from the working directory.
const FileName = ".specgain.yaml"

// Default values for project configuration. New() references them and no
// other code should duplicate them.
const (
	DefaultLogsDir     = "../logs"
	DefaultPattern     = "metrics_*.jsonl"
	DefaultFiguresDir  = "figs"
	DefaultDataDir     = "data"
	DefaultStudy       = models.DefaultStudy
	DefaultRoutingMode = "oracle"
	DefaultImageFormat = "pdf"
)

// maxWalkUp bounds how many parent directories Load searches.
const maxWalkUp = 10

// PathsConfig holds input and output locations.
type PathsConfig struct {
	Logs    string `yaml:"logs,omitempty"`
	Pattern string `yaml:"pattern,omitempty"`
	Figures string `yaml:"figures,omitempty"`
	Data    string `yaml:"data,omitempty"`
}

// Config is the top-level configuration loaded from .specgain.yaml.
type Config struct {
	Paths PathsConfig `yaml:"paths,omitempty"`
	Study string      `yaml:"study,omitempty"`
	// RoutingMode is a pointer because an explicit empty string means "all modes".
	RoutingMode *string               `yaml:"routing_mode,omitempty"`
	ImageFormat string                `yaml:"image_format,omitempty"`
	Families    []models.MacroMapping `yaml:"families,omitempty"`
	SQLite      string                `yaml:"sqlite,omitempty"`
	HTMLReport  *bool                 `yaml:"html_report,omitempty"`

	// Source is the file the configuration was read from, empty for defaults.
	Source string `yaml:"-"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		Paths: PathsConfig{
			Logs:    DefaultLogsDir,
			Pattern: DefaultPattern,
			Figures: DefaultFiguresDir,
			Data:    DefaultDataDir,
		},
		Study:       DefaultStudy,
		RoutingMode: stringPtr(DefaultRoutingMode),
		ImageFormat: DefaultImageFormat,
		Families:    models.DefaultMacroMappings(),
		HTMLReport:  boolPtr(false),
	}
}

// Load finds .specgain.yaml by walking up from startDir, validates it and
// fills in missing fields with defaults. If no config file is found, returns
// defaults with a nil error.
func Load(startDir string) (*Config, error) {
	path, err := find(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return LoadFile(path)
}

// LoadFile reads, validates and merges the configuration file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if errs := ValidateBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config %s:\n  %s", path, strings.Join(errs, "\n  "))
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg := New()
	merge(cfg, &fileCfg)
	cfg.Source = path
	return cfg, nil
}

// find walks up from dir looking for .specgain.yaml. Returns os.ErrNotExist
// if no config file is found and propagates real I/O errors.
func find(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < maxWalkUp; i++ {
		p := filepath.Join(dir, FileName)
		_, err := os.Stat(p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("checking %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// merge overlays non-zero values from src onto dst.
func merge(dst, src *Config) {
	if src.Paths.Logs != "" {
		dst.Paths.Logs = src.Paths.Logs
	}
	if src.Paths.Pattern != "" {
		dst.Paths.Pattern = src.Paths.Pattern
	}
	if src.Paths.Figures != "" {
		dst.Paths.Figures = src.Paths.Figures
	}
	if src.Paths.Data != "" {
		dst.Paths.Data = src.Paths.Data
	}
	if src.Study != "" {
		dst.Study = src.Study
	}
	if src.RoutingMode != nil {
		dst.RoutingMode = src.RoutingMode
	}
	if src.ImageFormat != "" {
		dst.ImageFormat = src.ImageFormat
	}
	if len(src.Families) > 0 {
		// Log families are lowercased on extraction.
		dst.Families = make([]models.MacroMapping, len(src.Families))
		for i, m := range src.Families {
			dst.Families[i] = models.MacroMapping{Family: strings.ToLower(m.Family), Macro: m.Macro}
		}
	}
	if src.SQLite != "" {
		dst.SQLite = src.SQLite
	}
	if src.HTMLReport != nil {
		dst.HTMLReport = src.HTMLReport
	}
}

// Routing returns the configured routing-mode filter.
func (c *Config) Routing() string {
	if c.RoutingMode == nil {
		return ""
	}
	return *c.RoutingMode
}

// WantHTMLReport reports whether the HTML report is enabled.
func (c *Config) WantHTMLReport() bool {
	return c.HTMLReport != nil && *c.HTMLReport
}

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
