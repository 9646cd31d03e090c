// Package projectconfig provides the ProjectConfig struct and loader for
// .pagecrit.yaml project-level configuration files. Precedence is
// environment > config file > compiled defaults.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up from the working directory upwards.
const ConfigFileName = ".pagecrit.yaml"

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultURL            = "https://example.com"
	DefaultScreenshotPath = "screenshot.png"
	DefaultNodeExecutable = "node"

	DefaultWorkers    = 4
	DefaultTimeoutSec = 120

	DefaultCacheDir = ".pagecrit-cache"

	DefaultReportFormat   = "text"
	DefaultScoreThreshold = 6.0
)

// RunnerConfig holds settings for the external node runtime. Options is a
// free-form map overlaid onto the runtime's capture defaults; unknown keys
// are rejected when the map is decoded.
type RunnerConfig struct {
	Node       string         `yaml:"node,omitempty" env:"PAGECRIT_NODE"`
	Workers    int            `yaml:"workers,omitempty" env:"PAGECRIT_WORKERS"`
	TimeoutSec int            `yaml:"timeout,omitempty" env:"PAGECRIT_TIMEOUT"`
	Options    map[string]any `yaml:"options,omitempty" env:"-"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" env:"PAGECRIT_CACHE"`
	Dir     string `yaml:"dir,omitempty" env:"PAGECRIT_CACHE_DIR"`
}

// ReportConfig holds report output settings.
type ReportConfig struct {
	Format         string  `yaml:"format,omitempty" env:"PAGECRIT_FORMAT"`
	ScoreThreshold float64 `yaml:"score_threshold,omitempty" env:"PAGECRIT_SCORE_THRESHOLD"`
}

// APIKeys carries the provider credentials. Environment only — keys do not
// belong in a checked-in YAML file.
type APIKeys struct {
	Gemini    string `yaml:"-" env:"GEMINI_API_KEY"`
	OpenAI    string `yaml:"-" env:"OPENAI_API_KEY"`
	Anthropic string `yaml:"-" env:"ANTHROPIC_API_KEY"`
}

// ProjectConfig is the top-level configuration loaded from .pagecrit.yaml.
type ProjectConfig struct {
	URL            string       `yaml:"url,omitempty" env:"PAGECRIT_URL"`
	ScreenshotPath string       `yaml:"screenshot_path,omitempty" env:"PAGECRIT_SCREENSHOT_PATH"`
	PersonasFile   string       `yaml:"personas,omitempty" env:"PAGECRIT_PERSONAS"`
	Runner         RunnerConfig `yaml:"runner,omitempty"`
	Cache          CacheConfig  `yaml:"cache,omitempty"`
	Report         ReportConfig `yaml:"report,omitempty"`
	Keys           APIKeys      `yaml:"-"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		URL:            DefaultURL,
		ScreenshotPath: DefaultScreenshotPath,
		Runner: RunnerConfig{
			Node:       DefaultNodeExecutable,
			Workers:    DefaultWorkers,
			TimeoutSec: DefaultTimeoutSec,
		},
		Cache: CacheConfig{
			Enabled: boolPtr(true),
			Dir:     DefaultCacheDir,
		},
		Report: ReportConfig{
			Format:         DefaultReportFormat,
			ScoreThreshold: DefaultScoreThreshold,
		},
	}
}

// Load finds .pagecrit.yaml by walking up from startDir (max 10 levels),
// unmarshals it, fills in missing fields with defaults, then applies
// environment overrides. If no config file is found, defaults plus
// environment are returned with a nil error. Real I/O errors (e.g.
// permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	switch {
	case err == nil:
		var fileCfg ProjectConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", ConfigFileName, err)
		}
		mergeConfig(cfg, &fileCfg)
	case errors.Is(err, os.ErrNotExist):
		// no file found, defaults + env apply
	default:
		return nil, fmt.Errorf("loading %s: %w", ConfigFileName, err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}
	return cfg, nil
}

// APIKeyEnv returns the environment variable name and value of the first
// configured provider key, in the order gemini, openai, anthropic. The
// runtime reads the key back out of the variable it was delivered under,
// so the name matters as much as the value. Both are empty when no key is
// set.
func (c *ProjectConfig) APIKeyEnv() (string, string) {
	switch {
	case c.Keys.Gemini != "":
		return "GEMINI_API_KEY", c.Keys.Gemini
	case c.Keys.OpenAI != "":
		return "OPENAI_API_KEY", c.Keys.OpenAI
	case c.Keys.Anthropic != "":
		return "ANTHROPIC_API_KEY", c.Keys.Anthropic
	}
	return "", ""
}

// APIKey returns the first configured provider key, in the order gemini,
// openai, anthropic. Empty when none is set.
func (c *ProjectConfig) APIKey() string {
	_, key := c.APIKeyEnv()
	return key
}

// HasAPIKey reports whether any provider key is configured.
func (c *ProjectConfig) HasAPIKey() bool {
	return c.APIKey() != ""
}

// CacheEnabled reports whether the result cache is on.
func (c *ProjectConfig) CacheEnabled() bool {
	return c.Cache.Enabled != nil && *c.Cache.Enabled
}

// findConfigFile walks up from dir looking for .pagecrit.yaml (max 10
// levels). Returns os.ErrNotExist if no config file is found. Propagates
// real I/O errors instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ConfigFileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	if src.URL != "" {
		dst.URL = src.URL
	}
	if src.ScreenshotPath != "" {
		dst.ScreenshotPath = src.ScreenshotPath
	}
	if src.PersonasFile != "" {
		dst.PersonasFile = src.PersonasFile
	}

	// Runner
	if src.Runner.Node != "" {
		dst.Runner.Node = src.Runner.Node
	}
	if src.Runner.Workers != 0 {
		dst.Runner.Workers = src.Runner.Workers
	}
	if src.Runner.TimeoutSec != 0 {
		dst.Runner.TimeoutSec = src.Runner.TimeoutSec
	}
	if len(src.Runner.Options) > 0 {
		if dst.Runner.Options == nil {
			dst.Runner.Options = make(map[string]any, len(src.Runner.Options))
		}
		for k, v := range src.Runner.Options {
			dst.Runner.Options[k] = v
		}
	}

	// Cache
	if src.Cache.Enabled != nil {
		dst.Cache.Enabled = src.Cache.Enabled
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}

	// Report
	if src.Report.Format != "" {
		dst.Report.Format = src.Report.Format
	}
	if src.Report.ScoreThreshold != 0 {
		dst.Report.ScoreThreshold = src.Report.ScoreThreshold
	}
}

func boolPtr(b bool) *bool {
	return &b
}
