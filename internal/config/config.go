package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ReviewScraper/internal/domain"
)

const (
	appName         = "reviewscraper"
	configPathEnv   = "REVIEW_SCRAPER_CONFIG"
	outputPathEnv   = "REVIEW_SCRAPER_OUTPUT"
	outputFormatEnv = "REVIEW_SCRAPER_FORMAT"
	logLevelEnv     = "REVIEW_SCRAPER_LOG_LEVEL"
	userAgentEnv    = "REVIEW_SCRAPER_USER_AGENT"
	storePathEnv    = "REVIEW_SCRAPER_STORE_PATH"
	delayEnv        = "REVIEW_SCRAPER_DELAY"
)

// Site modes.
const (
	ModeListing = "listing"
	ModePapers  = "papers"
)

// Output formats.
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

var (
	ErrNoSites          = errors.New("no sites configured")
	ErrUnknownColumn    = errors.New("unknown output column")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrInvalidTimeout   = errors.New("invalid http timeout: must be positive")
	ErrInvalidDelay     = errors.New("invalid request delay: must be non-negative")
	ErrEmptyOutputPath  = errors.New("output path is empty")
	ErrInvalidSiteMode  = errors.New("invalid site mode")
	ErrInvalidSiteURL   = errors.New("invalid site url")
	ErrMissingExtractor = errors.New("site has no extractor")
)

// Config holds all settings of a scrape run.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	HTTP     HTTPConfig     `yaml:"http"`
	Output   OutputConfig   `yaml:"output"`
	Store    StoreConfig    `yaml:"store"`
	Download DownloadConfig `yaml:"download"`
	Sites    []SiteConfig   `yaml:"sites"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// HTTPConfig tunes the fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	Delay        time.Duration `yaml:"delay"`
	UserAgent    string        `yaml:"userAgent"`
	MaxBodyBytes int64         `yaml:"maxBodyBytes"`
}

// OutputConfig describes the destination table.
type OutputConfig struct {
	Path    string   `yaml:"path"`
	Format  string   `yaml:"format"`
	Columns []string `yaml:"columns"`
}

// StoreConfig enables the SQLite history of extracted records.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DownloadConfig drives the PDF downloader.
type DownloadConfig struct {
	Dir         string `yaml:"dir"`
	Concurrency int    `yaml:"concurrency"`
}

// SiteConfig describes one conference listing and how to extract it.
type SiteConfig struct {
	Name         string            `yaml:"name"`
	Extractor    string            `yaml:"extractor"`
	Mode         string            `yaml:"mode"`
	URL          string            `yaml:"url"`
	LinkSelector string            `yaml:"linkSelector"`
	SkipLinks    int               `yaml:"skipLinks"`
	Options      map[string]string `yaml:"options"`
}

// DefaultPath is the config file consulted when neither a flag nor the env var names one.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// DefaultStorePath is where the history database lives unless configured.
func DefaultStorePath() string {
	return filepath.Join(xdg.DataHome, appName, "history.db")
}

// Load reads YAML configuration (if present), applies environment overrides and validates the result.
// An explicit path that cannot be read is an error; a missing default file is not.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	explicit := true
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		path = DefaultPath()
		explicit = false
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)

		// mergeConfig cannot tell an explicit zero delay from an absent key.
		var keys explicitKeys
		if err := yaml.Unmarshal(raw, &keys); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		if keys.HTTP.Delay != nil {
			cfg.HTTP.Delay = *keys.HTTP.Delay
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ColumnList converts the configured column names, falling back to the default header.
func (o OutputConfig) ColumnList() []domain.Column {
	if len(o.Columns) == 0 {
		return append([]domain.Column(nil), domain.DefaultColumns...)
	}
	cols := make([]domain.Column, 0, len(o.Columns))
	for _, c := range o.Columns {
		cols = append(cols, domain.Column(strings.TrimSpace(c)))
	}
	return cols
}

// Validate checks the settings a run depends on.
func (c Config) Validate() error {
	if len(c.Sites) == 0 {
		return ErrNoSites
	}
	if c.HTTP.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.HTTP.Delay < 0 {
		return ErrInvalidDelay
	}
	if strings.TrimSpace(c.Output.Path) == "" {
		return ErrEmptyOutputPath
	}
	switch c.Output.Format {
	case FormatCSV, FormatJSON, FormatMarkdown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Output.Format)
	}
	for _, col := range c.Output.ColumnList() {
		if !col.Known() {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	for i, s := range c.Sites {
		if s.Extractor == "" {
			return fmt.Errorf("site %d (%s): %w", i, s.Name, ErrMissingExtractor)
		}
		if s.Mode != ModeListing && s.Mode != ModePapers {
			return fmt.Errorf("site %d (%s): %w %q", i, s.Name, ErrInvalidSiteMode, s.Mode)
		}
		u, err := url.Parse(s.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("site %d (%s): %w %q", i, s.Name, ErrInvalidSiteURL, s.URL)
		}
	}
	return nil
}

// explicitKeys records settings whose zero value is meaningful in a config file.
type explicitKeys struct {
	HTTP struct {
		Delay *time.Duration `yaml:"delay"`
	} `yaml:"http"`
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(outputPathEnv); v != "" {
		c.Output.Path = v
	}

	if v := os.Getenv(outputFormatEnv); v != "" {
		c.Output.Format = strings.ToLower(v)
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(userAgentEnv); v != "" {
		c.HTTP.UserAgent = v
	}

	if v := os.Getenv(storePathEnv); v != "" {
		c.Store.Path = v
		c.Store.Enabled = true
	}

	if v := os.Getenv(delayEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", delayEnv, ErrInvalidDelay)
		}
		c.HTTP.Delay = d
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.HTTP.Timeout != 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.Delay != 0 {
		base.HTTP.Delay = override.HTTP.Delay
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}
	if override.HTTP.MaxBodyBytes != 0 {
		base.HTTP.MaxBodyBytes = override.HTTP.MaxBodyBytes
	}

	if override.Output.Path != "" {
		base.Output.Path = override.Output.Path
	}
	if override.Output.Format != "" {
		base.Output.Format = override.Output.Format
	}
	if len(override.Output.Columns) > 0 {
		base.Output.Columns = override.Output.Columns
	}

	if override.Store.Enabled {
		base.Store.Enabled = true
	}
	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	if override.Download.Dir != "" {
		base.Download.Dir = override.Download.Dir
	}
	if override.Download.Concurrency > 0 {
		base.Download.Concurrency = override.Download.Concurrency
	}

	if len(override.Sites) > 0 {
		base.Sites = make([]SiteConfig, 0, len(override.Sites))
		for _, s := range override.Sites {
			if s.Mode == "" {
				s.Mode = ModeListing
			}
			base.Sites = append(base.Sites, s)
		}
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		HTTP: HTTPConfig{
			Timeout:      20 * time.Second,
			Delay:        time.Second,
			UserAgent:    "ReviewScraper/1.0",
			MaxBodyBytes: 10 * 1024 * 1024,
		},
		Output: OutputConfig{
			Path:   "reviews.csv",
			Format: FormatCSV,
		},
		Store:    StoreConfig{Enabled: false, Path: DefaultStorePath()},
		Download: DownloadConfig{Dir: "pdfs", Concurrency: 10},
		Sites: []SiteConfig{
			{
				Name:         "miccai-2024",
				Extractor:    "miccai",
				Mode:         ModePapers,
				URL:          "https://papers.miccai.org/miccai-2024/",
				LinkSelector: `a[href*="-Paper"]`,
			},
		},
	}
}
