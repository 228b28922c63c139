package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/julienpequegnot/phynews/internal/feed"
	"github.com/julienpequegnot/phynews/internal/scorer"
)

type Config struct {
	User      string                `yaml:"user" validate:"required"`
	Weights   scorer.FeatureWeights `yaml:"weights" validate:"-"`
	Recommend RecommendConfig       `yaml:"recommend"`
	Fetch     FetchConfig           `yaml:"fetch"`
	Daemon    DaemonConfig          `yaml:"daemon"`
	Server    ServerConfig          `yaml:"server"`
	Log       LogConfig             `yaml:"log"`
}

type RecommendConfig struct {
	Limit           int  `yaml:"limit" validate:"gt=0"`
	KeepNonPositive bool `yaml:"keep_non_positive"`
	Workers         int  `yaml:"workers" validate:"gt=0"`
	Candidates      int  `yaml:"candidates" validate:"gt=0"`
	KeywordLimit    int  `yaml:"keyword_limit" validate:"gte=0"`
	HistoryLimit    int  `yaml:"history_limit" validate:"gte=0"`
	TopCategories   int  `yaml:"top_categories" validate:"gte=0"`
	TopAuthors      int  `yaml:"top_authors" validate:"gte=0"`
	// AdaptWindowDays bounds the history counted by weight adaptation.
	// 0 counts everything.
	AdaptWindowDays int `yaml:"adapt_window_days" validate:"gte=0"`
}

type FetchConfig struct {
	Concurrency    int    `yaml:"concurrency" validate:"gt=0"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gt=0"`
	UserAgent      string `yaml:"user_agent"`
	MaxResults     int    `yaml:"max_results" validate:"gt=0"`
	BaseURL        string `yaml:"base_url" validate:"required,url"`
}

type DaemonConfig struct {
	Schedule string `yaml:"schedule" validate:"required"`
	Timezone string `yaml:"timezone"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=console json"`
}

func Default() *Config {
	return &Config{
		User:    "default",
		Weights: scorer.DefaultWeights(),
		Recommend: RecommendConfig{
			Limit:           10,
			Workers:         4,
			Candidates:      500,
			KeywordLimit:    10,
			HistoryLimit:    50,
			TopCategories:   5,
			TopAuthors:      5,
			AdaptWindowDays: 30,
		},
		Fetch: FetchConfig{
			Concurrency:    5,
			TimeoutSeconds: 30,
			UserAgent:      "phynews/1.0",
			MaxResults:     25,
			BaseURL:        feed.DefaultBaseURL,
		},
		Daemon: DaemonConfig{
			Schedule: "0 6 * * *",
			Timezone: "UTC",
		},
		Server: ServerConfig{
			Addr:           ":3001",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func Dir() string {
	if dir := os.Getenv("PHYNEWS_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".phynews")
}

func DBPath() string {
	return filepath.Join(Dir(), "phynews.db")
}

func configPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Load() (*Config, error) {
	data, err := os.ReadFile(configPath())
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath(), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath(), data, 0644)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges, the starting weights, the daemon schedule
// and its timezone.
func (c *Config) Validate() error {
	var errs []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, fmt.Sprintf("%s: failed %s check", fe.Namespace(), fe.Tag()))
		}
	}

	if err := scorer.ValidatePreferences(&scorer.Preferences{Weights: c.Weights}); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Daemon.Schedule != "" {
		if _, err := cron.ParseStandard(c.Daemon.Schedule); err != nil {
			errs = append(errs, fmt.Sprintf("daemon.schedule: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Location resolves the daemon timezone, UTC when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Daemon.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Daemon.Timezone)
	if err != nil {
		return nil, fmt.Errorf("daemon.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// AdaptSince is the start of the history window counted by weight
// adaptation. The zero time means all history.
func (c *Config) AdaptSince(now time.Time) time.Time {
	if c.Recommend.AdaptWindowDays == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -c.Recommend.AdaptWindowDays)
}
