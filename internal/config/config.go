// Package config loads settings for the fetch, build and serve commands.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is loaded
// first). The environment always wins so deploys can override a checked-in
// file.
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
)

const (
	// EnvConfigPath names an explicit config file.
	EnvConfigPath = "PITCH_CONFIG"
	// ConfigFileName is looked up in the working directory.
	ConfigFileName = "pitchdata.yaml"

	// FirstTrackedSeason is the first season with public pitch tracking.
	FirstTrackedSeason = 2008
)

type FetchConfig struct {
	// Templates use {season}, {segment} and {pitch} placeholders.
	StatsCSVURL string `yaml:"stats_csv_url"`
	SpinCSVURL  string `yaml:"spin_csv_url"`
	// The analytics page renders a session id into its HTML; the export
	// URL takes it as {session}.
	AnalyticsPageURL   string        `yaml:"analytics_page_url"`
	AnalyticsExportURL string        `yaml:"analytics_export_url"`
	RequestsPerSecond  float64       `yaml:"requests_per_second"`
	Timeout            time.Duration `yaml:"timeout"`
	UserAgent          string        `yaml:"user_agent"`
}

type ServerConfig struct {
	Port           string `yaml:"port"`
	CORSOrigin     string `yaml:"cors_origin"`
	AdminTokenHash string `yaml:"-"`
	MLBAPIBaseURL  string `yaml:"mlb_api_base_url"`
	RefreshWorker  bool   `yaml:"refresh_worker"`
}

type NotifyConfig struct {
	SlackWebhookURL string `yaml:"-"`
	SMTPHost        string `yaml:"smtp_host"`
	SMTPPort        string `yaml:"smtp_port"`
	SMTPUsername    string `yaml:"-"`
	SMTPPassword    string `yaml:"-"`
	SMTPFrom        string `yaml:"smtp_from"`
	EmailTo         string `yaml:"email_to"`
}

type Config struct {
	Season          int    `yaml:"season"`
	FallbackSeasons []int  `yaml:"fallback_seasons"`
	Segment         string `yaml:"segment"`
	RawDir          string `yaml:"raw_dir"`
	OutDir          string `yaml:"out_dir"`
	// PitchOverrides is an optional YAML file renaming or recoloring pitch types.
	PitchOverrides string  `yaml:"pitch_overrides"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold"`
	LogLevel       string  `yaml:"log_level"`
	DatabaseURL    string  `yaml:"-"`

	Fetch  FetchConfig  `yaml:"fetch"`
	Server ServerConfig `yaml:"server"`
	Notify NotifyConfig `yaml:"notify"`
}

// Default returns settings for the season in progress (or the one that
// just ended, before opening day).
func Default() *Config {
	return DefaultAt(time.Now())
}

func DefaultAt(now time.Time) *Config {
	season := now.Year()
	if now.Month() < time.April {
		season--
	}
	return &Config{
		Season:          season,
		FallbackSeasons: []int{season - 1, season - 2},
		Segment:         "season",
		RawDir:          "data/raw",
		OutDir:          "public/data",
		FuzzyThreshold:  0.92,
		LogLevel:        "info",
		Fetch: FetchConfig{
			StatsCSVURL:       "https://baseballsavant.mlb.com/leaderboard/pitch-arsenal-stats?type=pitcher&pitchType={pitch}&year={season}&team=&min=1&csv=true",
			SpinCSVURL:        "https://baseballsavant.mlb.com/leaderboard/active-spin?year={season}_spin-based&min=50&hand=&csv=true",
			RequestsPerSecond: 0.5,
			Timeout:           30 * time.Second,
			UserAgent:         "pitch-arsenal/1.0",
		},
		Server: ServerConfig{
			Port:          "8080",
			MLBAPIBaseURL: "https://statsapi.mlb.com",
		},
	}
}

// Load builds the effective config. path may be empty, in which case
// $PITCH_CONFIG and ./pitchdata.yaml are tried; no file at all is fine.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = findConfigPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		var layer struct {
			Season          *int   `yaml:"season"`
			FallbackSeasons *[]int `yaml:"fallback_seasons"`
		}
		if err := yaml.Unmarshal(data, &layer); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
		if layer.Season != nil && layer.FallbackSeasons == nil {
			cfg.SetSeason(cfg.Season)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if _, err := os.Stat(ConfigFileName); err == nil {
		return ConfigFileName
	}
	return ""
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	if v := getenv("PITCH_SEASON"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("PITCH_SEASON: %w", err)
		}
		if getenv("PITCH_FALLBACK_SEASONS") == "" {
			c.SetSeason(n)
		} else {
			c.Season = n
		}
	}
	if v := getenv("PITCH_FALLBACK_SEASONS"); v != "" {
		seasons, err := ParseSeasons(v)
		if err != nil {
			return fmt.Errorf("PITCH_FALLBACK_SEASONS: %w", err)
		}
		c.FallbackSeasons = seasons
	}
	if v := getenv("FETCH_RPS"); v != "" {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("FETCH_RPS: %w", err)
		}
		c.Fetch.RequestsPerSecond = f
	}

	setString(&c.Segment, "PITCH_SEGMENT")
	setString(&c.RawDir, "PITCH_RAW_DIR")
	setString(&c.OutDir, "PITCH_OUT_DIR")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.Fetch.StatsCSVURL, "STATS_CSV_URL")
	setString(&c.Fetch.SpinCSVURL, "SPIN_CSV_URL")
	setString(&c.Fetch.AnalyticsPageURL, "ANALYTICS_PAGE_URL")
	setString(&c.Fetch.AnalyticsExportURL, "ANALYTICS_EXPORT_URL")
	setString(&c.Fetch.UserAgent, "USER_AGENT")
	setString(&c.Server.Port, "PORT")
	setString(&c.Server.CORSOrigin, "CORS_ORIGIN")
	setString(&c.Server.AdminTokenHash, "ADMIN_TOKEN_HASH")
	setString(&c.Notify.SlackWebhookURL, "SLACK_WEBHOOK_URL")
	setString(&c.Notify.SMTPHost, "SMTP_HOST")
	setString(&c.Notify.SMTPPort, "SMTP_PORT")
	setString(&c.Notify.SMTPUsername, "SMTP_USERNAME")
	setString(&c.Notify.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Notify.SMTPFrom, "SMTP_FROM")
	setString(&c.Notify.EmailTo, "NOTIFY_EMAIL")
	return nil
}

// ParseSeasons reads a comma separated season list ("2024, 2023").
func ParseSeasons(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad season %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Season < FirstTrackedSeason || c.Season > time.Now().Year()+1 {
		errs = append(errs, fmt.Errorf("season %d out of range", c.Season))
	}
	prev := c.Season
	for _, s := range c.FallbackSeasons {
		if s >= prev {
			errs = append(errs, fmt.Errorf("fallback season %d must be older than %d", s, prev))
		}
		if s < FirstTrackedSeason {
			errs = append(errs, fmt.Errorf("fallback season %d out of range", s))
		}
		prev = s
	}
	if c.Segment == "" {
		errs = append(errs, errors.New("segment is required"))
	}
	if c.RawDir == "" || c.OutDir == "" {
		errs = append(errs, errors.New("raw_dir and out_dir are required"))
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		errs = append(errs, fmt.Errorf("fuzzy_threshold %v must be in (0, 1]", c.FuzzyThreshold))
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		errs = append(errs, errors.New("fetch.requests_per_second must be positive"))
	}
	return errors.Join(errs...)
}

// Seasons returns the target season followed by the fallbacks, newest first.
func (c *Config) Seasons() []int {
	return append([]int{c.Season}, c.FallbackSeasons...)
}

// SetSeason retargets the config at season. Fallbacks that are not older
// than the new season are dropped; when none remain the two prior seasons
// are used.
func (c *Config) SetSeason(season int) {
	c.Season = season
	var kept []int
	for _, s := range c.FallbackSeasons {
		if s < season {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		for s := season - 1; s >= season-2 && s >= FirstTrackedSeason; s-- {
			kept = append(kept, s)
		}
	}
	c.FallbackSeasons = kept
}
