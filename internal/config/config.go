// Package config loads runtime configuration for the etkinlik CLI.
//
// A config file is optional. When given, it is decoded on top of Default(),
// so a file only needs the keys it changes. The format follows the file
// extension: .yaml/.yml or .toml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/etkinlik-toplayici/etkinlik/internal/datenorm"
)

const (
	DefaultDataDir        = "~/.local/share/etkinlik"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultAcceptLanguage = "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
	DefaultTimeoutSeconds = 20
	DefaultMicrofonLocale = 223
	DefaultMaxMessages    = 10
	DefaultTelegramAPIURL = "https://api.telegram.org"
)

// Config holds all runtime configuration.
type Config struct {
	DataDir string        `yaml:"data_dir" toml:"data_dir"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	HTTP    HTTPConfig    `yaml:"http" toml:"http"`
	Sources SourcesConfig `yaml:"sources" toml:"sources"`
	Notify  NotifyConfig  `yaml:"notify" toml:"notify"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // "json" or "text"
}

// HTTPConfig configures the shared HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds" toml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent" toml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language" toml:"accept_language"`
}

// SourcesConfig holds per-site settings.
type SourcesConfig struct {
	Biletinial EventSourceConfig `yaml:"biletinial" toml:"biletinial"`
	Bubilet    EventSourceConfig `yaml:"bubilet" toml:"bubilet"`
	Microfon   MicrofonConfig    `yaml:"microfon" toml:"microfon"`
}

// EventSourceConfig configures one ticketing site.
type EventSourceConfig struct {
	BaseURL string         `yaml:"base_url" toml:"base_url"`
	Policy  PolicyOverride `yaml:"policy" toml:"policy"`
}

// MicrofonConfig configures the scholarship site.
type MicrofonConfig struct {
	BaseURL    string `yaml:"base_url" toml:"base_url"`
	LocationID int    `yaml:"location_id" toml:"location_id"`
}

// NotifyConfig configures announcements of new listings.
type NotifyConfig struct {
	MaxMessages int            `yaml:"max_messages" toml:"max_messages"`
	Telegram    TelegramConfig `yaml:"telegram" toml:"telegram"`
	Twitter     TwitterConfig  `yaml:"twitter" toml:"twitter"`
}

// TelegramConfig holds the bot credentials. BotToken may also come from
// the ETKINLIK_TELEGRAM_TOKEN environment variable.
type TelegramConfig struct {
	APIURL   string `yaml:"api_url" toml:"api_url"`
	BotToken string `yaml:"bot_token" toml:"bot_token"`
	ChatID   string `yaml:"chat_id" toml:"chat_id"`
}

// TwitterConfig holds OAuth1 keys. The TWITTER_API_KEY, TWITTER_API_SECRET,
// TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET environment variables take
// precedence.
type TwitterConfig struct {
	APIKey       string `yaml:"api_key" toml:"api_key"`
	APISecret    string `yaml:"api_secret" toml:"api_secret"`
	AccessToken  string `yaml:"access_token" toml:"access_token"`
	AccessSecret string `yaml:"access_secret" toml:"access_secret"`
}

// PolicyOverride changes individual flags of a source's date policy. Unset
// fields keep the preset value.
type PolicyOverride struct {
	StripWeekdayNames               *bool `yaml:"strip_weekday_names" toml:"strip_weekday_names"`
	StripClockTimes                 *bool `yaml:"strip_clock_times" toml:"strip_clock_times"`
	CollapseSeparators              *bool `yaml:"collapse_separators" toml:"collapse_separators"`
	BumpYearOnPastDayInCurrentMonth *bool `yaml:"bump_year_on_past_day_in_current_month" toml:"bump_year_on_past_day_in_current_month"`
}

// Apply returns p with the overridden flags replaced.
func (o PolicyOverride) Apply(p datenorm.Policy) datenorm.Policy {
	if o.StripWeekdayNames != nil {
		p.StripWeekdayNames = *o.StripWeekdayNames
	}
	if o.StripClockTimes != nil {
		p.StripClockTimes = *o.StripClockTimes
	}
	if o.CollapseSeparators != nil {
		p.CollapseSeparators = *o.CollapseSeparators
	}
	if o.BumpYearOnPastDayInCurrentMonth != nil {
		p.BumpYearOnPastDayInCurrentMonth = *o.BumpYearOnPastDayInCurrentMonth
	}
	return p
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir,
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: DefaultTimeoutSeconds,
			UserAgent:      DefaultUserAgent,
			AcceptLanguage: DefaultAcceptLanguage,
		},
		Sources: SourcesConfig{
			Biletinial: EventSourceConfig{BaseURL: "https://biletinial.com"},
			Bubilet:    EventSourceConfig{BaseURL: "https://www.bubilet.com.tr"},
			Microfon:   MicrofonConfig{BaseURL: "https://microfon.co", LocationID: DefaultMicrofonLocale},
		},
		Notify: NotifyConfig{
			MaxMessages: DefaultMaxMessages,
			Telegram:    TelegramConfig{APIURL: DefaultTelegramAPIURL},
		},
	}
}

// LoadFrom reads a config file and decodes it over the defaults.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .toml)", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q (must be 'json' or 'text')", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Notify.MaxMessages < 0 {
		return fmt.Errorf("notify.max_messages must not be negative, got %d", c.Notify.MaxMessages)
	}
	for name, u := range map[string]string{
		"sources.biletinial.base_url": c.Sources.Biletinial.BaseURL,
		"sources.bubilet.base_url":    c.Sources.Bubilet.BaseURL,
		"sources.microfon.base_url":   c.Sources.Microfon.BaseURL,
		"notify.telegram.api_url":     c.Notify.Telegram.APIURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, u)
		}
	}
	return nil
}

// Timeout returns the HTTP timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// BiletinialPolicy returns the Biletinial preset with file overrides applied.
func (c *Config) BiletinialPolicy() datenorm.Policy {
	return c.Sources.Biletinial.Policy.Apply(datenorm.BiletinialPolicy)
}

// BubiletPolicy returns the Bubilet preset with file overrides applied.
func (c *Config) BubiletPolicy() datenorm.Policy {
	return c.Sources.Bubilet.Policy.Apply(datenorm.BubiletPolicy)
}
