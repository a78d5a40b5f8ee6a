package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"socsbot/internal/components/configutil"
	"socsbot/internal/components/telemetry"
)

// ErrMissing is wrapped by Validate for every required value that is absent.
var ErrMissing = errors.New("missing required configuration")

const (
	env_token      = "SOCSBOT_TOKEN"
	env_site       = "SOCSBOT_SITE"
	env_channel_id = "SOCSBOT_CHANNEL_ID"
	env_cookie     = "SOCSBOT_COOKIE"
)

type Window struct {
	// UtcOffsetHours is the fixed timezone the window is evaluated in.
	UtcOffsetHours *int  `json:"utc_offset_hours" yaml:"utc_offset_hours"`
	Hour           *int  `json:"hour" yaml:"hour"`
	Minutes        []int `json:"minutes" yaml:"minutes"`
	TickSeconds    int   `json:"tick_seconds" yaml:"tick_seconds"`
}

type Smtp struct {
	Server       string   `json:"server" yaml:"server"`
	Port         int      `json:"port" yaml:"port"`
	EmailAddress string   `json:"email_address" yaml:"email_address"`
	Password     string   `json:"password" yaml:"password"`
	To           []string `json:"to" yaml:"to"`
}

func (s Smtp) Enabled() bool {
	return s.Server != "" && len(s.To) > 0
}

type Config struct {
	TelegramToken string               `json:"telegram_token" yaml:"telegram_token"`
	Site          string               `json:"site" yaml:"site"`
	ChannelId     int64                `json:"channel_id" yaml:"channel_id"`
	Cookie        string               `json:"cookie" yaml:"cookie"`
	Window        Window               `json:"window" yaml:"window"`
	Email         Smtp                 `json:"email" yaml:"email"`
	Otlp          telemetry.OtlpConfig `json:"otlp" yaml:"otlp"`
	LogLevel      string               `json:"log_level" yaml:"log_level"`

	// CloudflareBypass routes page fetches through the cloudflare-bp transport.
	CloudflareBypass bool `json:"cloudflare_bypass" yaml:"cloudflare_bypass"`
	// AllowedChatIds are the chats whose commands are served, defaults to the output channel.
	AllowedChatIds []int64 `json:"allowed_chat_ids" yaml:"allowed_chat_ids"`
}

func intPtr(v int) *int {
	return &v
}

// ApplyDefaults fills in the reference time window: 00:00 and 00:02 at UTC+7, ticking every minute.
func (c *Config) ApplyDefaults() {
	if c.Window.UtcOffsetHours == nil {
		c.Window.UtcOffsetHours = intPtr(7)
	}
	if c.Window.Hour == nil {
		c.Window.Hour = intPtr(0)
	}
	if len(c.Window.Minutes) == 0 {
		c.Window.Minutes = []int{0, 2}
	}
	if c.Window.TickSeconds <= 0 {
		c.Window.TickSeconds = 60
	}
	if c.Email.Port == 0 {
		c.Email.Port = 587
	}
	if len(c.AllowedChatIds) == 0 && c.ChannelId != 0 {
		c.AllowedChatIds = []int64{c.ChannelId}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// ApplyEnv overrides secrets and targets with environment variables when they are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(env_token); ok && v != "" {
		c.TelegramToken = v
	}
	if v, ok := lookup(env_site); ok && v != "" {
		c.Site = v
	}
	if v, ok := lookup(env_cookie); ok {
		c.Cookie = v
	}
	if v, ok := lookup(env_channel_id); ok && v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", env_channel_id, err)
		}
		c.ChannelId = id
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.TelegramToken == "" {
		errs = append(errs, fmt.Errorf("%w: telegram_token", ErrMissing))
	}
	if c.Site == "" {
		errs = append(errs, fmt.Errorf("%w: site", ErrMissing))
	} else if u, err := url.Parse(c.Site); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid site url %q", c.Site))
	}
	if c.ChannelId == 0 {
		errs = append(errs, fmt.Errorf("%w: channel_id", ErrMissing))
	}

	if c.Window.Hour != nil && (*c.Window.Hour < 0 || *c.Window.Hour > 23) {
		errs = append(errs, fmt.Errorf("window hour %d out of range", *c.Window.Hour))
	}
	for _, m := range c.Window.Minutes {
		if m < 0 || m > 59 {
			errs = append(errs, fmt.Errorf("window minute %d out of range", m))
		}
	}
	if c.Window.UtcOffsetHours != nil && (*c.Window.UtcOffsetHours < -12 || *c.Window.UtcOffsetHours > 14) {
		errs = append(errs, fmt.Errorf("utc offset %d out of range", *c.Window.UtcOffsetHours))
	}
	return errors.Join(errs...)
}

func (c Config) TickInterval() time.Duration {
	return time.Duration(c.Window.TickSeconds) * time.Second
}

// Read reads the config file (and its .local override) and applies environment
// overrides and defaults without validating. A missing file is not an error, the
// environment may provide everything.
func Read(path string) (Config, error) {
	cfg, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	err = cfg.ApplyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Load is Read followed by Validate.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
