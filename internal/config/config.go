// Package config loads the roamctl configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// EnvToken is consulted when the config file carries no token, so API
// keys can stay out of files checked into dotfile repos.
const EnvToken = "ROAM_TOKEN"

// Config holds all roamctl configuration.
type Config struct {
	Bot BotConfig `toml:"bot"`

	HTTP HTTPConfig `toml:"http"`

	// Headers are merged over the client's default request headers.
	Headers map[string]string `toml:"headers"`

	// Heartbeats are the recurring messages run by "roamctl heartbeat".
	Heartbeats []HeartbeatConfig `toml:"heartbeat"`
}

// BotConfig is the bot identity messages are sent as.
type BotConfig struct {
	Name            string   `toml:"name"`
	ID              string   `toml:"id"`
	ImageURL        string   `toml:"image_url"`
	Token           string   `toml:"token"`
	DefaultChannels []string `toml:"default_channels"`
}

type HTTPConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// HeartbeatConfig defines one recurring message.
type HeartbeatConfig struct {
	Name     string   `toml:"name"`
	Schedule string   `toml:"schedule"` // cron expression or @every duration
	Message  string   `toml:"message"`
	Channels []string `toml:"channels"`
}

// Default returns the configuration used when a field is not set.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
	}
}

// Load reads a TOML config file. The token falls back to the ROAM_TOKEN
// environment variable when the file leaves it empty.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if cfg.Bot.Token == "" {
		cfg.Bot.Token = os.Getenv(EnvToken)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every command needs.
func (c *Config) Validate() error {
	if c.Bot.Name == "" {
		return fmt.Errorf("bot.name is required")
	}
	if c.Bot.ID == "" {
		return fmt.Errorf("bot.id is required")
	}
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token is required (set it in the config file or %s)", EnvToken)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be positive")
	}
	for i, hb := range c.Heartbeats {
		if hb.Name == "" {
			return fmt.Errorf("heartbeat[%d]: name is required", i)
		}
		if hb.Schedule == "" {
			return fmt.Errorf("heartbeat %q: schedule is required", hb.Name)
		}
		if hb.Message == "" {
			return fmt.Errorf("heartbeat %q: message is required", hb.Name)
		}
	}
	return nil
}
