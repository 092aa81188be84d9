package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is loaded once at startup from the environment (with .env support).
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN,required"`
	CAIToken     string `env:"CAI_TOKEN,required"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"datastore.json"`

	BotPrefixes []string `env:"BOT_PREFIXES" envDefault:"ai!" envSeparator:","`
	RateLimit   int      `env:"RATE_LIMIT" envDefault:"5"`
	DMEnabled   bool     `env:"DM_ENABLED" envDefault:"true"`

	DefaultReplyChance float64 `env:"DEFAULT_REPLY_CHANCE" envDefault:"0"`

	MessageFormat string `env:"MESSAGE_FORMAT" envDefault:"{username}{reply}{message}"`
	NameFormat    string `env:"NAME_FORMAT" envDefault:"[{username}] "`
	QuoteFormat   string `env:"QUOTE_FORMAT" envDefault:"((in reply to: {quote})) "`
}

// New loads the configuration. A missing .env file is fine; required keys
// must then come from the process environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.RateLimit < 3 {
		return nil, fmt.Errorf("RATE_LIMIT must be at least 3, got %d", cfg.RateLimit)
	}
	return cfg, nil
}
