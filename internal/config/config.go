package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	AppID     string `env:"APP_ID,required"`
	PublicKey string `env:"PUBLIC_KEY,required"`
	BotToken  string `env:"DISCORD_TOKEN,required"`
	Port      int    `env:"PORT" envDefault:"3000"`

	// Upstream search API
	E621BaseURL   string `env:"E621_BASE_URL" envDefault:"https://e621.net"`
	E621UserAgent string `env:"E621_USER_AGENT" envDefault:"discord-giff"`

	// Storage; empty CONFIG_FILE_PATH selects the in-memory store, empty
	// AUDIT_LOG_PATH disables the audit log.
	ConfigFilePath string `env:"CONFIG_FILE_PATH" envDefault:"data/user-configs.json"`
	AuditLogPath   string `env:"AUDIT_LOG_PATH" envDefault:"logs/interactions.jsonl"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
