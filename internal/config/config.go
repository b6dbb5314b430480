package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Redis    RedisConfig    `mapstructure:"redis"`
	QuranAPI QuranAPIConfig `mapstructure:"quran_api"`
	Tajweed  TajweedConfig  `mapstructure:"tajweed"`
	App      AppConfig      `mapstructure:"app"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
}

type RedisConfig struct {
	URI     string        `mapstructure:"uri"`
	SpanTTL time.Duration `mapstructure:"span_ttl"`
}

type QuranAPIConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	APIKey             string `mapstructure:"api_key"`
	Edition            string `mapstructure:"edition"`
	TranslationEdition string `mapstructure:"translation_edition"`
}

type TajweedConfig struct {
	// RulesFile replaces the built-in rule table when set
	RulesFile    string        `mapstructure:"rules_file"`
	MatchTimeout time.Duration `mapstructure:"match_timeout"`
}

type AppConfig struct {
	LocalesDir      string `mapstructure:"locales_dir"`
	DefaultLanguage string `mapstructure:"default_language"`
}

// Load loads configuration from a YAML file with environment variable overrides
func Load(filename string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(filename)

	// Set defaults
	v.SetDefault("app.locales_dir", "locales")
	v.SetDefault("app.default_language", "en")
	v.SetDefault("quran_api.base_url", "https://api.alquran.cloud/v1")
	v.SetDefault("quran_api.edition", "ar.alafasy")
	v.SetDefault("quran_api.translation_edition", "en.sahih")
	v.SetDefault("redis.span_ttl", "168h")
	v.SetDefault("tajweed.match_timeout", "250ms")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Environment variable configuration
	v.SetEnvPrefix("")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate required fields
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}
	if cfg.Redis.URI == "" {
		return nil, fmt.Errorf("redis URI is required")
	}
	if cfg.QuranAPI.BaseURL == "" {
		return nil, fmt.Errorf("quran API base URL is required")
	}
	if cfg.QuranAPI.Edition == "" {
		return nil, fmt.Errorf("quran API edition is required")
	}
	if cfg.Tajweed.MatchTimeout < 0 {
		return nil, fmt.Errorf("tajweed match timeout must not be negative")
	}

	return &cfg, nil
}
