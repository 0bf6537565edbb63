// Package config provides configuration loading, defaulting, and validation
// for the watchdog bot. Configuration is read from a YAML file and BOT_*
// environment variables, then validated with struct tags.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config defines the application configuration for all components.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Moderation ModerationConfig `mapstructure:"moderation"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
}

// LoggerConfig controls log verbosity and output format.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds transport settings. Mode selects between a long-poll
// loop and an inbound webhook endpoint; for webhook mode the public URL must
// be registered with the platform out of band.
type TelegramConfig struct {
	Token         string  `mapstructure:"token"          validate:"required"`
	Mode          string  `mapstructure:"mode"           validate:"oneof=polling webhook"`
	ListenAddr    string  `mapstructure:"listen_addr"`
	CommandPrefix string  `mapstructure:"command_prefix" validate:"required,alphanum"`
	Operators     []int64 `mapstructure:"operators"`

	// BotID is resolved at startup via GetMe, not read from config.
	BotID int64 `mapstructure:"-"`
}

// DatabaseConfig holds SQLite settings and audit-log retention.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path"          validate:"required"`
	LogRetention time.Duration `mapstructure:"log_retention" validate:"min=24h"`
}

// ModerationConfig tunes the moderation core.
type ModerationConfig struct {
	AdminCacheTTL time.Duration `mapstructure:"admin_cache_ttl" validate:"min=1m"`
}

// SchedulerConfig configures background tasks by name.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// TaskConfig enables a named task and sets its cron schedule.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// LoadConfig reads configuration from the given YAML file (optional) plus
// BOT_* environment variables, applies defaults, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	// Registering the key makes BOT_TELEGRAM_TOKEN visible to Unmarshal;
	// an empty token still fails validation.
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.mode", "polling")
	v.SetDefault("telegram.listen_addr", ":8080")
	v.SetDefault("telegram.command_prefix", "watchdog")

	v.SetDefault("database.path", "watchdog.db")
	v.SetDefault("database.log_retention", 90*24*time.Hour)

	v.SetDefault("moderation.admin_cache_ttl", time.Hour)

	v.SetDefault("scheduler.tasks.sql_maintenance.enabled", true)
	v.SetDefault("scheduler.tasks.sql_maintenance.schedule", "0 0 4 * * *")
	v.SetDefault("scheduler.tasks.log_retention.enabled", true)
	v.SetDefault("scheduler.tasks.log_retention.schedule", "0 30 4 * * *")
}
