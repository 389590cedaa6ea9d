package config

import (
	"fmt"
	"strings"

	"github.com/knotara/storefront/internal/logger"

	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// AppConfig holds general runtime settings.
type AppConfig struct {
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig holds log output settings.
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions converts to logger options.
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// StorageConfig configures the slot store backing the persistence bridge.
type StorageConfig struct {
	Dir            string `mapstructure:"dir"`            // directory holding slot files
	DatabaseSlot   string `mapstructure:"database_slot"`  // key of the serialized image slot
	WishlistSlot   string `mapstructure:"wishlist_slot"`  // key of the wishlist slot
	ProfileSlot    string `mapstructure:"profile_slot"`   // key of the auth profile snapshot slot
	SessionSlot    string `mapstructure:"session_slot"`   // key of the analytics session id slot
	DisablePersist bool   `mapstructure:"disable_persist"`
}

// AuthConfig configures password hashing and session tokens.
type AuthConfig struct {
	JWTSecret      string `mapstructure:"jwt_secret"`
	ExpireHours    int    `mapstructure:"expire_hours"`
	BcryptCost     int    `mapstructure:"bcrypt_cost"`
	MinPasswordLen int    `mapstructure:"min_password_len"`
}

// SeedConfig controls demo data loading on fresh bootstrap.
type SeedConfig struct {
	Demo bool `mapstructure:"demo"`
}

// AnalyticsConfig configures event retention.
type AnalyticsConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// Load reads configuration from config.yaml plus STORE_* environment overrides.
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("./etc")

	viper.SetDefault("app.mode", "debug")
	viper.SetDefault("log.dir", "")
	viper.SetDefault("log.filename", "store.log")
	viper.SetDefault("log.max_size_mb", 100)
	viper.SetDefault("log.max_backups", 7)
	viper.SetDefault("log.max_age_days", 30)
	viper.SetDefault("log.compress", true)
	viper.SetDefault("storage.dir", "./data")
	viper.SetDefault("storage.database_slot", "knotara_sqlite_db")
	viper.SetDefault("storage.wishlist_slot", "knotara_wishlist")
	viper.SetDefault("storage.profile_slot", "knotara_auth_user")
	viper.SetDefault("storage.session_slot", "analytics_session_id")
	viper.SetDefault("storage.disable_persist", false)
	viper.SetDefault("auth.jwt_secret", "change-me-in-production")
	viper.SetDefault("auth.expire_hours", 24)
	viper.SetDefault("auth.bcrypt_cost", 10)
	viper.SetDefault("auth.min_password_len", 6)
	viper.SetDefault("seed.demo", true)
	viper.SetDefault("analytics.retention_days", 90)

	viper.SetEnvPrefix("store")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("parse config: %w", err))
	}

	return &cfg
}
