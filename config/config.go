package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Scheduling SchedulingConfig
}

type AppConfig struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	TimeZone string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SchedulingConfig holds the values the availability engine is constructed with.
type SchedulingConfig struct {
	DefaultSlotDuration time.Duration
	TimeZone            string
	MaxRangeDays        int
	SlotCacheTTL        time.Duration
	SlotLockTTL         time.Duration
	RuleCacheSize       int
}

// Location resolves TimeZone, defaulting to UTC when unset.
func (c SchedulingConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DB_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SCHEDULE_DEFAULT_SLOT_MINUTES", 15)
	viper.SetDefault("SCHEDULE_TIMEZONE", "Asia/Jakarta")
	viper.SetDefault("SCHEDULE_MAX_RANGE_DAYS", 31)
	viper.SetDefault("SLOT_CACHE_TTL", "10m")
	viper.SetDefault("SLOT_LOCK_TTL", "10s")
	viper.SetDefault("RULE_CACHE_SIZE", 1024)
}

func LoadConfig() (*Config, error) {
	setDefaults()
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("JWT_REFRESH_EXPIRY"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	slotMinutes := viper.GetInt("SCHEDULE_DEFAULT_SLOT_MINUTES")
	if slotMinutes <= 0 {
		return nil, fmt.Errorf("SCHEDULE_DEFAULT_SLOT_MINUTES must be positive, got %d", slotMinutes)
	}

	config := &Config{
		App: AppConfig{
			Port:               viper.GetString("APP_PORT"),
			Env:                viper.GetString("APP_ENV"),
			LogLevel:           viper.GetString("LOG_LEVEL"),
			CORSAllowedOrigins: strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ","),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
			TimeZone: viper.GetString("DB_TIMEZONE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:        viper.GetString("JWT_SECRET"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Scheduling: SchedulingConfig{
			DefaultSlotDuration: time.Duration(slotMinutes) * time.Minute,
			TimeZone:            viper.GetString("SCHEDULE_TIMEZONE"),
			MaxRangeDays:        viper.GetInt("SCHEDULE_MAX_RANGE_DAYS"),
			SlotCacheTTL:        viper.GetDuration("SLOT_CACHE_TTL"),
			SlotLockTTL:         viper.GetDuration("SLOT_LOCK_TTL"),
			RuleCacheSize:       viper.GetInt("RULE_CACHE_SIZE"),
		},
	}

	return config, nil
}

// isMissingFile covers SetConfigFile, which reports a plain fs error instead of
// ConfigFileNotFoundError when the explicit file is absent.
func isMissingFile(err error) bool {
	var pathErr *fs.PathError
	return errors.As(err, &pathErr)
}
