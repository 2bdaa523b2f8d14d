package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Settings store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the resolved application configuration.
type Config struct {
	Port     string
	LogLevel string

	DBPath         string
	SettingsDriver string
	PostgresURL    string

	CacheMaxAge     time.Duration
	SeedPlaceholder bool

	Timezone    string
	WeekendDays []string

	WatchInterval time.Duration

	SigningKey string
	TokenTTL   time.Duration
}

const envPrefix = "THERMOSTAT"

var errPostgresURL = errors.New("settings.postgres_url is required when settings.driver is postgres")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("settings.driver", DriverSQLite)
	v.SetDefault("cache.max_age", "1000s")
	v.SetDefault("cache.seed_placeholder", true)
	v.SetDefault("schedule.timezone", "Local")
	v.SetDefault("schedule.weekend_days", []string{"saturday", "sunday"})
	v.SetDefault("watch.interval", "30s")
	v.SetDefault("auth.token_ttl", "1h")
}

// Load reads an optional .env file, then configs/config.yml (or the directory
// given), then THERMOSTAT_* environment overrides.
func Load(dirs ...string) (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetString("port"),
		LogLevel:        v.GetString("log.level"),
		DBPath:          v.GetString("db.path"),
		SettingsDriver:  strings.ToLower(v.GetString("settings.driver")),
		PostgresURL:     v.GetString("settings.postgres_url"),
		CacheMaxAge:     v.GetDuration("cache.max_age"),
		SeedPlaceholder: v.GetBool("cache.seed_placeholder"),
		Timezone:        v.GetString("schedule.timezone"),
		WeekendDays:     v.GetStringSlice("schedule.weekend_days"),
		WatchInterval:   v.GetDuration("watch.interval"),
		SigningKey:      v.GetString("auth.signing_key"),
		TokenTTL:        v.GetDuration("auth.token_ttl"),
	}

	switch cfg.SettingsDriver {
	case DriverSQLite:
	case DriverPostgres:
		if cfg.PostgresURL == "" {
			return cfg, errPostgresURL
		}
	default:
		return cfg, fmt.Errorf("unknown settings.driver %q", cfg.SettingsDriver)
	}
	if cfg.CacheMaxAge < 0 {
		return cfg, fmt.Errorf("cache.max_age must not be negative, got %s", cfg.CacheMaxAge)
	}
	if cfg.WatchInterval <= 0 {
		return cfg, fmt.Errorf("watch.interval must be positive, got %s", cfg.WatchInterval)
	}
	if cfg.SigningKey == "" {
		return cfg, errors.New("auth.signing_key is required")
	}
	return cfg, nil
}

// Location resolves Timezone; "Local" and "" mean the process zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
