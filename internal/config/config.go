// Package config loads runtime settings from defaults, an optional config
// file and INVENTORY_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every knob of the service.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogPretty bool

	SimMinDelay  time.Duration
	SimMaxDelay  time.Duration
	SimAutostart bool
	SeedStore    bool

	JournalMaxEntries int

	RateLimitRPS   float64
	RateLimitBurst int

	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	CORSAllowedOrigins []string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("sim.min_delay", "500ms")
	v.SetDefault("sim.max_delay", "2s")
	v.SetDefault("sim.autostart", false)
	v.SetDefault("store.seed", true)
	v.SetDefault("journal.max_entries", 10000)
	v.SetDefault("ratelimit.rps", 20)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.channel", "inventory:movements")
	v.SetDefault("cors.allowed_origins", []string{"*"})
}

// New returns a viper instance wired for env overrides and an optional config file.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return v, nil
}

// FromViper resolves a Config and checks the values that would break the service.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:           v.GetString("http.addr"),
		LogLevel:           v.GetString("log.level"),
		LogPretty:          v.GetBool("log.pretty"),
		SimMinDelay:        v.GetDuration("sim.min_delay"),
		SimMaxDelay:        v.GetDuration("sim.max_delay"),
		SimAutostart:       v.GetBool("sim.autostart"),
		SeedStore:          v.GetBool("store.seed"),
		JournalMaxEntries:  v.GetInt("journal.max_entries"),
		RateLimitRPS:       v.GetFloat64("ratelimit.rps"),
		RateLimitBurst:     v.GetInt("ratelimit.burst"),
		JWTSecret:          v.GetString("auth.jwt_secret"),
		RedisAddr:          v.GetString("redis.addr"),
		RedisPassword:      v.GetString("redis.password"),
		RedisChannel:       v.GetString("redis.channel"),
		CORSAllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
	}

	if cfg.SimMinDelay <= 0 {
		return cfg, fmt.Errorf("sim.min_delay must be positive, got %s", cfg.SimMinDelay)
	}
	if cfg.SimMaxDelay < cfg.SimMinDelay {
		return cfg, fmt.Errorf("sim.max_delay (%s) must not be below sim.min_delay (%s)", cfg.SimMaxDelay, cfg.SimMinDelay)
	}
	if cfg.JournalMaxEntries <= 0 {
		return cfg, fmt.Errorf("journal.max_entries must be positive, got %d", cfg.JournalMaxEntries)
	}
	if cfg.RateLimitRPS < 0 || cfg.RateLimitBurst < 0 {
		return cfg, errors.New("ratelimit values cannot be negative")
	}
	return cfg, nil
}

// Load is New followed by FromViper.
func Load(configFile string) (Config, error) {
	v, err := New(configFile)
	if err != nil {
		return Config{}, err
	}
	return FromViper(v)
}
