// Package config loads the catalog service settings from defaults, an optional
// YAML file, an optional .env file and CATALOG_* environment variables, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	EnvPrefix      = "CATALOG_"
	envConfigPath  = EnvPrefix + "CONFIG"
	defaultCfgFile = "config.yaml"
	defaultEnvFile = ".env"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Shutdown  ShutdownConfig  `koanf:"shutdown"`
	Log       LogConfig       `koanf:"log"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout ServerTimeout `koanf:"timeout"`
}

type ServerTimeout struct {
	ReadHeader time.Duration `koanf:"readheader"`
}

type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Token   string `koanf:"token"`
}

type RateLimitConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	// TrustProxy keys clients by X-Forwarded-For instead of the peer address.
	TrustProxy bool `koanf:"trustproxy"`
}

func defaults() map[string]any {
	return map[string]any{
		"server.host":               "0.0.0.0",
		"server.port":               8000,
		"server.timeout.readheader": "5s",
		"shutdown.timeout":          "10s",
		"log.level":                 "info",
		"metrics.enabled":           true,
		"metrics.token":             "",
		"ratelimit.enabled":         false,
		"ratelimit.requests":        100,
		"ratelimit.window":          "60s",
		"ratelimit.trustproxy":      false,
	}
}

// Load builds the configuration. A missing config file or .env file is not an
// error; a malformed one is logged and skipped.
func Load() (Config, error) {
	var cfg Config
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return cfg, fmt.Errorf("load defaults: %w", err)
	}

	cfgFile := defaultCfgFile
	if p := os.Getenv(envConfigPath); p != "" {
		cfgFile = p
	}
	if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: error loading YAML config file '%s': %v", cfgFile, err)
	}

	if envFileMap, err := godotenv.Read(defaultEnvFile); err == nil {
		envMap := make(map[string]any, len(envFileMap))
		for key, value := range envFileMap {
			if !strings.HasPrefix(key, EnvPrefix) {
				continue
			}
			envMap[envKey(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps CATALOG_SERVER_PORT to server.port.
func envKey(key string) string {
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", ".")
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout.ReadHeader <= 0 {
		return errors.New("server.timeout.readheader must be positive")
	}
	if c.Shutdown.Timeout <= 0 {
		return errors.New("shutdown.timeout must be positive")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.Requests <= 0 {
			return errors.New("ratelimit.requests must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return errors.New("ratelimit.window must be positive")
		}
	}
	return nil
}
