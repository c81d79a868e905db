// Package config loads server settings from defaults, an optional config
// file, HOLDEM_ environment variables and command line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/holdem/internal/api"
	"github.com/mcoot/holdem/internal/factory"
	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/services/coordinator"
	redisstorage "github.com/mcoot/holdem/internal/storage/redis"
)

// EnvPrefix is prepended to every environment variable, e.g. HOLDEM_PORT
const EnvPrefix = "HOLDEM"

// Setting keys, as used in config files
const (
	KeyConfig          = "config"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyReadTimeout     = "read_timeout"
	KeyWriteTimeout    = "write_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
	KeyStorageType     = "storage_type"
	KeyRedisURL        = "redis_url"
	KeySmallBlind      = "small_blind"
	KeyBigBlind        = "big_blind"
	KeyStartingChips   = "starting_chips"
	KeyMaxPlayers      = "max_players"
	KeyShowdownDelay   = "showdown_delay"
	KeyLogLevel        = "log_level"
	KeyStaticDir       = "static_dir"
)

var keys = []string{
	KeyConfig, KeyHost, KeyPort, KeyReadTimeout, KeyWriteTimeout, KeyShutdownTimeout,
	KeyStorageType, KeyRedisURL, KeySmallBlind, KeyBigBlind, KeyStartingChips,
	KeyMaxPlayers, KeyShowdownDelay, KeyLogLevel, KeyStaticDir,
}

// Config is the resolved server configuration
type Config struct {
	Server        api.ServerConfig
	StorageType   string
	RedisURL      string
	Table         model.TableSettings
	ShowdownDelay time.Duration
	LogLevel      slog.Level
	StaticDir     string
}

// RegisterFlags adds a flag for every setting to fs. Flag names use dashes
// in place of the underscores in the setting keys.
func RegisterFlags(fs *pflag.FlagSet) {
	server := api.DefaultServerConfig()
	table := model.DefaultTableSettings()

	fs.String(flagName(KeyConfig), "", "path to a config file (yaml, toml or json)")
	fs.String(flagName(KeyHost), server.Host, "interface to listen on")
	fs.Int(flagName(KeyPort), server.Port, "port to listen on")
	fs.Duration(flagName(KeyReadTimeout), server.ReadTimeout, "HTTP read timeout")
	fs.Duration(flagName(KeyWriteTimeout), server.WriteTimeout, "HTTP write timeout")
	fs.Duration(flagName(KeyShutdownTimeout), server.ShutdownTimeout, "graceful shutdown timeout")
	fs.String(flagName(KeyStorageType), factory.StorageTypeMemory, "storage backend (memory or redis)")
	fs.String(flagName(KeyRedisURL), "", "redis connection URL, required for redis storage")
	fs.Int(flagName(KeySmallBlind), table.SmallBlind, "small blind for quick-seat tables")
	fs.Int(flagName(KeyBigBlind), table.BigBlind, "big blind for quick-seat tables")
	fs.Int(flagName(KeyStartingChips), table.StartingChips, "starting chips for quick-seat tables")
	fs.Int(flagName(KeyMaxPlayers), table.MaxPlayers, "seats at quick-seat tables")
	fs.Duration(flagName(KeyShowdownDelay), coordinator.DefaultConfig().ShowdownDelay, "pause between showdown and the next hand")
	fs.String(flagName(KeyLogLevel), "info", "log level (debug, info, warn, error)")
	fs.String(flagName(KeyStaticDir), "", "directory of a browser client to serve at /")
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

// Load resolves the configuration. fs may be nil, in which case only
// defaults, the environment and HOLDEM_CONFIG are consulted.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if fs != nil {
		for _, key := range keys {
			flag := fs.Lookup(flagName(key))
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag.Name, err)
			}
		}
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	server := api.DefaultServerConfig()
	table := model.DefaultTableSettings()

	v.SetDefault(KeyHost, server.Host)
	v.SetDefault(KeyPort, server.Port)
	v.SetDefault(KeyReadTimeout, server.ReadTimeout)
	v.SetDefault(KeyWriteTimeout, server.WriteTimeout)
	v.SetDefault(KeyShutdownTimeout, server.ShutdownTimeout)
	v.SetDefault(KeyStorageType, factory.StorageTypeMemory)
	v.SetDefault(KeyRedisURL, "")
	v.SetDefault(KeySmallBlind, table.SmallBlind)
	v.SetDefault(KeyBigBlind, table.BigBlind)
	v.SetDefault(KeyStartingChips, table.StartingChips)
	v.SetDefault(KeyMaxPlayers, table.MaxPlayers)
	v.SetDefault(KeyShowdownDelay, coordinator.DefaultConfig().ShowdownDelay)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyStaticDir, "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: api.ServerConfig{
			Host:            v.GetString(KeyHost),
			Port:            v.GetInt(KeyPort),
			ReadTimeout:     v.GetDuration(KeyReadTimeout),
			WriteTimeout:    v.GetDuration(KeyWriteTimeout),
			ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		},
		StorageType: strings.ToLower(v.GetString(KeyStorageType)),
		RedisURL:    v.GetString(KeyRedisURL),
		Table: model.TableSettings{
			SmallBlind:    v.GetInt(KeySmallBlind),
			BigBlind:      v.GetInt(KeyBigBlind),
			StartingChips: v.GetInt(KeyStartingChips),
			MaxPlayers:    v.GetInt(KeyMaxPlayers),
		},
		ShowdownDelay: v.GetDuration(KeyShowdownDelay),
		StaticDir:     v.GetString(KeyStaticDir),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at startup
func (c *Config) Validate() error {
	switch c.StorageType {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("redis_url required when storage_type is redis")
		}
	default:
		return fmt.Errorf("invalid storage_type %q: must be memory or redis", c.StorageType)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.ShowdownDelay <= 0 {
		return errors.New("showdown_delay must be positive")
	}
	if err := c.Table.Validate(); err != nil {
		return fmt.Errorf("invalid table defaults: %w", err)
	}
	return nil
}

// NewLogger builds the JSON logger used by the server
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// Factory converts the configuration into application factory settings
func (c *Config) Factory(logger *slog.Logger) factory.Config {
	cfg := factory.Config{
		Logger:        logger,
		StorageType:   c.StorageType,
		TableDefaults: c.Table,
		Coordinator:   coordinator.Config{ShowdownDelay: c.ShowdownDelay},
	}
	if c.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		cfg.RedisConfig = &redisCfg
	}
	return cfg
}
