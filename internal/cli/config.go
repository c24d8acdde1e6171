package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/internal/server"
	"github.com/matzehuels/rauzy/pkg/cache"
	"github.com/matzehuels/rauzy/pkg/store"
)

// Cache backends accepted in [cache] backend.
const (
	backendFile   = "file"
	backendMemory = "memory"
	backendRedis  = "redis"
	backendNone   = "none"
)

var cacheBackends = []string{backendFile, backendMemory, backendRedis, backendNone}

// Config is the contents of config.toml. Every field is optional; flags
// override it.
type Config struct {
	Workers int          `toml:"workers"`
	Cache   CacheConfig  `toml:"cache"`
	Redis   RedisConfig  `toml:"redis"`
	Mongo   MongoConfig  `toml:"mongo"`
	Server  ServerConfig `toml:"server"`
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // file, memory, redis or none
	Dir     string `toml:"dir"`     // file backend; XDG cache dir when empty
	Size    int    `toml:"size"`    // memory backend entries
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// MongoConfig configures the class catalog. The catalog is disabled when
// URI is empty.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Backend: backendFile},
		Redis:  RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"},
		Mongo:  MongoConfig{Database: appName, Collection: store.DefaultCollection},
		Server: ServerConfig{Addr: server.DefaultAddr, RequestTimeout: server.DefaultRequestTimeout},
	}
}

// LoadConfig reads path over the defaults. A missing file at the default
// location is not an error; a missing file named explicitly is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend %q (must be %s)", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Workers < 0 || c.Cache.Size < 0 {
		return fmt.Errorf("workers and cache size must not be negative")
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("server request_timeout must not be negative")
	}
	return nil
}

func (c Config) redis() cache.RedisConfig {
	return cache.RedisConfig{Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB, Prefix: c.Redis.Prefix}
}

func (c Config) mongo() store.MongoConfig {
	return store.MongoConfig{URI: c.Mongo.URI, Database: c.Mongo.Database, Collection: c.Mongo.Collection}
}

// configPath returns $XDG_CONFIG_HOME/rauzy/config.toml, or
// ~/.config/rauzy/config.toml.
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// configCommand creates the config inspection command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configFile
			if path == "" {
				p, err := configPath()
				if err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
				path = p
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(c.Config)
		},
	})
	return cmd
}
