// Package cli implements the rauzy command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/rauzy/pkg/buildinfo"
	"github.com/matzehuels/rauzy/pkg/cache"
	"github.com/matzehuels/rauzy/pkg/pipeline"
	"github.com/matzehuels/rauzy/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "rauzy"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configFile string // --config
	cacheFlag  string // --cache, overrides [cache] backend
	noCache    bool   // --no-cache
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Rauzy induction, Rauzy diagrams and cylinder decompositions",
		Long: `Rauzy explores interval exchange transformations: it runs Rauzy induction,
builds Rauzy diagrams, computes the surface (genus and stratum) a permutation
suspends to, decomposes integral exchanges into cylinders and estimates the
Rauzy-Zorich speed.

Permutations are written as two rows of labels separated by a slash, with a
leading '-' marking flipped labels:

  rauzy diagram "a b c d / d c b a"
  rauzy cover "a -b / b a"`,
		Version:       buildinfo.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/rauzy/config.toml)")
	root.PersistentFlags().StringVar(&c.cacheFlag, "cache", "", "cache backend: "+strings.Join(cacheBackends, ", "))
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable caching")

	root.AddCommand(c.induceCommand())
	root.AddCommand(c.diagramCommand())
	root.AddCommand(c.coverCommand())
	root.AddCommand(c.cylindersCommand())
	root.AddCommand(c.speedCommand())
	root.AddCommand(c.classesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := LoadConfig(c.configFile)
	if err != nil {
		return err
	}
	if c.cacheFlag != "" {
		cfg.Cache.Backend = c.cacheFlag
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if c.noCache {
		cfg.Cache.Backend = backendNone
	}
	c.Config = cfg
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use, with the configured
// cache and, when a Mongo URI is configured, the class catalog.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	if c.Config.Mongo.URI != "" {
		st, err := store.NewMongoStore(ctx, c.Config.mongo())
		if err != nil {
			runner.Close()
			return nil, fmt.Errorf("open class catalog: %w", err)
		}
		runner.Store = st
	}
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	switch c.Config.Cache.Backend {
	case backendNone:
		return cache.NewNullCache(), nil
	case backendMemory:
		return cache.NewMemoryCache(c.Config.Cache.Size)
	case backendRedis:
		return cache.NewRedisCache(ctx, c.Config.redis())
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/rauzy/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{"json"}
	}
	return strings.Split(s, ",")
}

// workers returns the flag value, or the configured default.
func (c *CLI) workers(flag int) int {
	if flag > 0 {
		return flag
	}
	return c.Config.Workers
}
