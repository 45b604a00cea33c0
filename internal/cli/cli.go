package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplan/pkg/buildinfo"
	"github.com/matzehuels/flowplan/pkg/cache"
	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/observability"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowplan"

	// cachePrefix namespaces flowplan keys in a shared Redis.
	cachePrefix = "flowplan:"
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

	// configPath is the --config flag; empty means the default location,
	// which may be absent.
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Flowplan finds the best order to open valves in a tunnel network",
		Long:         `Flowplan computes the most pressure one agent, or two cooperating agents, can release from a network of valves and tunnels within a time budget, and draws the resulting plan.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flowplan/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads the config file named by --config, or the default config
// file when it exists. A missing default file yields empty options.
func (c *CLI) loadConfig() (pipeline.Options, error) {
	path := c.configPath
	if path == "" {
		def, err := pipeline.DefaultConfigPath(appName)
		if err != nil {
			return pipeline.Options{}, nil
		}
		if _, err := os.Stat(def); err != nil {
			return pipeline.Options{}, nil
		}
		path = def
	}
	c.Logger.Debug("loading config", "path", path)
	return pipeline.LoadConfig(path)
}

// resolveOptions merges the config file under the flag values.
func (c *CLI) resolveOptions(flags pipeline.Options) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	flags.Merge(cfg)
	flags.Logger = c.Logger
	if flags.Workers == 0 {
		flags.Workers = runtime.NumCPU()
	}
	return flags, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, opts pipeline.Options) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, opts.CacheBackend, opts.RedisAddr)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache opens the configured cache backend with compressed values. The
// file cache degrades to no caching when the cache directory cannot be
// determined.
func newCache(ctx context.Context, backend, redisAddr string) (cache.Cache, error) {
	switch backend {
	case pipeline.CacheNone:
		return cache.NewNullCache(), nil
	case pipeline.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, redisAddr, cachePrefix)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeUnsupported, err, "redis cache at %q", redisAddr)
		}
		return cache.NewCompressedCache(rc)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.NewCompressedCache(fc)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowplan/).
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
// An empty string yields def.
func parseFormats(s string, def ...string) []string {
	if s == "" {
		return def
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
