package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplan/pkg/cache"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached plans and drawings",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. It clears the
// backend named in the config file, the file cache by default.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached plans and drawings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			backend := cfg.CacheBackend
			if backend == "" {
				backend = pipeline.DefaultCacheBackend
			}

			cc, err := newCache(ctx, backend, cfg.RedisAddr)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q holds nothing to clear", backend)
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			if fc, ok := unwrapCache(cc).(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// unwrapCache returns the innermost backend of a wrapped cache.
func unwrapCache(c cache.Cache) cache.Cache {
	for {
		w, ok := c.(interface{ Unwrap() cache.Cache })
		if !ok {
			return c
		}
		c = w.Unwrap()
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the file cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
