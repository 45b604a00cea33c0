package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowplan/internal/server"
	"github.com/matzehuels/flowplan/pkg/buildinfo"
	"github.com/matzehuels/flowplan/pkg/cache"
	"github.com/matzehuels/flowplan/pkg/observability"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP planning API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		maxBody    int64
		maxWorkers int
		timeout    time.Duration
		backend    string
		redisAddr  string
		namespace  string
		rps        float64
		burst      int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner over HTTP",
		Long: `Serve exposes the planner as a JSON API.

  POST /v1/plan     {"text": "Valve AA has flow rate=0; ...", "mode": "both"}
  POST /v1/render   same body, ?format=svg|png|pdf|dot|json
  GET  /healthz
  GET  /version

Plans are cached in the file cache by default. Use --cache redis to share
results between several instances.`,
		Example: `  flowplan serve --addr :8080
  flowplan serve --cache redis --redis-addr redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if backend == "" {
				backend = cfg.CacheBackend
			}
			if redisAddr == "" {
				redisAddr = cfg.RedisAddr
			}
			if backend == "" {
				backend = pipeline.DefaultCacheBackend
			}

			cc, err := newCache(ctx, backend, redisAddr)
			if err != nil {
				return err
			}
			var keyer cache.Keyer
			if namespace != "" {
				keyer = cache.NewScopedKeyer(nil, namespace+":")
			}
			runner := pipeline.NewRunner(cc, keyer, c.Logger)
			defer runner.Close()

			observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))
			srv := server.New(runner, c.Logger, server.Config{
				MaxBody:        maxBody,
				MaxWorkers:     maxWorkers,
				RequestTimeout: timeout,
				RateLimit:      rps,
				Burst:          burst,
			})
			c.Logger.Debug("build", "version", buildinfo.Version, "commit", buildinfo.Commit)
			printInfo("Serving on %s (cache: %s)", addr, backend)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().Int64Var(&maxBody, "max-body", 1<<20, "request body limit in bytes")
	cmd.Flags().IntVar(&maxWorkers, "max-workers", server.DefaultMaxWorkers, "dual planner workers per request")
	cmd.Flags().DurationVar(&timeout, "request-timeout", server.DefaultRequestTimeout, "planning time limit per request")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: file, redis, none (default file)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address or URL for --cache redis")
	cmd.Flags().Float64Var(&rps, "rate", 0, "planning requests per second across all clients (0 = unlimited)")
	cmd.Flags().IntVar(&burst, "burst", 4, "requests allowed above --rate in a burst")
	cmd.Flags().StringVar(&namespace, "namespace", "", "prefix for cache keys, for deployments sharing one redis")

	return cmd
}
