package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardsheet/internal/server"
	"github.com/matzehuels/cardsheet/pkg/cache"
	"github.com/matzehuels/cardsheet/pkg/observability"
	"github.com/matzehuels/cardsheet/pkg/storage"
)

// serveOpts holds the flags for the serve command.
type serveOpts struct {
	addr        string
	redisURL    string
	redisPrefix string
	mongoURI    string
	mongoDB     string
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:        ":8080",
		redisPrefix: appName + ":",
		mongoDB:     appName,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the layout HTTP API",
		Long: `Run the layout HTTP API.

Layouts are kept in memory unless --mongo is given. With --redis, computed
layouts are cached in Redis and shared between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the layout cache (e.g. redis://localhost:6379/0)")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", opts.redisPrefix, "Redis key prefix")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for stored layouts (e.g. mongodb://localhost:27017)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	logger := c.Logger

	var store storage.Store = storage.NewMemoryStore()
	if opts.mongoURI != "" {
		ms, err := storage.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		store = ms
		logger.Info("using mongo store", "db", opts.mongoDB)
	}
	defer store.Close(context.WithoutCancel(ctx))

	var lc cache.Cache = cache.NewNullCache()
	if opts.redisURL != "" {
		rc, err := cache.NewRedisCache(ctx, opts.redisURL, opts.redisPrefix)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		lc = rc
		logger.Info("using redis cache", "prefix", opts.redisPrefix)
	}
	defer lc.Close()

	observability.SetServerHooks(server.NewLogHooks(logger))

	srv := server.New(server.Config{
		Addr:   opts.addr,
		Logger: logger,
		Store:  store,
		Cache:  lc,
	})
	printInfo("Listening on %s", StyleValue.Render(opts.addr))
	return srv.Run(ctx)
}
