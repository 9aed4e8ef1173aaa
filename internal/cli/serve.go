package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/internal/server"
	"github.com/matzehuels/museummap/pkg/cache"
	"github.com/matzehuels/museummap/pkg/enrich"
	"github.com/matzehuels/museummap/pkg/observability/prom"
	"github.com/matzehuels/museummap/pkg/session"
)

// sessionSweepInterval is how often expired sessions are unmounted.
const sessionSweepInterval = time.Minute

type serveOpts struct {
	addr       string
	webhook    string
	duplicates string
	noMetrics  bool
	noCache    bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the museum map HTTP API",
		Long: `Serve renders scenes, hosts interactive map sessions and proxies label
text to the enrichment webhook. Settings come from the config file; flags
override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :3001)")
	cmd.Flags().StringVar(&opts.webhook, "webhook", "", "enrichment webhook URL (empty in config disables enrichment)")
	cmd.Flags().StringVar(&opts.duplicates, "duplicates", "", "duplicate-slot policy: first, lowest-id, reject")
	cmd.Flags().BoolVar(&opts.noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the snapshot and scene cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}
	if opts.webhook != "" {
		cfg.Webhook.URL = opts.webhook
	}
	pol, err := policy(opts.duplicates, cfg)
	if err != nil {
		return err
	}

	store, closeStore, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ca, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer ca.Close()
	keyer := cache.NewDefaultKeyer()

	sessions := session.NewMemoryStore(cfg.Session.TTL.Duration, logger)
	go sessions.Run(ctx, sessionSweepInterval)

	srvOpts := []server.Option{
		server.WithCache(ca, keyer, cfg.Cache.TTL.Duration),
		server.WithPolicy(pol),
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins...),
		server.WithLogger(logger),
	}

	if !opts.noMetrics {
		collector := prom.NewCollector(appName)
		collector.Register()
		srvOpts = append(srvOpts, server.WithMetrics(collector))
	}

	if cfg.Webhook.URL != "" {
		client, err := enrich.New(enrich.Config{
			URL:         cfg.Webhook.URL,
			FollowupURL: cfg.Webhook.FollowupURL,
			Timeout:     cfg.Webhook.Timeout.Duration,
			CacheTTL:    cfg.Cache.TTL.Duration,
		}, enrich.WithCache(ca, keyer), enrich.WithLogger(logger))
		if err != nil {
			return err
		}
		srvOpts = append(srvOpts, server.WithEnrichment(client))
		printKeyValue("Webhook", client.URL())
	} else {
		printWarning("No webhook configured: /api/artifact and /api/ask are disabled")
	}

	printKeyValue("Store", cfg.Store.Backend)
	printKeyValue("Cache", cacheBackend(cfg.Cache.Backend, opts.noCache))
	printKeyValue("Duplicates", string(pol))
	printSuccess("Serving on %s", StyleNumber.Render(cfg.Server.Addr))

	src := c.cachedSource(store, ca, cfg)
	return server.New(src, sessions, srvOpts...).Run(ctx, cfg.Server.Addr)
}

func cacheBackend(backend string, disabled bool) string {
	if disabled {
		return "none"
	}
	return backend
}
