package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/museummap/internal/config"
	"github.com/matzehuels/museummap/pkg/artifact"
	"github.com/matzehuels/museummap/pkg/artifact/mongostore"
	"github.com/matzehuels/museummap/pkg/binder"
	"github.com/matzehuels/museummap/pkg/buildinfo"
	"github.com/matzehuels/museummap/pkg/cache"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "museummap"

	// redisPrefix namespaces every key the CLI and server write to Redis.
	redisPrefix = appName + ":"
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
		Short:        "Museummap lays artifacts out on a zoomable museum map",
		Long:         `Museummap binds museum artifacts to slots around category anchors and renders the resulting map, serves it over HTTP, or lets you browse it in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.artifactsCommand())
	root.AddCommand(c.describeCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	c.registerCompletions(root)

	return root
}

// =============================================================================
// Backends
// =============================================================================

// loadConfig reads the --config file, or the default path.
func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	level, err := parseLogLevel(cfg.Log.Level)
	if err != nil {
		return cfg, err
	}
	// --verbose wins over the configured level.
	if c.Logger.GetLevel() != LogDebug {
		c.SetLogLevel(level)
	}
	return cfg, nil
}

// openStore opens the configured artifact store. The returned function
// releases it.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (artifact.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return artifact.NewMemoryStore(), func() {}, nil
	case config.StoreMongo:
		s, err := mongostore.Open(ctx, mongostore.Config{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.Database,
			Collection: cfg.Store.Collection,
		}, c.Logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close(context.Background()) }, nil
	default:
		return artifact.NewFileStore(cfg.Store.File, c.Logger), func() {}, nil
	}
}

// openCache opens the configured cache backend, instrumented for the
// observability hooks. noCache forces the null cache.
func (c *CLI) openCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return cache.Instrumented(rc), nil
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			dir = config.CacheDir()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return cache.Instrumented(fc), nil
	}
}

// cachedSource puts the snapshot cache in front of store.
func (c *CLI) cachedSource(store artifact.Store, ca cache.Cache, cfg config.Config) *artifact.CachedSource {
	key := cache.NewDefaultKeyer().SnapshotKey(cfg.Store.Backend)
	return artifact.NewCachedSource(store, ca, key, cfg.Cache.TTL.Duration, c.Logger)
}

// policy resolves the --duplicates flag over the configured policy.
func policy(flag string, cfg config.Config) (binder.Policy, error) {
	if flag == "" {
		return cfg.Policy(), nil
	}
	return binder.ParsePolicy(flag)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
