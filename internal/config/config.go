// Package config loads the museummap configuration file.
//
// The file is TOML. A missing file is not an error: every field has a
// default, and command-line flags override whatever the file sets.
//
//	[server]
//	addr = ":3001"
//	allowed_origins = ["http://localhost:5173"]
//
//	[store]
//	backend = "mongo"            # memory | file | mongo
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"            # none | file | redis
//	redis_addr = "localhost:6379"
//	ttl = "10m"
//
//	[webhook]
//	url = "http://localhost:5678/webhook/artifact"
//	timeout = "15s"
//
//	[binder]
//	duplicates = "first"         # first | lowest-id | reject
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/museummap/pkg/binder"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

const appName = "museummap"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Duration is a time.Duration written as a Go duration string ("15s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Store   StoreConfig   `toml:"store"`
	Cache   CacheConfig   `toml:"cache"`
	Webhook WebhookConfig `toml:"webhook"`
	Binder  BinderConfig  `toml:"binder"`
	Session SessionConfig `toml:"session"`
	Log     LogConfig     `toml:"log"`
}

type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type StoreConfig struct {
	Backend    string `toml:"backend"`
	File       string `toml:"file"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

type CacheConfig struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	TTL           Duration `toml:"ttl"`
}

type WebhookConfig struct {
	URL         string   `toml:"url"`
	FollowupURL string   `toml:"followup_url"`
	Timeout     Duration `toml:"timeout"`
}

type BinderConfig struct {
	// Duplicates is the duplicate-slot policy: first, lowest-id or reject.
	Duplicates string `toml:"duplicates"`
}

type SessionConfig struct {
	TTL Duration `toml:"ttl"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":3001",
			AllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Backend:    StoreFile,
			File:       filepath.Join(DataDir(), "artifacts.json"),
			Database:   "museum",
			Collection: "artifacts",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			Dir:     CacheDir(),
			TTL:     Duration{10 * time.Minute},
		},
		Webhook: WebhookConfig{
			URL:     "http://localhost:5678/webhook-test/test",
			Timeout: Duration{15 * time.Second},
		},
		Binder:  BinderConfig{Duplicates: string(binder.PolicyFirst)},
		Session: SessionConfig{TTL: Duration{30 * time.Minute}},
		Log:     LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/museummap/config.toml, falling back
// to ~/.config/museummap/config.toml.
func DefaultPath() string {
	return filepath.Join(xdgDir("XDG_CONFIG_HOME", ".config"), "config.toml")
}

// Load reads path over the defaults. An empty path means DefaultPath; a
// missing file yields the defaults. Environment overrides apply last.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
		return Config{}, mmerrors.Wrap(mmerrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv lets deployments set secrets without writing them to the file.
func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		"MUSEUMMAP_WEBHOOK_URL":    &c.Webhook.URL,
		"MUSEUMMAP_MONGO_URI":      &c.Store.MongoURI,
		"MUSEUMMAP_REDIS_ADDR":     &c.Cache.RedisAddr,
		"MUSEUMMAP_REDIS_PASSWORD": &c.Cache.RedisPassword,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}

// Validate checks backend names, the duplicate policy and URLs.
func (c Config) Validate() error {
	if !slices.Contains([]string{StoreMemory, StoreFile, StoreMongo}, c.Store.Backend) {
		return mmerrors.New(mmerrors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return mmerrors.New(mmerrors.ErrCodeInvalidConfig, "store backend mongo requires mongo_uri")
	}
	if !slices.Contains([]string{CacheNone, CacheFile, CacheRedis}, c.Cache.Backend) {
		return mmerrors.New(mmerrors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return mmerrors.New(mmerrors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}
	if _, err := binder.ParsePolicy(c.Binder.Duplicates); err != nil {
		return err
	}
	if c.Webhook.URL != "" {
		if err := mmerrors.ValidateURL(c.Webhook.URL); err != nil {
			return err
		}
	}
	if c.Webhook.FollowupURL != "" {
		if err := mmerrors.ValidateURL(c.Webhook.FollowupURL); err != nil {
			return err
		}
	}
	return nil
}

// Policy returns the parsed duplicate policy.
func (c Config) Policy() binder.Policy {
	p, err := binder.ParsePolicy(c.Binder.Duplicates)
	if err != nil {
		return binder.PolicyFirst
	}
	return p
}

// Save writes cfg to path as TOML, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// CacheDir is the default file cache directory, ~/.cache/museummap.
func CacheDir() string { return xdgDir("XDG_CACHE_HOME", ".cache") }

// DataDir holds the default artifacts file, ~/.local/share/museummap.
func DataDir() string { return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }

// xdgDir returns $env/museummap or ~/fallback/museummap.
func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, fallback, appName)
}
