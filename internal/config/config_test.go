package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/museummap/pkg/binder"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":3001" || cfg.Webhook.Timeout.Duration != 15*time.Second {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Policy() != binder.PolicyFirst {
		t.Errorf("Policy = %v", cfg.Policy())
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeFile(t, `
[server]
addr = ":8080"
allowed_origins = ["http://localhost:5173"]

[cache]
backend = "none"
ttl = "90s"

[webhook]
url = "https://hooks.example.org/describe"
timeout = "5s"

[binder]
duplicates = "lowest-id"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL.Duration != 90*time.Second {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Webhook.Timeout.Duration != 5*time.Second {
		t.Errorf("webhook timeout = %v", cfg.Webhook.Timeout)
	}
	if cfg.Policy() != binder.PolicyLowestID {
		t.Errorf("Policy = %v", cfg.Policy())
	}
	if cfg.Store.Backend != StoreFile {
		t.Errorf("unset sections should keep defaults, got store %+v", cfg.Store)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", `[server`},
		{"bad duration", "[webhook]\ntimeout = \"soon\""},
		{"unknown store", "[store]\nbackend = \"sqlite\""},
		{"mongo without uri", "[store]\nbackend = \"mongo\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"bad policy", "[binder]\nduplicates = \"newest\""},
		{"bad webhook", "[webhook]\nurl = \"localhost:5678\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MUSEUMMAP_MONGO_URI", "")
			t.Setenv("MUSEUMMAP_REDIS_ADDR", "")
			_, err := Load(writeFile(t, tt.content))
			if !mmerrors.Is(err, mmerrors.ErrCodeInvalidConfig) {
				t.Errorf("Load error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MUSEUMMAP_MONGO_URI", "mongodb://db:27017")
	cfg, err := Load(writeFile(t, "[store]\nbackend = \"mongo\""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("MongoURI = %q", cfg.Store.MongoURI)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Webhook.URL = "https://hooks.example.org/x"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Webhook.URL != cfg.Webhook.URL || got.Session.TTL != cfg.Session.TTL {
		t.Errorf("round trip = %+v", got)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultPath(); got != "/tmp/xdg/museummap/config.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}

func TestXDGDirs(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		name string
		env  string
		dir  func() string
		def  string
	}{
		{"cache", "XDG_CACHE_HOME", CacheDir, filepath.Join(home, ".cache", "museummap")},
		{"data", "XDG_DATA_HOME", DataDir, filepath.Join(home, ".local", "share", "museummap")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, "")
			if got := tt.dir(); got != tt.def {
				t.Errorf("default = %q, want %q", got, tt.def)
			}

			t.Setenv(tt.env, "/tmp/xdg")
			if got := tt.dir(); got != "/tmp/xdg/museummap" {
				t.Errorf("with %s = %q", tt.env, got)
			}
		})
	}
}

func TestDefaultFollowsXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	cfg := Default()
	if cfg.Cache.Dir != filepath.Join(dir, "cache", "museummap") {
		t.Errorf("cache dir = %q", cfg.Cache.Dir)
	}
	if cfg.Store.File != filepath.Join(dir, "data", "museummap", "artifacts.json") {
		t.Errorf("store file = %q", cfg.Store.File)
	}
}
