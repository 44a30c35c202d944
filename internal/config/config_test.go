package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "3001" {
		t.Fatalf("unexpected port: %q", cfg.Server.Port)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Fatalf("unexpected session ttl: %v", cfg.Session.TTL)
	}
	if cfg.Session.CookieName != "session_id" {
		t.Fatalf("unexpected cookie name: %q", cfg.Session.CookieName)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := []byte(`
server:
  port: "8088"
database:
  driver: sqlite
  sqlite_path: ` + filepath.Join(dir, "db", "eval.db") + `
session:
  ttl_hours: 2
storage:
  local_path: ` + filepath.Join(dir, "out") + `
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("env must override file: got %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("unexpected config: driver=%q ttl=%v", cfg.Database.Driver, cfg.Session.TTL)
	}
	if _, err := os.Stat(filepath.Join(dir, "db")); err != nil {
		t.Fatalf("sqlite directory should be created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Database.Driver = "mysql"
		c.Storage.Type = "local"
		c.Session.TTL = time.Hour
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(c *Config) {}, ok: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "ftp" }},
		{name: "zero ttl", mutate: func(c *Config) { c.Session.TTL = 0 }},
		{name: "release without secure cookie", mutate: func(c *Config) { c.Server.Mode = "release" }},
		{name: "release with secure cookie", mutate: func(c *Config) { c.Server.Mode = "release"; c.Session.Secure = true }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
