package tasks

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "localhost:8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected default db driver, got %q", cfg.DBDriver)
	}
	if cfg.DBPath != "data/tasks.db" {
		t.Fatalf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.SessionTTL != 336*time.Hour {
		t.Fatalf("expected default session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 10 {
		t.Fatalf("expected default bcrypt cost, got %d", cfg.BcryptCost)
	}
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("TASKS_HTTP_ADDR", "env-addr")
	t.Setenv("TASKS_DB_DRIVER", "MySQL")
	t.Setenv("TASKS_DB_DSN", "env-dsn")
	t.Setenv("TASKS_SESSION_SECRET", "env-secret")
	t.Setenv("TASKS_SESSION_TTL", "1h")

	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	args := []string{
		"-http-addr", "flag-addr",
		"-session-ttl", "30m",
		"-trust-forwarded-proto",
	}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "flag-addr" {
		t.Fatalf("expected flag http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != "mysql" {
		t.Fatalf("expected normalized env driver, got %q", cfg.DBDriver)
	}
	if cfg.DBDSN != "env-dsn" {
		t.Fatalf("expected env dsn, got %q", cfg.DBDSN)
	}
	if cfg.SessionSecret != "env-secret" {
		t.Fatalf("expected env secret, got %q", cfg.SessionSecret)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected flag session ttl, got %v", cfg.SessionTTL)
	}
	if !cfg.TrustForwardedProto {
		t.Fatal("expected trust forwarded proto from flag")
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "sqlite", cfg: Config{DBDriver: "sqlite", DBPath: "tasks.db", SessionSecret: "s"}},
		{name: "mysql", cfg: Config{DBDriver: "mysql", DBDSN: "user@/tasks", SessionSecret: "s"}},
		{name: "missing secret", cfg: Config{DBDriver: "sqlite", DBPath: "tasks.db"}, wantErr: "session secret"},
		{name: "missing path", cfg: Config{DBDriver: "sqlite", SessionSecret: "s"}, wantErr: "db path"},
		{name: "missing dsn", cfg: Config{DBDriver: "mysql", SessionSecret: "s"}, wantErr: "db dsn"},
		{name: "unknown driver", cfg: Config{DBDriver: "postgres", SessionSecret: "s"}, wantErr: "unknown db driver"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), Config{DBDriver: "sqlite", DBPath: "tasks.db"})
	if err == nil || !strings.Contains(err.Error(), "session secret") {
		t.Fatalf("Run() error = %v, want session secret error", err)
	}
}

func TestOpenStoreCreatesSQLiteDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "tasks.db")
	store, err := openStore(context.Background(), Config{DBDriver: "sqlite", DBPath: path})
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat db file: %v", err)
	}
}
