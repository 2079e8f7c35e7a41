// Package tasks parses task command flags and starts the task web server.
package tasks

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	entrypoint "github.com/louisbranch/taskboard/internal/platform/cmd"
	"github.com/louisbranch/taskboard/internal/platform/timeouts"
	server "github.com/louisbranch/taskboard/internal/services/tasks"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage/mysql"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage/sqlite"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage/sqlstore"
)

const (
	driverSQLite = "sqlite"
	driverMySQL  = "mysql"
)

// Config holds task command configuration.
type Config struct {
	HTTPAddr            string        `env:"TASKS_HTTP_ADDR"             envDefault:"localhost:8080"`
	DBDriver            string        `env:"TASKS_DB_DRIVER"             envDefault:"sqlite"`
	DBPath              string        `env:"TASKS_DB_PATH"               envDefault:"data/tasks.db"`
	DBDSN               string        `env:"TASKS_DB_DSN"`
	SessionSecret       string        `env:"TASKS_SESSION_SECRET"`
	SessionTTL          time.Duration `env:"TASKS_SESSION_TTL"           envDefault:"336h"`
	TrustForwardedProto bool          `env:"TASKS_TRUST_FORWARDED_PROTO" envDefault:"false"`
	BcryptCost          int           `env:"TASKS_BCRYPT_COST"           envDefault:"10"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "task HTTP listen address")
	fs.StringVar(&cfg.DBDriver, "db-driver", cfg.DBDriver, "storage driver (sqlite or mysql)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.DBDSN, "db-dsn", cfg.DBDSN, "MySQL data source name")
	fs.StringVar(&cfg.SessionSecret, "session-secret", cfg.SessionSecret, "secret used to sign session cookies")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "session lifetime")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "trust X-Forwarded-Proto for secure cookies")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", cfg.BcryptCost, "bcrypt cost for password hashes")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	return cfg, nil
}

// Validate reports configuration that cannot start a server.
func (c Config) Validate() error {
	if strings.TrimSpace(c.SessionSecret) == "" {
		return errors.New("session secret is required")
	}
	switch c.DBDriver {
	case driverSQLite:
		if strings.TrimSpace(c.DBPath) == "" {
			return errors.New("db path is required for sqlite")
		}
	case driverMySQL:
		if strings.TrimSpace(c.DBDSN) == "" {
			return errors.New("db dsn is required for mysql")
		}
	default:
		return fmt.Errorf("unknown db driver %q", c.DBDriver)
	}
	return nil
}

// Run opens storage and serves the task web surface until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceTasks, func(ctx context.Context) error {
		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		srv, err := server.NewServer(ctx, server.Config{
			HTTPAddr:            cfg.HTTPAddr,
			Store:               store,
			SessionSecret:       cfg.SessionSecret,
			SessionTTL:          cfg.SessionTTL,
			TrustForwardedProto: cfg.TrustForwardedProto,
			BcryptCost:          cfg.BcryptCost,
		})
		if err != nil {
			return fmt.Errorf("init tasks server: %w", err)
		}
		defer srv.Close()
		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve tasks: %w", err)
		}
		return nil
	})
}

func openStore(ctx context.Context, cfg Config) (*sqlstore.Store, error) {
	openCtx, cancel := context.WithTimeout(ctx, timeouts.StorageOpen)
	defer cancel()

	switch cfg.DBDriver {
	case driverSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create storage dir: %w", err)
			}
		}
		store, err := sqlite.Open(openCtx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	case driverMySQL:
		store, err := mysql.Open(openCtx, cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}
}
