// Package mysql provides a MySQL-backed task storage implementation.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	drivermysql "github.com/go-sql-driver/mysql"
	"github.com/louisbranch/taskboard/internal/platform/storage/sqlmigrate"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage/mysql/migrations"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage/sqlstore"
)

// errDuplicateEntry is ER_DUP_ENTRY.
const errDuplicateEntry = 1062

// Dialect reports MySQL constraint failures to the shared query layer.
var Dialect = sqlstore.Dialect{
	Name:              "mysql",
	IsUniqueViolation: isUniqueViolation,
}

// Open connects to MySQL, applies embedded migrations, and returns the store.
func Open(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	cfg, err := ConfigFromDSN(dsn)
	if err != nil {
		return nil, err
	}
	connector, err := drivermysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping mysql db: %w", err)
	}
	if err := sqlmigrate.Apply(ctx, sqlDB, migrations.FS, "."); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlstore.New(sqlDB, Dialect), nil
}

// ConfigFromDSN parses dsn and forces the options the shared queries rely on.
// ClientFoundRows makes an UPDATE that leaves a row unchanged still count it,
// so ownership checks do not misreport a no-op edit as missing.
func ConfigFromDSN(dsn string) (*drivermysql.Config, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("mysql dsn is required")
	}
	cfg, err := drivermysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	cfg.MultiStatements = false
	return cfg, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *drivermysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == errDuplicateEntry
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}
