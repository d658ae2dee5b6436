package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shitcoingarden/garden.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

// MemoryDSN selects the in-process backend instead of Postgres.
const MemoryDSN = "memory://"

func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.HasPrefix(dsn, "unix://")
}

func Open(config *service.Config) (*bun.DB, error) {
	return OpenDSN(config.DatabaseUri, config.DatadogAgentUrl != "", config.DatabaseMaxConns, config.DatabaseMaxIdleConns, config.DatabaseConnMaxLifetime)
}

// OpenDSN opens a Postgres database. SQL traces go to Datadog when traced
// is set.
func OpenDSN(dsn string, traced bool, maxConns, maxIdleConns, connMaxLifetime int) (*bun.DB, error) {
	if !IsPostgresDSN(dsn) {
		return nil, fmt.Errorf("Invalid database connection string %s, only (postgres|postgresql|unix):// is supported", dsn)
	}
	var dbConn *sql.DB
	if traced {
		sqltrace.Register("postgres", pgdriver.Driver{}, sqltrace.WithServiceName("garden.go"))
		dbConn = sqltrace.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	} else {
		dbConn = sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	}
	db := bun.NewDB(dbConn, pgdialect.New())
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(time.Duration(connMaxLifetime) * time.Second)

	db.AddQueryHook(bundebug.NewQueryHook(
		// disable the hook
		bundebug.WithEnabled(false),
		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	return db, nil
}
