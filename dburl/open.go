package dburl

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// openPingTimeout bounds the connectivity check in Open.
const openPingTimeout = 10 * time.Second

// Open opens a database connection for the URL, inferring the dialect from
// the scheme. The connection is verified with a ping before being returned.
func Open(ctx context.Context, dbURL string) (*sql.DB, string, error) {
	dialect, err := InferDialectFromDBUrl(dbURL)
	if err != nil {
		return nil, "", err
	}

	db, err := OpenDialect(ctx, dbURL, dialect)
	if err != nil {
		return nil, "", err
	}
	return db, dialect, nil
}

// OpenDialect opens a database connection for a URL with a known dialect.
func OpenDialect(ctx context.Context, dbURL, dialect string) (*sql.DB, error) {
	driver, err := DriverName(dialect)
	if err != nil {
		return nil, err
	}

	dsn, err := DSN(dbURL, dialect)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, openPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
