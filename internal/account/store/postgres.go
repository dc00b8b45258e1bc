package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver

	"github.com/l31-dev/Autha/pkg/platform/sentinel"
)

// Postgres implements Store on PostgreSQL via the pgx stdlib driver.
type Postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres opens a connection pool, pings it, and returns the store.
func NewPostgres(ctx context.Context, dsn string, logger *slog.Logger) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return &Postgres{db: db, logger: logger}, nil
}

// Query implements Store. Each row comes back as positional column values;
// decoding happens at the caller through the Row accessors.
func (p *Postgres) Query(ctx context.Context, stmt string, args ...any) ([]Row, error) {
	rows, err := p.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		p.logger.ErrorContext(ctx, "store query failed", "error", err)
		return nil, fmt.Errorf("store query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("store query columns: %w", err)
	}

	var result []Row
	for rows.Next() {
		values := make(Row, len(cols))
		scan := make([]any, len(cols))
		for i := range values {
			scan[i] = &values[i]
		}
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("store query scan: %w", err)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store query rows: %w", err)
	}
	return result, nil
}

// Exec implements Store. Unique violations map to sentinel.ErrConflict so
// the service layer can distinguish them from transport failures.
func (p *Postgres) Exec(ctx context.Context, stmt string, args ...any) error {
	if _, err := p.db.ExecContext(ctx, stmt, args...); err != nil {
		p.logger.ErrorContext(ctx, "store exec failed", "error", err)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("store exec: %w: %w", sentinel.ErrConflict, err)
		}
		return fmt.Errorf("store exec: %w", err)
	}
	return nil
}

// EnsureSchema creates the account tables when they do not exist yet.
// Profile rows are created by the signup path and never physically removed;
// suspension only flips the deleted flag.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const users = `
		CREATE TABLE IF NOT EXISTS users (
			vanity    TEXT PRIMARY KEY,
			email     TEXT,
			username  TEXT NOT NULL,
			avatar    TEXT,
			bio       TEXT,
			verified  BOOLEAN NOT NULL DEFAULT FALSE,
			flags     BYTEA,
			phone     TEXT,
			password  TEXT,
			birthdate TEXT,
			deleted   BOOLEAN NOT NULL DEFAULT FALSE,
			mfa_code  TEXT,
			oauth     TEXT[]
		)`
	const bots = `
		CREATE TABLE IF NOT EXISTS bots (
			id            TEXT PRIMARY KEY,
			user_id       TEXT,
			client_secret TEXT,
			ip            TEXT,
			username      TEXT NOT NULL,
			avatar        TEXT,
			bio           TEXT,
			flags         BYTEA,
			deleted       BOOLEAN NOT NULL DEFAULT FALSE
		)`
	for _, stmt := range []string{users, bots} {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Health checks if the database connection is healthy.
func (p *Postgres) Health(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the connection pool.
func (p *Postgres) Close() error {
	return p.db.Close()
}
