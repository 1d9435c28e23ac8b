package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	authgate "github.com/MrEthical07/authgate"
)

const pgUniqueViolation = "23505"

const usersSchema = `
CREATE TABLE IF NOT EXISTS users (
	id       BIGSERIAL PRIMARY KEY,
	username VARCHAR(255) NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL
)`

// PostgresConfig configures a [PostgresStore].
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrateOnStart  bool
}

func (c *PostgresConfig) defaults() {
	if c.MaxConns <= 0 {
		c.MaxConns = 25
	}
	if c.MinConns < 0 {
		c.MinConns = 0
	}
	if c.MaxConnLifetime <= 0 {
		c.MaxConnLifetime = 30 * time.Minute
	}
}

// PostgresStore is a PostgreSQL-backed [authgate.UserStore] on pgx/v5.
// Uniqueness is enforced by the username column constraint, so an insert
// racing another insert of the same name fails cleanly with
// [authgate.ErrDuplicateUsername] and never leaves a partial row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ authgate.UserStore = (*PostgresStore)(nil)

// NewPostgresStore connects to the database and, when MigrateOnStart is set,
// creates the users table.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &PostgresStore{pool: pool}

	if cfg.MigrateOnStart {
		if _, err := pool.Exec(ctx, usersSchema); err != nil {
			pool.Close()
			return nil, fmt.Errorf("creating users table: %w", err)
		}
	}

	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// FindByUsername returns the account with the exact username, or (nil, nil)
// when absent.
func (s *PostgresStore) FindByUsername(ctx context.Context, username string) (*authgate.Account, error) {
	return s.findOne(ctx, `SELECT id, username, password FROM users WHERE username = $1`, username)
}

// FindByID returns the account with the given id, or (nil, nil) when absent.
func (s *PostgresStore) FindByID(ctx context.Context, id int64) (*authgate.Account, error) {
	return s.findOne(ctx, `SELECT id, username, password FROM users WHERE id = $1`, id)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*authgate.Account, error) {
	var account authgate.Account
	err := s.pool.QueryRow(ctx, query, arg).Scan(&account.ID, &account.Username, &account.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	return &account, nil
}

// Find returns all accounts ordered by id, password digest omitted.
func (s *PostgresStore) Find(ctx context.Context) ([]authgate.Account, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, username FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var out []authgate.Account
	for rows.Next() {
		var account authgate.Account
		if err := rows.Scan(&account.ID, &account.Username); err != nil {
			return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	return out, nil
}

// Insert creates the account and returns the assigned id. The row is written
// in a single statement, so the insert either fully succeeds or fully fails.
func (s *PostgresStore) Insert(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, authgate.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("%w: %v", authgate.ErrStoreUnavailable, err)
	}
	return id, nil
}
