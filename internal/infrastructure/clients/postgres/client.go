package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/willianOliveira-dev/barber-app-sub000/pkg/config"
	"github.com/willianOliveira-dev/barber-app-sub000/pkg/retry"
)

// Client represents a PostgreSQL database client
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client, pinging with exponential
// backoff so the service survives the database coming up after it.
func NewClient(cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sqlx.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.DoWithLog(
		context.Background(),
		retry.DefaultConfig(),
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Int("attempt", attempt).
				Err(err).
				Dur("retry_in", nextDelay).
				Msg("postgres connection attempt failed")
		},
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Info().Str("database", cfg.Database).Msg("connected to postgres")
	return &Client{db: db}, nil
}

// NewClientWithDB wraps an existing handle. Used by tests that substitute
// a mock database.
func NewClientWithDB(db *sqlx.DB) *Client {
	return &Client{db: db}
}

// DB returns the underlying sqlx handle
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// BeginTx starts a new transaction
func (c *Client) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return c.db.BeginTxx(ctx, opts)
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
