// Package postgres stores kibble sets in a PostgreSQL table with one row per
// member. The table is created on first use.
package postgres

import (
	"context"
	"fmt"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/internal/pg"
	"github.com/ripkitten-co/kibble/schema"
)

var (
	_ kibble.Backend = (*Backend)(nil)
	_ kibble.Backend = (*Session)(nil)
)

type Option func(*config)

type config struct {
	table string
}

// WithTable overrides the table sets are stored in.
func WithTable(name string) Option {
	return func(c *config) {
		c.table = name
	}
}

// Backend is a kibble.Backend over a pgx connection pool.
type Backend struct {
	sets
	pool *pg.Pool
}

// New connects to PostgreSQL and returns a Backend.
func New(ctx context.Context, connString string, opts ...Option) (*Backend, error) {
	cfg := &config{table: schema.DefaultTable}
	for _, o := range opts {
		o(cfg)
	}
	if err := schema.ValidateTableName(cfg.table); err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pool, err := pg.NewPool(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return &Backend{
		sets: sets{
			exec:   pool,
			table:  cfg.table,
			schema: schema.New(),
		},
		pool: pool,
	}, nil
}

// Table returns the name of the table sets are stored in.
func (b *Backend) Table() string { return b.table }

// Close shuts down the connection pool.
func (b *Backend) Close() error {
	b.pool.Close()
	return nil
}
