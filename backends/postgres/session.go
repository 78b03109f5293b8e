package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/internal/pg"
	"github.com/ripkitten-co/kibble/schema"
)

// Session wraps a PostgreSQL transaction. It is itself a kibble.Backend, so
// a kibble.Store built over it groups set writes into one atomic unit. Call
// Commit to persist them, or Close/Rollback to discard them. Unlike Backend,
// a Session must not be shared between goroutines.
type Session struct {
	sets
	tx     pgx.Tx
	closed bool
}

// Session begins a new transaction and returns a Session.
func (b *Backend) Session(ctx context.Context) (*Session, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin session: %w", err)
	}

	return &Session{
		sets: sets{
			exec:  pg.TxExecutor{Tx: tx},
			table: b.table,
			// DDL issued inside a rolled back transaction is lost with it
			schema: schema.New(),
		},
		tx: tx,
	}, nil
}

// Commit persists all operations in this session atomically.
func (s *Session) Commit(ctx context.Context) error {
	if s.closed {
		return fmt.Errorf("postgres: commit session: %w", kibble.ErrClosed)
	}
	s.closed = true
	if err := s.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit session: %w", err)
	}
	return nil
}

// Rollback discards all operations. Safe to call multiple times.
func (s *Session) Rollback(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("postgres: rollback session: %w", err)
	}
	return nil
}

// Close rolls back if not already committed. Safe to defer.
func (s *Session) Close() error {
	return s.Rollback(context.Background())
}
