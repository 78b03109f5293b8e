package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ripkitten-co/kibble"
	"github.com/ripkitten-co/kibble/internal/pg"
	"github.com/ripkitten-co/kibble/schema"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// sets implements the set operations over any executor, so the pool-backed
// Backend and a transaction-backed Session share one code path.
type sets struct {
	exec   pg.Executor
	table  string
	schema *schema.Bootstrap
}

func (s *sets) ensure(ctx context.Context) error {
	return s.schema.EnsureSets(ctx, s.exec, s.table)
}

func insertMembers(table, key string, members [][]byte) (string, []any, error) {
	q := psql.Insert(table).Columns("key", "member")
	for _, m := range members {
		q = q.Values(key, nonNil(m))
	}
	return q.Suffix("ON CONFLICT DO NOTHING").ToSql()
}

func deleteMembers(table, key string, members [][]byte) (string, []any, error) {
	list := make([][]byte, len(members))
	for i, m := range members {
		list[i] = nonNil(m)
	}
	return psql.Delete(table).Where(sq.Eq{"key": key, "member": list}).ToSql()
}

// nonNil keeps an empty member from being sent as SQL NULL.
func nonNil(m []byte) []byte {
	if m == nil {
		return []byte{}
	}
	return m
}

func (s *sets) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	if len(members) == 0 {
		return 0, nil
	}
	if err := s.ensure(ctx); err != nil {
		return 0, err
	}

	sql, args, err := insertMembers(s.table, key, members)
	if err != nil {
		return 0, fmt.Errorf("postgres: sadd %s: build sql: %w", key, err)
	}
	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: sadd %s: %w", key, err)
	}
	return tag.RowsAffected(), nil
}

func (s *sets) SRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	if len(members) == 0 {
		return 0, nil
	}
	if err := s.ensure(ctx); err != nil {
		return 0, err
	}

	sql, args, err := deleteMembers(s.table, key, members)
	if err != nil {
		return 0, fmt.Errorf("postgres: srem %s: build sql: %w", key, err)
	}
	tag, err := s.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("postgres: srem %s: %w", key, err)
	}
	return tag.RowsAffected(), nil
}

func (s *sets) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	if key == "" {
		return false, kibble.ErrInvalidKey
	}
	if err := s.ensure(ctx); err != nil {
		return false, err
	}

	sql, args, err := psql.Select("1").Prefix("SELECT EXISTS (").
		From(s.table).
		Where(sq.Eq{"key": key}).
		Where(sq.Expr("member = ?", nonNil(member))).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("postgres: sismember %s: build sql: %w", key, err)
	}
	var ok bool
	if err := s.exec.QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("postgres: sismember %s: %w", key, err)
	}
	return ok, nil
}

// SMembers returns the members of key in bytea order, which is bytewise.
func (s *sets) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if key == "" {
		return nil, kibble.ErrInvalidKey
	}
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}

	sql, args, err := psql.Select("member").From(s.table).
		Where(sq.Eq{"key": key}).
		OrderBy("member").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: smembers %s: build sql: %w", key, err)
	}
	rows, err := s.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: smembers %s: %w", key, err)
	}
	defer rows.Close()

	out := [][]byte{}
	for rows.Next() {
		var m []byte
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("postgres: smembers %s: scan: %w", key, err)
		}
		out = append(out, nonNil(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: smembers %s: %w", key, err)
	}
	return out, nil
}

func (s *sets) SCard(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	if err := s.ensure(ctx); err != nil {
		return 0, err
	}

	sql, args, err := psql.Select("count(*)").From(s.table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("postgres: scard %s: build sql: %w", key, err)
	}
	var n int64
	if err := s.exec.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: scard %s: %w", key, err)
	}
	return n, nil
}
