// Package pebble stores kibble sets in a Pebble database, one database key
// per member.
//
// Pebble can use an in-memory filesystem or a directory on disk for storage,
// depending on the options provided.
package pebble

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/ripkitten-co/kibble"
)

// Ensure that Backend implements the kibble.Backend interface.
var _ kibble.Backend = (*Backend)(nil)

const setTag = 's'

// Backend lays out each member as
//
//	's' | uvarint(len(key)) | key | member
//
// with an empty value. The length prefix keeps one set's members from
// sharing a prefix with a longer key.
type Backend struct {
	db *pebble.DB

	// serializes read-check-write in SAdd and SRem so counts are exact
	mu sync.Mutex
}

// NewBackend opens (or creates) a Pebble database at dirname.
func NewBackend(dirname string, opts *pebble.Options) (*Backend, error) {
	db, err := pebble.Open(dirname, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database: %w", err)
	}
	return &Backend{db: db}, nil
}

func setPrefix(key string) []byte {
	p := make([]byte, 0, 1+binary.MaxVarintLen64+len(key))
	p = append(p, setTag)
	p = binary.AppendUvarint(p, uint64(len(key)))
	return append(p, key...)
}

func memberKey(prefix, member []byte) []byte {
	k := make([]byte, 0, len(prefix)+len(member))
	k = append(k, prefix...)
	return append(k, member...)
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func (b *Backend) has(k []byte) (bool, error) {
	_, closer, err := b.db.Get(k)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (b *Backend) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	prefix := setPrefix(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.db.NewBatch()
	defer batch.Close()

	seen := make(map[string]struct{}, len(members))
	var added int64
	for _, m := range members {
		if _, dup := seen[string(m)]; dup {
			continue
		}
		seen[string(m)] = struct{}{}

		k := memberKey(prefix, m)
		ok, err := b.has(k)
		if err != nil {
			return 0, fmt.Errorf("failed to read member: %w", err)
		}
		if ok {
			continue
		}
		if err := batch.Set(k, nil, nil); err != nil {
			return 0, fmt.Errorf("failed to stage member: %w", err)
		}
		added++
	}
	if added == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to commit members: %w", err)
	}
	return added, nil
}

func (b *Backend) SRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	prefix := setPrefix(key)

	b.mu.Lock()
	defer b.mu.Unlock()

	batch := b.db.NewBatch()
	defer batch.Close()

	seen := make(map[string]struct{}, len(members))
	var removed int64
	for _, m := range members {
		if _, dup := seen[string(m)]; dup {
			continue
		}
		seen[string(m)] = struct{}{}

		k := memberKey(prefix, m)
		ok, err := b.has(k)
		if err != nil {
			return 0, fmt.Errorf("failed to read member: %w", err)
		}
		if !ok {
			continue
		}
		if err := batch.Delete(k, nil); err != nil {
			return 0, fmt.Errorf("failed to stage delete: %w", err)
		}
		removed++
	}
	if removed == 0 {
		return 0, nil
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("failed to commit delete: %w", err)
	}
	return removed, nil
}

func (b *Backend) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	if key == "" {
		return false, kibble.ErrInvalidKey
	}
	ok, err := b.has(memberKey(setPrefix(key), member))
	if err != nil {
		return false, fmt.Errorf("failed to read member: %w", err)
	}
	return ok, nil
}

// scan calls fn with the member part of every key in the set, in key order.
func (b *Backend) scan(ctx context.Context, key string, fn func(member []byte)) error {
	prefix := setPrefix(key)
	iter, err := b.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to create pebble iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		if ctx.Err() != nil {
			return fmt.Errorf("stopped iteration via context: %w", ctx.Err())
		}
		fn(iter.Key()[len(prefix):])
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to scan set: %w", err)
	}
	return nil
}

func (b *Backend) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if key == "" {
		return nil, kibble.ErrInvalidKey
	}
	out := [][]byte{}
	err := b.scan(ctx, key, func(m []byte) {
		out = append(out, append([]byte{}, m...))
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Backend) SCard(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	var n int64
	if err := b.scan(ctx, key, func([]byte) { n++ }); err != nil {
		return 0, err
	}
	return n, nil
}

// Flush flushes memtables to disk.
func (b *Backend) Flush() error {
	if err := b.db.Flush(); err != nil {
		return fmt.Errorf("failed to flush pebble database: %w", err)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close pebble database: %w", err)
	}
	return nil
}
