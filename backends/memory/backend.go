// Package memory is an in-process set backend, mainly for tests and the CLI
// demo.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/ripkitten-co/kibble"
)

// Ensure that Backend implements the kibble.Backend interface.
var _ kibble.Backend = (*Backend)(nil)

type Backend struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{sets: make(map[string]map[string]struct{})}
}

func (b *Backend) SAdd(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.sets[key]
	if !ok {
		set = make(map[string]struct{}, len(members))
		b.sets[key] = set
	}
	var added int64
	for _, m := range members {
		if _, dup := set[string(m)]; dup {
			continue
		}
		set[string(m)] = struct{}{}
		added++
	}
	return added, nil
}

func (b *Backend) SRem(ctx context.Context, key string, members ...[]byte) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	set := b.sets[key]
	var removed int64
	for _, m := range members {
		if _, ok := set[string(m)]; ok {
			delete(set, string(m))
			removed++
		}
	}
	if set != nil && len(set) == 0 {
		delete(b.sets, key)
	}
	return removed, nil
}

func (b *Backend) SIsMember(ctx context.Context, key string, member []byte) (bool, error) {
	if key == "" {
		return false, kibble.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.sets[key][string(member)]
	return ok, nil
}

// SMembers returns the members of key sorted bytewise.
func (b *Backend) SMembers(ctx context.Context, key string) ([][]byte, error) {
	if key == "" {
		return nil, kibble.ErrInvalidKey
	}
	b.mu.RLock()
	out := make([][]byte, 0, len(b.sets[key]))
	for m := range b.sets[key] {
		out = append(out, []byte(m))
	}
	b.mu.RUnlock()

	slices.SortFunc(out, bytes.Compare)
	return out, nil
}

func (b *Backend) SCard(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, kibble.ErrInvalidKey
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int64(len(b.sets[key])), nil
}

// Close is a no-op for the in-memory backend.
func (b *Backend) Close() error {
	return nil
}
