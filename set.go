package kibble

import (
	"context"
	"fmt"

	"github.com/ripkitten-co/kibble/value"
)

// SetOf is a typed view over one set key. Members are stored as the value
// codec's encoding of T, so two items are the same member exactly when they
// encode to the same bytes.
type SetOf[T any] struct {
	key   string
	store *Store
}

// Set returns a typed view of the set stored under key.
func Set[T any](s *Store, key string) *SetOf[T] {
	return &SetOf[T]{key: key, store: s}
}

// Key returns the backend key of the set.
func (c *SetOf[T]) Key() string { return c.key }

func (c *SetOf[T]) encode(op string, items []T) ([][]byte, error) {
	members := make([][]byte, len(items))
	var errs map[int]error
	for i, item := range items {
		data, err := value.Marshal(c.store.codec, item)
		if err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}
			errs[i] = err
			continue
		}
		members[i] = data
	}
	if be := newBatchError(op, len(items), errs); be != nil {
		return nil, be
	}
	return members, nil
}

// Add encodes every item and stores them in one backend call. It returns the
// number of members that were not already present. If any item fails to
// encode nothing is written and the error is a *BatchError.
func (c *SetOf[T]) Add(ctx context.Context, items ...T) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	members, err := c.encode("add", items)
	if err != nil {
		return 0, fmt.Errorf("set %s: %w", c.key, err)
	}

	added, err := c.store.be.SAdd(ctx, c.key, members...)
	if err != nil {
		return 0, fmt.Errorf("set %s: add: %w", c.key, err)
	}
	c.store.logger.Debug().
		Str("set", c.key).
		Str("op", "add").
		Int("members", len(members)).
		Int64("added", added).
		Msg("members saved")
	return added, nil
}

// Remove deletes items from the set and returns how many were present.
func (c *SetOf[T]) Remove(ctx context.Context, items ...T) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	members, err := c.encode("remove", items)
	if err != nil {
		return 0, fmt.Errorf("set %s: %w", c.key, err)
	}

	removed, err := c.store.be.SRem(ctx, c.key, members...)
	if err != nil {
		return 0, fmt.Errorf("set %s: remove: %w", c.key, err)
	}
	c.store.logger.Debug().
		Str("set", c.key).
		Str("op", "remove").
		Int("members", len(members)).
		Int64("removed", removed).
		Msg("members removed")
	return removed, nil
}

// Contains reports whether item is a member of the set.
func (c *SetOf[T]) Contains(ctx context.Context, item T) (bool, error) {
	data, err := value.Marshal(c.store.codec, item)
	if err != nil {
		return false, fmt.Errorf("set %s: contains: %w", c.key, err)
	}
	ok, err := c.store.be.SIsMember(ctx, c.key, data)
	if err != nil {
		return false, fmt.Errorf("set %s: contains: %w", c.key, err)
	}
	return ok, nil
}

// Members reads and decodes every member. A stored null decodes to the zero
// value of T. Members that fail to decode are reported together in a
// *BatchError keyed by their position in backend order.
func (c *SetOf[T]) Members(ctx context.Context) ([]T, error) {
	raw, err := c.store.be.SMembers(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("set %s: members: %w", c.key, err)
	}

	out := make([]T, 0, len(raw))
	var errs map[int]error
	for i, data := range raw {
		item, _, err := value.Unmarshal[T](c.store.codec, data)
		if err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}
			errs[i] = err
			continue
		}
		out = append(out, item)
	}
	if be := newBatchError("members", len(raw), errs); be != nil {
		return nil, fmt.Errorf("set %s: %w", c.key, be)
	}
	c.store.logger.Debug().
		Str("set", c.key).
		Str("op", "members").
		Int("members", len(out)).
		Msg("members loaded")
	return out, nil
}

// Len returns the number of members in the set.
func (c *SetOf[T]) Len(ctx context.Context) (int64, error) {
	n, err := c.store.be.SCard(ctx, c.key)
	if err != nil {
		return 0, fmt.Errorf("set %s: len: %w", c.key, err)
	}
	return n, nil
}
