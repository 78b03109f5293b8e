// Package settest is a conformance suite run against every kibble.Backend.
package settest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shoenig/test/must"

	"github.com/ripkitten-co/kibble"
)

// BackendSuite exercises the set semantics every backend must share. Keys are
// prefixed with the test name so a shared database can host several runs.
func BackendSuite(t *testing.T, b kibble.Backend) {
	t.Helper()
	ctx := t.Context()
	key := func(name string) string { return t.Name() + ":" + name }

	t.Run("add counts new members only", func(t *testing.T) {
		k := key("add")
		n, err := b.SAdd(ctx, k, []byte("a"), []byte("b"), []byte("a"))
		must.NoError(t, err)
		must.Eq(t, int64(2), n)

		n, err = b.SAdd(ctx, k, []byte("b"), []byte("c"))
		must.NoError(t, err)
		must.Eq(t, int64(1), n)

		card, err := b.SCard(ctx, k)
		must.NoError(t, err)
		must.Eq(t, int64(3), card)
	})

	t.Run("membership is bytewise", func(t *testing.T) {
		k := key("member")
		_, err := b.SAdd(ctx, k, []byte("Item"), []byte{0x00})
		must.NoError(t, err)

		ok, err := b.SIsMember(ctx, k, []byte("Item"))
		must.NoError(t, err)
		must.True(t, ok)

		ok, err = b.SIsMember(ctx, k, []byte("item"))
		must.NoError(t, err)
		must.False(t, ok)

		ok, err = b.SIsMember(ctx, k, []byte{0x00})
		must.NoError(t, err)
		must.True(t, ok)

		ok, err = b.SIsMember(ctx, k, []byte{0x00, 0x00})
		must.NoError(t, err)
		must.False(t, ok)
	})

	t.Run("members are sorted bytewise", func(t *testing.T) {
		k := key("sorted")
		_, err := b.SAdd(ctx, k, []byte("b"), []byte{0xff}, []byte("a"), []byte("ab"))
		must.NoError(t, err)

		got, err := b.SMembers(ctx, k)
		must.NoError(t, err)
		must.Eq(t, [][]byte{[]byte("a"), []byte("ab"), []byte("b"), {0xff}}, got)
	})

	t.Run("missing key is empty", func(t *testing.T) {
		k := key("missing")
		got, err := b.SMembers(ctx, k)
		must.NoError(t, err)
		must.SliceEmpty(t, got)

		card, err := b.SCard(ctx, k)
		must.NoError(t, err)
		must.Eq(t, int64(0), card)

		ok, err := b.SIsMember(ctx, k, []byte("x"))
		must.NoError(t, err)
		must.False(t, ok)

		n, err := b.SRem(ctx, k, []byte("x"))
		must.NoError(t, err)
		must.Eq(t, int64(0), n)
	})

	t.Run("keys do not bleed into each other", func(t *testing.T) {
		short, long := key("k"), key("k")+"ey"
		_, err := b.SAdd(ctx, short, []byte("eyx"))
		must.NoError(t, err)
		_, err = b.SAdd(ctx, long, []byte("x"))
		must.NoError(t, err)

		got, err := b.SMembers(ctx, short)
		must.NoError(t, err)
		must.Eq(t, [][]byte{[]byte("eyx")}, got)

		got, err = b.SMembers(ctx, long)
		must.NoError(t, err)
		must.Eq(t, [][]byte{[]byte("x")}, got)
	})

	t.Run("remove", func(t *testing.T) {
		k := key("remove")
		_, err := b.SAdd(ctx, k, []byte("a"), []byte("b"), []byte("c"))
		must.NoError(t, err)

		n, err := b.SRem(ctx, k, []byte("a"), []byte("z"), []byte("c"))
		must.NoError(t, err)
		must.Eq(t, int64(2), n)

		got, err := b.SMembers(ctx, k)
		must.NoError(t, err)
		must.Eq(t, [][]byte{[]byte("b")}, got)
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		_, err := b.SAdd(ctx, "", []byte("a"))
		must.ErrorIs(t, err, kibble.ErrInvalidKey)
		_, err = b.SRem(ctx, "", []byte("a"))
		must.ErrorIs(t, err, kibble.ErrInvalidKey)
		_, err = b.SIsMember(ctx, "", []byte("a"))
		must.ErrorIs(t, err, kibble.ErrInvalidKey)
		_, err = b.SMembers(ctx, "")
		must.ErrorIs(t, err, kibble.ErrInvalidKey)
		_, err = b.SCard(ctx, "")
		must.ErrorIs(t, err, kibble.ErrInvalidKey)
	})

	t.Run("concurrent adds", func(t *testing.T) {
		k := key("concurrent")
		const workers, each = 8, 25

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			total int64
		)
		for w := range workers {
			wg.Go(func() {
				for i := range each {
					// every member is added twice across workers
					m := []byte(fmt.Sprintf("m-%03d", (w%(workers/2))*each+i))
					n, err := b.SAdd(ctx, k, m)
					if err != nil {
						t.Error(err)
						return
					}
					mu.Lock()
					total += n
					mu.Unlock()
				}
			})
		}
		wg.Wait()

		must.Eq(t, int64(workers/2*each), total)
		card, err := b.SCard(ctx, k)
		must.NoError(t, err)
		must.Eq(t, int64(workers/2*each), card)
	})
}
