package pebble_test

import (
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/shoenig/test/must"

	backendPebble "github.com/ripkitten-co/kibble/backends/pebble"
	"github.com/ripkitten-co/kibble/internal/settest"
)

func TestBackend_dir(t *testing.T) {
	b, err := backendPebble.NewBackend(t.TempDir(), nil)
	must.NoError(t, err)
	t.Cleanup(func() { must.NoError(t, b.Close()) })

	settest.BackendSuite(t, b)
}

func TestBackend_mem_vfs(t *testing.T) {
	b, err := backendPebble.NewBackend("", &pebble.Options{FS: vfs.NewMem()})
	must.NoError(t, err)
	t.Cleanup(func() { must.NoError(t, b.Close()) })

	settest.BackendSuite(t, b)
}

func TestBackend_survivesReopen(t *testing.T) {
	dir := t.TempDir()

	b, err := backendPebble.NewBackend(dir, nil)
	must.NoError(t, err)
	n, err := b.SAdd(t.Context(), "custom_1", []byte("a"), []byte("b"))
	must.NoError(t, err)
	must.Eq(t, int64(2), n)
	must.NoError(t, b.Flush())
	must.NoError(t, b.Close())

	b, err = backendPebble.NewBackend(dir, nil)
	must.NoError(t, err)
	t.Cleanup(func() { must.NoError(t, b.Close()) })

	got, err := b.SMembers(t.Context(), "custom_1")
	must.NoError(t, err)
	must.Eq(t, [][]byte{[]byte("a"), []byte("b")}, got)
}
