package memory_test

import (
	"testing"

	"github.com/ripkitten-co/kibble/backends/memory"
	"github.com/ripkitten-co/kibble/internal/settest"
)

func TestBackend(t *testing.T) {
	settest.BackendSuite(t, memory.NewBackend())
}
