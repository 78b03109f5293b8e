package schema

import (
	"context"
	"fmt"
	"regexp"
	"sync"

	"github.com/ripkitten-co/kibble/internal/pg"
)

// DefaultTable is the table sets are stored in unless configured otherwise.
const DefaultTable = "kibble_sets"

var validName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{0,62}$`)

// ValidateTableName checks that name is a valid table identifier
// (alphanumeric + underscores, max 63 characters, starts with a letter).
// Table names are interpolated into DDL, so nothing else is accepted.
func ValidateTableName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("schema: invalid table name %q: must be alphanumeric with underscores, max 63 chars", name)
	}
	return nil
}

func setsDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT NOT NULL,
	member BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (key, member)
)`, table)
}

// Bootstrap manages idempotent creation of set tables. It caches which tables
// have been created to avoid repeated DDL.
type Bootstrap struct {
	tables sync.Map
}

// New returns a Bootstrap with an empty cache.
func New() *Bootstrap {
	return &Bootstrap{}
}

// IsCreated reports whether the named table has been created by this Bootstrap.
func (b *Bootstrap) IsCreated(table string) bool {
	_, ok := b.tables.Load(table)
	return ok
}

// MarkCreated records that the named table has been created.
func (b *Bootstrap) MarkCreated(table string) {
	b.tables.Store(table, true)
}

// InvalidateTable removes a table from the cache so the next EnsureSets call
// re-runs the DDL.
func (b *Bootstrap) InvalidateTable(table string) {
	b.tables.Delete(table)
}

// EnsureSets creates the set table if it doesn't exist.
func (b *Bootstrap) EnsureSets(ctx context.Context, exec pg.Executor, table string) error {
	if err := ValidateTableName(table); err != nil {
		return err
	}
	if _, ok := b.tables.Load(table); ok {
		return nil
	}
	if _, err := exec.Exec(ctx, setsDDL(table)); err != nil {
		return fmt.Errorf("schema: create table %s: %w", table, err)
	}
	b.tables.Store(table, true)
	return nil
}
