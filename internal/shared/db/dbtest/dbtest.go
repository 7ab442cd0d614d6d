// Package dbtest opens migrated in-memory sqlite stores for tests.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fp-foodie-finder/server/internal/migrate"
	"github.com/fp-foodie-finder/server/internal/shared/db"

	"github.com/stretchr/testify/require"
)

func New(t testing.TB) *db.Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	store, err := db.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, migrate.AutoMigrateAll(store))
	t.Cleanup(func() { _ = store.Close() })
	return store
}
