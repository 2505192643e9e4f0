// Package storetest opens throwaway in-memory databases for tests.
package storetest

import (
	"fmt"
	"io"
	"testing"

	"moneytracker/pkg/logging"
	"moneytracker/pkg/store"

	"github.com/google/uuid"
)

// Open returns a migrated, empty SQLite database private to t.
func Open(t testing.TB) *store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := store.Open(store.Options{
		Driver:      store.DriverSQLite,
		DSN:         dsn,
		AutoMigrate: true,
		Logger:      logging.New(io.Discard, "error", "text"),
	})
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}
