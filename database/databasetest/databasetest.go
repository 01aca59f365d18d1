// Package databasetest opens throwaway migrated sqlite stores for tests.
package databasetest

import (
	"path/filepath"
	"testing"

	"github.com/junaidrashid-git/cafe-api/database"
)

func New(t testing.TB) *database.Store {
	t.Helper()

	store, err := database.Open("sqlite", filepath.Join(t.TempDir(), "cafe.sqlite"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
