package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/foldcms/fold/internal/store"
	"github.com/foldcms/fold/internal/store/storetest"
)

func makeSQLiteStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "fold.db"))
	if err != nil {
		t.Fatalf("sqlite open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewWithDB(db)
	if err != nil {
		t.Fatalf("sqlite bootstrap: %v", err)
	}
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeSQLiteStore)
}

func TestHealthPing(t *testing.T) {
	s := makeSQLiteStore(t)
	hp, ok := s.(store.HealthPinger)
	if !ok {
		t.Fatalf("sqlite store should implement HealthPinger")
	}
	if err := hp.HealthPing(context.Background()); err != nil {
		t.Fatalf("HealthPing: %v", err)
	}
}
