package progress

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/lukearran/tvtime2trakt/internal/migrations"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return NewStore(db)
}
