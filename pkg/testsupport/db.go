package testsupport

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/getfitter/go-service-core/internal/storage"
)

var dbSeq atomic.Int64

// SQLiteConfig returns a storage config for a private in-memory database.
// Each call names a fresh database so tests never share rows.
func SQLiteConfig(tb testing.TB) storage.Config {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	return storage.Config{
		Driver: storage.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1)),
	}
}

// NewUnitOfWork opens a private in-memory SQLite database, creates the tables
// for models, and closes the database when the test ends.
func NewUnitOfWork(t *testing.T, models ...any) *storage.UnitOfWork {
	t.Helper()

	db, err := storage.Open(SQLiteConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := storage.CreateTables(context.Background(), db, models...); err != nil {
		t.Fatalf("failed to create test tables: %v", err)
	}

	return storage.NewUnitOfWork(db)
}
