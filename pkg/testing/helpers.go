// -----------------------------------------------------------------------------
// Testing Helpers
// -----------------------------------------------------------------------------
// Bu package, veritabanı testlerini kolaylaştıran helper fonksiyonlar sağlar.
//
// Özellikler:
// - Geçici dizinde SQLite veritabanı (OpenSQLite)
// - Registry'deki tabloları sıfırdan oluşturma (RefreshDatabase)
// - Her zaman geri alınan transaction (DatabaseTransaction)
// - Test verisi için factory
//
// Kullanım:
//
//	func TestParents(t *testing.T) {
//	    db := conduittest.OpenSQLite(t)
//	    conduittest.RefreshDatabase(t, db, registry)
//
//	    store := orm.NewStore(db, registry)
//	    // ...
//	}
// -----------------------------------------------------------------------------

package testing

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/database/migration"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// -----------------------------------------------------------------------------
// Database Testing Helpers
// -----------------------------------------------------------------------------

// OpenSQLite, testin geçici dizininde yeni bir SQLite veritabanı açar.
// Bağlantı test bitiminde kapatılır.
func OpenSQLite(t testing.TB) *database.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := database.Connect(context.Background(), database.ConnectionConfig{
		Driver: "sqlite",
		DSN:    dsn,
	}, database.NopLogger)
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// RefreshDatabase, registry'deki tüm tabloları silip yeniden oluşturur.
//
// Kullanım:
//
//	func TestWithFreshDatabase(t *testing.T) {
//	    db := OpenSQLite(t)
//	    RefreshDatabase(t, db, registry)
//	    // Test with clean database
//	}
func RefreshDatabase(t testing.TB, db *database.DB, registry *schema.Registry) {
	t.Helper()
	if err := migration.NewMigrator(db, nil).Refresh(context.Background(), registry); err != nil {
		t.Fatalf("Failed to refresh database: %v", err)
	}
}

// DatabaseTransaction runs a test inside a transaction and rolls back.
//
// Kullanım:
//
//	func TestInTransaction(t *testing.T) {
//	    DatabaseTransaction(t, db, func(tx *database.Transaction) {
//	        // Test code here
//	        // Automatically rolled back after test
//	    })
//	}
func DatabaseTransaction(t testing.TB, db *database.DB, callback func(*database.Transaction)) {
	t.Helper()
	tx, err := db.Begin(context.Background())
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil {
			t.Errorf("Failed to roll back transaction: %v", err)
		}
	}()
	callback(tx)
}

// -----------------------------------------------------------------------------
// Factory Pattern Helpers
// -----------------------------------------------------------------------------

// Factory represents a test data factory.
type Factory struct {
	defaults map[string]any
}

// NewFactory creates a new factory with default values.
func NewFactory(defaults map[string]any) *Factory {
	return &Factory{
		defaults: defaults,
	}
}

// Make creates a new field set with optional overrides.
func (f *Factory) Make(overrides map[string]any) map[string]any {
	result := make(map[string]any, len(f.defaults)+len(overrides))

	// Copy defaults
	for k, v := range f.defaults {
		result[k] = v
	}

	// Apply overrides
	for k, v := range overrides {
		result[k] = v
	}

	return result
}
