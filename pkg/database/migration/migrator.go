// -----------------------------------------------------------------------------
// Schema Bootstrap
// -----------------------------------------------------------------------------
// Bu package, kayıtlı entity'ler için tabloları oluşturur ve siler. Şema
// farkı (diff) hesaplanmaz ve migration geçmişi tutulmaz; amaç testlerde ve
// ilk kurulumda tabloları şema tanımından hazırlamaktır.
//
// Kullanım:
//
//	m := migration.NewMigrator(db, logger)
//	err := m.CreateTable(ctx, "parents", func(t *migration.Blueprint) {
//	    t.ID()
//	    t.String("name", 255)
//	    t.Timestamps()
//	})
//
//	// Registry'deki tüm tabloları sil ve yeniden oluştur
//	err = m.Refresh(ctx, registry)
// -----------------------------------------------------------------------------

package migration

import (
	"context"
	"fmt"

	"github.com/biyonik/conduit-go/pkg/database"
	"github.com/biyonik/conduit-go/pkg/schema"
)

// Migrator, DDL ifadelerini bağlantının grammar'ı ile üretip çalıştırır.
type Migrator struct {
	db     *database.DB
	logger database.Logger
}

// NewMigrator creates a new Migrator instance.
func NewMigrator(db *database.DB, logger database.Logger) *Migrator {
	if logger == nil {
		logger = database.NopLogger
	}
	return &Migrator{db: db, logger: logger}
}

// CreateTable creates a new table from a blueprint callback.
func (m *Migrator) CreateTable(ctx context.Context, tableName string, callback func(*Blueprint)) error {
	blueprint := NewBlueprint(tableName)
	callback(blueprint)
	return m.createTable(ctx, m.db, blueprint.Table(), blueprint.Columns())
}

// DropTable drops a table if it exists.
func (m *Migrator) DropTable(ctx context.Context, tableName string) error {
	return m.dropTable(ctx, m.db, tableName)
}

// Refresh, registry'deki tüm entity tablolarını ters kayıt sırasıyla siler
// ve kayıt sırasıyla yeniden oluşturur. İşlem tek bir transaction içinde
// yürür; MySQL DDL ifadelerinde örtük commit yaptığı için orada atomik değildir.
func (m *Migrator) Refresh(ctx context.Context, registry *schema.Registry) error {
	entities := registry.Entities()

	err := m.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		for i := len(entities) - 1; i >= 0; i-- {
			if err := m.dropTable(ctx, tx, entities[i].Table); err != nil {
				return err
			}
		}
		for _, e := range entities {
			if err := m.createTable(ctx, tx, e.Table, e.Columns()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Printf("✅ %d tablo yeniden oluşturuldu", len(entities))
	return nil
}

func (m *Migrator) createTable(ctx context.Context, s database.Session, table string, columns []database.ColumnDefinition) error {
	sql, err := s.Grammar().CompileCreateTable(table, columns)
	if err != nil {
		return err
	}
	if _, err := s.Exec(ctx, sql, nil); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	m.logger.Printf("✅ Created table: %s", table)
	return nil
}

func (m *Migrator) dropTable(ctx context.Context, s database.Session, table string) error {
	sql, err := s.Grammar().CompileDropTable(table, true)
	if err != nil {
		return err
	}
	if _, err := s.Exec(ctx, sql, nil); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}
	m.logger.Printf("✅ Dropped table: %s", table)
	return nil
}
