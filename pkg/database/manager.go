package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Manager, alias ile adreslenen bağlantıların kaydıdır.
// Uygulama başlangıcında "main", "analytics" gibi isimlerle bağlantılar
// eklenir; modeller bu alias'lar üzerinden bağlantıya ulaşır.
type Manager struct {
	mu          sync.RWMutex
	connections map[string]*DB
	logger      Logger
}

// NewManager, boş bir bağlantı kaydı oluşturur.
func NewManager(logger Logger) *Manager {
	return &Manager{
		connections: make(map[string]*DB),
		logger:      orNop(logger),
	}
}

// Add, bağlantıyı alias altında kaydeder.
// Aynı alias ikinci kez eklenirse ErrDuplicateAlias döner.
func (m *Manager) Add(alias string, db *DB) error {
	if alias == "" {
		return fmt.Errorf("database: alias must not be empty")
	}
	if db == nil {
		return fmt.Errorf("database: nil connection for alias %q", alias)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.connections[alias]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateAlias, alias)
	}
	m.connections[alias] = db
	return nil
}

// Get, alias'a kayıtlı bağlantıyı döndürür.
func (m *Manager) Get(alias string) (*DB, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	db, ok := m.connections[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlias, alias)
	}
	return db, nil
}

// Aliases, kayıtlı alias'ları alfabetik sırada döndürür.
func (m *Manager) Aliases() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.connections))
	for alias := range m.connections {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// ConnectAll, her ayar için Connect çağırır ve sonucu kaydeder.
// Herhangi bir bağlantı başarısız olursa o ana kadar açılanlar kapatılır.
func (m *Manager) ConnectAll(ctx context.Context, configs map[string]ConnectionConfig) error {
	aliases := make([]string, 0, len(configs))
	for alias := range configs {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)

	opened := make([]string, 0, len(aliases))
	for _, alias := range aliases {
		db, err := Connect(ctx, configs[alias], m.logger)
		if err == nil {
			err = m.Add(alias, db)
			if err != nil {
				db.Close()
			}
		}
		if err != nil {
			for _, name := range opened {
				m.remove(name)
			}
			return fmt.Errorf("database %q: %w", alias, err)
		}
		opened = append(opened, alias)
	}
	return nil
}

func (m *Manager) remove(alias string) {
	m.mu.Lock()
	db := m.connections[alias]
	delete(m.connections, alias)
	m.mu.Unlock()
	if db != nil {
		db.Close()
	}
}

// Close, tüm bağlantıları kapatır ve kaydı boşaltır.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for alias, db := range m.connections {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", alias, err))
		}
		delete(m.connections, alias)
	}
	return errors.Join(errs...)
}
