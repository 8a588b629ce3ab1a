// -----------------------------------------------------------------------------
// Database Package
// -----------------------------------------------------------------------------
// Bu dosya, uygulamanın veritabanına bağlanmasını sağlayan merkezi bağlantı
// fonksiyonunu içerir. Sürücü adı hem database/sql sürücüsünü hem de
// kullanılacak Grammar'ı belirler:
//
//	mysql    → go-sql-driver/mysql + MySQLGrammar
//	postgres → lib/pq + PostgresGrammar
//	sqlite   → modernc.org/sqlite + SQLiteGrammar
//
// Sürücüler grammar dosyalarındaki importlar ile kaydedilir.
// -----------------------------------------------------------------------------

package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig, tek bir veritabanı bağlantısının ayarlarıdır.
type ConnectionConfig struct {
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	LogQueries      bool          `yaml:"log_queries"`
}

// NormalizeDriver, sürücü takma adlarını kanonik isme çevirir.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "mysql", "mariadb":
		return "mysql", nil
	case "postgres", "postgresql", "pgsql", "pq":
		return "postgres", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
}

// GrammarFor, sürücü adına karşılık gelen Grammar'ı döndürür.
func GrammarFor(driver string) (Grammar, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	switch name {
	case "mysql":
		return NewMySQLGrammar(), nil
	case "postgres":
		return NewPostgresGrammar(), nil
	default:
		return NewSQLiteGrammar(), nil
	}
}

// DB, bağlantı havuzunu grammar ile birlikte taşır.
type DB struct {
	*Conn
	pool   *sql.DB
	driver string
}

// Connect, verilen ayarlarla veritabanına bağlanır.
// Bağlantı sırasında şu adımlar gerçekleştirilir:
//  1. sql.Open ile sürücü ve DSN kullanılarak bağlantı nesnesi oluşturulur.
//  2. Bağlantı havuzu için max open ve idle connection değerleri belirlenir.
//  3. Bağlantı ömrü (ConnMaxLifetime) ayarlanır, verilmemişse 5 dakikadır.
//  4. PingContext ile veritabanının ulaşılabilirliği kontrol edilir.
//  5. Başarılı olursa DB döndürülür, hata varsa havuz kapatılır ve error döner.
func Connect(ctx context.Context, cfg ConnectionConfig, logger Logger) (*DB, error) {
	driver, err := NormalizeDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database: %s connection requires a DSN", driver)
	}

	pool, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, err // Bağlantı açma hatası
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = maxOpen
	}
	lifetime := cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = 5 * time.Minute
	}
	pool.SetMaxOpenConns(maxOpen)
	pool.SetMaxIdleConns(maxIdle)
	pool.SetConnMaxLifetime(lifetime)

	logger = orNop(logger)
	logger.Printf("Veritabanına bağlanılıyor... (%s)", driver)
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	db, err := Open(driver, pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	db.logQueries = cfg.LogQueries

	logger.Println("✅ Veritabanı bağlantısı başarılı!")
	return db, nil
}

// Open, hazır bir *sql.DB havuzunu sarar. Testlerde sqlmock ile kullanılır.
func Open(driver string, pool *sql.DB, logger Logger) (*DB, error) {
	grammar, err := GrammarFor(driver)
	if err != nil {
		return nil, err
	}
	return &DB{
		Conn:   newConn(pool, grammar, logger, false, false),
		pool:   pool,
		driver: grammar.Name(),
	}, nil
}

// Driver, kanonik sürücü adını döndürür.
func (db *DB) Driver() string {
	return db.driver
}

// Pool, alttaki *sql.DB havuzuna erişim sağlar.
func (db *DB) Pool() *sql.DB {
	return db.pool
}

// Close, bağlantı havuzunu kapatır.
func (db *DB) Close() error {
	return db.pool.Close()
}
