// -----------------------------------------------------------------------------
// Config Package
// -----------------------------------------------------------------------------
// Bu dosya, uygulamanın merkezi konfigürasyon yönetimini sağlar. Ortam
// değişkenleri okunur, varsa CONDUIT_CONFIG ile verilen YAML dosyası üzerine
// eklenir. Eksik ortam değişkenleri olduğunda log üzerinden uyarı verilir ve
// varsayılan değerler kullanılır.
//
// YAML dosyası alias bazında veritabanı bağlantılarını listeler:
//
//	app:
//	  name: conduit
//	  env: production
//	databases:
//	  main:
//	    driver: postgres
//	    dsn: postgres://app@127.0.0.1/app?sslmode=disable
//	    max_open_conns: 20
//	  analytics:
//	    driver: sqlite
//	    dsn: file:./storage/analytics.db
//	    conn_max_lifetime: 10m
//
// Dosyadaki bir alias, ortam değişkenlerinden gelen aynı alias'ın yerini alır.
// -----------------------------------------------------------------------------

package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/biyonik/conduit-go/pkg/database"
)

// DefaultAlias, ortam değişkenlerinden okunan bağlantının alias'ıdır.
const DefaultAlias = "main"

// Config, uygulamanın merkezi yapılandırma nesnesidir.
//
// Nested struct yapısı kullanılarak ilgili ayarlar gruplandırılmıştır:
//   - App: Uygulama genel ayarları
//   - Log: Log ayarları
//   - Databases: Alias → bağlantı ayarları
type Config struct {
	App struct {
		Name string `yaml:"name"` // Uygulama adı
		Env  string `yaml:"env"`  // Ortam (development, production, test)
	} `yaml:"app"`

	Log struct {
		Queries bool `yaml:"queries"` // SQL statement'larını logla
	} `yaml:"log"`

	Databases map[string]database.ConnectionConfig `yaml:"databases"`
}

// Load, yapılandırmayı okur. Hatalar loglanır ve o ana kadar okunan
// değerlerle devam edilir.
//
// Örnek kullanım:
//
//	cfg := config.Load()
//	log.Printf("Environment: %s", cfg.App.Env)
func Load() *Config {
	cfg, err := LoadConfig()
	if err != nil {
		log.Printf("❌ Config yükleme hatası: %v", err)
	}
	return cfg
}

// LoadConfig, ortam değişkenlerini ve varsa YAML dosyasını okur, sonra
// Validate çalıştırır.
//
// Döndürür:
//   - *Config: Yapılandırma nesnesi (hata durumunda da dolu döner)
//   - error: YAML okuma / doğrulama hatası
func LoadConfig() (*Config, error) {
	cfg := &Config{Databases: make(map[string]database.ConnectionConfig)}

	// Helper function: Ortam değişkenini oku, yoksa default kullan
	getEnv := func(key, defaultValue string) string {
		if value, exists := os.LookupEnv(key); exists {
			return value
		}
		log.Printf("⚠️  Uyarı: %s ortam değişkeni bulunamadı, varsayılan (%s) kullanılıyor.", key, defaultValue)
		return defaultValue
	}

	// Helper function: Integer ortam değişkeni
	getEnvAsInt := func(key string, defaultValue int) int {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			log.Printf("⚠️  Uyarı: %s ortam değişkeni bulunamadı, varsayılan (%d) kullanılıyor.", key, defaultValue)
			return defaultValue
		}

		value, err := strconv.Atoi(valueStr)
		if err != nil {
			log.Printf("⚠️  Uyarı: %s için geçersiz değer: %s, varsayılan (%d) kullanılıyor.", key, valueStr, defaultValue)
			return defaultValue
		}

		return value
	}

	// Helper function: Boolean ortam değişkeni
	getEnvAsBool := func(key string, defaultValue bool) bool {
		valueStr := os.Getenv(key)
		if valueStr == "" {
			return defaultValue
		}

		value, err := strconv.ParseBool(valueStr)
		if err != nil {
			log.Printf("⚠️  Uyarı: %s için geçersiz boolean değer: %s, varsayılan (%t) kullanılıyor.", key, valueStr, defaultValue)
			return defaultValue
		}

		return value
	}

	// Helper function: Duration ortam değişkeni (saniye cinsinden)
	getEnvAsDuration := func(key string, defaultSeconds int) time.Duration {
		seconds := getEnvAsInt(key, defaultSeconds)
		return time.Duration(seconds) * time.Second
	}

	// Application Configuration
	cfg.App.Name = getEnv("APP_NAME", "Conduit-Go")
	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.Log.Queries = getEnvAsBool("DB_LOG_QUERIES", false)

	// Database Configuration
	cfg.Databases[DefaultAlias] = database.ConnectionConfig{
		Driver:          getEnv("DB_DRIVER", "sqlite"),
		DSN:             getEnv("DB_DSN", "file:./storage/conduit.db?_pragma=busy_timeout(5000)"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 300), // 5 dakika
		LogQueries:      cfg.Log.Queries,
	}

	// YAML dosyası (opsiyonel)
	if path := os.Getenv("CONDUIT_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	// Validation
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// mergeFile, YAML dosyasını mevcut değerlerin üzerine okur.
func (c *Config) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config dosyası okunamadı: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("config dosyası çözümlenemedi (%s): %w", path, err)
	}

	if file.App.Name != "" {
		c.App.Name = file.App.Name
	}
	if file.App.Env != "" {
		c.App.Env = file.App.Env
	}
	if file.Log.Queries {
		c.Log.Queries = true
	}
	for alias, db := range file.Databases {
		if c.Log.Queries {
			db.LogQueries = true
		}
		c.Databases[alias] = db
	}
	log.Printf("✅ Config dosyası yüklendi: %s (%d bağlantı)", path, len(file.Databases))
	return nil
}

// Validate, config değerlerinin geçerliliğini kontrol eder.
//
// Kontroller:
//   - En az bir bağlantı tanımlı olmalı
//   - Her bağlantının sürücüsü tanınmalı ve DSN boş olmamalı
//   - Havuz ayarları negatif olamaz
//
// Döndürür:
//   - error: İlk bulunan hata (alias sırasıyla)
func (c *Config) Validate() error {
	if len(c.Databases) == 0 {
		return fmt.Errorf("en az bir veritabanı bağlantısı tanımlanmalı")
	}

	for _, alias := range c.Aliases() {
		db := c.Databases[alias]
		if _, err := database.NormalizeDriver(db.Driver); err != nil {
			return fmt.Errorf("%s bağlantısı: %w", alias, err)
		}
		if db.DSN == "" {
			return fmt.Errorf("%s bağlantısı: DSN boş olamaz", alias)
		}
		if db.MaxOpenConns < 0 || db.MaxIdleConns < 0 || db.ConnMaxLifetime < 0 {
			return fmt.Errorf("%s bağlantısı: havuz ayarları negatif olamaz", alias)
		}
	}

	// Production uyarıları
	if c.IsProduction() && c.Log.Queries {
		log.Println("⚠️  UYARI: Production ortamında SQL loglama açık!")
	}
	return nil
}

// Aliases, tanımlı bağlantı alias'larını sıralı döndürür.
func (c *Config) Aliases() []string {
	out := make([]string, 0, len(c.Databases))
	for alias := range c.Databases {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}

// Connect, tüm bağlantıları açar ve bir Manager altında toplar.
//
// Örnek:
//
//	manager, err := cfg.Connect(ctx, log.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer manager.Close()
//	db, _ := manager.Get(config.DefaultAlias)
func (c *Config) Connect(ctx context.Context, logger database.Logger) (*database.Manager, error) {
	m := database.NewManager(logger)
	if err := m.ConnectAll(ctx, c.Databases); err != nil {
		return nil, err
	}
	return m, nil
}

// IsProduction, uygulamanın production ortamında çalışıp çalışmadığını kontrol eder.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// IsDevelopment, uygulamanın development ortamında çalışıp çalışmadığını kontrol eder.
//
// Örnek:
//
//	if cfg.IsDevelopment() {
//	    // Development-specific logic (debug, verbose logging, etc.)
//	}
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsTest, uygulamanın test ortamında çalışıp çalışmadığını kontrol eder.
func (c *Config) IsTest() bool {
	return c.App.Env == "test"
}
