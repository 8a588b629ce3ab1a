package database

// -----------------------------------------------------------------------------
// Grammar Interface (Statement Adapter)
// -----------------------------------------------------------------------------
// Tüm compile metotları error döner; geçersiz identifier veya desteklenmeyen
// operatör hiçbir zaman panic üretmez.
// -----------------------------------------------------------------------------

// Grammar, SQL lehçesine özgü sorgu üretimini tanımlar.
//
// Farklı veritabanları için farklı implementasyonlar:
// - MySQLGrammar: MySQL/MariaDB için
// - PostgresGrammar: PostgreSQL için
// - SQLiteGrammar: SQLite için
type Grammar interface {
	// Name, lehçenin adını döndürür ("mysql", "postgres", "sqlite").
	Name() string

	// Wrap, identifier'ları (kolon/tablo adları) veritabanı lehçesine göre sarmalar.
	// MySQL: backtick (`table`), PostgreSQL/SQLite: çift tırnak ("table")
	//
	// Döndürür:
	//   - string: Sarmalanmış identifier
	//   - error: Geçersiz identifier varsa
	Wrap(value string) (string, error)

	// CompileSelect, bir SelectPlan'dan tek bir SELECT sorgusu üretir.
	//
	// Döndürür:
	//   - string: SQL sorgusu
	//   - []any: Prepared statement parametreleri
	//   - error: Sorgu oluşturma hatası
	CompileSelect(plan *SelectPlan) (string, []any, error)

	// CompileInsert, tek satırlık INSERT sorgusu üretir. Lehçe destekliyorsa
	// birincil anahtar RETURNING ile geri okunur.
	CompileInsert(table, primaryKey string, columns []string, values []any) (string, []any, error)

	// CompileUpdate, birincil anahtarla eşleşen satır için UPDATE üretir.
	CompileUpdate(table, keyColumn string, key any, columns []string, values []any) (string, []any, error)

	// CompileDelete, verilen anahtarlara sahip satırlar için DELETE üretir.
	CompileDelete(table, keyColumn string, keys []any) (string, []any, error)

	// CompileCreateTable, CREATE TABLE ifadesi üretir.
	CompileCreateTable(table string, columns []ColumnDefinition) (string, error)

	// CompileDropTable, DROP TABLE ifadesi üretir.
	CompileDropTable(table string, ifExists bool) (string, error)

	// ReturnsInsertedKey, INSERT sorgusunun anahtarı satır olarak döndürüp
	// döndürmediğini belirtir. false ise LastInsertId kullanılır.
	ReturnsInsertedKey() bool

	// FormatValue, bir Go değerini kolon tipine göre sürücüye uygun hale getirir.
	FormatValue(t ColumnType, value any) (any, error)

	// ParseValue, sürücüden okunan ham değeri kolon tipinin Go karşılığına çevirir.
	ParseValue(t ColumnType, value any) (any, error)

	// ClassifyError, sürücü hatasını ConstraintViolationError veya
	// BackendError olarak sınıflandırır. nil için nil döner.
	ClassifyError(statement string, err error) error
}

// dialect, ortak derleyicinin lehçeye bıraktığı noktalardır.
type dialect interface {
	name() string
	quote(identifier string) string
	placeholder(n int) string
	// match, LIKE ailesi operatörlerin SQL parçasını üretir.
	match(column, placeholder string, op Operator) string
	// pattern, kullanıcı değerini operatöre göre kaçışlanmış desene çevirir.
	pattern(value string, op Operator) string
	limit(limit *int, offset int) string
	columnType(column ColumnDefinition) (string, error)
	emptyInsert(table string) string
	classify(err error) (kind string, constraint string, ok bool)
}
