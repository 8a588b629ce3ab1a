package database

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// -----------------------------------------------------------------------------
// SQLite Grammar
// -----------------------------------------------------------------------------
// SQLite'ta LIKE ASCII için büyük/küçük harf duyarsızdır; duyarlı eşleşme
// GLOB ile yapılır. Tarih değerleri sabit bir metin formatında saklanır,
// böylece metin karşılaştırması kronolojik sırayı korur.
// -----------------------------------------------------------------------------

type SQLiteGrammar struct {
	sqlGrammar
}

func NewSQLiteGrammar() *SQLiteGrammar {
	g := &SQLiteGrammar{}
	g.sqlGrammar = sqlGrammar{d: g, timeLayout: "2006-01-02 15:04:05.000000"}
	return g
}

func (g *SQLiteGrammar) name() string { return "sqlite" }

func (g *SQLiteGrammar) quote(identifier string) string {
	return `"` + identifier + `"`
}

func (g *SQLiteGrammar) placeholder(int) string { return "?" }

func (g *SQLiteGrammar) match(column, placeholder string, op Operator) string {
	if op.caseInsensitive() {
		return "LOWER(" + column + ") LIKE LOWER(" + placeholder + `) ESCAPE '\'`
	}
	return column + " GLOB " + placeholder
}

// globEscaper, GLOB meta karakterlerini köşeli parantezle kaçışlar.
var globEscaper = strings.NewReplacer(`[`, `[[]`, `*`, `[*]`, `?`, `[?]`)

func (g *SQLiteGrammar) pattern(value string, op Operator) string {
	if op.caseInsensitive() {
		return likePattern(value, op)
	}
	escaped := globEscaper.Replace(value)
	switch op {
	case OpStartsWith:
		return escaped + "*"
	case OpEndsWith:
		return "*" + escaped
	}
	return "*" + escaped + "*"
}

func (g *SQLiteGrammar) limit(limit *int, offset int) string {
	switch {
	case limit == nil && offset <= 0:
		return ""
	case limit == nil:
		return " LIMIT -1 OFFSET " + strconv.Itoa(offset)
	case offset > 0:
		return " LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(offset)
	}
	return " LIMIT " + strconv.Itoa(*limit)
}

func (g *SQLiteGrammar) columnType(col ColumnDefinition) (string, error) {
	switch col.Type {
	case TypeSerial:
		return "INTEGER PRIMARY KEY AUTOINCREMENT", nil
	case TypeInt, TypeCurrency:
		return "INTEGER", nil
	case TypeFloat:
		return "REAL", nil
	case TypeString:
		return fmt.Sprintf("VARCHAR(%d)", col.MaxLength()), nil
	case TypeText, TypeJSON, TypeUUID:
		return "TEXT", nil
	case TypeBoolean:
		return "BOOLEAN", nil
	case TypeDateTime:
		return "DATETIME", nil
	}
	return "", fmt.Errorf("column %s: unsupported type %q", col.Name, col.Type)
}

func (g *SQLiteGrammar) emptyInsert(table string) string {
	return "INSERT INTO " + table + " DEFAULT VALUES"
}

func (g *SQLiteGrammar) classify(err error) (string, string, bool) {
	var liteErr *sqlite.Error
	if !errors.As(err, &liteErr) {
		return "", "", false
	}
	code := liteErr.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return "", "", false
	}
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return "unique_violation", "", true
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return "not_null_violation", "", true
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return "foreign_key_violation", "", true
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return "check_violation", "", true
	}
	return "constraint_violation", "", true
}
