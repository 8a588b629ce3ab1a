package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// -----------------------------------------------------------------------------
// MySQL Grammar
// -----------------------------------------------------------------------------
// backtick quoting, "?" placeholder. Büyük/küçük harf duyarlı eşleşme için
// LIKE BINARY, duyarsız eşleşme için LOWER() karşılaştırması kullanılır.
// -----------------------------------------------------------------------------

type MySQLGrammar struct {
	sqlGrammar
}

func NewMySQLGrammar() *MySQLGrammar {
	g := &MySQLGrammar{}
	g.sqlGrammar = sqlGrammar{d: g}
	return g
}

func (g *MySQLGrammar) name() string { return "mysql" }

func (g *MySQLGrammar) quote(identifier string) string {
	return "`" + identifier + "`"
}

func (g *MySQLGrammar) placeholder(int) string { return "?" }

func (g *MySQLGrammar) match(column, placeholder string, op Operator) string {
	if op.caseInsensitive() {
		return "LOWER(" + column + ") LIKE LOWER(" + placeholder + ")"
	}
	return column + " LIKE BINARY " + placeholder
}

func (g *MySQLGrammar) pattern(value string, op Operator) string {
	return likePattern(value, op)
}

// limit, MySQL'de LIMIT olmadan OFFSET yazılamadığı için azami değeri kullanır.
func (g *MySQLGrammar) limit(limit *int, offset int) string {
	switch {
	case limit == nil && offset <= 0:
		return ""
	case limit == nil:
		return " LIMIT 18446744073709551615 OFFSET " + strconv.Itoa(offset)
	case offset > 0:
		return " LIMIT " + strconv.Itoa(*limit) + " OFFSET " + strconv.Itoa(offset)
	}
	return " LIMIT " + strconv.Itoa(*limit)
}

func (g *MySQLGrammar) columnType(col ColumnDefinition) (string, error) {
	switch col.Type {
	case TypeSerial:
		return "BIGINT AUTO_INCREMENT PRIMARY KEY", nil
	case TypeInt, TypeCurrency:
		return "BIGINT", nil
	case TypeFloat:
		return "DOUBLE", nil
	case TypeString:
		return fmt.Sprintf("VARCHAR(%d)", col.MaxLength()), nil
	case TypeText:
		return "TEXT", nil
	case TypeBoolean:
		return "TINYINT(1)", nil
	case TypeDateTime:
		return "DATETIME(6)", nil
	case TypeJSON:
		return "JSON", nil
	case TypeUUID:
		return "CHAR(36)", nil
	}
	return "", fmt.Errorf("column %s: unsupported type %q", col.Name, col.Type)
}

func (g *MySQLGrammar) emptyInsert(table string) string {
	return "INSERT INTO " + table + " () VALUES ()"
}

// MySQL hata numaraları:
//
//	1048 NOT NULL, 1062 duplicate entry, 1451/1452 foreign key, 3819 check
func (g *MySQLGrammar) classify(err error) (string, string, bool) {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return "", "", false
	}
	switch myErr.Number {
	case 1048:
		return "not_null_violation", "", true
	case 1062:
		return "unique_violation", "", true
	case 1451, 1452:
		return "foreign_key_violation", "", true
	case 3819:
		return "check_violation", "", true
	}
	return "", "", false
}
