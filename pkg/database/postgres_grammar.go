package database

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/lib/pq"
)

// -----------------------------------------------------------------------------
// PostgreSQL Grammar
// -----------------------------------------------------------------------------
// Çift tırnak quoting, $n placeholder, LIKE / ILIKE eşleşme ve
// INSERT ... RETURNING ile anahtar okuma.
// -----------------------------------------------------------------------------

type PostgresGrammar struct {
	sqlGrammar
}

func NewPostgresGrammar() *PostgresGrammar {
	g := &PostgresGrammar{}
	g.sqlGrammar = sqlGrammar{d: g, returning: true}
	return g
}

func (g *PostgresGrammar) name() string { return "postgres" }

func (g *PostgresGrammar) quote(identifier string) string {
	return `"` + identifier + `"`
}

func (g *PostgresGrammar) placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (g *PostgresGrammar) match(column, placeholder string, op Operator) string {
	if op.caseInsensitive() {
		return column + " ILIKE " + placeholder
	}
	return column + " LIKE " + placeholder
}

func (g *PostgresGrammar) pattern(value string, op Operator) string {
	return likePattern(value, op)
}

func (g *PostgresGrammar) limit(limit *int, offset int) string {
	out := ""
	if limit != nil {
		out += " LIMIT " + strconv.Itoa(*limit)
	}
	if offset > 0 {
		out += " OFFSET " + strconv.Itoa(offset)
	}
	return out
}

func (g *PostgresGrammar) columnType(col ColumnDefinition) (string, error) {
	switch col.Type {
	case TypeSerial:
		return "BIGSERIAL PRIMARY KEY", nil
	case TypeInt, TypeCurrency:
		return "BIGINT", nil
	case TypeFloat:
		return "DOUBLE PRECISION", nil
	case TypeString:
		return fmt.Sprintf("VARCHAR(%d)", col.MaxLength()), nil
	case TypeText:
		return "TEXT", nil
	case TypeBoolean:
		return "BOOLEAN", nil
	case TypeDateTime:
		return "TIMESTAMP", nil
	case TypeJSON:
		return "JSONB", nil
	case TypeUUID:
		return "UUID", nil
	}
	return "", fmt.Errorf("column %s: unsupported type %q", col.Name, col.Type)
}

func (g *PostgresGrammar) emptyInsert(table string) string {
	return "INSERT INTO " + table + " DEFAULT VALUES"
}

// classify, SQLSTATE sınıfı 23 (integrity constraint violation) hatalarını yakalar.
func (g *PostgresGrammar) classify(err error) (string, string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return "", "", false
	}
	if pqErr.Code.Class() != "23" {
		return "", "", false
	}
	return pqErr.Code.Name(), pqErr.Constraint, true
}
