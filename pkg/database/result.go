package database

import (
	"database/sql"
)

// -----------------------------------------------------------------------------
// RESULT HELPERS
// -----------------------------------------------------------------------------
// Sonuç satırları pozisyonel olarak okunur. SELECT listesinde aynı isimli
// kolonlar (örn. her tablonun "id" kolonu) birden fazla kez bulunduğu için
// map yerine sıralı dilim kullanılır.
// -----------------------------------------------------------------------------

// ResultSet, tamamen okunmuş bir sorgu sonucudur.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len, satır sayısını döndürür.
func (r *ResultSet) Len() int {
	return len(r.Rows)
}

// readRows: sql.Rows'ı [][]any biçimine dönüştürür.
func readRows(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: cols, Rows: make([][]any, 0)}

	for rows.Next() {
		values := make([]any, len(cols))
		pointers := make([]any, len(cols))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}
		rs.Rows = append(rs.Rows, values)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rs, nil
}
