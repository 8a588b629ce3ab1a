package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

/*
*
//QueryExecutor, Go'nun 'database/sql' paketindeki
// hem *sql.DB (havuz) hem de *sql.Tx (transaction) tarafından
// örtük olarak uygulanan metodları tanımlayan bir arayüzdür.
//
// Conn *sql.DB'ye kilitlenmek yerine bu arayüze kilitlenir.
// Bu, aynı kodun hem normal sorgularda hem de transaction'lar
// içinde çalışabilmesini sağlar.
*/
type QueryExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Session, ORM katmanının statement çalıştırmak için ihtiyaç duyduğu
// minimum yüzeydir. *DB ve *Transaction bu arayüzü uygular.
type Session interface {
	Grammar() Grammar
	Select(ctx context.Context, query string, args []any) (*ResultSet, error)
	Exec(ctx context.Context, query string, args []any) (sql.Result, error)
	Insert(ctx context.Context, table, primaryKey string, columns []string, values []any) (any, error)
}

// Conn, bir QueryExecutor'ı grammar ve logger ile birleştirir.
// mu doluysa statement'lar sırayla çalıştırılır; tek bir bağlantı
// üzerinde (transaction) iki statement'ın iç içe geçmesi engellenir.
type Conn struct {
	executor   QueryExecutor
	grammar    Grammar
	logger     Logger
	logQueries bool
	mu         *sync.Mutex
}

func newConn(executor QueryExecutor, grammar Grammar, logger Logger, logQueries, serialized bool) *Conn {
	c := &Conn{
		executor:   executor,
		grammar:    grammar,
		logger:     orNop(logger),
		logQueries: logQueries,
	}
	if serialized {
		c.mu = &sync.Mutex{}
	}
	return c
}

// Grammar, bağlantının lehçesini döndürür.
func (c *Conn) Grammar() Grammar {
	return c.grammar
}

func (c *Conn) lock() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

func (c *Conn) trace(query string, args []any) {
	if c.logQueries {
		c.logger.Printf("🔎 SQL: %s %v", query, args)
	}
}

// Select, sorguyu çalıştırır ve tüm satırları okuyup döndürür.
// Dönüşten önce *sql.Rows kapatılır; bağlantı havuza iade edilmiş olur.
func (c *Conn) Select(ctx context.Context, query string, args []any) (*ResultSet, error) {
	defer c.lock()()
	c.trace(query, args)

	rows, err := c.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, c.grammar.ClassifyError(query, err)
	}
	defer rows.Close()

	rs, err := readRows(rows)
	if err != nil {
		return nil, c.grammar.ClassifyError(query, err)
	}
	return rs, nil
}

// Exec, satır döndürmeyen bir statement çalıştırır.
func (c *Conn) Exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	defer c.lock()()
	c.trace(query, args)

	res, err := c.executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, c.grammar.ClassifyError(query, err)
	}
	return res, nil
}

// Insert, tek satır ekler ve üretilen birincil anahtarı döndürür.
// RETURNING destekleyen lehçelerde anahtar sonuç satırından, diğerlerinde
// LastInsertId'den okunur.
func (c *Conn) Insert(ctx context.Context, table, primaryKey string, columns []string, values []any) (any, error) {
	query, args, err := c.grammar.CompileInsert(table, primaryKey, columns, values)
	if err != nil {
		return nil, err
	}

	if c.grammar.ReturnsInsertedKey() {
		rs, err := c.Select(ctx, query, args)
		if err != nil {
			return nil, err
		}
		if len(rs.Rows) == 0 || len(rs.Rows[0]) == 0 {
			return nil, &BackendError{
				Dialect:   c.grammar.Name(),
				Statement: query,
				Err:       fmt.Errorf("insert into %s returned no key", table),
			}
		}
		return rs.Rows[0][0], nil
	}

	res, err := c.Exec(ctx, query, args)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, c.grammar.ClassifyError(query, err)
	}
	return id, nil
}
