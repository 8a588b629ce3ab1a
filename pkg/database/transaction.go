// pkg/database/transaction.go
//
// Bir transaction; ACID prensiplerine uygun olarak bir grup veritabanı
// işleminin tamamının *ya tamamen başarılı olmasını* ya da *hiçbirinin
// uygulanmamış kabul edilmesini* sağlar. SaveAll gibi toplu yazma
// işlemleri bütünüyle bu yapı üzerinden yürür.
//
// Transaction, Go'nun sql.Tx tipine bir sarmalayıcıdır ve *DB ile aynı
// Session yüzeyini sunar. Tek bir bağlantı üzerinde çalıştığı için
// statement'lar bir mutex ile sıraya alınır.
//
// Örnek kullanım:
//
//	err := db.WithTransaction(ctx, func(tx *database.Transaction) error {
//	    _, err := tx.Insert(ctx, "parents", "id", []string{"name"}, []any{"Ada"})
//	    return err
//	})

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
)

// Transaction
//
// Veritabanı transaction yapısını temsil eder.
// sql.Tx nesnesini saklar ve commit/rollback operasyonlarını
// daha okunabilir bir API ile gerçekleştirir.
type Transaction struct {
	*Conn
	tx     *sql.Tx
	logger Logger

	mu   sync.Mutex
	done bool
}

// Begin
//
// Yeni bir veritabanı transaction'ı başlatır.
// Dönen Transaction mutlaka `Commit()` veya `Rollback()`
// ile sonlandırılmalıdır.
func (db *DB) Begin(ctx context.Context) (*Transaction, error) {
	tx, err := db.pool.BeginTx(ctx, nil)
	if err != nil {
		return nil, db.grammar.ClassifyError("BEGIN", err)
	}
	db.logger.Println("🔄 Transaction başladı.")
	return &Transaction{
		Conn:   newConn(tx, db.grammar, db.logger, db.logQueries, true),
		tx:     tx,
		logger: db.logger,
	}, nil
}

// Commit
//
// Başlatılmış olan transaction'ı başarılı şekilde sonlandırır.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true

	if err := t.tx.Commit(); err != nil {
		return t.grammar.ClassifyError("COMMIT", err)
	}
	t.logger.Println("✅ Transaction commit edildi.")
	return nil
}

// Rollback
//
// Transaction sırasında bir hata oluştuğunda çağrılır.
// Yapılmış tüm değişiklikler geri alınır. Zaten kapanmış bir
// transaction için ErrTxDone döner.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.done = true

	if err := t.tx.Rollback(); err != nil {
		return t.grammar.ClassifyError("ROLLBACK", err)
	}
	t.logger.Println("❌ Transaction geri alındı.")
	return nil
}

// WithTransaction, fn'i bir transaction içinde çalıştırır. fn hata dönerse
// veya panic olursa rollback yapılır, aksi halde commit edilir.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, ErrTxDone) {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
