package database

import "log"

// Logger, veritabanı katmanının log çıktıları için kullandığı arayüzdür.
// Standart kütüphanedeki *log.Logger bu arayüzü doğrudan uygular.
type Logger interface {
	Printf(format string, v ...any)
	Println(v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Println(...any)        {}

// NopLogger, hiçbir çıktı üretmeyen logger. Testlerde varsayılan olarak kullanılır.
var NopLogger Logger = nopLogger{}

// DefaultLogger, standart log paketinin varsayılan logger'ı.
func DefaultLogger() Logger {
	return log.Default()
}

func orNop(l Logger) Logger {
	if l == nil {
		return NopLogger
	}
	return l
}
