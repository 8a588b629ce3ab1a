package database

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// VALUE COERCION
// -----------------------------------------------------------------------------
// Yazma yönünde Go değerleri sürücünün kabul ettiği biçime, okuma yönünde
// sürücünün döndürdüğü ham değerler (int64, []byte, string, time.Time)
// kolon tipinin Go karşılığına çevrilir:
//
//	serial/int/currency → int64
//	float               → float64
//	boolean             → bool
//	datetime            → time.Time (UTC)
//	json                → any (json.Unmarshal sonucu)
//	string/text/uuid    → string
// -----------------------------------------------------------------------------

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatValue, değeri kolon tipine göre sürücüye gönderilecek biçime çevirir.
func (g *sqlGrammar) FormatValue(t ColumnType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	switch t {
	case TypeSerial, TypeInt, TypeCurrency:
		return toInt64(value)
	case TypeFloat:
		return toFloat64(value)
	case TypeBoolean:
		return toBool(value)
	case TypeDateTime:
		tm, err := toTime(value)
		if err != nil {
			return nil, err
		}
		if g.timeLayout != "" {
			return tm.UTC().Format(g.timeLayout), nil
		}
		return tm.UTC(), nil
	case TypeJSON:
		if raw, ok := value.(json.RawMessage); ok {
			return string(raw), nil
		}
		b, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("json value: %w", err)
		}
		return string(b), nil
	case TypeUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v.String(), nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("uuid value %q: %w", v, err)
			}
			return id.String(), nil
		}
		return nil, fmt.Errorf("uuid value: unsupported type %T", value)
	case TypeString, TypeText:
		switch v := value.(type) {
		case string:
			return v, nil
		case []byte:
			return string(v), nil
		case fmt.Stringer:
			return v.String(), nil
		}
		return nil, fmt.Errorf("%s value: unsupported type %T", t, value)
	}
	return nil, fmt.Errorf("unknown column type: %s", t)
}

// ParseValue, sürücüden okunan ham değeri kolon tipine çevirir.
func (g *sqlGrammar) ParseValue(t ColumnType, value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	if t == TypeJSON {
		var raw []byte
		switch v := value.(type) {
		case []byte:
			raw = v
		case string:
			raw = []byte(v)
		default:
			return v, nil
		}
		var out any
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("json column: %w", err)
		}
		return out, nil
	}
	if b, ok := value.([]byte); ok {
		value = string(b)
	}
	switch t {
	case TypeSerial, TypeInt, TypeCurrency:
		return toInt64(value)
	case TypeFloat:
		return toFloat64(value)
	case TypeBoolean:
		return toBool(value)
	case TypeDateTime:
		tm, err := toTime(value)
		if err != nil {
			return nil, err
		}
		return tm.UTC(), nil
	case TypeString, TypeText, TypeUUID:
		if s, ok := value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(value), nil
	}
	return nil, fmt.Errorf("unknown column type: %s", t)
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case uint:
		return toInt64(uint64(v))
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("integer value %d overflows int64", v)
		}
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("integer value expected, got %v", v)
		}
		if v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("integer value %v overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return toInt64(float64(v))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("integer value expected, got %q", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("integer value expected, got %T", value)
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("numeric value expected, got %q", v)
		}
		return f, nil
	}
	n, err := toInt64(value)
	if err != nil {
		return 0, fmt.Errorf("numeric value expected, got %T", value)
	}
	return float64(n), nil
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("boolean value expected, got %q", v)
		}
		return b, nil
	}
	n, err := toInt64(value)
	if err != nil {
		return false, fmt.Errorf("boolean value expected, got %T", value)
	}
	return n != 0, nil
}

// ParseTime, datetime kolonlarına yazılabilecek bir değeri time.Time'a
// çevirir. time.Time, *time.Time ve bilinen biçimlerdeki string'ler kabul edilir.
func ParseTime(value any) (time.Time, error) {
	return toTime(value)
}

func toTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("datetime value is nil")
		}
		return *v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if tm, err := time.Parse(layout, s); err == nil {
				return tm, nil
			}
		}
		return time.Time{}, fmt.Errorf("datetime value %q has unknown format", v)
	}
	return time.Time{}, fmt.Errorf("datetime value expected, got %T", value)
}
