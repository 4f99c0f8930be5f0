package database

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row maps a column name to an int64, float64, string or nil.
type Row map[string]interface{}

// QueryResult is the tabular answer of one statement. Columns keeps the
// order reported by the driver; it is populated even when Rows is empty.
type QueryResult struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

func (r *QueryResult) IsEmpty() bool {
	return r.Len() == 0
}

// HasColumn reports whether the result carries the column, falling back to
// the first row's keys when no column list was recorded.
func (r *QueryResult) HasColumn(name string) bool {
	if r == nil {
		return false
	}
	for _, c := range r.Columns {
		if c == name {
			return true
		}
	}
	if len(r.Columns) == 0 && len(r.Rows) > 0 {
		_, ok := r.Rows[0][name]
		return ok
	}
	return false
}

// Float returns the numeric value of col in row i.
func (r *QueryResult) Float(i int, col string) (float64, bool) {
	if i < 0 || i >= r.Len() {
		return 0, false
	}
	return ToFloat(r.Rows[i][col])
}

// Text returns the value of col in row i rendered as text.
func (r *QueryResult) Text(i int, col string) string {
	if i < 0 || i >= r.Len() {
		return ""
	}
	switch v := r.Rows[i][col].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Sum adds the numeric values of col, skipping nulls and text.
func (r *QueryResult) Sum(col string) float64 {
	var total float64
	for i := 0; i < r.Len(); i++ {
		if v, ok := r.Float(i, col); ok {
			total += v
		}
	}
	return total
}

// Mean averages the numeric values of col; 0 when none are numeric.
func (r *QueryResult) Mean(col string) float64 {
	var total float64
	var n int
	for i := 0; i < r.Len(); i++ {
		if v, ok := r.Float(i, col); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// ToFloat converts the numeric shapes drivers and JSON decoding produce.
func ToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// normalizeValue folds driver values into the Row value set. typeName is
// the database type name when the driver reports one.
func normalizeValue(v interface{}, typeName string) interface{} {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeText(string(val), typeName)
	case string:
		return normalizeText(val, typeName)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case int16:
		return int64(val)
	case int8:
		return int64(val)
	case uint32:
		return int64(val)
	case float32:
		return float64(val)
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

// normalizeText parses decimal columns, which lib/pq hands over as text.
func normalizeText(s, typeName string) interface{} {
	if i := strings.IndexByte(typeName, '('); i >= 0 {
		typeName = typeName[:i]
	}
	switch strings.ToUpper(strings.TrimSpace(typeName)) {
	case "NUMERIC", "DECIMAL", "FLOAT4", "FLOAT8", "REAL", "DOUBLE PRECISION", "MONEY":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "INT2", "INT4", "INT8", "INTEGER", "BIGINT", "SMALLINT":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	}
	return s
}
