// Package payload provides defensive field extraction for untyped catalog
// responses. Every helper returns a typed zero value instead of panicking, so
// a record with a missing or reshaped field degrades to defaults rather than
// failing the batch.
package payload

import (
	"strconv"

	"github.com/upfchecker/backend/internal/domain"
)

// String returns the string at key, or "" when the field is absent or not a
// string. Numeric values are formatted, since some catalogs flip ids between
// string and number across API revisions.
func String(r domain.RawRecord, key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return formatNumber(v)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Number returns the numeric value at key, accepting JSON numbers and numeric
// strings. Returns 0 when the field is absent or unparseable.
func Number(r domain.RawRecord, key string) float64 {
	return coerceNumber(r[key])
}

// Map returns the nested object at key, or an empty record so lookups can be
// chained without nil checks.
func Map(r domain.RawRecord, key string) domain.RawRecord {
	if m, ok := r[key].(map[string]any); ok {
		return domain.RawRecord(m)
	}
	return domain.RawRecord{}
}

// Slice returns the array of objects at key. Non-object elements are skipped.
func Slice(r domain.RawRecord, key string) []domain.RawRecord {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	records := make([]domain.RawRecord, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			records = append(records, domain.RawRecord(m))
		}
	}
	return records
}

// First returns the first object of the array at key, or an empty record.
func First(r domain.RawRecord, key string) domain.RawRecord {
	items := Slice(r, key)
	if len(items) == 0 {
		return domain.RawRecord{}
	}
	return items[0]
}

// Amount reads a monetary value at key that is either a nested object with an
// "amount" field or a bare number. The ok result is false when neither shape
// is present.
func Amount(r domain.RawRecord, key string) (float64, bool) {
	switch v := r[key].(type) {
	case map[string]any:
		if _, present := v["amount"]; !present {
			return 0, false
		}
		return coerceNumber(v["amount"]), true
	case nil:
		return 0, false
	default:
		return coerceNumber(v), true
	}
}

func coerceNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// formatNumber renders a JSON number the way the catalog meant it: integral
// values without a decimal point.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
