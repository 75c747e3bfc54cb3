package utils

import (
	"strconv"
)

// Row mapping helpers for the generic row maps returned by the DB client.
// Drivers disagree on integer and boolean column representations, so these
// normalize across mysql and sqlite.

// RowString returns the string value of a column, or "" when absent or NULL.
func RowString(row map[string]interface{}, key string) string {
	if v, ok := row[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RowNullableString returns a pointer to the column value, or nil for NULL.
func RowNullableString(row map[string]interface{}, key string) *string {
	if v, ok := row[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return &s
		}
	}
	return nil
}

// RowInt64 returns the int64 value of a column, or 0 when absent or NULL.
func RowInt64(row map[string]interface{}, key string) int64 {
	v, ok := row[key]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	}
	return 0
}

// RowNullableInt64 returns a pointer to the int64 value, or nil for NULL.
func RowNullableInt64(row map[string]interface{}, key string) *int64 {
	if v, ok := row[key]; !ok || v == nil {
		return nil
	}
	n := RowInt64(row, key)
	return &n
}

// RowInt returns the int value of a column, or 0 when absent or NULL.
func RowInt(row map[string]interface{}, key string) int {
	return int(RowInt64(row, key))
}

// RowBool returns the boolean value of a column. Integer columns are treated
// as true for any non-zero value.
func RowBool(row map[string]interface{}, key string) bool {
	v, ok := row[key]
	if !ok || v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return RowInt64(row, key) != 0
}
