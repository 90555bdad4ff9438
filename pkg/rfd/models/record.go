// Package models defines the data passed between the stages of a
// declaration run.
package models

import (
	"strconv"
	"strings"
)

// Record is one row of the source sheet.
type Record struct {
	// Row is the 1-based source row number.
	Row int `json:"row"`
	// Values maps field name to cell value: int64, float64, string, or nil
	// for an empty cell.
	Values map[string]interface{} `json:"values"`
}

// Get returns the raw value of field, or nil when absent.
func (r Record) Get(field string) interface{} {
	if r.Values == nil {
		return nil
	}
	return r.Values[field]
}

// String returns field rendered as text. Empty cells render as "".
func (r Record) String(field string) string {
	return Stringify(r.Get(field))
}

// Float returns field as a number when it holds one.
func (r Record) Float(field string) (float64, bool) {
	return ToFloat(r.Get(field))
}

// IsBlank reports whether field is absent, nil, or whitespace only.
func (r Record) IsBlank(field string) bool {
	return strings.TrimSpace(r.String(field)) == ""
}

// Stringify renders a cell value as text without trailing float noise.
func Stringify(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// ToFloat converts numeric values, and strings holding numbers, to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
