package db

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
)

func matchAll(row Row, conds []apper.Condition) bool {
	for _, c := range conds {
		if !match(row, c) {
			return false
		}
	}
	return true
}

func match(row Row, c apper.Condition) bool {
	v := fieldValue(row, c.FieldName)
	hit := false
	for _, want := range c.Values {
		if compareValues(v, want) == 0 {
			hit = true
			break
		}
	}
	switch c.Operator {
	case apper.OpNotEqualTo:
		return !hit
	default:
		return hit
	}
}

func fieldValue(row Row, name string) any {
	if name == fieldID {
		return row.ID
	}
	return row.Fields[name]
}

// compareValues orders two stored values. Numbers compare numerically, and a
// lookup object compares by its Id.
func compareValues(a, b any) int {
	af, aNum := number(a)
	bf, bNum := number(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(text(a), text(b))
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case map[string]any:
		return number(n[fieldID])
	}
	return 0, false
}

func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case map[string]any:
		return text(s[fieldID])
	}
	if f, ok := number(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// asID converts a record id from any of the forms the gateway may send.
func asID(v any) (uint, bool) {
	f, ok := number(v)
	if !ok || f < 1 || f != math.Trunc(f) {
		return 0, false
	}
	if _, isMap := v.(map[string]any); isMap {
		return 0, false
	}
	return uint(f), true
}
