package models

import (
	"strconv"
	"strings"
	"unicode"
)

// Named is a record that can be shown by name.
type Named interface {
	RecordID() int64
	DisplayName() string
}

// NameByID resolves a reference against items. An unresolved reference
// renders as "Unknown <kind>".
func NameByID[T Named](items []T, ref *Lookup, kind string) string {
	if ref != nil {
		for _, item := range items {
			if item.RecordID() == ref.ID {
				return item.DisplayName()
			}
		}
		if ref.Name != "" {
			return ref.Name
		}
	}
	return "Unknown " + kind
}

// CoerceID converts a raw identifier the way the hosted store's clients do:
// leading digits (after optional whitespace and sign) become an integer. A
// value with no leading digits is passed through unchanged.
func CoerceID(raw string) any {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return raw
	}
	id, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return raw
	}
	return id
}

// ParseID is CoerceID restricted to integers.
func ParseID(raw string) (int64, bool) {
	id, ok := CoerceID(raw).(int64)
	return id, ok
}
