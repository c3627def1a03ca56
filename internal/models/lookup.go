package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Lookup is a reference to another record. The store may return it as a bare
// id, a numeric string or an expanded {"Id": n, "Name": "..."} object.
type Lookup struct {
	ID   int64
	Name string
}

func (l *Lookup) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = Lookup{}
		return nil
	}

	switch b[0] {
	case '{':
		var obj struct {
			ID   json.Number `json:"Id"`
			Name string      `json:"Name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("invalid lookup: %w", err)
		}
		id, err := parseLookupID(obj.ID.String())
		if err != nil {
			return err
		}
		*l = Lookup{ID: id, Name: obj.Name}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("invalid lookup: %w", err)
		}
		id, err := parseLookupID(s)
		if err != nil {
			return err
		}
		*l = Lookup{ID: id}
		return nil
	default:
		id, err := parseLookupID(string(b))
		if err != nil {
			return err
		}
		*l = Lookup{ID: id}
		return nil
	}
}

func (l Lookup) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(l.ID, 10)), nil
}

func parseLookupID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, fmt.Errorf("invalid lookup id %q", s)
	}
	return int64(f), nil
}

// LookupID returns the referenced id, or nil for an empty reference.
func LookupID(l *Lookup) *int64 {
	if l == nil {
		return nil
	}
	id := l.ID
	return &id
}
