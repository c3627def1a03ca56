// Package apper describes the hosted record store the application talks to
// and provides an HTTP client for it.
package apper

import (
	"context"
	"encoding/json"
)

// RecordStore is the record-store SDK surface used by the gateway.
type RecordStore interface {
	FetchRecords(ctx context.Context, table string, params FetchParams) (*Response, error)
	GetRecordByID(ctx context.Context, table string, id any, params FetchParams) (*Response, error)
	CreateRecord(ctx context.Context, table string, params RecordsParams) (*Response, error)
	UpdateRecord(ctx context.Context, table string, params RecordsParams) (*Response, error)
	DeleteRecord(ctx context.Context, table string, params DeleteParams) (*Response, error)
}

// Record is a single row as sent to or read from the store.
type Record map[string]any

// Condition operators.
const (
	OpEqualTo    = "EqualTo"
	OpNotEqualTo = "NotEqualTo"
)

// Sort directions.
const (
	SortAsc  = "ASC"
	SortDesc = "DESC"
)

type Condition struct {
	FieldName string `json:"FieldName"`
	Operator  string `json:"Operator"`
	Values    []any  `json:"Values"`
}

type Order struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

// FetchParams selects fields and filters records.
type FetchParams struct {
	Fields  []string
	Where   []Condition
	OrderBy []Order
}

type fieldRef struct {
	Field struct {
		Name string `json:"Name"`
	} `json:"field"`
}

type fetchParamsJSON struct {
	Fields  []fieldRef  `json:"fields"`
	Where   []Condition `json:"where,omitempty"`
	OrderBy []Order     `json:"orderBy,omitempty"`
}

func (p FetchParams) MarshalJSON() ([]byte, error) {
	out := fetchParamsJSON{
		Fields:  make([]fieldRef, len(p.Fields)),
		Where:   p.Where,
		OrderBy: p.OrderBy,
	}
	for i, name := range p.Fields {
		out.Fields[i].Field.Name = name
	}
	return json.Marshal(out)
}

func (p *FetchParams) UnmarshalJSON(b []byte) error {
	var in fetchParamsJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	p.Fields = make([]string, len(in.Fields))
	for i, f := range in.Fields {
		p.Fields[i] = f.Field.Name
	}
	p.Where = in.Where
	p.OrderBy = in.OrderBy
	return nil
}

type RecordsParams struct {
	Records []Record `json:"records"`
}

type DeleteParams struct {
	RecordIDs []any `json:"RecordIds"`
}

// Response is the envelope returned by every store call. Results is nil when
// the store did not report per-record outcomes.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Results []Result        `json:"results"`
}

// Result is the outcome of one record in a batch write.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  []FieldError    `json:"errors,omitempty"`
}

type FieldError struct {
	FieldLabel string `json:"fieldLabel"`
	Message    string `json:"message"`
}
