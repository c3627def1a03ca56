package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
)

// System fields maintained by the store.
const (
	fieldID         = "Id"
	fieldCreatedOn  = "CreatedOn"
	fieldModifiedOn = "ModifiedOn"
)

var _ apper.RecordStore = (*Store)(nil)

func (s *Store) FetchRecords(ctx context.Context, table string, params apper.FetchParams) (*apper.Response, error) {
	var rows []Row
	if err := s.db.WithContext(ctx).Where("table_name = ?", table).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch %s records: %w", table, err)
	}

	matched := rows[:0]
	for _, row := range rows {
		if matchAll(row, params.Where) {
			matched = append(matched, row)
		}
	}
	sortRows(matched, params.OrderBy)

	records := make([]apper.Record, 0, len(matched))
	for _, row := range matched {
		records = append(records, toRecord(row, params.Fields))
	}
	return dataResponse(records)
}

func (s *Store) GetRecordByID(ctx context.Context, table string, id any, params apper.FetchParams) (*apper.Response, error) {
	rowID, ok := asID(id)
	if !ok {
		return failure(fmt.Sprintf("invalid record id %v", id)), nil
	}

	row, err := s.find(ctx, table, rowID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return failure(fmt.Sprintf("record %d not found", rowID)), nil
	}
	if err != nil {
		return nil, err
	}
	return dataResponse(toRecord(*row, params.Fields))
}

// CreateRecord inserts every record on its own. A record that cannot be
// inserted is reported as a failed result while the others are kept.
func (s *Store) CreateRecord(ctx context.Context, table string, params apper.RecordsParams) (*apper.Response, error) {
	results := make([]apper.Result, 0, len(params.Records))
	for _, rec := range params.Records {
		if _, ok := rec[fieldID]; ok {
			results = append(results, failedResult("Id cannot be set when creating a record"))
			continue
		}

		row := Row{Table: table, Fields: userFields(rec)}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			results = append(results, failedResult(err.Error()))
			continue
		}
		results = append(results, okResult(toRecord(row, nil)))
	}
	return &apper.Response{Success: true, Results: results}, nil
}

// UpdateRecord merges each record into the stored one. Keys that are present
// overwrite, null values clear.
func (s *Store) UpdateRecord(ctx context.Context, table string, params apper.RecordsParams) (*apper.Response, error) {
	results := make([]apper.Result, 0, len(params.Records))
	for _, rec := range params.Records {
		rowID, ok := asID(rec[fieldID])
		if !ok {
			results = append(results, failedResult("Id is required to update a record"))
			continue
		}

		row, err := s.find(ctx, table, rowID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			results = append(results, failedResult(fmt.Sprintf("record %d not found", rowID)))
			continue
		}
		if err != nil {
			return nil, err
		}

		if row.Fields == nil {
			row.Fields = map[string]any{}
		}
		for k, v := range userFields(rec) {
			row.Fields[k] = v
		}
		if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
			results = append(results, failedResult(err.Error()))
			continue
		}
		results = append(results, okResult(toRecord(*row, nil)))
	}
	return &apper.Response{Success: true, Results: results}, nil
}

// DeleteRecord removes all given records or none of them.
func (s *Store) DeleteRecord(ctx context.Context, table string, params apper.DeleteParams) (*apper.Response, error) {
	var missing string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, raw := range params.RecordIDs {
			rowID, ok := asID(raw)
			if !ok {
				missing = fmt.Sprintf("invalid record id %v", raw)
				return errAbort
			}
			res := tx.Where("table_name = ? AND id = ?", table, rowID).Delete(&Row{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				missing = fmt.Sprintf("record %d not found", rowID)
				return errAbort
			}
		}
		return nil
	})
	if errors.Is(err, errAbort) {
		return failure(missing), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete %s records: %w", table, err)
	}
	return &apper.Response{Success: true}, nil
}

var errAbort = errors.New("abort")

func (s *Store) find(ctx context.Context, table string, id uint) (*Row, error) {
	var row Row
	err := s.db.WithContext(ctx).Where("table_name = ? AND id = ?", table, id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func toRecord(row Row, fields []string) apper.Record {
	system := map[string]any{
		fieldCreatedOn:  row.CreatedAt.UTC().Format(time.RFC3339),
		fieldModifiedOn: row.UpdatedAt.UTC().Format(time.RFC3339),
	}

	rec := apper.Record{fieldID: row.ID}
	if len(fields) == 0 {
		for k, v := range row.Fields {
			rec[k] = v
		}
		for k, v := range system {
			rec[k] = v
		}
		return rec
	}

	for _, name := range fields {
		if v, ok := row.Fields[name]; ok {
			rec[name] = v
		} else if v, ok := system[name]; ok {
			rec[name] = v
		}
	}
	return rec
}

func userFields(rec apper.Record) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		switch k {
		case fieldID, fieldCreatedOn, fieldModifiedOn:
			continue
		}
		out[k] = v
	}
	return out
}

func sortRows(rows []Row, orders []apper.Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(fieldValue(rows[i], o.FieldName), fieldValue(rows[j], o.FieldName))
			if c == 0 {
				continue
			}
			if o.SortType == apper.SortDesc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func dataResponse(v any) (*apper.Response, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode records: %w", err)
	}
	return &apper.Response{Success: true, Data: data}, nil
}

func failure(msg string) *apper.Response {
	return &apper.Response{Success: false, Message: msg}
}

func okResult(rec apper.Record) apper.Result {
	data, err := json.Marshal(rec)
	if err != nil {
		return failedResult(err.Error())
	}
	return apper.Result{Success: true, Data: data}
}

func failedResult(msg string) apper.Result {
	return apper.Result{Success: false, Message: msg}
}
