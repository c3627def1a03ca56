package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createOne(t *testing.T, s *Store, table string, rec apper.Record) map[string]any {
	t.Helper()
	resp, err := s.CreateRecord(context.Background(), table, apper.RecordsParams{Records: []apper.Record{rec}})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if len(resp.Results) != 1 || !resp.Results[0].Success {
		t.Fatalf("unexpected create results %+v", resp.Results)
	}
	var out map[string]any
	if err := json.Unmarshal(resp.Results[0].Data, &out); err != nil {
		t.Fatalf("decode created record: %v", err)
	}
	return out
}

func TestCreateAndFetch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	createOne(t, s, "client", apper.Record{"Name": "Acme", "email": "a@acme.test", "status": "active"})
	createOne(t, s, "client", apper.Record{"Name": "Globex", "email": "g@globex.test", "status": "inactive"})
	createOne(t, s, "project", apper.Record{"Name": "Site"})

	resp, err := s.FetchRecords(ctx, "client", apper.FetchParams{Fields: []string{"Name"}})
	if err != nil {
		t.Fatalf("FetchRecords: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(rows))
	}
	if _, ok := rows[0]["email"]; ok {
		t.Fatalf("email should not be projected: %v", rows[0])
	}
	if rows[0]["Id"] == nil || rows[0]["Name"] != "Acme" {
		t.Fatalf("unexpected first row %v", rows[0])
	}
}

func TestFetchWhereAndOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	createOne(t, s, "time_log", apper.Record{"task_id": 1, "started_at": "2025-01-02T00:00:00Z"})
	createOne(t, s, "time_log", apper.Record{"task_id": 2, "started_at": "2025-01-01T00:00:00Z"})
	createOne(t, s, "time_log", apper.Record{"task_id": 1, "started_at": "2025-01-01T00:00:00Z"})

	resp, err := s.FetchRecords(ctx, "time_log", apper.FetchParams{
		Where:   []apper.Condition{{FieldName: "task_id", Operator: apper.OpEqualTo, Values: []any{"1"}}},
		OrderBy: []apper.Order{{FieldName: "started_at", SortType: apper.SortAsc}},
	})
	if err != nil {
		t.Fatalf("FetchRecords: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(resp.Data, &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 logs for task 1, got %d", len(rows))
	}
	if rows[0]["started_at"] != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected ascending order, got %v", rows)
	}
}

func TestUpdateReportsUnknownRecordAndAppliesOthers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := createOne(t, s, "task", apper.Record{"Name": "Write docs", "due_date": "2025-01-01"})
	id := created["Id"]

	resp, err := s.UpdateRecord(ctx, "task", apper.RecordsParams{Records: []apper.Record{
		{"Id": id, "Name": "Write more docs", "due_date": nil},
		{"Id": 999, "Name": "ghost"},
	}})
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if !resp.Success || len(resp.Results) != 2 {
		t.Fatalf("unexpected envelope %+v", resp)
	}
	if !resp.Results[0].Success {
		t.Fatalf("first record should succeed: %+v", resp.Results[0])
	}
	if resp.Results[1].Success || resp.Results[1].Message != "record 999 not found" {
		t.Fatalf("second record should fail: %+v", resp.Results[1])
	}

	got, err := s.GetRecordByID(ctx, "task", id, apper.FetchParams{})
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(got.Data, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["Name"] != "Write more docs" {
		t.Fatalf("update not applied: %v", rec)
	}
	if v, ok := rec["due_date"]; !ok || v != nil {
		t.Fatalf("due_date should be cleared to null, got %v", rec["due_date"])
	}
}

func TestCreateRejectsExplicitID(t *testing.T) {
	s := openTestStore(t)

	resp, err := s.CreateRecord(context.Background(), "client", apper.RecordsParams{Records: []apper.Record{
		{"Id": 5, "Name": "x"},
	}})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if resp.Results[0].Success {
		t.Fatalf("expected failed result for explicit id")
	}
}

func TestGetAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created := createOne(t, s, "client", apper.Record{"Name": "Acme"})
	id := created["Id"]

	resp, err := s.GetRecordByID(ctx, "client", "abc", apper.FetchParams{})
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if resp.Success {
		t.Fatalf("expected failure for non-numeric id")
	}

	resp, err = s.DeleteRecord(ctx, "client", apper.DeleteParams{RecordIDs: []any{id}})
	if err != nil || !resp.Success {
		t.Fatalf("DeleteRecord: %v %+v", err, resp)
	}

	resp, err = s.GetRecordByID(ctx, "client", id, apper.FetchParams{})
	if err != nil {
		t.Fatalf("GetRecordByID: %v", err)
	}
	if resp.Success {
		t.Fatalf("deleted record should not be found")
	}

	resp, err = s.DeleteRecord(ctx, "client", apper.DeleteParams{RecordIDs: []any{id}})
	if err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if resp.Success {
		t.Fatalf("deleting a missing record should fail the envelope")
	}
}
