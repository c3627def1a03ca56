package apper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), Options{
		BaseURL:   srv.URL + "/",
		ProjectID: "proj-1",
		PublicKey: "pk-test",
	}, zerolog.Nop())
}

func TestFetchRecordsRequest(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	var gotAuth, gotProject, gotRequestID string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotProject = r.Header.Get("X-Apper-Project-Id")
		gotRequestID = r.Header.Get("X-Request-Id")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": [{"Id": 1, "Name": "Acme"}]}`))
	})

	resp, err := c.FetchRecords(context.Background(), "client", FetchParams{
		Fields: []string{"Name", "email"},
		Where:  []Condition{{FieldName: "status", Operator: OpEqualTo, Values: []any{"active"}}},
	})
	if err != nil {
		t.Fatalf("FetchRecords: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success")
	}
	if resp.Results != nil {
		t.Fatalf("expected absent results, got %v", resp.Results)
	}
	if gotPath != "/projects/proj-1/tables/client/fetch" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer pk-test" || gotProject != "proj-1" {
		t.Fatalf("unexpected auth headers %q %q", gotAuth, gotProject)
	}
	if gotRequestID == "" {
		t.Fatalf("expected request id header")
	}

	fields, ok := gotBody["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("unexpected fields %v", gotBody["fields"])
	}
	first := fields[0].(map[string]any)["field"].(map[string]any)["Name"]
	if first != "Name" {
		t.Fatalf("expected first field Name, got %v", first)
	}
	if _, ok := gotBody["where"]; !ok {
		t.Fatalf("expected where clause in body")
	}
}

func TestEmptyResultsArrayIsPreserved(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": true, "results": []}`))
	})

	resp, err := c.CreateRecord(context.Background(), "client", RecordsParams{Records: []Record{{"Name": "x"}}})
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %#v", resp.Results)
	}
}

func TestErrorStatusWithEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success": true, "message": "Invalid table"}`))
	})

	resp, err := c.DeleteRecord(context.Background(), "nope", DeleteParams{RecordIDs: []any{1}})
	if err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if resp.Success || resp.Message != "Invalid table" {
		t.Fatalf("expected failed envelope, got %+v", resp)
	}
}

func TestErrorStatusWithoutEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := c.GetRecordByID(context.Background(), "client", int64(1), FetchParams{})
	if err == nil {
		t.Fatalf("expected transport error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestFetchParamsRoundTrip(t *testing.T) {
	in := FetchParams{
		Fields:  []string{"Name"},
		OrderBy: []Order{{FieldName: "Name", SortType: SortDesc}},
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out FetchParams
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Fields) != 1 || out.Fields[0] != "Name" || out.OrderBy[0].SortType != SortDesc {
		t.Fatalf("unexpected params %+v", out)
	}
}
