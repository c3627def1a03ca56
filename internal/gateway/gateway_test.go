package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

type reply struct {
	resp *apper.Response
	err  error
}

// scriptedStore returns a fixed envelope and records what it was sent.
// Queued replies answer calls in order before the fixed one is used.
type scriptedStore struct {
	resp  *apper.Response
	err   error
	queue []reply

	calls   []string
	table   string
	id      any
	fetch   apper.FetchParams
	records []apper.Record
	deleted []any
}

func (s *scriptedStore) answer(method, table string) (*apper.Response, error) {
	s.calls = append(s.calls, method+" "+table)
	if len(s.queue) > 0 {
		r := s.queue[0]
		s.queue = s.queue[1:]
		return r.resp, r.err
	}
	return s.resp, s.err
}

func (s *scriptedStore) FetchRecords(_ context.Context, table string, p apper.FetchParams) (*apper.Response, error) {
	s.table, s.fetch = table, p
	return s.answer("FetchRecords", table)
}

func (s *scriptedStore) GetRecordByID(_ context.Context, table string, id any, p apper.FetchParams) (*apper.Response, error) {
	s.table, s.id, s.fetch = table, id, p
	return s.answer("GetRecordByID", table)
}

func (s *scriptedStore) CreateRecord(_ context.Context, table string, p apper.RecordsParams) (*apper.Response, error) {
	s.table, s.records = table, p.Records
	return s.answer("CreateRecord", table)
}

func (s *scriptedStore) UpdateRecord(_ context.Context, table string, p apper.RecordsParams) (*apper.Response, error) {
	s.table, s.records = table, p.Records
	return s.answer("UpdateRecord", table)
}

func (s *scriptedStore) DeleteRecord(_ context.Context, table string, p apper.DeleteParams) (*apper.Response, error) {
	s.table, s.deleted = table, p.RecordIDs
	return s.answer("DeleteRecord", table)
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func newScripted(resp *apper.Response, err error) (*Gateway, *scriptedStore) {
	store := &scriptedStore{resp: resp, err: err}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return New(store, zerolog.Nop(), WithClock(func() time.Time { return fixed })), store
}

func TestListReturnsData(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true, Data: raw(`[{"Id": 1, "Name": "Acme", "status": "active"}]`)}, nil)

	clients, err := g.Clients.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(clients) != 1 || clients[0].Name != "Acme" {
		t.Fatalf("unexpected clients %+v", clients)
	}
	if store.table != "client" || len(store.fetch.Fields) != len(clientFields) {
		t.Fatalf("unexpected fetch %s %+v", store.table, store.fetch)
	}
}

func TestListWithoutDataIsEmpty(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true}, nil)

	projects, err := g.Projects.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if projects == nil || len(projects) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", projects)
	}
}

func TestEnvelopeFailure(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		call func(g *Gateway) error
		want string
	}{
		{
			name: "list",
			call: func(g *Gateway) error { _, err := g.Clients.List(ctx); return err },
			want: "Failed to fetch clients: Table not found",
		},
		{
			name: "get",
			call: func(g *Gateway) error { _, err := g.Clients.Get(ctx, "1"); return err },
			want: "Failed to fetch client: Table not found",
		},
		{
			name: "create",
			call: func(g *Gateway) error {
				_, err := g.Clients.Create(ctx, models.ClientInput{Name: "Acme", Email: "a@acme.test"})
				return err
			},
			want: "Failed to create client: Table not found",
		},
		{
			name: "update",
			call: func(g *Gateway) error { _, err := g.Clients.Update(ctx, "1", models.ClientPatch{}); return err },
			want: "Failed to update client: Table not found",
		},
		{
			name: "delete",
			call: func(g *Gateway) error { return g.Clients.Delete(ctx, "1") },
			want: "Failed to delete client: Table not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newScripted(&apper.Response{Success: false, Message: "Table not found"}, nil)

			err := tt.call(g)
			var rej *RemoteRejection
			if !errors.As(err, &rej) {
				t.Fatalf("expected RemoteRejection, got %v", err)
			}
			if err.Error() != tt.want {
				t.Fatalf("got %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestRepeatedFailingBatchRejectsTheSame(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: false, Message: "Email is invalid"},
		{Success: false, Message: "Name is required"},
	}}, nil)
	ctx := context.Background()
	input := models.ClientInput{Name: "Acme", Email: "a@acme.test"}

	_, first := g.Clients.Create(ctx, input)
	_, second := g.Clients.Create(ctx, input)
	if first == nil || second == nil {
		t.Fatalf("expected both runs to reject, got %v and %v", first, second)
	}
	if first.Error() != second.Error() {
		t.Fatalf("rejections differ: %q vs %q", first.Error(), second.Error())
	}
	if first.Error() != "Failed to create client: Email is invalid" {
		t.Fatalf("unexpected message %q", first.Error())
	}
}

func TestTransportFailure(t *testing.T) {
	cause := errors.New("connection refused")
	g, _ := newScripted(nil, cause)

	_, err := g.Clients.List(context.Background())
	if err == nil || err.Error() != "Failed to fetch clients: connection refused" {
		t.Fatalf("unexpected error %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("rejection should wrap the transport error")
	}
}

func TestCreateReturnsFirstSuccessfulResult(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: true, Data: raw(`{"Id": 5, "Name": "Acme", "status": "active"}`)},
	}}, nil)

	c, err := g.Clients.Create(context.Background(), models.ClientInput{Name: "Acme", Email: "a@acme.test"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 5 {
		t.Fatalf("expected id 5, got %d", c.ID)
	}
	if len(store.records) != 1 || store.records[0]["status"] != "active" {
		t.Fatalf("expected default status in payload, got %v", store.records)
	}
}

func TestFailedResultsRejectWithFirstMessage(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: true, Data: raw(`{"Id": 1}`)},
		{Success: false, Message: "Name is required"},
		{Success: false, Message: "second"},
	}}, nil)

	_, err := g.Projects.Create(context.Background(), models.ProjectInput{})
	var rej *RemoteRejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected RemoteRejection, got %v", err)
	}
	if rej.Error() != "Failed to create project: Name is required" {
		t.Fatalf("unexpected message %q", rej.Error())
	}
	if len(rej.Succeeded) != 1 {
		t.Fatalf("expected partial success to be reported, got %d", len(rej.Succeeded))
	}
}

func TestFailedResultWithoutMessageUsesFallback(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true, Results: []apper.Result{{Success: false}}}, nil)

	_, err := g.Invoices.Update(context.Background(), "3", models.InvoicePatch{})
	if err == nil || err.Error() != "Failed to update invoice" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestEmptyResultsRejects(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true, Results: []apper.Result{}}, nil)

	_, err := g.Tasks.Create(context.Background(), models.TaskInput{Name: "x", Title: "x"})
	if err == nil || err.Error() != "Failed to create task" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestIDCoercion(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true}, nil)
	ctx := context.Background()

	if err := g.Clients.Delete(ctx, "12abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != int64(12) {
		t.Fatalf("expected coerced id 12, got %v", store.deleted)
	}

	if err := g.Clients.Delete(ctx, "abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if store.deleted[0] != "abc" {
		t.Fatalf("non-numeric id should pass through, got %v", store.deleted[0])
	}
}

func TestGetWithoutRecordRejects(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true}, nil)

	_, err := g.Clients.Get(context.Background(), "7")
	if err == nil {
		t.Fatalf("expected rejection for missing record")
	}
	if store.id != int64(7) {
		t.Fatalf("expected id 7, got %v", store.id)
	}
}

func TestPatchTriState(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: true, Data: raw(`{"Id": 4}`)},
	}}, nil)

	_, err := g.Projects.Update(context.Background(), "4", models.ProjectPatch{
		Name:    models.Set("Renamed"),
		EndDate: models.Clear[time.Time](),
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	rec := store.records[0]
	if rec["Id"] != int64(4) || rec["Name"] != "Renamed" {
		t.Fatalf("unexpected record %v", rec)
	}
	if v, ok := rec["end_date"]; !ok || v != nil {
		t.Fatalf("cleared field should be sent as null, got %v", rec)
	}
	if _, ok := rec["budget"]; ok {
		t.Fatalf("unchanged field should be omitted, got %v", rec)
	}
}

func TestInvoiceCreatePayload(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: true, Data: raw(`{"Id": 9, "amount": 150.5}`)},
	}}, nil)

	client, project := int64(1), int64(2)
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	inv, err := g.Invoices.Create(context.Background(), models.InvoiceInput{
		Amount:    decimal.RequireFromString("150.50"),
		DueDate:   due,
		ClientID:  &client,
		ProjectID: &project,
		LineItems: []models.LineItem{{Description: "Design", Amount: decimal.RequireFromString("150.50")}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !inv.Amount.Equal(decimal.RequireFromString("150.5")) {
		t.Fatalf("unexpected amount %s", inv.Amount)
	}

	rec := store.records[0]
	want := apper.Record{
		"Name":         "Invoice-1740830400000",
		"amount":       150.5,
		"status":       "draft",
		"due_date":     "2025-04-01T00:00:00.000Z",
		"payment_date": nil,
		"client_id":    int64(1),
		"project_id":   int64(2),
	}
	if len(rec) != len(want) {
		t.Fatalf("unexpected payload keys %v", rec)
	}
	for k, v := range want {
		if rec[k] != v {
			t.Fatalf("payload[%s] = %#v, want %#v", k, rec[k], v)
		}
	}
}

func TestMarkPaid(t *testing.T) {
	g, store := newScripted(&apper.Response{Success: true, Results: []apper.Result{
		{Success: true, Data: raw(`{"Id": 3, "status": "paid"}`)},
	}}, nil)

	paid := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	inv, err := g.Invoices.MarkPaid(context.Background(), "3", &paid)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if inv.Status != models.InvoicePaid {
		t.Fatalf("unexpected status %s", inv.Status)
	}
	rec := store.records[0]
	if rec["status"] != "paid" || rec["payment_date"] != "2025-03-02T00:00:00.000Z" {
		t.Fatalf("unexpected payload %v", rec)
	}
}

func TestMarkSentFailureMessage(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: false, Message: "locked"}, nil)

	_, err := g.Invoices.MarkSent(context.Background(), "3")
	if err == nil || err.Error() != "Failed to mark invoice as sent: locked" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDashboardDefaults(t *testing.T) {
	g, _ := newScripted(&apper.Response{Success: true, Data: raw(`[]`)}, nil)

	summary, err := g.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if summary.TotalClients != 0 || !summary.MonthlyRevenue.IsZero() {
		t.Fatalf("expected zero summary, got %+v", summary)
	}

	g, _ = newScripted(&apper.Response{Success: true, Data: raw(`[{"total_clients": 4, "monthly_revenue": 1200.5}]`)}, nil)
	summary, err = g.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if summary.TotalClients != 4 || summary.MonthlyRevenue.String() != "1200.5" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestStartTimerRemovesLogWhenTaskUpdateFails(t *testing.T) {
	g, store := newScripted(nil, nil)
	store.queue = []reply{
		{resp: &apper.Response{Success: true, Data: raw(`{"Id": 1, "Name": "Build"}`)}},
		{resp: &apper.Response{Success: true, Results: []apper.Result{
			{Success: true, Data: raw(`{"Id": 7, "task_id": 1}`)},
		}}},
		{resp: &apper.Response{Success: false, Message: "locked"}},
		{resp: &apper.Response{Success: true}},
	}

	_, err := g.Tasks.StartTimer(context.Background(), "1")
	if err == nil || err.Error() != "Failed to start task timer: locked" {
		t.Fatalf("unexpected error %v", err)
	}

	want := []string{
		"GetRecordByID task",
		"CreateRecord time_log",
		"UpdateRecord task",
		"DeleteRecord time_log",
	}
	if len(store.calls) != len(want) {
		t.Fatalf("unexpected calls %v", store.calls)
	}
	for i := range want {
		if store.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, store.calls[i], want[i])
		}
	}
	if len(store.deleted) != 1 || store.deleted[0] != int64(7) {
		t.Fatalf("expected time log 7 to be deleted, got %v", store.deleted)
	}
}
