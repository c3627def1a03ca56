package gateway

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// Remote table names.
const (
	TableClient    = "client"
	TableProject   = "project"
	TableTask      = "task"
	TableInvoice   = "app_invoice"
	TableTimeLog   = "time_log"
	TableDashboard = "dashboard"
)

var (
	clientFields  = []string{"Name", "email", "company", "status", "created_at"}
	projectFields = []string{"Name", "status", "budget", "start_date", "end_date", "client_id"}
	taskFields    = []string{"Name", "title", "priority", "status", "due_date", "total_time", "active_timer", "project_id"}
	invoiceFields = []string{"Name", "amount", "status", "due_date", "payment_date", "client_id", "project_id"}
	timeLogFields = []string{"Name", "task_id", "started_at", "ended_at", "duration"}
	dashFields    = []string{"Name", "total_clients", "active_projects", "pending_tasks", "monthly_revenue", "completed_tasks", "overdue_items"}
)

// put writes a patch field into rec: Set writes the converted value, Clear
// writes null and Unchanged leaves the key out.
func put[T any](rec apper.Record, key string, f models.Field[T], conv func(T) any) {
	if v, ok := f.Value(); ok {
		rec[key] = conv(v)
	} else if f.IsClear() {
		rec[key] = nil
	}
}

func optional[T any](v *T, conv func(T) any) any {
	if v == nil {
		return nil
	}
	return conv(*v)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func asIs[T any](v T) any { return v }

func money(d decimal.Decimal) any { return d.InexactFloat64() }

func day(t time.Time) any { return models.FormatDay(t) }

func timestamp(t time.Time) any { return models.FormatTimestamp(t) }

func clientCreate(in models.ClientInput) apper.Record {
	return apper.Record{
		"Name":    in.Name,
		"email":   in.Email,
		"company": in.Company,
		"status":  orDefault(in.Status, models.ClientActive),
	}
}

func clientUpdate(p models.ClientPatch) apper.Record {
	rec := apper.Record{}
	put(rec, "Name", p.Name, asIs[string])
	put(rec, "email", p.Email, asIs[string])
	put(rec, "company", p.Company, asIs[string])
	put(rec, "status", p.Status, asIs[string])
	return rec
}

func projectCreate(in models.ProjectInput) apper.Record {
	return apper.Record{
		"Name":       in.Name,
		"status":     orDefault(in.Status, models.ProjectPlanning),
		"budget":     optional(in.Budget, money),
		"start_date": optional(in.StartDate, day),
		"end_date":   optional(in.EndDate, day),
		"client_id":  optional(in.ClientID, asIs[int64]),
	}
}

func projectUpdate(p models.ProjectPatch) apper.Record {
	rec := apper.Record{}
	put(rec, "Name", p.Name, asIs[string])
	put(rec, "status", p.Status, asIs[string])
	put(rec, "budget", p.Budget, money)
	put(rec, "start_date", p.StartDate, day)
	put(rec, "end_date", p.EndDate, day)
	put(rec, "client_id", p.ClientID, asIs[int64])
	return rec
}

func taskCreate(in models.TaskInput) apper.Record {
	return apper.Record{
		"Name":         in.Name,
		"title":        in.Title,
		"priority":     orDefault(in.Priority, models.PriorityMedium),
		"status":       orDefault(in.Status, models.TaskTodo),
		"due_date":     optional(in.DueDate, day),
		"total_time":   in.TotalTime,
		"active_timer": optional(in.ActiveTimer, asIs[int64]),
		"project_id":   optional(in.ProjectID, asIs[int64]),
	}
}

func taskUpdate(p models.TaskPatch) apper.Record {
	rec := apper.Record{}
	put(rec, "Name", p.Name, asIs[string])
	put(rec, "title", p.Title, asIs[string])
	put(rec, "priority", p.Priority, asIs[string])
	put(rec, "status", p.Status, asIs[string])
	put(rec, "due_date", p.DueDate, day)
	put(rec, "total_time", p.TotalTime, asIs[int64])
	put(rec, "active_timer", p.ActiveTimer, asIs[int64])
	put(rec, "project_id", p.ProjectID, asIs[int64])
	return rec
}

func invoiceCreate(now func() time.Time) func(models.InvoiceInput) apper.Record {
	return func(in models.InvoiceInput) apper.Record {
		return apper.Record{
			"Name":         fmt.Sprintf("Invoice-%d", now().UnixMilli()),
			"amount":       money(in.Amount),
			"status":       orDefault(in.Status, models.InvoiceDraft),
			"due_date":     timestamp(in.DueDate),
			"payment_date": optional(in.PaymentDate, timestamp),
			"client_id":    optional(in.ClientID, asIs[int64]),
			"project_id":   optional(in.ProjectID, asIs[int64]),
		}
	}
}

func invoiceUpdate(p models.InvoicePatch) apper.Record {
	rec := apper.Record{}
	put(rec, "amount", p.Amount, money)
	put(rec, "status", p.Status, asIs[string])
	put(rec, "due_date", p.DueDate, timestamp)
	put(rec, "payment_date", p.PaymentDate, timestamp)
	put(rec, "client_id", p.ClientID, asIs[int64])
	put(rec, "project_id", p.ProjectID, asIs[int64])
	return rec
}

type timeLogInput struct {
	Name      string
	TaskID    int64
	StartedAt time.Time
}

type timeLogPatch struct {
	EndedAt  models.Field[time.Time]
	Duration models.Field[int64]
}

func timeLogCreate(in timeLogInput) apper.Record {
	return apper.Record{
		"Name":       in.Name,
		"task_id":    in.TaskID,
		"started_at": models.FormatTimestamp(in.StartedAt),
		"ended_at":   nil,
		"duration":   0,
	}
}

func timeLogUpdate(p timeLogPatch) apper.Record {
	rec := apper.Record{}
	put(rec, "ended_at", p.EndedAt, timestamp)
	put(rec, "duration", p.Duration, asIs[int64])
	return rec
}
