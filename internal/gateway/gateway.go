package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/apper-apps/clientflow-continuous/internal/apper"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

type (
	ClientResource  = Resource[models.Client, models.ClientInput, models.ClientPatch]
	ProjectResource = Resource[models.Project, models.ProjectInput, models.ProjectPatch]
)

// Gateway groups the per-entity resources around one store handle.
type Gateway struct {
	Clients  *ClientResource
	Projects *ProjectResource
	Tasks    *TaskService
	Invoices *InvoiceService

	store  apper.RecordStore
	logger zerolog.Logger
	now    func() time.Time
}

type Option func(*Gateway)

// WithClock overrides the clock used for invoice names and timers.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) {
		g.now = now
	}
}

// New builds a gateway over store.
func New(store apper.RecordStore, logger zerolog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}

	g.Clients = &ClientResource{
		store: store, logger: logger,
		table: TableClient, singular: "client", plural: "clients",
		fields:   clientFields,
		toCreate: clientCreate,
		toUpdate: clientUpdate,
	}
	g.Projects = &ProjectResource{
		store: store, logger: logger,
		table: TableProject, singular: "project", plural: "projects",
		fields:   projectFields,
		toCreate: projectCreate,
		toUpdate: projectUpdate,
	}
	g.Tasks = &TaskService{
		Resource: &Resource[models.Task, models.TaskInput, models.TaskPatch]{
			store: store, logger: logger,
			table: TableTask, singular: "task", plural: "tasks",
			fields:   taskFields,
			toCreate: taskCreate,
			toUpdate: taskUpdate,
		},
		logs: &Resource[models.TimeLog, timeLogInput, timeLogPatch]{
			store: store, logger: logger,
			table: TableTimeLog, singular: "time log", plural: "task time logs",
			fields:   timeLogFields,
			toCreate: timeLogCreate,
			toUpdate: timeLogUpdate,
		},
		logger: logger,
		now:    g.now,
	}
	g.Invoices = &InvoiceService{
		Resource: &Resource[models.Invoice, models.InvoiceInput, models.InvoicePatch]{
			store: store, logger: logger,
			table: TableInvoice, singular: "invoice", plural: "invoices",
			fields:   invoiceFields,
			toCreate: invoiceCreate(g.now),
			toUpdate: invoiceUpdate,
		},
	}
	return g
}

// Dashboard fetches the summary counters. A missing summary record yields zeros.
func (g *Gateway) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	r := &Resource[json.RawMessage, struct{}, struct{}]{
		store: g.store, logger: g.logger,
		table: TableDashboard, singular: "dashboard data", plural: "dashboard data",
		fields: dashFields,
	}
	rows, err := r.List(ctx)
	if err != nil {
		return models.DashboardSummary{}, err
	}

	var summary models.DashboardSummary
	if len(rows) == 0 {
		return summary, nil
	}
	if err := json.Unmarshal(rows[0], &summary); err != nil {
		return models.DashboardSummary{}, r.decodeError("fetch dashboard data", err)
	}
	return summary, nil
}

// InvoiceService adds status transitions to the invoice resource.
type InvoiceService struct {
	*Resource[models.Invoice, models.InvoiceInput, models.InvoicePatch]
}

func (s *InvoiceService) MarkSent(ctx context.Context, id string) (*models.Invoice, error) {
	return s.update(ctx, "mark invoice as sent", id, models.InvoicePatch{
		Status: models.Set(models.InvoiceSent),
	})
}

// MarkPaid sets the invoice to paid. A nil paymentDate clears the stored date.
func (s *InvoiceService) MarkPaid(ctx context.Context, id string, paymentDate *time.Time) (*models.Invoice, error) {
	return s.update(ctx, "mark invoice as paid", id, models.InvoicePatch{
		Status:      models.Set(models.InvoicePaid),
		PaymentDate: models.SetPtr(paymentDate),
	})
}
