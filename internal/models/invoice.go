package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice bills a client for a project. LineItems only exist while the
// invoice is being edited and are never stored.
type Invoice struct {
	ID          int64           `json:"Id"`
	Name        string          `json:"Name"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	DueDate     *Date           `json:"due_date"`
	PaymentDate *Date           `json:"payment_date"`
	ClientID    *Lookup         `json:"client_id"`
	ProjectID   *Lookup         `json:"project_id"`
	LineItems   []LineItem      `json:"-"`
}

func (i Invoice) RecordID() int64     { return i.ID }
func (i Invoice) DisplayName() string { return i.Name }

// LineItem is a single billed entry of an invoice.
type LineItem struct {
	Description string
	Amount      decimal.Decimal
}

type InvoiceInput struct {
	Amount      decimal.Decimal
	Status      string
	DueDate     time.Time
	PaymentDate *time.Time
	ClientID    *int64
	ProjectID   *int64
	LineItems   []LineItem
}

type InvoicePatch struct {
	Amount      Field[decimal.Decimal]
	Status      Field[string]
	DueDate     Field[time.Time]
	PaymentDate Field[time.Time]
	ClientID    Field[int64]
	ProjectID   Field[int64]
}
