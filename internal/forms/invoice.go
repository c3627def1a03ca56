package forms

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

// LineItemDraft is a line item as typed by the user.
type LineItemDraft struct {
	Description string
	Amount      string
}

func (i LineItemDraft) amount() decimal.Decimal {
	return parseAmount(i.Amount)
}

// Valid reports whether the item has a description and a positive amount.
func (i LineItemDraft) Valid() bool {
	return !blank(i.Description) && i.amount().IsPositive()
}

// InvoiceDraft is the content of the invoice form. References and dates are
// kept as entered.
type InvoiceDraft struct {
	ClientID    string
	ProjectID   string
	DueDate     string
	Status      string
	PaymentDate string
	LineItems   []LineItemDraft
}

// ComputeTotal sums the amounts of all items.
func ComputeTotal(items []LineItemDraft) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.amount())
	}
	return total
}

// ValidItems returns the items that will be submitted.
func ValidItems(items []LineItemDraft) []LineItemDraft {
	var out []LineItemDraft
	for _, item := range items {
		if item.Valid() {
			out = append(out, item)
		}
	}
	return out
}

// Validate runs every invoice rule against today.
func (d InvoiceDraft) Validate() ValidationFailure {
	return d.ValidateAt(time.Now())
}

// ValidateAt runs every invoice rule against the local calendar day of now.
func (d InvoiceDraft) ValidateAt(now time.Time) ValidationFailure {
	errs := ValidationFailure{}

	if blank(d.ClientID) {
		errs["client_id"] = "Client is required"
	} else if _, ok := parseRef(d.ClientID); !ok {
		errs["client_id"] = "Client is invalid"
	}

	if blank(d.ProjectID) {
		errs["project_id"] = "Project is required"
	} else if _, ok := parseRef(d.ProjectID); !ok {
		errs["project_id"] = "Project is invalid"
	}

	if blank(d.DueDate) {
		errs["due_date"] = "Due date is required"
	} else if due, ok := parseDay(d.DueDate, now); !ok {
		errs["due_date"] = "Due date is invalid"
	} else if parser.DaysUntil(due, now) < 0 {
		errs["due_date"] = "Due date cannot be in the past"
	}

	if !blank(d.Status) && !models.OneOf(d.Status, models.InvoiceStatuses) {
		errs["status"] = "Status is invalid"
	}

	if d.Status == models.InvoicePaid && !blank(d.PaymentDate) {
		if _, ok := parseDay(d.PaymentDate, now); !ok {
			errs["payment_date"] = "Payment date is invalid"
		}
	}

	if len(ValidItems(d.LineItems)) == 0 {
		errs["lineItems"] = "At least one line item with description and amount is required"
	}

	for i, item := range d.LineItems {
		amount := item.amount()
		if !blank(item.Description) && !amount.IsPositive() {
			errs["lineItem_"+strconv.Itoa(i)+"_amount"] = "Amount must be greater than 0"
		}
		if amount.IsPositive() && blank(item.Description) {
			errs["lineItem_"+strconv.Itoa(i)+"_description"] = "Description is required"
		}
	}

	return errs
}

// BuildSubmission converts a valid draft into a create input. Only valid line
// items are kept and the amount is their total. A payment date is included
// only for paid invoices.
func (d InvoiceDraft) BuildSubmission() (models.InvoiceInput, error) {
	return d.BuildSubmissionAt(time.Now())
}

// BuildSubmissionAt is BuildSubmission with now as the current time.
func (d InvoiceDraft) BuildSubmissionAt(now time.Time) (models.InvoiceInput, error) {
	if !d.ValidateAt(now).OK() {
		return models.InvoiceInput{}, ErrInvalidDraft
	}

	clientID, _ := parseRef(d.ClientID)
	projectID, _ := parseRef(d.ProjectID)
	due, _ := parseDay(d.DueDate, now)

	items := ValidItems(d.LineItems)
	lineItems := make([]models.LineItem, len(items))
	for i, item := range items {
		lineItems[i] = models.LineItem{
			Description: item.Description,
			Amount:      item.amount(),
		}
	}

	input := models.InvoiceInput{
		Amount:    ComputeTotal(items),
		Status:    d.status(),
		DueDate:   due,
		ClientID:  int64Ptr(clientID),
		ProjectID: int64Ptr(projectID),
		LineItems: lineItems,
	}
	if paid, ok := d.paymentDate(now); ok {
		input.PaymentDate = &paid
	}
	return input, nil
}

// BuildPatch converts a valid draft into a full update. The payment date is
// cleared unless the invoice is paid and a date was supplied.
func (d InvoiceDraft) BuildPatch() (models.InvoicePatch, error) {
	return d.BuildPatchAt(time.Now())
}

// BuildPatchAt is BuildPatch with now as the current time.
func (d InvoiceDraft) BuildPatchAt(now time.Time) (models.InvoicePatch, error) {
	in, err := d.BuildSubmissionAt(now)
	if err != nil {
		return models.InvoicePatch{}, err
	}
	return models.InvoicePatch{
		Amount:      models.Set(in.Amount),
		Status:      models.Set(in.Status),
		DueDate:     models.Set(in.DueDate),
		PaymentDate: models.SetPtr(in.PaymentDate),
		ClientID:    models.SetPtr(in.ClientID),
		ProjectID:   models.SetPtr(in.ProjectID),
	}, nil
}

func (d InvoiceDraft) status() string {
	if blank(d.Status) {
		return models.InvoiceDraft
	}
	return d.Status
}

func (d InvoiceDraft) paymentDate(now time.Time) (time.Time, bool) {
	if d.status() != models.InvoicePaid || blank(d.PaymentDate) {
		return time.Time{}, false
	}
	return parseDay(d.PaymentDate, now)
}

// DraftFromInvoice prefills a draft for editing an existing invoice.
func DraftFromInvoice(inv models.Invoice) InvoiceDraft {
	d := InvoiceDraft{
		ClientID:    refString(inv.ClientID),
		ProjectID:   refString(inv.ProjectID),
		Status:      inv.Status,
		DueDate:     inv.DueDate.DayString(),
		PaymentDate: inv.PaymentDate.DayString(),
	}
	for _, item := range inv.LineItems {
		d.LineItems = append(d.LineItems, LineItemDraft{
			Description: item.Description,
			Amount:      item.Amount.String(),
		})
	}
	return d
}
