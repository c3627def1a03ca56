package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/apper-apps/clientflow-continuous/internal/models"
)

var formNow = time.Date(2025, 1, 10, 9, 0, 0, 0, time.Local)

func typeText(t *testing.T, m InvoiceFormModel, text string) InvoiceFormModel {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(InvoiceFormModel)
}

func press(t *testing.T, m InvoiceFormModel, key tea.KeyType) (InvoiceFormModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(InvoiceFormModel), cmd
}

func newTestForm(submit SubmitFunc) InvoiceFormModel {
	return NewInvoiceFormModel(InvoiceFormConfig{
		Clients:  []models.Client{{ID: 3, Name: "Acme"}},
		Projects: []models.Project{{ID: 5, Name: "Website", ClientID: &models.Lookup{ID: 3}}},
		Submit:   submit,
		Now:      func() time.Time { return formNow },
	})
}

func TestInvoiceFormSubmit(t *testing.T) {
	var got models.InvoiceInput
	m := newTestForm(func(_ context.Context, in models.InvoiceInput) (*models.Invoice, error) {
		got = in
		return &models.Invoice{ID: 42, Name: "Invoice-1", Amount: in.Amount}, nil
	})

	m = typeText(t, m, "3")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "5")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "2025-02-01")
	m, _ = press(t, m, tea.KeyEnter)
	m, _ = press(t, m, tea.KeyEnter) // blank status

	if m.step != StepLineItems {
		t.Fatalf("Expected payment date to be skipped, step is %d", m.step)
	}

	m = typeText(t, m, "Design")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "100")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "Hosting")
	m, _ = press(t, m, tea.KeyEnter)
	m = typeText(t, m, "20.50")
	m, _ = press(t, m, tea.KeyEnter)

	if len(m.draft.LineItems) != 2 {
		t.Fatalf("Expected 2 line items, got %d", len(m.draft.LineItems))
	}

	m, _ = press(t, m, tea.KeyEnter) // empty item finishes the list
	if m.step != StepSave {
		t.Fatalf("Expected save step, got %d", m.step)
	}

	m, cmd := press(t, m, tea.KeyEnter)
	if !m.busy || cmd == nil {
		t.Fatal("Expected submit to start")
	}

	next, _ := m.Update(cmd())
	m = next.(InvoiceFormModel)

	if m.created == nil || m.created.ID != 42 {
		t.Fatalf("Expected created invoice, got %+v", m.created)
	}
	if !got.Amount.Equal(decimal.RequireFromString("120.50")) {
		t.Errorf("Expected amount 120.50, got %s", got.Amount)
	}
	if got.Status != models.InvoiceDraft {
		t.Errorf("Expected status draft, got %q", got.Status)
	}
	if got.ClientID == nil || *got.ClientID != 3 {
		t.Errorf("Expected client 3, got %v", got.ClientID)
	}
	if got.PaymentDate != nil {
		t.Errorf("Expected no payment date, got %v", got.PaymentDate)
	}
}

func TestInvoiceFormRequiresClient(t *testing.T) {
	m := newTestForm(nil)

	m, _ = press(t, m, tea.KeyEnter)

	if m.step != StepClient {
		t.Errorf("Expected to stay on client step, got %d", m.step)
	}
	if m.stepErr != "Client is required" {
		t.Errorf("Expected client error, got %q", m.stepErr)
	}
}

func TestInvoiceFormPaidShowsPaymentStep(t *testing.T) {
	m := newTestForm(nil)
	m.step = StepStatus
	m.inputs[inputClient].Blur()
	m.inputs[inputStatus].Focus()

	m = typeText(t, m, "paid")
	m, _ = press(t, m, tea.KeyEnter)

	if m.step != StepPaymentDate {
		t.Errorf("Expected payment date step, got %d", m.step)
	}
}

func TestInvoiceFormSaveReportsValidation(t *testing.T) {
	m := newTestForm(nil)
	m.step = StepSave

	m, cmd := press(t, m, tea.KeyEnter)

	if cmd != nil {
		t.Error("Expected no submit for an invalid draft")
	}
	for _, key := range []string{"client_id", "project_id", "due_date", "lineItems"} {
		if _, ok := m.errors[key]; !ok {
			t.Errorf("Expected error for %s", key)
		}
	}
}

func TestInvoiceFormSubmitFailureKeepsForm(t *testing.T) {
	m := newTestForm(nil)

	next, cmd := m.Update(submitResultMsg{err: errors.New("Failed to create invoice: quota")})
	m = next.(InvoiceFormModel)

	if cmd != nil {
		t.Error("Expected form to stay open after a failed submit")
	}
	if !strings.Contains(m.stepErr, "quota") {
		t.Errorf("Expected submit error to be shown, got %q", m.stepErr)
	}
}

func TestInvoiceFormEscWithoutChangesCancels(t *testing.T) {
	m := newTestForm(nil)

	m, cmd := press(t, m, tea.KeyEsc)

	if !m.cancelled || cmd == nil {
		t.Error("Expected untouched form to cancel on esc")
	}
}

func TestTimerModelKeys(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	log := models.TimeLog{ID: 1, StartedAt: models.Date{Time: now.Add(-90 * time.Second)}}

	m := NewTimerModel(models.Task{ID: 7, Title: "Write report"}, log)
	m.now = func() time.Time { return now }

	next, _ := m.Update(timerTickMsg{})
	m = next.(TimerModel)
	if m.elapsed != 90*time.Second {
		t.Errorf("Expected 90s elapsed, got %v", m.elapsed)
	}

	stopped, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !stopped.(TimerModel).stopping {
		t.Error("Expected s to stop the timer")
	}

	exited, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if em := exited.(TimerModel); !em.exiting || em.stopping {
		t.Error("Expected esc to leave the timer running")
	}
}

func TestRenderBigClock(t *testing.T) {
	short := strings.Split(renderBigClock(65*time.Second), "\n")
	if len(short) != 5 {
		t.Fatalf("Expected 5 rows, got %d", len(short))
	}

	long := renderBigClock(2 * time.Hour)
	if len(long) <= len(renderBigClock(65*time.Second)) {
		t.Error("Expected hours to widen the clock")
	}
}
