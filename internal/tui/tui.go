package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

// RunInvoiceForm opens the interactive invoice form and returns the created
// invoice, or nil when the user cancelled.
func RunInvoiceForm(cfg InvoiceFormConfig) (*models.Invoice, error) {
	model := NewInvoiceFormModel(cfg)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(InvoiceFormModel)
	if !ok {
		return nil, nil
	}
	switch {
	case m.created != nil:
		fmt.Printf("✅ Invoice %s created - ID: %d, total %s\n", m.created.Name, m.created.ID, m.created.Amount.StringFixed(2))
		return m.created, nil
	case m.err != nil:
		return nil, m.err
	default:
		fmt.Println("❌ Invoice creation cancelled.")
		return nil, nil
	}
}

// RunTimer shows the running timer for a task. Pressing s stops it through stop.
func RunTimer(task models.Task, log models.TimeLog, stop StopFunc) error {
	model := NewTimerModel(task, log)

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timerModel := finalModel.(TimerModel)
	if timerModel.stopping {
		stopped, err := stop()
		if err != nil {
			return err
		}
		fmt.Printf("⏹️  Stopped tracking time for task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("📊 Session duration: %s\n", parser.FormatDuration(stopped.Elapsed(timerModel.now())))
	} else if timerModel.exiting {
		fmt.Printf("\n💡 Timer is still running for task #%d: %s\n", task.ID, task.Title)
		fmt.Printf("   Use 'clientflow stop %d' to stop it.\n", task.ID)
	}

	return nil
}
