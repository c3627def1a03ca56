package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

// SubmitFunc creates the invoice built from the form.
type SubmitFunc func(ctx context.Context, in models.InvoiceInput) (*models.Invoice, error)

// InvoiceFormConfig configures the invoice form. Clients and Projects are
// used to resolve the entered ids for the preview.
type InvoiceFormConfig struct {
	Context  context.Context
	Clients  []models.Client
	Projects []models.Project
	Draft    forms.InvoiceDraft
	Submit   SubmitFunc
	Now      func() time.Time
}

// Step represents the current step in the wizard
type Step int

const (
	StepClient Step = iota
	StepProject
	StepDueDate
	StepStatus
	StepPaymentDate
	StepLineItems
	StepSave
)

var stepLabels = []string{"Client", "Project", "Due Date", "Status", "Payment Date", "Line Items", "Save"}

// input indexes
const (
	inputClient = iota
	inputProject
	inputDue
	inputStatus
	inputPayment
	inputDescription
	inputAmount
	inputCount
)

// validation keys checked when leaving a step
var stepKeys = map[Step]string{
	StepClient:      "client_id",
	StepProject:     "project_id",
	StepDueDate:     "due_date",
	StepStatus:      "status",
	StepPaymentDate: "payment_date",
}

// submitResultMsg carries the outcome of the async create.
type submitResultMsg struct {
	invoice *models.Invoice
	err     error
}

// InvoiceFormModel is the interactive invoice form
type InvoiceFormModel struct {
	step   Step
	inputs []textinput.Model
	width  int
	height int

	ctx      context.Context
	draft    forms.InvoiceDraft
	clients  []models.Client
	projects []models.Project
	submit   SubmitFunc
	now      func() time.Time

	errors  forms.ValidationFailure
	stepErr string
	busy    bool

	showSaveModal   bool
	saveModalChoice bool

	created   *models.Invoice
	err       error
	cancelled bool
}

func NewInvoiceFormModel(cfg InvoiceFormConfig) InvoiceFormModel {
	inputs := make([]textinput.Model, inputCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Width = 60
		inputs[i].TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
		inputs[i].PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPlaceholder))
		inputs[i].Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright))
	}

	inputs[inputClient].Placeholder = "Client id (required)"
	inputs[inputClient].CharLimit = 20
	inputs[inputProject].Placeholder = "Project id (required)"
	inputs[inputProject].CharLimit = 20
	inputs[inputDue].Placeholder = "yyyy-mm-dd, dd/mm/yyyy, tomorrow, 2 weeks (required)"
	inputs[inputDue].CharLimit = 30
	inputs[inputStatus].Placeholder = strings.Join(models.InvoiceStatuses, "/") + " (Enter for draft)"
	inputs[inputStatus].CharLimit = 10
	inputs[inputPayment].Placeholder = "Payment date (Enter to skip)"
	inputs[inputPayment].CharLimit = 30
	inputs[inputDescription].Placeholder = "Description (Enter on empty to finish)"
	inputs[inputDescription].CharLimit = 200
	inputs[inputAmount].Placeholder = "Amount, e.g. 150.00"
	inputs[inputAmount].CharLimit = 20

	d := cfg.Draft
	inputs[inputClient].SetValue(d.ClientID)
	inputs[inputProject].SetValue(d.ProjectID)
	inputs[inputDue].SetValue(d.DueDate)
	inputs[inputStatus].SetValue(d.Status)
	inputs[inputPayment].SetValue(d.PaymentDate)
	inputs[inputClient].Focus()

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return InvoiceFormModel{
		step:            StepClient,
		inputs:          inputs,
		ctx:             ctx,
		draft:           d,
		clients:         cfg.Clients,
		projects:        cfg.Projects,
		submit:          cfg.Submit,
		now:             now,
		errors:          forms.ValidationFailure{},
		saveModalChoice: true,
	}
}

func (m InvoiceFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m InvoiceFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := (m.width * 2 / 3) - 10
		if inputWidth < 30 {
			inputWidth = 30
		}
		if inputWidth > 80 {
			inputWidth = 80
		}
		for i := range m.inputs {
			m.inputs[i].Width = inputWidth
		}
		return m, nil

	case submitResultMsg:
		m.busy = false
		if msg.err != nil {
			m.err = msg.err
			m.stepErr = msg.err.Error()
			return m, nil
		}
		m.created = msg.invoice
		m.err = nil
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelled = true
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.showSaveModal {
			return m.handleModalKey(msg)
		}

		switch msg.String() {
		case "esc":
			if m.step == StepSave {
				return m.prevStep()
			}
			if !m.hasChanges() {
				m.cancelled = true
				return m, tea.Quit
			}
			m.showSaveModal = true
			m.saveModalChoice = true
			return m, nil

		case "enter":
			return m.handleEnter()

		case "tab", "down":
			if m.step == StepLineItems {
				return m.toggleItemField()
			}
			return m.nextStep()

		case "shift+tab", "up":
			return m.prevStep()

		case "ctrl+x":
			if m.step == StepLineItems && len(m.draft.LineItems) > 0 {
				m.draft.LineItems = m.draft.LineItems[:len(m.draft.LineItems)-1]
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if idx, ok := m.activeInput(); ok {
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		m.syncDraft()
	}
	return m, cmd
}

func (m InvoiceFormModel) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right":
		m.saveModalChoice = !m.saveModalChoice
	case "y", "Y":
		m.saveModalChoice = true
		return m.handleSaveChoice()
	case "n", "N":
		m.saveModalChoice = false
		return m.handleSaveChoice()
	case "enter":
		return m.handleSaveChoice()
	case "esc":
		m.showSaveModal = false
	}
	return m, nil
}

func (m InvoiceFormModel) handleSaveChoice() (InvoiceFormModel, tea.Cmd) {
	m.showSaveModal = false
	if m.saveModalChoice {
		return m.save()
	}
	m.cancelled = true
	return m, tea.Quit
}

// activeInput returns the input bound to the current step.
func (m InvoiceFormModel) activeInput() (int, bool) {
	switch m.step {
	case StepClient:
		return inputClient, true
	case StepProject:
		return inputProject, true
	case StepDueDate:
		return inputDue, true
	case StepStatus:
		return inputStatus, true
	case StepPaymentDate:
		return inputPayment, true
	case StepLineItems:
		if m.inputs[inputAmount].Focused() {
			return inputAmount, true
		}
		return inputDescription, true
	}
	return 0, false
}

// syncDraft copies the scalar inputs into the draft.
func (m *InvoiceFormModel) syncDraft() {
	m.draft.ClientID = m.inputs[inputClient].Value()
	m.draft.ProjectID = m.inputs[inputProject].Value()
	m.draft.DueDate = m.inputs[inputDue].Value()
	m.draft.Status = strings.ToLower(strings.TrimSpace(m.inputs[inputStatus].Value()))
	m.draft.PaymentDate = m.inputs[inputPayment].Value()
}

func (m InvoiceFormModel) handleEnter() (tea.Model, tea.Cmd) {
	m.stepErr = ""

	switch m.step {
	case StepLineItems:
		return m.handleItemEnter()
	case StepSave:
		return m.save()
	}

	if key, ok := stepKeys[m.step]; ok {
		if msg, failed := m.draft.ValidateAt(m.now())[key]; failed {
			m.stepErr = msg
			return m, nil
		}
	}
	return m.nextStep()
}

// handleItemEnter moves from description to amount, and appends the item on
// the amount field. Enter on an empty item finishes the list.
func (m InvoiceFormModel) handleItemEnter() (tea.Model, tea.Cmd) {
	desc := strings.TrimSpace(m.inputs[inputDescription].Value())
	amount := strings.TrimSpace(m.inputs[inputAmount].Value())

	if desc == "" && amount == "" {
		return m.nextStep()
	}

	if m.inputs[inputDescription].Focused() {
		return m.toggleItemField()
	}

	item := forms.LineItemDraft{Description: desc, Amount: amount}
	if !item.Valid() {
		m.stepErr = "Line item needs a description and an amount greater than 0"
		return m, nil
	}

	m.draft.LineItems = append(m.draft.LineItems, item)
	m.inputs[inputDescription].SetValue("")
	m.inputs[inputAmount].SetValue("")
	m.inputs[inputAmount].Blur()
	m.inputs[inputDescription].Focus()
	m.inputs[inputDescription].Placeholder = fmt.Sprintf("Description (%d added, Enter on empty to finish)", len(m.draft.LineItems))
	return m, textinput.Blink
}

func (m InvoiceFormModel) toggleItemField() (tea.Model, tea.Cmd) {
	if m.inputs[inputAmount].Focused() {
		m.inputs[inputAmount].Blur()
		m.inputs[inputDescription].Focus()
	} else {
		m.inputs[inputDescription].Blur()
		m.inputs[inputAmount].Focus()
	}
	return m, textinput.Blink
}

// skipped reports whether a step does not apply to the current draft.
func (m InvoiceFormModel) skipped(step Step) bool {
	return step == StepPaymentDate && m.draft.Status != models.InvoicePaid
}

func (m InvoiceFormModel) moveTo(step Step) (InvoiceFormModel, tea.Cmd) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.step = step
	if idx, ok := m.activeInput(); ok {
		m.inputs[idx].Focus()
	}
	return m, textinput.Blink
}

func (m InvoiceFormModel) nextStep() (InvoiceFormModel, tea.Cmd) {
	next := m.step + 1
	for next < StepSave && m.skipped(next) {
		next++
	}
	if next > StepSave {
		return m, nil
	}
	return m.moveTo(next)
}

func (m InvoiceFormModel) prevStep() (InvoiceFormModel, tea.Cmd) {
	prev := m.step - 1
	for prev > StepClient && m.skipped(prev) {
		prev--
	}
	if prev < StepClient {
		return m, nil
	}
	return m.moveTo(prev)
}

// save validates the whole draft and starts the create.
func (m InvoiceFormModel) save() (InvoiceFormModel, tea.Cmd) {
	now := m.now()
	m.errors = m.draft.ValidateAt(now)
	if !m.errors.OK() {
		m.stepErr = fmt.Sprintf("Fix %d field(s) before saving", len(m.errors))
		return m, nil
	}

	input, err := m.draft.BuildSubmissionAt(now)
	if err != nil {
		m.stepErr = err.Error()
		return m, nil
	}
	if m.submit == nil {
		m.stepErr = "Saving is not available"
		return m, nil
	}

	m.busy = true
	m.stepErr = ""
	ctx, submit := m.ctx, m.submit
	return m, func() tea.Msg {
		inv, err := submit(ctx, input)
		return submitResultMsg{invoice: inv, err: err}
	}
}

func (m InvoiceFormModel) hasChanges() bool {
	d := m.draft
	return strings.TrimSpace(d.ClientID) != "" ||
		strings.TrimSpace(d.ProjectID) != "" ||
		strings.TrimSpace(d.DueDate) != "" ||
		strings.TrimSpace(d.Status) != "" ||
		strings.TrimSpace(d.PaymentDate) != "" ||
		len(d.LineItems) > 0
}

func (m InvoiceFormModel) stepHasValue(step Step) bool {
	d := m.draft
	switch step {
	case StepClient:
		return strings.TrimSpace(d.ClientID) != ""
	case StepProject:
		return strings.TrimSpace(d.ProjectID) != ""
	case StepDueDate:
		return strings.TrimSpace(d.DueDate) != ""
	case StepStatus:
		return strings.TrimSpace(d.Status) != ""
	case StepPaymentDate:
		return strings.TrimSpace(d.PaymentDate) != ""
	case StepLineItems:
		return len(d.LineItems) > 0
	}
	return false
}

func (m InvoiceFormModel) View() string {
	if m.cancelled || m.created != nil {
		return ""
	}

	if m.width < 85 {
		return m.renderSmallLayout()
	}

	rightWidth := 50
	leftWidth := m.width - rightWidth - 4

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(m.height - 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(m.renderWizard())

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(m.height - 2).
		Padding(1).
		Render(m.renderPreview(42))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
	if m.showSaveModal {
		return m.renderSaveModal()
	}
	return mainView
}

func (m InvoiceFormModel) renderWizard() string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render("🧾 New Invoice"))
	b.WriteString("\n\n")

	current := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	done := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))
	future := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))

	for i, label := range stepLabels {
		step := Step(i)
		if step == StepSave {
			b.WriteString("\n")
			label = "💾 " + label
		}
		switch {
		case step == m.step:
			b.WriteString(current.Render("▶ " + label))
		case m.skipped(step):
			b.WriteString(muted.Render("  " + label + " (n/a)"))
		case step < m.step && m.stepHasValue(step):
			b.WriteString(done.Render("✓ " + label))
		case step < m.step:
			b.WriteString(muted.Render("  " + label))
		default:
			b.WriteString(future.Render("  " + label))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch m.step {
	case StepClient:
		b.WriteString("👤 Client\n")
		b.WriteString(m.inputs[inputClient].View())
		b.WriteString("\n" + m.renderChoices(m.clientChoices()))
	case StepProject:
		b.WriteString("📁 Project\n")
		b.WriteString(m.inputs[inputProject].View())
		b.WriteString("\n" + m.renderChoices(m.projectChoices()))
	case StepDueDate:
		b.WriteString("📅 Due Date\n")
		b.WriteString(m.inputs[inputDue].View())
	case StepStatus:
		b.WriteString("○ Status\n")
		b.WriteString(m.inputs[inputStatus].View())
	case StepPaymentDate:
		b.WriteString("💰 Payment Date\n")
		b.WriteString(m.inputs[inputPayment].View())
	case StepLineItems:
		b.WriteString("📝 Line Items\n")
		b.WriteString(m.inputs[inputDescription].View())
		b.WriteString("\n")
		b.WriteString(m.inputs[inputAmount].View())
	case StepSave:
		b.WriteString("💾 Save Invoice\n")
		if m.busy {
			b.WriteString("Saving...")
		} else {
			b.WriteString("Press Enter to save invoice")
		}
	}

	if m.stepErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorError)).
			Bold(true).
			MarginTop(1).
			Render("❌ " + m.stepErr))
	}

	b.WriteString("\n\n")
	help := "Enter: Next | Tab/↓: Next | Shift+Tab/↑: Back | Esc: Cancel"
	if m.step == StepLineItems {
		help = "Enter: Add item | Tab: Switch field | Ctrl+X: Remove last | Esc: Cancel"
	}
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render(help))

	return b.String()
}

func (m InvoiceFormModel) clientChoices() []string {
	out := make([]string, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, fmt.Sprintf("#%d %s", c.ID, c.Name))
	}
	return out
}

// projectChoices lists the projects of the chosen client, or all of them.
func (m InvoiceFormModel) projectChoices() []string {
	clientID, hasClient := models.ParseID(m.draft.ClientID)
	out := make([]string, 0, len(m.projects))
	for _, p := range m.projects {
		if hasClient && p.ClientID != nil && p.ClientID.ID != clientID {
			continue
		}
		out = append(out, fmt.Sprintf("#%d %s", p.ID, p.Name))
	}
	return out
}

func (m InvoiceFormModel) renderChoices(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	const shown = 8
	more := ""
	if len(choices) > shown {
		more = fmt.Sprintf("\n… %d more", len(choices)-shown)
		choices = choices[:shown]
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Render(strings.Join(choices, "\n") + more)
}

// refName resolves an entered id for display.
func refName[T models.Named](items []T, raw, kind string) string {
	if strings.TrimSpace(raw) == "" {
		return "-"
	}
	id, ok := models.ParseID(raw)
	if !ok {
		return raw
	}
	return models.NameByID(items, &models.Lookup{ID: id}, kind)
}

func (m InvoiceFormModel) renderPreview(cardWidth int) string {
	now := m.now()
	d := m.draft

	var card strings.Builder
	card.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentMain)).
		Width(cardWidth - 4).
		Align(lipgloss.Center).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Render("INVOICE"))
	card.WriteString("\n")

	status := d.Status
	if status == "" {
		status = models.InvoiceDraft
	}
	fmt.Fprintf(&card, "● %s\n\n", status)
	fmt.Fprintf(&card, "👤 %s\n", refName(m.clients, d.ClientID, "Client"))
	fmt.Fprintf(&card, "📁 %s\n", refName(m.projects, d.ProjectID, "Project"))

	if due, err := parser.ParseDate(d.DueDate, now); err == nil {
		card.WriteString(parser.FormatDueDate(&due, now) + "\n")
	} else if strings.TrimSpace(d.DueDate) != "" {
		fmt.Fprintf(&card, "📅 Due: %s\n", d.DueDate)
	}
	if status == models.InvoicePaid && strings.TrimSpace(d.PaymentDate) != "" {
		fmt.Fprintf(&card, "💰 Paid: %s\n", d.PaymentDate)
	}

	card.WriteString("\n")
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText))
	invalidStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText)).Strikethrough(true)
	if len(d.LineItems) == 0 {
		card.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDisabledText)).
			Italic(true).
			Render("No line items yet"))
		card.WriteString("\n")
	}
	for _, item := range d.LineItems {
		amount := forms.ComputeTotal([]forms.LineItemDraft{item}).StringFixed(2)
		line := fmt.Sprintf("%-*s %10s", cardWidth-16, truncate(item.Description, cardWidth-16), amount)
		if item.Valid() {
			card.WriteString(itemStyle.Render(line))
		} else {
			card.WriteString(invalidStyle.Render(line))
		}
		card.WriteString("\n")
	}

	card.WriteString(strings.Repeat("─", cardWidth-6) + "\n")
	card.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorAccentBright)).
		Render(fmt.Sprintf("Total %s", forms.ComputeTotal(d.LineItems).StringFixed(2))))

	if !m.errors.OK() {
		card.WriteString("\n\n")
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError))
		for _, field := range m.errors.Fields() {
			card.WriteString(errStyle.Render("• " + m.errors[field]))
			card.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(cardWidth).
		Padding(1).
		Render(card.String())
}

func (m InvoiceFormModel) renderSmallLayout() string {
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Padding(1).
		Render(m.renderWizard() + "\n\n" + m.renderPreview(width-6))
}

func (m InvoiceFormModel) renderSaveModal() string {
	yes := lipgloss.NewStyle().Padding(0, 2)
	no := lipgloss.NewStyle().Padding(0, 2)
	if m.saveModalChoice {
		yes = yes.Background(lipgloss.Color(ColorAccentBright)).Foreground(lipgloss.Color("#000000")).Bold(true)
	} else {
		no = no.Background(lipgloss.Color(ColorError)).Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	}

	var content strings.Builder
	content.WriteString("Save invoice?\n\n")
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, yes.Render("Yes"), "   ", no.Render("No")))
	content.WriteString("\n\n← → or Y/N to choose, Enter to confirm\nEsc to keep editing")

	modal := lipgloss.NewStyle().
		Width(50).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentBright)).
		Background(lipgloss.Color(ColorCardBackground)).
		Padding(1).
		Align(lipgloss.Center).
		Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
