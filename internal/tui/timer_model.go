package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

// StopFunc stops the running timer and returns the closed time log.
type StopFunc func() (*models.TimeLog, error)

// TimerModel shows a running task timer
type TimerModel struct {
	width  int
	height int
	task   models.Task
	log    models.TimeLog
	now    func() time.Time

	elapsed   time.Duration
	animFrame int

	stopping bool // s pressed, stop and save
	exiting  bool // esc/q pressed, leave the timer running
}

// timerTickMsg is sent every second to update the timer
type timerTickMsg struct{}

// animationTickMsg drives the header animation
type animationTickMsg struct{}

func NewTimerModel(task models.Task, log models.TimeLog) TimerModel {
	m := TimerModel{
		task: task,
		log:  log,
		now:  time.Now,
	}
	m.elapsed = log.Elapsed(m.now())
	return m
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return timerTickMsg{} })
}

func animationTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return animationTickMsg{} })
}

func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(timerTick(), animationTick())
}

func (m TimerModel) done() bool {
	return m.stopping || m.exiting
}

func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.elapsed = m.log.Elapsed(m.now())
		if m.done() {
			return m, nil
		}
		return m, timerTick()

	case animationTickMsg:
		m.animFrame = (m.animFrame + 1) % 4
		if m.done() {
			return m, nil
		}
		return m, animationTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "s", "S":
			m.stopping = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.exiting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	helpBar := m.renderHelpBar()
	contentHeight := m.height - 2

	if m.width < 90 {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTimerPanel(m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTimerPanel(leftWidth, contentHeight),
		"  ",
		m.renderTaskPanel(rightWidth, contentHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Align(lipgloss.Center).Width(width)
}

func (m TimerModel) renderTimerPanel(width, height int) string {
	frames := []string{"⏱", "⏲", "⏱", "⏲"}
	frame := frames[m.animFrame]

	parts := []string{
		centered(width).
			Foreground(lipgloss.Color(ColorAccentBright)).
			Bold(true).
			Render(fmt.Sprintf("%s  TRACKING TIME  %s", frame, frame)),
		centered(width).
			Foreground(lipgloss.Color(ColorAccentMain)).
			Bold(true).
			Render(fmt.Sprintf("#%d", m.task.ID)),
		centered(width).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Bold(true).
			Render(truncate(m.task.Title, width-4)),
	}

	var clock []string
	for _, line := range strings.Split(renderBigClock(m.elapsed), "\n") {
		clock = append(clock, centered(width).Render(line))
	}
	parts = append(parts, strings.Join(clock, "\n"))

	parts = append(parts, centered(width).
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render("Started at "+m.log.StartedAt.Local().Format("15:04:05")))

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(parts, "\n\n"))
}

// bigDigits holds 5-row glyphs for the clock.
var bigDigits = map[rune][5]string{
	'0': {" ███ ", "█   █", "█   █", "█   █", " ███ "},
	'1': {"  █  ", " ██  ", "  █  ", "  █  ", "█████"},
	'2': {" ███ ", "█   █", "   █ ", "  █  ", "█████"},
	'3': {" ███ ", "█   █", "  ██ ", "█   █", " ███ "},
	'4': {"█   █", "█   █", "█████", "    █", "    █"},
	'5': {"█████", "█    ", "████ ", "    █", "████ "},
	'6': {" ███ ", "█    ", "████ ", "█   █", " ███ "},
	'7': {"█████", "    █", "   █ ", "  █  ", " █   "},
	'8': {" ███ ", "█   █", " ███ ", "█   █", " ███ "},
	'9': {" ███ ", "█   █", " ████", "    █", " ███ "},
	':': {"     ", "  █  ", "     ", "  █  ", "     "},
}

func renderBigClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	text := fmt.Sprintf("%02d:%02d", minutes, seconds)
	if hours > 0 {
		text = fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	var rows [5]strings.Builder
	for _, ch := range text {
		glyph := bigDigits[ch]
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
	}

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccentBright)).Bold(true)
	lines := make([]string, len(rows))
	for i := range rows {
		lines[i] = style.Render(rows[i].String())
	}
	return strings.Join(lines, "\n")
}

func (m TimerModel) renderTaskPanel(width, height int) string {
	task := m.task
	inner := width - 8

	var b strings.Builder
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccentMain)).
		Width(width-12).
		Padding(0, 1).
		Render(task.Title))
	b.WriteString("\n\n")

	detail := func(icon, label, value, color string) {
		line := fmt.Sprintf("%s %s: %s", icon, label,
			lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(value))
		b.WriteString(centered(inner).Render(line))
		b.WriteString("\n")
	}

	statusColor := ColorSecondaryText
	if task.Status == models.TaskDone {
		statusColor = ColorSuccess
	}
	detail("○", "Status", orNone(task.Status), statusColor)

	priorityIcon, priorityColor := "🟡", ColorWarning
	switch task.Priority {
	case models.PriorityHigh:
		priorityIcon, priorityColor = "🔴", ColorError
	case models.PriorityLow:
		priorityIcon, priorityColor = "🟢", ColorSecondaryText
	}
	detail(priorityIcon, "Priority", orNone(task.Priority), priorityColor)

	dueValue, dueColor := "none", ColorDisabledText
	if task.DueDate != nil && !task.DueDate.IsZero() {
		dueValue = task.DueDate.Local().Format("Jan 02, 2006")
		dueColor = ColorWarning
	}
	detail("📅", "Due", dueValue, dueColor)

	tracked := time.Duration(task.TotalTime) * time.Second
	detail("📊", "Tracked before", parser.FormatDuration(tracked), ColorSecondaryText)

	return lipgloss.NewStyle().Width(width).Height(height).Render(b.String())
}

func (m TimerModel) renderHelpBar() string {
	return centered(m.width).
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Render("s stop & save · esc/q exit (keep running) · ctrl+c force quit")
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
