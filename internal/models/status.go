package models

const (
	ClientActive   = "active"
	ClientInactive = "inactive"
)

const (
	ProjectPlanning  = "planning"
	ProjectActive    = "active"
	ProjectOnHold    = "on-hold"
	ProjectCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	TaskTodo       = "todo"
	TaskInProgress = "in-progress"
	TaskReview     = "review"
	TaskDone       = "done"
)

const (
	InvoiceDraft   = "draft"
	InvoiceSent    = "sent"
	InvoicePaid    = "paid"
	InvoiceOverdue = "overdue"
)

var (
	ClientStatuses  = []string{ClientActive, ClientInactive}
	ProjectStatuses = []string{ProjectPlanning, ProjectActive, ProjectOnHold, ProjectCompleted}
	Priorities      = []string{PriorityLow, PriorityMedium, PriorityHigh}
	TaskStatuses    = []string{TaskTodo, TaskInProgress, TaskReview, TaskDone}
	InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid, InvoiceOverdue}
)

// OneOf reports whether v is in allowed.
func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
