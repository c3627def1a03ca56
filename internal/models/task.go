package models

import "time"

// Task is a unit of work inside a project. TotalTime is the tracked time in
// seconds and ActiveTimer points at the running time log, if any.
type Task struct {
	ID          int64   `json:"Id"`
	Name        string  `json:"Name"`
	Title       string  `json:"title"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	DueDate     *Date   `json:"due_date"`
	TotalTime   int64   `json:"total_time"`
	ActiveTimer *Lookup `json:"active_timer"`
	ProjectID   *Lookup `json:"project_id"`
}

func (t Task) RecordID() int64     { return t.ID }
func (t Task) DisplayName() string { return t.Name }

// Running reports whether a timer is active on the task.
func (t Task) Running() bool {
	return t.ActiveTimer != nil && t.ActiveTimer.ID != 0
}

type TaskInput struct {
	Name        string
	Title       string
	Priority    string
	Status      string
	DueDate     *time.Time
	TotalTime   int64
	ActiveTimer *int64
	ProjectID   *int64
}

type TaskPatch struct {
	Name        Field[string]
	Title       Field[string]
	Priority    Field[string]
	Status      Field[string]
	DueDate     Field[time.Time]
	TotalTime   Field[int64]
	ActiveTimer Field[int64]
	ProjectID   Field[int64]
}

// TimeLog is one tracked interval on a task. EndedAt is nil while the timer
// is running.
type TimeLog struct {
	ID        int64  `json:"Id"`
	Name      string `json:"Name"`
	TaskID    Lookup `json:"task_id"`
	StartedAt Date   `json:"started_at"`
	EndedAt   *Date  `json:"ended_at"`
	Duration  int64  `json:"duration"`
}

// Elapsed returns the logged duration, or the time since start for a running log.
func (l TimeLog) Elapsed(now time.Time) time.Duration {
	if l.EndedAt == nil || l.EndedAt.IsZero() {
		return now.Sub(l.StartedAt.Time)
	}
	return time.Duration(l.Duration) * time.Second
}
