package forms

import (
	"time"

	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// TaskDraft is the content of the task form.
type TaskDraft struct {
	Name      string
	Title     string
	Priority  string
	Status    string
	DueDate   string
	ProjectID string
}

func (d TaskDraft) Validate() ValidationFailure {
	return d.ValidateAt(time.Now())
}

func (d TaskDraft) ValidateAt(now time.Time) ValidationFailure {
	errs := ValidationFailure{}

	if blank(d.Name) {
		errs["Name"] = "Task name is required"
	}
	if blank(d.Title) {
		errs["title"] = "Task title is required"
	}
	if !blank(d.Priority) && !models.OneOf(d.Priority, models.Priorities) {
		errs["priority"] = "Priority is invalid"
	}
	if !blank(d.Status) && !models.OneOf(d.Status, models.TaskStatuses) {
		errs["status"] = "Status is invalid"
	}
	if _, ok := optionalDay(d.DueDate, now); !ok {
		errs["due_date"] = "Due date is invalid"
	}
	if !blank(d.ProjectID) {
		if _, ok := parseRef(d.ProjectID); !ok {
			errs["project_id"] = "Project is invalid"
		}
	}

	return errs
}

func (d TaskDraft) Build() (models.TaskInput, error) {
	return d.BuildAt(time.Now())
}

func (d TaskDraft) BuildAt(now time.Time) (models.TaskInput, error) {
	if !d.ValidateAt(now).OK() {
		return models.TaskInput{}, ErrInvalidDraft
	}

	in := models.TaskInput{
		Name:     d.Name,
		Title:    d.Title,
		Priority: d.Priority,
		Status:   d.Status,
	}
	in.DueDate, _ = optionalDay(d.DueDate, now)
	if id, ok := parseRef(d.ProjectID); ok {
		in.ProjectID = int64Ptr(id)
	}
	return in, nil
}

// BuildPatch converts a valid draft into an update of the editable fields.
// Tracked time and the running timer are left alone.
func (d TaskDraft) BuildPatch() (models.TaskPatch, error) {
	in, err := d.BuildAt(time.Now())
	if err != nil {
		return models.TaskPatch{}, err
	}
	return models.TaskPatch{
		Name:      models.Set(in.Name),
		Title:     models.Set(in.Title),
		Priority:  setNonBlank(in.Priority),
		Status:    setNonBlank(in.Status),
		DueDate:   models.SetPtr(in.DueDate),
		ProjectID: models.SetPtr(in.ProjectID),
	}, nil
}

func DraftFromTask(t models.Task) TaskDraft {
	return TaskDraft{
		Name:      t.Name,
		Title:     t.Title,
		Priority:  t.Priority,
		Status:    t.Status,
		DueDate:   t.DueDate.DayString(),
		ProjectID: refString(t.ProjectID),
	}
}
