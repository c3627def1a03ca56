package forms

import (
	"time"

	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// ProjectDraft is the content of the project form.
type ProjectDraft struct {
	Name      string
	Status    string
	Budget    string
	StartDate string
	EndDate   string
	ClientID  string
}

func (d ProjectDraft) Validate() ValidationFailure {
	return d.ValidateAt(time.Now())
}

func (d ProjectDraft) ValidateAt(now time.Time) ValidationFailure {
	errs := ValidationFailure{}

	if blank(d.Name) {
		errs["Name"] = "Project name is required"
	}

	if blank(d.ClientID) {
		errs["client_id"] = "Client selection is required"
	} else if _, ok := parseRef(d.ClientID); !ok {
		errs["client_id"] = "Client selection is invalid"
	}

	if !blank(d.Budget) {
		if _, err := parseBudget(d.Budget); err != nil {
			errs["budget"] = "Budget must be a valid number"
		}
	}

	if !blank(d.Status) && !models.OneOf(d.Status, models.ProjectStatuses) {
		errs["status"] = "Status is invalid"
	}

	start, startOK := optionalDay(d.StartDate, now)
	if !startOK {
		errs["start_date"] = "Start date is invalid"
	}
	end, endOK := optionalDay(d.EndDate, now)
	if !endOK {
		errs["end_date"] = "End date is invalid"
	}
	if start != nil && end != nil && !end.After(*start) {
		errs["end_date"] = "End date must be after start date"
	}

	return errs
}

// Build converts a valid draft into a create input.
func (d ProjectDraft) Build() (models.ProjectInput, error) {
	return d.BuildAt(time.Now())
}

func (d ProjectDraft) BuildAt(now time.Time) (models.ProjectInput, error) {
	if !d.ValidateAt(now).OK() {
		return models.ProjectInput{}, ErrInvalidDraft
	}

	in := models.ProjectInput{
		Name:   d.Name,
		Status: d.Status,
	}
	if !blank(d.Budget) {
		budget, _ := parseBudget(d.Budget)
		in.Budget = &budget
	}
	in.StartDate, _ = optionalDay(d.StartDate, now)
	in.EndDate, _ = optionalDay(d.EndDate, now)
	if id, ok := parseRef(d.ClientID); ok {
		in.ClientID = int64Ptr(id)
	}
	return in, nil
}

// optionalDay parses a date that may be left blank. ok is false only for
// unparseable input.
func optionalDay(raw string, now time.Time) (*time.Time, bool) {
	if blank(raw) {
		return nil, true
	}
	t, ok := parseDay(raw, now)
	if !ok {
		return nil, false
	}
	return &t, true
}

// BuildPatch converts a valid draft into a full update. Blank optional
// fields are cleared.
func (d ProjectDraft) BuildPatch() (models.ProjectPatch, error) {
	in, err := d.BuildAt(time.Now())
	if err != nil {
		return models.ProjectPatch{}, err
	}
	return models.ProjectPatch{
		Name:      models.Set(in.Name),
		Status:    setNonBlank(in.Status),
		Budget:    models.SetPtr(in.Budget),
		StartDate: models.SetPtr(in.StartDate),
		EndDate:   models.SetPtr(in.EndDate),
		ClientID:  models.SetPtr(in.ClientID),
	}, nil
}

// DraftFromProject prefills a draft for editing.
func DraftFromProject(p models.Project) ProjectDraft {
	d := ProjectDraft{
		Name:      p.Name,
		Status:    p.Status,
		StartDate: p.StartDate.DayString(),
		EndDate:   p.EndDate.DayString(),
		ClientID:  refString(p.ClientID),
	}
	if p.Budget != nil {
		d.Budget = p.Budget.String()
	}
	return d
}
