package forms

import (
	"net/mail"

	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// ClientDraft is the content of the client form.
type ClientDraft struct {
	Name    string
	Email   string
	Company string
	Status  string
}

func (d ClientDraft) Validate() ValidationFailure {
	errs := ValidationFailure{}

	if blank(d.Name) {
		errs["Name"] = "Client name is required"
	}
	if !blank(d.Email) {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			errs["email"] = "Email is invalid"
		}
	}
	if !blank(d.Status) && !models.OneOf(d.Status, models.ClientStatuses) {
		errs["status"] = "Status is invalid"
	}

	return errs
}

func (d ClientDraft) Build() (models.ClientInput, error) {
	if !d.Validate().OK() {
		return models.ClientInput{}, ErrInvalidDraft
	}
	return models.ClientInput{
		Name:    d.Name,
		Email:   d.Email,
		Company: d.Company,
		Status:  d.Status,
	}, nil
}

func (d ClientDraft) BuildPatch() (models.ClientPatch, error) {
	in, err := d.Build()
	if err != nil {
		return models.ClientPatch{}, err
	}
	return models.ClientPatch{
		Name:    models.Set(in.Name),
		Email:   models.Set(in.Email),
		Company: models.Set(in.Company),
		Status:  setNonBlank(in.Status),
	}, nil
}

func DraftFromClient(c models.Client) ClientDraft {
	return ClientDraft{
		Name:    c.Name,
		Email:   c.Email,
		Company: c.Company,
		Status:  c.Status,
	}
}
