package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a piece of work carried out for a client.
type Project struct {
	ID        int64            `json:"Id"`
	Name      string           `json:"Name"`
	Status    string           `json:"status"`
	Budget    *decimal.Decimal `json:"budget"`
	StartDate *Date            `json:"start_date"`
	EndDate   *Date            `json:"end_date"`
	ClientID  *Lookup          `json:"client_id"`
}

func (p Project) RecordID() int64     { return p.ID }
func (p Project) DisplayName() string { return p.Name }

type ProjectInput struct {
	Name      string
	Status    string
	Budget    *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	ClientID  *int64
}

type ProjectPatch struct {
	Name      Field[string]
	Status    Field[string]
	Budget    Field[decimal.Decimal]
	StartDate Field[time.Time]
	EndDate   Field[time.Time]
	ClientID  Field[int64]
}
