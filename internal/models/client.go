package models

// Client is a customer of the business.
type Client struct {
	ID        int64  `json:"Id"`
	Name      string `json:"Name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Status    string `json:"status"`
	CreatedAt *Date  `json:"created_at"`
}

func (c Client) RecordID() int64     { return c.ID }
func (c Client) DisplayName() string { return c.Name }

// ClientInput carries the fields of a new client.
type ClientInput struct {
	Name    string
	Email   string
	Company string
	Status  string
}

// ClientPatch is a partial client update.
type ClientPatch struct {
	Name    Field[string]
	Email   Field[string]
	Company Field[string]
	Status  Field[string]
}
