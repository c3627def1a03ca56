package parser

import (
	"fmt"
	"strings"
)

// ParsedLineItem is a line item given on the command line as "description=amount".
type ParsedLineItem struct {
	Description string
	Amount      string
}

// ParseLineItem splits "Design work=150.00" at the last '='. The amount is
// kept as text so that validation can report on it.
func ParseLineItem(input string) (ParsedLineItem, error) {
	i := strings.LastIndex(input, "=")
	if i < 0 {
		return ParsedLineItem{}, fmt.Errorf("invalid line item %q. Use: description=amount", input)
	}
	return ParsedLineItem{
		Description: strings.TrimSpace(input[:i]),
		Amount:      strings.TrimSpace(input[i+1:]),
	}, nil
}
