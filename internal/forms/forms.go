// Package forms validates user-entered drafts and turns them into gateway
// inputs. Validation problems are returned as a ValidationFailure for the
// caller to render; they are never errors.
package forms

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

// ValidationFailure maps a field name to its error message.
type ValidationFailure map[string]string

// OK reports whether no rule failed.
func (v ValidationFailure) OK() bool {
	return len(v) == 0
}

// Fields returns the failing field names in a stable order.
func (v ValidationFailure) Fields() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ErrInvalidDraft is returned by the Build functions for a draft that does
// not pass validation.
var ErrInvalidDraft = errors.New("draft has validation errors")

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// parseRef coerces a reference the way the store does.
func parseRef(raw string) (int64, bool) {
	if blank(raw) {
		return 0, false
	}
	return models.ParseID(raw)
}

// parseAmount reads a money amount. Blank or non-numeric input counts as zero.
func parseAmount(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseBudget(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}

func parseDay(raw string, now time.Time) (time.Time, bool) {
	t, err := parser.ParseDate(raw, now)
	return t, err == nil
}

func int64Ptr(v int64) *int64 { return &v }

// setNonBlank leaves the field unchanged for a blank value.
func setNonBlank(v string) models.Field[string] {
	if blank(v) {
		return models.Field[string]{}
	}
	return models.Set(v)
}

func refString(l *models.Lookup) string {
	if l == nil {
		return ""
	}
	return strconv.FormatInt(l.ID, 10)
}
