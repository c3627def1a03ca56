package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

// errValidation is returned after the failing fields have been printed.
var errValidation = errors.New("validation failed")

// checkDraft prints one line per failing field.
func checkDraft(cmd *cobra.Command, failure forms.ValidationFailure) error {
	if failure.OK() {
		return nil
	}
	w := cmd.ErrOrStderr()
	for _, field := range failure.Fields() {
		fmt.Fprintf(w, "  %s: %s\n", field, failure[field])
	}
	return fmt.Errorf("%w: %d field(s)", errValidation, len(failure))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func dayOrDash(d *models.Date) string {
	if s := d.DayString(); s != "" {
		return s
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func moneyOrDash(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.StringFixed(2)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%-14s %s\n", label+":", value)
}

func rule(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("-", width))
}

// formatSeconds renders tracked seconds as h:mm:ss.
func formatSeconds(secs int64) string {
	d := time.Duration(secs) * time.Second
	return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
}

// changed returns the flag value when the user set it, or fallback.
func changed(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}
