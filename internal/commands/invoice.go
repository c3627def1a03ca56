package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/gateway"
	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
	"github.com/apper-apps/clientflow-continuous/internal/tui"
)

var invoiceCmd = &cobra.Command{
	Use:     "invoice",
	Aliases: []string{"invoices"},
	Short:   "Manage invoices",
}

var invoiceListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List invoices",
	Args:    cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		ctx := cmd.Context()
		invoices, err := gw.Invoices.List(ctx)
		if err != nil {
			return err
		}
		clients, err := gw.Clients.List(ctx)
		if err != nil {
			return err
		}
		projects, err := gw.Projects.List(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(invoices) == 0 {
			fmt.Fprintln(w, "No invoices found. Use 'clientflow invoice add -i' to create one.")
			return nil
		}

		fmt.Fprintf(w, "%-5s %-22s %-20s %-20s %12s %-8s %-10s %s\n", "ID", "NAME", "CLIENT", "PROJECT", "AMOUNT", "STATUS", "DUE", "PAID")
		rule(w, 110)
		for _, inv := range invoices {
			fmt.Fprintf(w, "%-5d %-22s %-20s %-20s %12s %-8s %-10s %s\n",
				inv.ID,
				truncate(inv.Name, 22),
				truncate(models.NameByID(clients, inv.ClientID, "Client"), 20),
				truncate(models.NameByID(projects, inv.ProjectID, "Project"), 20),
				inv.Amount.StringFixed(2),
				orDash(inv.Status),
				dayOrDash(inv.DueDate),
				dayOrDash(inv.PaymentDate))
		}
		return nil
	}),
}

var invoiceShowCmd = &cobra.Command{
	Use:   "show [invoice-id]",
	Short: "Show an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		ctx := cmd.Context()
		inv, err := gw.Invoices.Get(ctx, args[0])
		if err != nil {
			return err
		}
		clients, err := gw.Clients.List(ctx)
		if err != nil {
			return err
		}
		projects, err := gw.Projects.List(ctx)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "🧾 Invoice #%d: %s\n", inv.ID, inv.Name)
		printField(w, "Client", models.NameByID(clients, inv.ClientID, "Client"))
		printField(w, "Project", models.NameByID(projects, inv.ProjectID, "Project"))
		printField(w, "Amount", inv.Amount.StringFixed(2))
		printField(w, "Status", orDash(inv.Status))
		if inv.DueDate != nil {
			printField(w, "Due", parser.FormatDueDate(&inv.DueDate.Time, time.Now()))
		}
		printField(w, "Paid", dayOrDash(inv.PaymentDate))
		return nil
	}),
}

// invoiceDraftFromFlags applies the flags to d. Line items given with --item
// replace the existing ones.
func invoiceDraftFromFlags(cmd *cobra.Command, d forms.InvoiceDraft) (forms.InvoiceDraft, error) {
	d.ClientID = changed(cmd, "client", d.ClientID)
	d.ProjectID = changed(cmd, "project", d.ProjectID)
	d.DueDate = changed(cmd, "due", d.DueDate)
	d.Status = changed(cmd, "status", d.Status)
	d.PaymentDate = changed(cmd, "paid-on", d.PaymentDate)

	items, _ := cmd.Flags().GetStringArray("item")
	if len(items) == 0 {
		return d, nil
	}
	d.LineItems = nil
	for _, raw := range items {
		item, err := parser.ParseLineItem(raw)
		if err != nil {
			return d, err
		}
		d.LineItems = append(d.LineItems, forms.LineItemDraft{
			Description: item.Description,
			Amount:      item.Amount,
		})
	}
	return d, nil
}

var invoiceAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an invoice",
	Long: `Create an invoice from flags, or interactively with -i.

Examples:
  clientflow invoice add -i
  clientflow invoice add --client 3 --project 5 --due "2 weeks" \
    --item "Design work=1200" --item "Hosting=49.90"`,
	Args: cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		draft, err := invoiceDraftFromFlags(cmd, forms.InvoiceDraft{})
		if err != nil {
			return err
		}

		if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
			return runInteractiveInvoice(cmd.Context(), gw, draft)
		}

		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}
		input, err := draft.BuildSubmission()
		if err != nil {
			return err
		}
		inv, err := gw.Invoices.Create(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Invoice %s created - ID: %d, total %s\n", inv.Name, inv.ID, inv.Amount.StringFixed(2))
		return nil
	}),
}

// runInteractiveInvoice opens the invoice form prefilled with draft
func runInteractiveInvoice(ctx context.Context, gw *gateway.Gateway, draft forms.InvoiceDraft) error {
	clients, err := gw.Clients.List(ctx)
	if err != nil {
		return err
	}
	projects, err := gw.Projects.List(ctx)
	if err != nil {
		return err
	}

	_, err = tui.RunInvoiceForm(tui.InvoiceFormConfig{
		Context:  ctx,
		Clients:  clients,
		Projects: projects,
		Draft:    draft,
		Submit:   gw.Invoices.Create,
	})
	return err
}

var invoiceUpdateCmd = &cobra.Command{
	Use:   "update [invoice-id]",
	Short: "Update an invoice",
	Long: `Update an invoice. Only the given flags change. Line items are not stored,
so without --item the current amount is kept as a single item.`,
	Args: cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		current, err := gw.Invoices.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		base := forms.DraftFromInvoice(*current)
		if len(base.LineItems) == 0 {
			base.LineItems = []forms.LineItemDraft{{
				Description: current.Name,
				Amount:      current.Amount.String(),
			}}
		}
		draft, err := invoiceDraftFromFlags(cmd, base)
		if err != nil {
			return err
		}
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		patch, err := draft.BuildPatch()
		if err != nil {
			return err
		}
		inv, err := gw.Invoices.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated invoice #%d: %s (total %s)\n", inv.ID, inv.Name, inv.Amount.StringFixed(2))
		return nil
	}),
}

var invoiceSendCmd = &cobra.Command{
	Use:   "send [invoice-id]",
	Short: "Mark an invoice as sent",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		inv, err := gw.Invoices.MarkSent(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📤 Invoice #%d marked as sent: %s\n", inv.ID, inv.Name)
		return nil
	}),
}

var invoicePaidCmd = &cobra.Command{
	Use:   "paid [invoice-id]",
	Short: "Mark an invoice as paid",
	Long:  "Mark an invoice as paid on --on (default today). --on none clears the payment date.",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		on, _ := cmd.Flags().GetString("on")

		var paymentDate *time.Time
		if on != "none" {
			day, err := parser.ParseDate(on, time.Now())
			if err != nil {
				return checkDraft(cmd, forms.ValidationFailure{"payment_date": "Payment date is invalid"})
			}
			paymentDate = &day
		}

		inv, err := gw.Invoices.MarkPaid(cmd.Context(), args[0], paymentDate)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "💰 Invoice #%d marked as paid (%s): %s\n", inv.ID, dayOrDash(inv.PaymentDate), inv.Name)
		return nil
	}),
}

var invoiceRemoveCmd = &cobra.Command{
	Use:     "rm [invoice-id]",
	Aliases: []string{"delete"},
	Short:   "Delete an invoice",
	Args:    cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		if err := gw.Invoices.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted invoice #%s\n", args[0])
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{invoiceAddCmd, invoiceUpdateCmd} {
		c.Flags().StringP("client", "c", "", "Client ID")
		c.Flags().StringP("project", "p", "", "Project ID")
		c.Flags().String("due", "", "Due date (yyyy-mm-dd, dd/mm/yyyy, tomorrow, 2 weeks)")
		c.Flags().StringP("status", "s", "", "Status: draft|sent|paid|overdue")
		c.Flags().String("paid-on", "", "Payment date, used when status is paid")
		c.Flags().StringArray("item", nil, `Line item as "description=amount" (repeatable)`)
	}
	invoiceAddCmd.Flags().BoolP("interactive", "i", false, "Open the interactive invoice form")
	invoicePaidCmd.Flags().String("on", "today", "Payment date, or none")

	invoiceCmd.AddCommand(invoiceListCmd, invoiceShowCmd, invoiceAddCmd, invoiceUpdateCmd,
		invoiceSendCmd, invoicePaidCmd, invoiceRemoveCmd)
}
