package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/gateway"
)

var clientCmd = &cobra.Command{
	Use:     "client",
	Aliases: []string{"clients"},
	Short:   "Manage clients",
}

var clientListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List clients",
	Args:    cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		clients, err := gw.Clients.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(clients) == 0 {
			fmt.Fprintln(w, "No clients found. Use 'clientflow client add --name ...' to create one.")
			return nil
		}

		fmt.Fprintf(w, "%-5s %-28s %-28s %-20s %s\n", "ID", "NAME", "EMAIL", "COMPANY", "STATUS")
		rule(w, 90)
		for _, c := range clients {
			fmt.Fprintf(w, "%-5d %-28s %-28s %-20s %s\n",
				c.ID, truncate(c.Name, 28), truncate(c.Email, 28), truncate(c.Company, 20), orDash(c.Status))
		}
		return nil
	}),
}

var clientShowCmd = &cobra.Command{
	Use:   "show [client-id]",
	Short: "Show a client",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		c, err := gw.Clients.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "👤 Client #%d: %s\n", c.ID, c.Name)
		printField(w, "Email", orDash(c.Email))
		printField(w, "Company", orDash(c.Company))
		printField(w, "Status", orDash(c.Status))
		printField(w, "Created", dayOrDash(c.CreatedAt))
		return nil
	}),
}

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a client",
	Args:  cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		draft := forms.ClientDraft{
			Name:    changed(cmd, "name", ""),
			Email:   changed(cmd, "email", ""),
			Company: changed(cmd, "company", ""),
			Status:  changed(cmd, "status", ""),
		}
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		input, err := draft.Build()
		if err != nil {
			return err
		}
		c, err := gw.Clients.Create(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created client #%d: %s\n", c.ID, c.Name)
		return nil
	}),
}

var clientUpdateCmd = &cobra.Command{
	Use:   "update [client-id]",
	Short: "Update a client",
	Long:  "Update a client. Only the given flags change; the rest keep their current values.",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		current, err := gw.Clients.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		draft := forms.DraftFromClient(*current)
		draft.Name = changed(cmd, "name", draft.Name)
		draft.Email = changed(cmd, "email", draft.Email)
		draft.Company = changed(cmd, "company", draft.Company)
		draft.Status = changed(cmd, "status", draft.Status)
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		patch, err := draft.BuildPatch()
		if err != nil {
			return err
		}
		c, err := gw.Clients.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated client #%d: %s\n", c.ID, c.Name)
		return nil
	}),
}

var clientRemoveCmd = &cobra.Command{
	Use:     "rm [client-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a client",
	Args:    cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		if err := gw.Clients.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted client #%s\n", args[0])
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{clientAddCmd, clientUpdateCmd} {
		c.Flags().StringP("name", "n", "", "Client name")
		c.Flags().StringP("email", "e", "", "Contact email")
		c.Flags().StringP("company", "c", "", "Company")
		c.Flags().StringP("status", "s", "", "Status: active|inactive")
	}

	clientCmd.AddCommand(clientListCmd, clientShowCmd, clientAddCmd, clientUpdateCmd, clientRemoveCmd)
}
