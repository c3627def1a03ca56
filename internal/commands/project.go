package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/gateway"
	"github.com/apper-apps/clientflow-continuous/internal/models"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage projects",
}

var projectListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List projects",
	Args:    cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		projects, err := gw.Projects.List(cmd.Context())
		if err != nil {
			return err
		}
		clients, err := gw.Clients.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(projects) == 0 {
			fmt.Fprintln(w, "No projects found. Use 'clientflow project add --name ... --client ...' to create one.")
			return nil
		}

		fmt.Fprintf(w, "%-5s %-28s %-22s %-10s %12s %-10s %s\n", "ID", "NAME", "CLIENT", "STATUS", "BUDGET", "START", "END")
		rule(w, 100)
		for _, p := range projects {
			fmt.Fprintf(w, "%-5d %-28s %-22s %-10s %12s %-10s %s\n",
				p.ID,
				truncate(p.Name, 28),
				truncate(models.NameByID(clients, p.ClientID, "Client"), 22),
				orDash(p.Status),
				moneyOrDash(p.Budget),
				dayOrDash(p.StartDate),
				dayOrDash(p.EndDate))
		}
		return nil
	}),
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		p, err := gw.Projects.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		clients, err := gw.Clients.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "📁 Project #%d: %s\n", p.ID, p.Name)
		printField(w, "Client", models.NameByID(clients, p.ClientID, "Client"))
		printField(w, "Status", orDash(p.Status))
		printField(w, "Budget", moneyOrDash(p.Budget))
		printField(w, "Start", dayOrDash(p.StartDate))
		printField(w, "End", dayOrDash(p.EndDate))
		return nil
	}),
}

func projectDraftFromFlags(cmd *cobra.Command, d forms.ProjectDraft) forms.ProjectDraft {
	d.Name = changed(cmd, "name", d.Name)
	d.ClientID = changed(cmd, "client", d.ClientID)
	d.Budget = changed(cmd, "budget", d.Budget)
	d.Status = changed(cmd, "status", d.Status)
	d.StartDate = changed(cmd, "start", d.StartDate)
	d.EndDate = changed(cmd, "end", d.EndDate)
	return d
}

var projectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		draft := projectDraftFromFlags(cmd, forms.ProjectDraft{})
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		input, err := draft.Build()
		if err != nil {
			return err
		}
		p, err := gw.Projects.Create(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created project #%d: %s\n", p.ID, p.Name)
		return nil
	}),
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update [project-id]",
	Short: "Update a project",
	Long:  "Update a project. Only the given flags change; pass an empty value to clear an optional field.",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		current, err := gw.Projects.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		draft := projectDraftFromFlags(cmd, forms.DraftFromProject(*current))
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		patch, err := draft.BuildPatch()
		if err != nil {
			return err
		}
		p, err := gw.Projects.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated project #%d: %s\n", p.ID, p.Name)
		return nil
	}),
}

var projectRemoveCmd = &cobra.Command{
	Use:     "rm [project-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a project",
	Args:    cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		if err := gw.Projects.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted project #%s\n", args[0])
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{projectAddCmd, projectUpdateCmd} {
		c.Flags().StringP("name", "n", "", "Project name")
		c.Flags().StringP("client", "c", "", "Client ID")
		c.Flags().StringP("budget", "b", "", "Budget")
		c.Flags().StringP("status", "s", "", "Status: planning|active|on-hold|completed")
		c.Flags().String("start", "", "Start date (yyyy-mm-dd, dd/mm/yyyy, today, 3 days)")
		c.Flags().String("end", "", "End date (yyyy-mm-dd, dd/mm/yyyy, today, 3 days)")
	}

	projectCmd.AddCommand(projectListCmd, projectShowCmd, projectAddCmd, projectUpdateCmd, projectRemoveCmd)
}
