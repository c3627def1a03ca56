package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/gateway"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show summary counters",
	Args:  cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		s, err := gw.Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "📊 Dashboard")
		rule(w, 32)
		fmt.Fprintf(w, "%-18s %12d\n", "Clients", s.TotalClients)
		fmt.Fprintf(w, "%-18s %12d\n", "Active projects", s.ActiveProjects)
		fmt.Fprintf(w, "%-18s %12d\n", "Pending tasks", s.PendingTasks)
		fmt.Fprintf(w, "%-18s %12d\n", "Completed tasks", s.CompletedTasks)
		fmt.Fprintf(w, "%-18s %12d\n", "Overdue items", s.OverdueItems)
		fmt.Fprintf(w, "%-18s %12s\n", "Monthly revenue", s.MonthlyRevenue.StringFixed(2))
		return nil
	}),
}
