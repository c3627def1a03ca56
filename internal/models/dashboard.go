package models

import "github.com/shopspring/decimal"

// DashboardSummary holds the aggregate counters shown on the dashboard.
type DashboardSummary struct {
	TotalClients   int64           `json:"total_clients"`
	ActiveProjects int64           `json:"active_projects"`
	PendingTasks   int64           `json:"pending_tasks"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	CompletedTasks int64           `json:"completed_tasks"`
	OverdueItems   int64           `json:"overdue_items"`
}
