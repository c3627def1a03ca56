package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/gateway"
	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
	"github.com/apper-apps/clientflow-continuous/internal/tui"
)

var startCmd = &cobra.Command{
	Use:   "start [task-id]",
	Short: "Start tracking time on a task",
	Long: `Start tracking time on a task. Opens the interactive timer by default, use --no-ui for a simple start.
Starting a task whose timer is already running reopens the timer.

Examples:
  clientflow start 42         # Start timer with interactive UI
  clientflow start 42 --no-ui # Start timer without UI`,
	Args: cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		ctx := cmd.Context()
		noUI, _ := cmd.Flags().GetBool("no-ui")

		log, err := gw.Tasks.StartTimer(ctx, args[0])
		if errors.Is(err, gateway.ErrTimerRunning) && !noUI {
			log, err = runningLog(ctx, gw, args[0])
		}
		if err != nil {
			return err
		}

		task, err := gw.Tasks.Get(ctx, args[0])
		if err != nil {
			return err
		}

		if noUI {
			fmt.Fprintf(cmd.OutOrStdout(), "⏱️  Started tracking time for task #%d: %s\n", task.ID, task.Title)
			fmt.Fprintf(cmd.OutOrStdout(), "Started at: %s\n", log.StartedAt.Local().Format("15:04:05"))
			return nil
		}

		return tui.RunTimer(*task, *log, func() (*models.TimeLog, error) {
			return gw.Tasks.StopTimer(ctx, args[0])
		})
	}),
}

// runningLog finds the open time log of a task.
func runningLog(ctx context.Context, gw *gateway.Gateway, taskID string) (*models.TimeLog, error) {
	task, err := gw.Tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !task.Running() {
		return nil, fmt.Errorf("task #%d: %w", task.ID, gateway.ErrNoActiveTimer)
	}

	logs, err := gw.Tasks.TimeLogs(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for i := range logs {
		if logs[i].ID == task.ActiveTimer.ID {
			return &logs[i], nil
		}
	}
	return nil, fmt.Errorf("task #%d: time log #%d not found", task.ID, task.ActiveTimer.ID)
}

var stopCmd = &cobra.Command{
	Use:   "stop [task-id]",
	Short: "Stop tracking time on a task",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		log, err := gw.Tasks.StopTimer(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		duration := time.Duration(log.Duration) * time.Second
		fmt.Fprintf(cmd.OutOrStdout(), "⏹️  Stopped tracking time for task #%d\n", log.TaskID.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Session duration: %s\n", parser.FormatDuration(duration))
		return nil
	}),
}

var logsCmd = &cobra.Command{
	Use:   "logs [task-id]",
	Short: "Show the time logs of a task",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		logs, err := gw.Tasks.TimeLogs(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintf(w, "No time logged for task #%s\n", args[0])
			return nil
		}

		now := time.Now()
		var total time.Duration
		fmt.Fprintf(w, "%-5s %-19s %-19s %s\n", "ID", "STARTED", "ENDED", "DURATION")
		rule(w, 60)
		for _, l := range logs {
			ended := "running"
			if l.EndedAt != nil {
				ended = l.EndedAt.Local().Format("2006-01-02 15:04:05")
			}
			elapsed := l.Elapsed(now)
			total += elapsed
			fmt.Fprintf(w, "%-5d %-19s %-19s %s\n",
				l.ID,
				l.StartedAt.Local().Format("2006-01-02 15:04:05"),
				ended,
				formatSeconds(int64(elapsed/time.Second)))
		}
		rule(w, 60)
		fmt.Fprintf(w, "Total: %s\n", formatSeconds(int64(total/time.Second)))
		return nil
	}),
}

func init() {
	startCmd.Flags().Bool("no-ui", false, "Start timer without interactive UI")
}
