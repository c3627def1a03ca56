package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/apper-apps/clientflow-continuous/internal/forms"
	"github.com/apper-apps/clientflow-continuous/internal/gateway"
	"github.com/apper-apps/clientflow-continuous/internal/models"
	"github.com/apper-apps/clientflow-continuous/internal/parser"
)

var taskCmd = &cobra.Command{
	Use:     "task",
	Aliases: []string{"tasks"},
	Short:   "Manage tasks",
}

var taskListCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Args:    cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		tasks, err := gw.Tasks.List(cmd.Context())
		if err != nil {
			return err
		}
		projects, err := gw.Projects.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(w, "No tasks found. Use 'clientflow task add --name ... --title ...' to create one.")
			return nil
		}

		now := time.Now()
		fmt.Fprintf(w, "%-5s %-12s %-8s %-36s %-20s %-9s %s\n", "ID", "STATUS", "PRIORITY", "TITLE", "PROJECT", "TRACKED", "DUE")
		rule(w, 110)
		for _, t := range tasks {
			tracked := formatSeconds(t.TotalTime)
			if t.Running() {
				tracked += " ⏱"
			}
			var due string
			if t.DueDate != nil {
				due = parser.FormatDueDate(&t.DueDate.Time, now)
			}
			fmt.Fprintf(w, "%-5d %-12s %-8s %-36s %-20s %-9s %s\n",
				t.ID,
				orDash(t.Status),
				orDash(t.Priority),
				truncate(t.Title, 36),
				truncate(models.NameByID(projects, t.ProjectID, "Project"), 20),
				tracked,
				due)
		}
		return nil
	}),
}

var taskShowCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		t, err := gw.Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		projects, err := gw.Projects.List(cmd.Context())
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "📋 Task #%d: %s\n", t.ID, t.Title)
		printField(w, "Name", t.Name)
		printField(w, "Project", models.NameByID(projects, t.ProjectID, "Project"))
		printField(w, "Status", orDash(t.Status))
		printField(w, "Priority", orDash(t.Priority))
		printField(w, "Due", dayOrDash(t.DueDate))
		printField(w, "Tracked", formatSeconds(t.TotalTime))
		if t.Running() {
			printField(w, "Timer", fmt.Sprintf("running (log #%d)", t.ActiveTimer.ID))
		}
		return nil
	}),
}

func taskDraftFromFlags(cmd *cobra.Command, d forms.TaskDraft) forms.TaskDraft {
	d.Name = changed(cmd, "name", d.Name)
	d.Title = changed(cmd, "title", d.Title)
	d.Priority = changed(cmd, "priority", d.Priority)
	d.Status = changed(cmd, "status", d.Status)
	d.DueDate = changed(cmd, "due", d.DueDate)
	d.ProjectID = changed(cmd, "project", d.ProjectID)
	return d
}

var taskAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a task",
	Args:  cobra.NoArgs,
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		draft := taskDraftFromFlags(cmd, forms.TaskDraft{})
		if draft.Name == "" {
			draft.Name = draft.Title
		}
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		input, err := draft.Build()
		if err != nil {
			return err
		}
		t, err := gw.Tasks.Create(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created task #%d: %s\n", t.ID, t.Title)
		return nil
	}),
}

var taskUpdateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long:  "Update a task. Only the given flags change. Tracked time and timers are not touched.",
	Args:  cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		current, err := gw.Tasks.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		draft := taskDraftFromFlags(cmd, forms.DraftFromTask(*current))
		if err := checkDraft(cmd, draft.Validate()); err != nil {
			return err
		}

		patch, err := draft.BuildPatch()
		if err != nil {
			return err
		}
		t, err := gw.Tasks.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated task #%d: %s\n", t.ID, t.Title)
		return nil
	}),
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Change the status of a task",
	Long:  "Change the status of a task. Status is one of todo, in-progress, review, done.",
	Args:  cobra.ExactArgs(2),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		if !models.OneOf(args[1], models.TaskStatuses) {
			return checkDraft(cmd, forms.ValidationFailure{"status": "Status is invalid"})
		}

		t, err := gw.Tasks.UpdateStatus(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		icon := "↩️ "
		if t.Status == models.TaskDone {
			icon = "✅"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Task #%d is now %s: %s\n", icon, t.ID, t.Status, t.Title)
		return nil
	}),
}

var taskRemoveCmd = &cobra.Command{
	Use:     "rm [task-id]",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: withGateway(func(cmd *cobra.Command, args []string, gw *gateway.Gateway) error {
		if err := gw.Tasks.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🗑️  Deleted task #%s\n", args[0])
		return nil
	}),
}

func init() {
	for _, c := range []*cobra.Command{taskAddCmd, taskUpdateCmd} {
		c.Flags().StringP("name", "n", "", "Task name (defaults to the title on add)")
		c.Flags().StringP("title", "t", "", "Task title")
		c.Flags().String("priority", "", "Priority: low|medium|high")
		c.Flags().StringP("status", "s", "", "Status: todo|in-progress|review|done")
		c.Flags().String("due", "", "Due date (yyyy-mm-dd, dd/mm/yyyy, tomorrow, 3 days)")
		c.Flags().StringP("project", "p", "", "Project ID")
	}

	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskAddCmd, taskUpdateCmd, taskStatusCmd, taskRemoveCmd)
}
