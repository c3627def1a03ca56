package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Show comprehensive help for clientflow",
	Long:  `Display detailed help for all clientflow commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if target, _, err := rootCmd.Find(args); err == nil && target != rootCmd {
				_ = target.Help()
				return
			}
		}
		showCustomHelp(cmd.OutOrStdout())
	},
}

func showCustomHelp(w io.Writer) {
	fmt.Fprint(w, `
clientflow - clients, projects, tasks and invoices

COMMANDS:

  client  ls | show <id> | add | update <id> | rm <id>
    -n, --name            Client name (required)
    -e, --email           Contact email
    -c, --company         Company
    -s, --status          active|inactive

  project ls | show <id> | add | update <id> | rm <id>
    -n, --name            Project name (required)
    -c, --client          Client ID (required)
    -b, --budget          Budget
    -s, --status          planning|active|on-hold|completed
    --start, --end        Dates; end must be after start

  task    ls | show <id> | add | update <id> | status <id> <status> | rm <id>
    -t, --title           Task title (required)
    -n, --name            Task name (defaults to the title)
    -p, --project         Project ID
    --priority            low|medium|high
    -s, --status          todo|in-progress|review|done
    --due                 Due date

  invoice ls | show <id> | add | update <id> | send <id> | paid <id> | rm <id>
    -i, --interactive     Open the invoice form (add only)
    -c, --client          Client ID (required)
    -p, --project         Project ID (required)
    --due                 Due date, today or later (required)
    -s, --status          draft|sent|paid|overdue
    --paid-on             Payment date for paid invoices
    --item                "description=amount", repeatable
    --on                  Payment date for 'paid' (default today, or none)

  start <task-id>         Start tracking time on a task
    --no-ui               Start without interactive timer
  stop <task-id>          Stop the running timer of a task
  logs <task-id>          Show the time logs of a task

  dashboard               Show summary counters
  version                 Print version information
  help [command]          Show this help, or help for a command

DATES:
  yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, 3 days, in 2 weeks

ENVIRONMENT:
  CLIENTFLOW_BACKEND      apper (default) or local
  APPER_PROJECT_ID        Apper project id
  APPER_PUBLIC_KEY        Apper public key
  APPER_BASE_URL          API base URL
  APPER_TIMEOUT           Request timeout (default 15s)
  CLIENTFLOW_DB_PATH      SQLite file for the local backend
  CLIENTFLOW_ENV          prod (default), dev or local; controls logging

`)
}
