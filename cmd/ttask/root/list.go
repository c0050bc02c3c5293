package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cone387/ttask/internal/models"
	"github.com/cone387/ttask/internal/view"
)

func newListCmd() *cobra.Command {
	var projectID int64
	var system string
	var all bool
	var today bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print tasks, for scripting",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := bootstrap()
			if err != nil {
				return err
			}
			defer env.close()
			if err := env.restoreSession(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			var tasks []models.Task
			switch {
			case today:
				tasks, err = env.client.TodayTasks(ctx)
			case projectID != 0:
				tasks, err = env.client.ListTasks(ctx, &projectID)
			case system != "":
				list := models.SystemList(system)
				if !list.IsValid() {
					return fmt.Errorf("invalid list %q, want inbox, completed or trash", system)
				}
				tasks, err = env.client.SystemList(ctx, list)
			default:
				tasks, err = env.client.SystemList(ctx, models.SystemInbox)
			}
			if err != nil {
				return err
			}

			f := view.Filters{Scope: view.ScopeUncompleted}
			if all {
				f.Scope = view.ScopeAll
			}
			tasks = view.SortTasks(f.Apply(tasks), view.Sort{By: view.SortManual})

			for _, t := range tasks {
				check := " "
				if t.Status == models.StatusCompleted {
					check = "x"
				}
				line := fmt.Sprintf("[%s] #%d %s", check, t.ID, t.Title)
				if t.Priority != models.PriorityNone {
					line += " !" + string(t.Priority)
				}
				if t.DueDate != nil {
					line += " due:" + t.DueDate.Format("2006-01-02")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Project ID")
	cmd.Flags().StringVarP(&system, "list", "l", "", "System list (inbox|completed|trash)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	cmd.Flags().BoolVarP(&today, "today", "t", false, "Tasks due or scheduled today")

	return cmd
}
