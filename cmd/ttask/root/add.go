package root

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/models"
)

func newAddCmd() *cobra.Command {
	var projectID int64
	var priority string
	var due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task without opening the UI",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("title cannot be empty")
			}

			in := api.TaskCreate{Title: title}
			if projectID != 0 {
				in.Project = &projectID
			}
			if priority != "" {
				p := models.Priority(priority)
				if !p.IsValid() {
					return fmt.Errorf("invalid priority %q", priority)
				}
				in.Priority = p
			}
			if due != "" {
				d, err := time.ParseInLocation("2006-01-02", due, time.Local)
				if err != nil {
					return fmt.Errorf("invalid due date %q, want YYYY-MM-DD", due)
				}
				in.DueDate = &d
			}

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
			t, err := env.client.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created #%d %s\n", t.ID, t.Title)
			return nil
		},
	}

	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Project ID")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority (none|low|medium|high|urgent)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	return cmd
}
