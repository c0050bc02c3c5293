package root

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cone387/ttask/internal/models"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
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
			t, err := env.client.GetTask(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			title := t.Title
			if t.Starred {
				title = "* " + title
			}
			fmt.Fprintf(out, "#%d %s\n", t.ID, title)
			fmt.Fprintf(out, "status:   %s\n", t.Status.Label())
			if t.Priority != models.PriorityNone {
				fmt.Fprintf(out, "priority: %s\n", t.Priority)
			}
			if t.Project != nil {
				fmt.Fprintf(out, "project:  %s\n", t.Project.Name)
			}
			if len(t.Tags) > 0 {
				names := make([]string, len(t.Tags))
				for i, tag := range t.Tags {
					names[i] = tag.Name
				}
				fmt.Fprintf(out, "tags:     %s\n", strings.Join(names, ", "))
			}
			if t.DueDate != nil {
				fmt.Fprintf(out, "due:      %s\n", t.DueDate.Format("2006-01-02"))
			}
			if t.CompletedAt != nil {
				fmt.Fprintf(out, "done:     %s\n", t.CompletedAt.Format("2006-01-02 15:04"))
			}
			if t.Description != "" {
				fmt.Fprintf(out, "\n%s\n", t.Description)
			}
			return nil
		},
	}
}
