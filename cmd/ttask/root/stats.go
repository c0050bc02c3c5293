package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task statistics",
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

			user, err := env.client.Me(ctx)
			if err != nil {
				return err
			}
			stats, err := env.client.GetStatistics(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", user.Username)
			fmt.Fprintf(out, "  total:        %d\n", stats.Total)
			fmt.Fprintf(out, "  todo:         %d\n", stats.Todo)
			fmt.Fprintf(out, "  in progress:  %d\n", stats.InProgress)
			fmt.Fprintf(out, "  completed:    %d\n", stats.Completed)
			fmt.Fprintf(out, "  overdue:      %d\n", stats.Overdue)
			return nil
		},
	}
}
