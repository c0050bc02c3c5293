package root

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cone387/ttask/internal/api"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}
	cmd.AddCommand(
		newTagListCmd(),
		newTagAddCmd(),
		newTagRenameCmd(),
		newTagRmCmd(),
	)
	return cmd
}

func newTagListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print all tags",
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
			tags, err := env.client.ListTags(ctx)
			if err != nil {
				return err
			}
			for _, t := range tags {
				line := fmt.Sprintf("#%d %s", t.ID, t.Name)
				if t.Color != "" {
					line += " " + t.Color
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newTagAddCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
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
			tag, err := env.client.CreateTag(ctx, api.TagInput{Name: args[0], Color: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created tag #%d %s\n", tag.ID, tag.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "Hex color, e.g. #ff8800")

	return cmd
}

func newTagRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tag id %q", args[0])
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
			tag, err := env.client.UpdateTag(ctx, id, api.TagInput{Name: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "renamed tag #%d to %s\n", tag.ID, tag.Name)
			return nil
		},
	}
}

func newTagRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid tag id %q", args[0])
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
			if err := env.client.DeleteTag(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted tag #%d\n", id)
			return nil
		},
	}
}
