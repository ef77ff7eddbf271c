package main

import (
	"fmt"

	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/service"
	"github.com/spf13/cobra"
)

func newPostsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Manage blog post status",
	}
	cmd.AddCommand(
		newPostStatusCmd(flags, "publish", db.PostStatusPublished),
		newPostStatusCmd(flags, "unpublish", db.PostStatusDraft),
	)
	return cmd
}

func newPostStatusCmd(flags *globalFlags, use, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: fmt.Sprintf("Set a post's status to %s", status),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, _, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			post, err := service.NewPostService(gdb).UpdateStatus(cmd.Context(), args[0], status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", post.Slug, post.Status)
			return nil
		},
	}
}
