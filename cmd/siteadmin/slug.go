package main

import (
	"fmt"
	"strings"

	"github.com/serpstrategist/site/internal/db"
	"github.com/spf13/cobra"
)

func newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug <title>",
		Short: "Print the slug a title would receive",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), db.Slugify(strings.Join(args, " ")))
			return nil
		},
	}
}
