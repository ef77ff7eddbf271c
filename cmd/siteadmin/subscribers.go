package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/serpstrategist/site/internal/db"
	"github.com/spf13/cobra"
)

func newSubscribersCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Inspect the waitlist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every waitlist subscriber in signup order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, cfg, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			svc, err := flags.openWaitlist(cmd.Context(), gdb, cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			subscribers, err := svc.Subscribers(cmd.Context())
			if err != nil {
				return fmt.Errorf("list subscribers: %w", err)
			}
			out := cmd.OutOrStdout()
			if flags.jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"backend":     svc.Backend(),
					"total":       len(subscribers),
					"subscribers": subscribers,
				})
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "EMAIL\tSOURCE\tJOINED")
			for _, sub := range subscribers {
				fmt.Fprintf(w, "%s\t%s\t%s\n", sub.Email, sub.Source, sub.CreatedAt.Format(time.RFC3339))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d subscribers (%s backend)\n", len(subscribers), svc.Backend())
			return nil
		},
	})
	return cmd
}
