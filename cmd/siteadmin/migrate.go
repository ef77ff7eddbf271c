package main

import (
	"fmt"

	"github.com/serpstrategist/site/internal/db"
	"github.com/spf13/cobra"
)

// newMigrateCmd 创建或更新全部表结构。db.Open 已经执行迁移，这里只负责报告结果。
func newMigrateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, cfg, err := flags.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close(gdb)

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.DatabaseDriver)
			return nil
		},
	}
}
