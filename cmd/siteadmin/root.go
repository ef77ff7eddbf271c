package main

import (
	"context"
	"time"

	"github.com/serpstrategist/site/internal/config"
	"github.com/serpstrategist/site/internal/db"
	"github.com/serpstrategist/site/internal/logging"
	"github.com/serpstrategist/site/internal/waitlist"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// globalFlags 覆盖环境变量中的同名配置。
type globalFlags struct {
	databasePath string
	backend      string
	jsonOutput   bool
}

// newRootCmd represents the base command
func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "siteadmin",
		Short: "Operator tooling for the SERP Strategist site",
		Long: `siteadmin runs maintenance tasks against the same database and waitlist
backend the server uses. Configuration is read from the environment (and .env).

Examples:
  siteadmin migrate
  siteadmin seed
  siteadmin subscribers list --json
  siteadmin posts publish <id>
  siteadmin slug "Ten SERP Features Worth Tracking"`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.Load()
			logging.SetupWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "console")
		},
	}

	root.PersistentFlags().StringVar(&flags.databasePath, "database-path", "", "SQLite file path (overrides DATABASE_PATH)")
	root.PersistentFlags().StringVar(&flags.backend, "waitlist-backend", "", "Waitlist backend: auto, kv, sql or file (overrides WAITLIST_BACKEND)")
	root.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newMigrateCmd(flags),
		newSeedCmd(flags),
		newSubscribersCmd(flags),
		newPostsCmd(flags),
		newSlugCmd(),
	)
	return root
}

func (f *globalFlags) config() config.AppConfig {
	cfg := config.Load()
	if f.databasePath != "" {
		cfg.DatabaseDriver = "sqlite"
		cfg.DatabasePath = f.databasePath
	}
	if f.backend != "" {
		cfg.WaitlistBackend = f.backend
	}
	return cfg
}

// openDatabase 打开连接池并完成迁移，调用方负责 db.Close。
func (f *globalFlags) openDatabase() (*gorm.DB, config.AppConfig, error) {
	cfg := f.config()
	gdb, err := db.Open(db.Options{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN(),
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
		LogLevel:     logger.Error,
	})
	return gdb, cfg, err
}

func (f *globalFlags) openWaitlist(ctx context.Context, gdb *gorm.DB, cfg config.AppConfig) (*waitlist.Service, error) {
	repo, err := waitlist.Select(ctx, waitlist.Options{
		Backend:      cfg.WaitlistBackend,
		KVURL:        cfg.KVURL,
		FilePath:     cfg.WaitlistFile,
		ProbeTimeout: 2 * time.Second,
	}, gdb)
	if err != nil {
		return nil, err
	}
	return waitlist.NewService(repo), nil
}
