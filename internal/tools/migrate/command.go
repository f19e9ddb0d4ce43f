package migrate

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/tools/common"
)

type options struct {
	envFile string
	timeout time.Duration
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tooling",
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")

	cmd.AddCommand(
		newCommand(opts, "up", "Apply schema migrations", upAction),
		newCommand(opts, "status", "Show which tables exist", statusAction),
	)
	return cmd
}

func newCommand(opts *options, use, short string, action func(context.Context, *gorm.DB) ([]string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := common.Run(opts.ci, opts.timeout, "migrate", use, func(ctx context.Context) ([]string, error) {
				_, db, closeFn, err := common.LoadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				defer closeFn()
				return action(ctx, db)
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "migrate "+use, details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func upAction(ctx context.Context, db *gorm.DB) ([]string, error) {
	if err := database.Migrate(db.WithContext(ctx)); err != nil {
		return nil, err
	}
	return []string{"schema migration applied"}, nil
}

func statusAction(ctx context.Context, db *gorm.DB) ([]string, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	status, err := database.Status(db)
	if err != nil {
		return nil, err
	}
	details := make([]string, 0, len(status)+1)
	pending := 0
	for _, s := range status {
		state := "present"
		if !s.Exists {
			state = "missing"
			pending++
		}
		details = append(details, fmt.Sprintf("%s: %s", s.Table, state))
	}
	details = append(details, fmt.Sprintf("pending tables: %d", pending))
	return details, nil
}
