package common

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/database"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/tools/ui"
)

// Action is the body of a tool command. It returns human-readable detail
// lines for the progress view or CI output.
type Action func(ctx context.Context) ([]string, error)

// Run executes fn either headless (ci) or inside the interactive progress
// view, and records the outcome under tool/command.
func Run(ci bool, timeout time.Duration, tool, command string, fn Action) ([]string, error) {
	var (
		details []string
		err     error
	)
	if ci {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		details, err = fn(ctx)
		cancel()
	} else {
		details, err = ui.Run(tool+" "+command, timeout, fn)
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	observability.RecordToolCommandRun(context.Background(), tool, command, outcome)
	return details, err
}

func LoadConfig(envFile string) (*config.Config, error) {
	if err := LoadEnvFile(envFile); err != nil {
		return nil, err
	}
	return config.Load()
}

// LoadConfigDB returns the config, an open database and a close func.
func LoadConfigDB(envFile string) (*config.Config, *gorm.DB, func(), error) {
	cfg, err := LoadConfig(envFile)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return cfg, db, closeFn, nil
}
