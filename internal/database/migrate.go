package database

import (
	"context"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"

	"gorm.io/gorm"
)

func models() []any {
	return []any{
		&domain.User{},
		&domain.Role{},
		&domain.Permission{},
		&domain.Filter{},
		&domain.Report{},
	}
}

func Migrate(db *gorm.DB) error {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "migrate", time.Since(start))
	}()
	if err := db.AutoMigrate(models()...); err != nil {
		observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "error")
		return err
	}
	observability.RecordDatabaseStartupEvent(context.Background(), "migrate", "success")
	return nil
}

// TableStatus reports whether a migrated table exists.
type TableStatus struct {
	Table  string `json:"table"`
	Exists bool   `json:"exists"`
}

func Status(db *gorm.DB) ([]TableStatus, error) {
	out := make([]TableStatus, 0, len(models()))
	for _, m := range models() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		out = append(out, TableStatus{
			Table:  stmt.Schema.Table,
			Exists: db.Migrator().HasTable(m),
		})
	}
	return out, nil
}
