package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
)

type FilterRepository interface {
	Create(ctx context.Context, filter *domain.Filter) error
	ListingSource() listing.Source[domain.Filter]
}

type GormFilterRepository struct{ db *gorm.DB }

func NewFilterRepository(db *gorm.DB) FilterRepository { return &GormFilterRepository{db: db} }

func (r *GormFilterRepository) Create(ctx context.Context, filter *domain.Filter) error {
	if err := r.db.WithContext(ctx).Create(filter).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "filter", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "filter", "create", "success")
	return nil
}

// ListingSource joins each filter with its author so the listing can sort
// by users.email.
func (r *GormFilterRepository) ListingSource() listing.Source[domain.Filter] {
	return NewGormSource[domain.Filter](r.db, "filter",
		WithScope(joinAuthor("filters")),
		WithSelect("filters.*"),
		WithPreload("User"),
	)
}

func joinAuthor(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN users ON users.id = " + table + ".user_id")
	}
}
