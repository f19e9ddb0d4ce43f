package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
)

type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	ListingSource() listing.Source[domain.Report]
}

type GormReportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &GormReportRepository{db: db} }

func (r *GormReportRepository) Create(ctx context.Context, report *domain.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, "report", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(ctx, "report", "create", "success")
	return nil
}

func (r *GormReportRepository) ListingSource() listing.Source[domain.Report] {
	return NewGormSource[domain.Report](r.db, "report",
		WithScope(joinAuthor("reports")),
		WithSelect("reports.*"),
		WithPreload("User"),
	)
}
