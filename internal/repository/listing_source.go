package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
)

type SourceOption func(*sourceConfig)

type sourceConfig struct {
	scope    func(*gorm.DB) *gorm.DB
	selects  string
	preloads []string
}

// WithScope narrows the source, e.g. with a join. It runs for both the count
// and the page query.
func WithScope(scope func(*gorm.DB) *gorm.DB) SourceOption {
	return func(c *sourceConfig) { c.scope = scope }
}

// WithSelect sets the projection of the page query. Joined sources need it so
// columns of the joined table do not shadow the model's own.
func WithSelect(columns string) SourceOption {
	return func(c *sourceConfig) { c.selects = columns }
}

func WithPreload(associations ...string) SourceOption {
	return func(c *sourceConfig) { c.preloads = append(c.preloads, associations...) }
}

// GormSource is a listing.Source over one model table. Every query starts
// from a fresh statement built off the root handle, so ordering one source
// never leaks into another.
type GormSource[T any] struct {
	db     *gorm.DB
	entity string
	cfg    sourceConfig
	orders []clause.OrderByColumn
}

func NewGormSource[T any](db *gorm.DB, entity string, opts ...SourceOption) *GormSource[T] {
	s := &GormSource[T]{db: db, entity: entity}
	for _, opt := range opts {
		opt(&s.cfg)
	}
	return s
}

func (s *GormSource[T]) OrderBy(column string, dir listing.Direction) listing.Source[T] {
	orders := make([]clause.OrderByColumn, 0, len(s.orders)+1)
	orders = append(orders, s.orders...)
	orders = append(orders, clause.OrderByColumn{
		Column: clause.Column{Name: column, Raw: true},
		Desc:   dir == listing.Desc,
	})
	return &GormSource[T]{db: s.db, entity: s.entity, cfg: s.cfg, orders: orders}
}

func (s *GormSource[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.base(ctx).Count(&total).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, s.entity, "listing_count", "error")
		return 0, err
	}
	observability.RecordRepositoryOperation(ctx, s.entity, "listing_count", "success")
	return total, nil
}

func (s *GormSource[T]) Page(ctx context.Context, page, size int) ([]T, error) {
	q := s.base(ctx)
	if s.cfg.selects != "" {
		q = q.Select(s.cfg.selects)
	}
	for _, assoc := range s.cfg.preloads {
		q = q.Preload(assoc)
	}
	if len(s.orders) > 0 {
		q = q.Clauses(clause.OrderBy{Columns: s.orders})
	}
	items := make([]T, 0, size)
	if err := q.Offset(listing.Offset(page, size)).Limit(size).Find(&items).Error; err != nil {
		observability.RecordRepositoryOperation(ctx, s.entity, "listing_page", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(ctx, s.entity, "listing_page", "success")
	return items, nil
}

func (s *GormSource[T]) base(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T))
	if s.cfg.scope != nil {
		q = s.cfg.scope(q)
	}
	return q
}
