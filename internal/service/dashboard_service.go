package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/domain"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/listing"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
)

const (
	ListingUsers   = "users"
	ListingFilters = "filters"
	ListingReports = "reports"
)

var ErrUnknownListing = errors.New("unknown listing")

// NewListingDefinitions returns the users, filters and reports listings in
// dashboard order. Page sizes come from configuration.
func NewListingDefinitions(cfg *config.Config) ([]*listing.Definition, error) {
	size := listing.WithPageSize(listing.PageSizeConfig{
		Default: cfg.ListingDefaultPageSize,
		Max:     cfg.ListingMaxPageSize,
	})
	users, err := listing.NewDefinition(ListingUsers, []listing.SortAttribute{
		{Name: "id", Column: "users.id"},
		{Name: "email", Column: "users.email"},
		{Name: "role", Column: "users.role"},
		{Name: "last_seen", Column: "users.last_seen"},
		{Name: "sign_in_count", Column: "users.sign_in_count"},
		{Name: "current_sign_in_ip", Column: "users.current_sign_in_ip"},
		{Name: "updated_at", Column: "users.updated_at"},
	}, listing.Sort{Attribute: "updated_at", Direction: listing.Desc},
		size, listing.WithView("user_listing"), listing.WithTieBreaker("users.id"))
	if err != nil {
		return nil, err
	}
	filters, err := listing.NewDefinition(ListingFilters, []listing.SortAttribute{
		{Name: "title", Column: "filters.title"},
		{Name: "description", Column: "filters.description"},
		{Name: "type", Column: "filters.filter_type"},
		{Name: "cdm_user_count", Column: "filters.cdm_user_count"},
		{Name: "author", Column: "users.email"},
		{Name: "created", Column: "filters.created_at"},
		{Name: "updated", Column: "filters.updated_at"},
	}, listing.Sort{Attribute: "updated", Direction: listing.Desc},
		size, listing.WithView("filters/listing"), listing.WithTieBreaker("filters.id"))
	if err != nil {
		return nil, err
	}
	reports, err := listing.NewDefinition(ListingReports, []listing.SortAttribute{
		{Name: "title", Column: "reports.title"},
		{Name: "description", Column: "reports.description"},
		{Name: "author", Column: "users.email"},
		{Name: "created", Column: "reports.created_at"},
		{Name: "updated", Column: "reports.updated_at"},
	}, listing.Sort{Attribute: "updated", Direction: listing.Desc},
		size, listing.WithView("reports/listing"), listing.WithTieBreaker("reports.id"))
	if err != nil {
		return nil, err
	}
	return []*listing.Definition{users, filters, reports}, nil
}

type DashboardService struct {
	defs       []*listing.Definition
	userRepo   repository.UserRepository
	filterRepo repository.FilterRepository
	reportRepo repository.ReportRepository
	tracer     trace.Tracer
}

func NewDashboardService(cfg *config.Config, userRepo repository.UserRepository, filterRepo repository.FilterRepository, reportRepo repository.ReportRepository) (*DashboardService, error) {
	defs, err := NewListingDefinitions(cfg)
	if err != nil {
		return nil, fmt.Errorf("listing definitions: %w", err)
	}
	return &DashboardService{
		defs:       defs,
		userRepo:   userRepo,
		filterRepo: filterRepo,
		reportRepo: reportRepo,
		tracer:     observability.Tracer("dashboard"),
	}, nil
}

func (s *DashboardService) Definitions() []*listing.Definition { return s.defs }

func (s *DashboardService) definition(name string) (*listing.Definition, error) {
	for _, d := range s.defs {
		if d.Name() == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownListing, name)
}

func (s *DashboardService) Users(ctx context.Context, values url.Values) (listing.Result[domain.User], error) {
	def, err := s.definition(ListingUsers)
	if err != nil {
		return listing.Result[domain.User]{}, err
	}
	return buildListing(ctx, s.tracer, def, s.userRepo.ListingSource(), values)
}

func (s *DashboardService) Filters(ctx context.Context, values url.Values) (listing.Result[domain.Filter], error) {
	def, err := s.definition(ListingFilters)
	if err != nil {
		return listing.Result[domain.Filter]{}, err
	}
	return buildListing(ctx, s.tracer, def, s.filterRepo.ListingSource(), values)
}

func (s *DashboardService) Reports(ctx context.Context, values url.Values) (listing.Result[domain.Report], error) {
	def, err := s.definition(ListingReports)
	if err != nil {
		return listing.Result[domain.Report]{}, err
	}
	return buildListing(ctx, s.tracer, def, s.reportRepo.ListingSource(), values)
}

// Build dispatches by listing name for callers that render results
// generically.
func (s *DashboardService) Build(ctx context.Context, name string, values url.Values) (any, error) {
	switch name {
	case ListingUsers:
		return s.Users(ctx, values)
	case ListingFilters:
		return s.Filters(ctx, values)
	case ListingReports:
		return s.Reports(ctx, values)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownListing, name)
	}
}

func buildListing[T any](ctx context.Context, tracer trace.Tracer, def *listing.Definition, src listing.Source[T], values url.Values) (listing.Result[T], error) {
	ctx, span := tracer.Start(ctx, "listing.build", trace.WithAttributes(attribute.String("listing.name", def.Name())))
	defer span.End()

	start := time.Now()
	res, err := listing.Build(ctx, def, src, values)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "listing build failed")
		observability.RecordListingRequestDuration(ctx, def.Name(), "error", time.Since(start))
		return res, err
	}
	observability.RecordListingRequestDuration(ctx, def.Name(), "success", time.Since(start))
	observability.RecordListingPageSize(ctx, def.Name(), res.PageSize)
	if res.PageClamped {
		observability.RecordListingPageClamp(ctx, def.Name())
	}
	span.SetAttributes(
		attribute.Int64("listing.total", res.Total),
		attribute.Int("listing.page", res.Page),
		attribute.Int("listing.page_size", res.PageSize),
		attribute.String("listing.sort", res.Sort.Attribute+" "+string(res.Sort.Direction)),
	)
	return res, nil
}
