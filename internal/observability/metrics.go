package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
)

const meterName = "admin-listing-dashboards"

type AppMetrics struct {
	authLoginCounter             metric.Int64Counter
	accessTokenValidationCounter metric.Int64Counter
	authorizationCounter         metric.Int64Counter
	rbacCacheCounter             metric.Int64Counter
	middlewareValidationCounter  metric.Int64Counter
	listingReqDuration           metric.Float64Histogram
	listingPageSize              metric.Float64Histogram
	listingClampCounter          metric.Int64Counter
	repositoryOpsCounter         metric.Int64Counter
	databaseStartupCounter       metric.Int64Counter
	databaseStartupDuration      metric.Float64Histogram
	toolCommandRuns              metric.Int64Counter
	healthCheckResultCounter     metric.Int64Counter
	healthCheckDuration          metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "admin.listing.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "admin.listing.page_size"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{1, 5, 10, 20, 25, 50, 100},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	m, err := newAppMetrics(mp.Meter(meterName))
	if err != nil {
		return nil, err
	}
	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func newAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	counter := func(dst *metric.Int64Counter, name, desc string) {
		if err != nil {
			return
		}
		*dst, err = meter.Int64Counter(name, metric.WithDescription(desc))
	}
	histogram := func(dst *metric.Float64Histogram, name, unit, desc string) {
		if err != nil {
			return
		}
		opts := []metric.Float64HistogramOption{metric.WithDescription(desc)}
		if unit != "" {
			opts = append(opts, metric.WithUnit(unit))
		}
		*dst, err = meter.Float64Histogram(name, opts...)
	}

	counter(&m.authLoginCounter, "auth.login.attempts", "Login attempts by provider and status")
	counter(&m.accessTokenValidationCounter, "auth.access_token.validation.events", "Access token validation outcomes")
	counter(&m.authorizationCounter, "auth.authorization.decisions", "Ability checks by resource, action and outcome")
	counter(&m.rbacCacheCounter, "auth.rbac.permission.cache.events", "Permission cache hits, misses and singleflight sharing")
	counter(&m.middlewareValidationCounter, "http.middleware.validation.events", "CORS and body limit middleware outcomes")
	histogram(&m.listingReqDuration, "admin.listing.request.duration", "s", "Duration of listing builds in seconds")
	histogram(&m.listingPageSize, "admin.listing.page_size", "", "Effective page size of listing builds")
	counter(&m.listingClampCounter, "admin.listing.clamp.events", "Requests whose page was past the end and clamped to the last page")
	counter(&m.repositoryOpsCounter, "repository.operations", "Repository operations by entity, operation and outcome")
	counter(&m.databaseStartupCounter, "database.startup.events", "Database connect, migrate and seed outcomes")
	histogram(&m.databaseStartupDuration, "database.startup.duration", "s", "Duration of database startup phases in seconds")
	counter(&m.toolCommandRuns, "tool.command.runs", "Operator tool command runs")
	counter(&m.healthCheckResultCounter, "health.check.results", "Health dependency check outcomes")
	histogram(&m.healthCheckDuration, "health.check.duration", "s", "Duration of health dependency checks in seconds")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func currentMetrics() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordAuthLogin(ctx context.Context, provider, status string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authLoginCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("status", status),
		),
	)
}

func RecordAccessTokenValidation(ctx context.Context, outcome, source string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.accessTokenValidationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("source", source),
	))
}

func RecordAuthorizationDecision(ctx context.Context, resource, action, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.authorizationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("resource", resource),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordRBACPermissionCacheEvent(ctx context.Context, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.rbacCacheCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

func RecordMiddlewareValidationEvent(ctx context.Context, middlewareName, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.middlewareValidationCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("middleware", middlewareName),
		attribute.String("outcome", outcome),
	))
}

func RecordListingRequestDuration(ctx context.Context, listingName, status string, duration time.Duration) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.listingReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("listing", listingName),
		attribute.String("status", status),
	))
}

func RecordListingPageSize(ctx context.Context, listingName string, pageSize int) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.listingPageSize.Record(ctx, float64(pageSize), metric.WithAttributes(
		attribute.String("listing", listingName),
	))
}

func RecordListingPageClamp(ctx context.Context, listingName string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.listingClampCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("listing", listingName)))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.repositoryOpsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordDatabaseStartupEvent(ctx context.Context, phase, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.databaseStartupCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("phase", phase),
		attribute.String("outcome", outcome),
	))
}

func RecordDatabaseStartupDuration(ctx context.Context, phase string, duration time.Duration) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.databaseStartupDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("phase", phase),
	))
}

func RecordToolCommandRun(ctx context.Context, tool, command, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.toolCommandRuns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("command", command),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	m := currentMetrics()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("check", check),
	))
}
