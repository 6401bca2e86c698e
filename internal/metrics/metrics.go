// Package metrics exposes request and domain counters through the
// OpenTelemetry Prometheus exporter.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

var (
	routeKey  = attribute.Key("http.route")
	methodKey = attribute.Key("http.method")
	statusKey = attribute.Key("http.status_code")
)

// NewExporter builds the Prometheus exporter and installs it as the
// global meter provider. Serve it with exporter.ServeHTTP.
func NewExporter() (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, err
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// Instruments groups the service's instruments. A nil *Instruments records
// nothing.
type Instruments struct {
	completed metric.Int64Counter
	latency   metric.Float64ValueRecorder

	articlesCreated metric.Int64Counter
	commentsAdded   metric.Int64Counter
	likesToggled    metric.Int64Counter
}

func New(meter metric.Meter) *Instruments {
	m := metric.Must(meter)

	return &Instruments{
		completed: m.NewInt64Counter(
			"http_server_completed_count",
			metric.WithDescription("Count of completed requests, by route, HTTP method and response status"),
		),
		latency: m.NewFloat64ValueRecorder(
			"http_server_latency_ms",
			metric.WithDescription("Request latency in milliseconds"),
		),
		articlesCreated: m.NewInt64Counter(
			"blog_articles_created_total",
			metric.WithDescription("Articles created"),
		),
		commentsAdded: m.NewInt64Counter(
			"blog_comments_added_total",
			metric.WithDescription("Comments added"),
		),
		likesToggled: m.NewInt64Counter(
			"blog_likes_toggled_total",
			metric.WithDescription("Like toggles, by resulting state"),
		),
	}
}

// Middleware counts and times every request by its route pattern.
func (m *Instruments) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)

			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		labels := []attribute.KeyValue{
			routeKey.String(route),
			methodKey.String(r.Method),
			statusKey.Int(ww.Status()),
		}
		m.completed.Add(r.Context(), 1, labels...)
		m.latency.Record(r.Context(), float64(time.Since(start).Microseconds())/1000, labels...)
	})
}

func (m *Instruments) ArticleCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.articlesCreated.Add(ctx, 1)
}

func (m *Instruments) CommentAdded(ctx context.Context) {
	if m == nil {
		return
	}
	m.commentsAdded.Add(ctx, 1)
}

func (m *Instruments) LikeToggled(ctx context.Context, liked bool) {
	if m == nil {
		return
	}
	m.likesToggled.Add(ctx, 1, attribute.Bool("liked", liked))
}
