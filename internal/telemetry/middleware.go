package telemetry

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the configuration for the tracing middleware
type Config struct {
	ServiceName string
	Skip        func(*fiber.Ctx) bool
}

// DefaultConfig skips probes and the metrics scrape endpoint
func DefaultConfig() Config {
	return Config{
		ServiceName: "leadmaps-web",
		Skip: func(c *fiber.Ctx) bool {
			switch c.Path() {
			case "/healthz", "/v1/liveness", "/v1/readiness", "/metrics":
				return true
			}
			return false
		},
	}
}

// New returns a tracing middleware for Fiber. The request span is stored in the
// user context so services can open child spans.
func New(config ...Config) fiber.Handler {
	cfg := DefaultConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skip != nil && cfg.Skip(c) {
			return c.Next()
		}

		start := time.Now()
		method := c.Method()

		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := otel.Tracer(cfg.ServiceName).Start(ctx, method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethodKey.String(method),
				semconv.HTTPTargetKey.String(c.OriginalURL()),
				semconv.HTTPUserAgentKey.String(string(c.Request().Header.UserAgent())),
			),
		)
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		span.SetName(method + " " + route)
		span.SetAttributes(
			semconv.HTTPStatusCodeKey.Int(status),
			semconv.HTTPRouteKey.String(route),
		)
		if err != nil {
			span.RecordError(err)
		}

		attrs := metric.WithAttributes(
			attribute.String("method", method),
			attribute.String("route", route),
			attribute.String("status", strconv.Itoa(status)),
		)
		if httpRequestsTotal != nil {
			httpRequestsTotal.Add(ctx, 1, attrs)
		}
		if httpRequestDuration != nil {
			httpRequestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		}

		return err
	}
}
