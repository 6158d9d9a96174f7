package observability

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/vlog_backend/pkg/metrics"
)

const (
	tracerName = "github.com/Alijeyrad/vlog_backend/pkg/observability"
)

// FiberMiddleware traces each request. It only records spans and the OTel
// in-flight gauge; the Prometheus HTTP series come from HTTPMetrics so they
// exist whether or not tracing is on.
func FiberMiddleware() fiber.Handler {
	tracer := otel.Tracer(tracerName)
	meter := otel.Meter(tracerName)

	inFlight, _ := meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	)

	return func(c fiber.Ctx) error {
		// Extract trace context from incoming request headers
		ctx := otel.GetTextMapPropagator().Extract(
			c.Context(),
			propagation.HeaderCarrier(c.GetReqHeaders()),
		)

		method := c.Method()
		ctx, span := tracer.Start(ctx, method+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", method),
				attribute.String("http.url", string(c.Request().URI().FullURI())),
				attribute.String("http.scheme", c.Protocol()),
				attribute.String("net.host.name", c.Hostname()),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
				attribute.String("http.client_ip", c.IP()),
			),
		)
		defer span.End()

		c.SetContext(ctx)

		// Add trace ID to response headers for client correlation
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-Id", span.SpanContext().TraceID().String())
		}

		methodAttr := metric.WithAttributes(attribute.String("http.method", method))
		inFlight.Add(ctx, 1, methodAttr)
		start := time.Now()

		err := c.Next()

		elapsed := time.Since(start)
		inFlight.Add(ctx, -1, methodAttr)

		// The matched route is only known after routing.
		route := c.Route().Path
		span.SetName(method + " " + route)

		statusCode := statusOf(c, err)

		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", statusCode),
			attribute.Float64("http.duration_ms", float64(elapsed.Microseconds())/1000),
		)

		if statusCode >= 500 {
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(statusCode))
			if err != nil {
				span.RecordError(err)
			}
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}

// HTTPMetrics records the request counter and latency histogram in
// pkg/metrics. The route label is the registered pattern, never the raw
// path, so slugs and ids do not explode cardinality.
func HTTPMetrics() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		method, route := c.Method(), c.Route().Path
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusOf(c, err))).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
		return err
	}
}

// statusOf is the status the error handler will send for err.
func statusOf(c fiber.Ctx, err error) int {
	code := c.Response().StatusCode()
	if err == nil {
		return code
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if code < fiber.StatusBadRequest {
		return fiber.StatusInternalServerError
	}
	return code
}
