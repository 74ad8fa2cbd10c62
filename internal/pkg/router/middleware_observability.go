package router

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/samber/lo"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	maxLoggedBody = 32 << 10
	docsRoute     = "/v1/docs/*any"

	attrErrorKind     = attribute.Key("error.kind")
	attrInvalidFields = attribute.Key("validation.invalid_fields")
)

// matchedRoutePath is the registered pattern, e.g. "/v1/posts/:id", so
// metrics and limiter keys do not grow with every id.
func matchedRoutePath(r *http.Request) string {
	if p := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); p != "" {
		return p
	}
	return r.URL.Path
}

// outcome is what a request ended with, as seen by traces, metrics and logs.
type outcome struct {
	status  int
	bytes   int
	kind    goerror.Kind
	invalid []string
}

func outcomeOf(rec *responseRecorder) outcome {
	o := outcome{status: rec.Status(), bytes: rec.bytes}
	if rec.err == nil {
		return o
	}

	o.kind = goerror.KindOf(rec.err)
	if o.kind == goerror.KindValidation {
		var gerr *goerror.Error
		if errors.As(rec.err, &gerr) {
			o.invalid = lo.Keys(gerr.Details())
			slices.Sort(o.invalid)
		}
	}
	return o
}

func (o outcome) attributes(method, route string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(method),
		semconv.HTTPRouteKey.String(route),
		semconv.HTTPResponseStatusCodeKey.Int(o.status),
	}
	if o.status >= http.StatusBadRequest {
		attrs = append(attrs, attrErrorKind.String(o.kind.String()))
	}
	return attrs
}

func (o outcome) logAttrs() []any {
	attrs := []any{"status", o.status, "bytes", o.bytes}
	if o.status >= http.StatusBadRequest {
		attrs = append(attrs, "error_kind", o.kind.String())
	}
	if len(o.invalid) > 0 {
		attrs = append(attrs, "invalid_fields", o.invalid)
	}
	return attrs
}

// peekBody returns up to maxLoggedBody bytes of the request body decoded as
// JSON, leaving the body intact for the handler. Non JSON bodies are not
// logged.
func peekBody(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}

	var v any
	if json.Unmarshal(head, &v) != nil {
		return nil
	}
	return v
}

type httpMetrics struct {
	requests   metric.Int64Counter
	duration   metric.Float64Histogram
	rejections metric.Int64Counter
}

func newHTTPMetrics(meter metric.Meter, logger *slog.Logger) httpMetrics {
	var m httpMetrics
	var err error

	if m.requests, err = meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served")); err != nil {
		logger.Warn("http request counter disabled", "error", err)
	}
	if m.duration, err = meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms")); err != nil {
		logger.Warn("http duration histogram disabled", "error", err)
	}
	if m.rejections, err = meter.Int64Counter("http.server.validation_failures",
		metric.WithDescription("Requests rejected by input validation")); err != nil {
		logger.Warn("validation failure counter disabled", "error", err)
	}
	return m
}

// middlewareObservability opens a server span for the request, continuing
// the caller's trace when one is propagated, and emits one log line and one
// set of measurements once the response is written.
//
// Requests answered below 400 log at info, the rest at warn. Unknown
// failures are logged at error by the translator, not here.
func middlewareObservability(ins instrument.Instrumentation, logger *slog.Logger) Middleware {
	if ins == nil {
		ins = instrument.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}

	tracer := ins.Tracer("http.server")
	metrics := newHTTPMetrics(ins.Meter("http.server"), logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.UserAgentOriginal(r.UserAgent()),
					semconv.ClientAddress(clientIP(r)),
				),
			)
			defer span.End()

			var body any
			if route != docsRoute {
				body = peekBody(r)
			}

			rec := newResponseRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			o := outcomeOf(rec)
			attrs := o.attributes(r.Method, route)
			elapsed := float64(time.Since(start).Microseconds()) / 1e3

			span.SetAttributes(attrs...)
			if len(o.invalid) > 0 {
				span.SetAttributes(attrInvalidFields.StringSlice(o.invalid))
			}
			switch {
			case o.status >= http.StatusInternalServerError:
				if rec.err != nil {
					span.RecordError(rec.err)
				}
				span.SetStatus(codes.Error, http.StatusText(o.status))
			case rec.err != nil:
				span.AddEvent("request rejected", trace.WithAttributes(attrErrorKind.String(o.kind.String())))
			}

			set := metric.WithAttributes(attrs...)
			if metrics.requests != nil {
				metrics.requests.Add(ctx, 1, set)
			}
			if metrics.duration != nil {
				metrics.duration.Record(ctx, elapsed, set)
			}
			if metrics.rejections != nil && o.kind == goerror.KindValidation {
				metrics.rejections.Add(ctx, 1, metric.WithAttributes(
					semconv.HTTPRouteKey.String(route),
					attrInvalidFields.StringSlice(o.invalid),
				))
			}

			level := slog.LevelInfo
			if o.status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, r.Method+" "+route, append([]any{
				"uri", r.RequestURI,
				"latency_ms", elapsed,
				"body", body,
			}, o.logAttrs()...)...)
		})
	}
}
