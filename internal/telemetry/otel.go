package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/ppiankov/factscope/internal/model"
)

const instrumentationName = "github.com/ppiankov/factscope"

// InitProvider installs a global tracer provider exporting over OTLP/HTTP.
// The caller shuts it down to flush pending spans.
func InitProvider(ctx context.Context, cfg model.TelemetryConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "factscope"
	}
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// OTel is a Tracer backed by OpenTelemetry
type OTel struct {
	tracer trace.Tracer
}

// NewOTel creates a tracer from a provider; nil uses the global provider
func NewOTel(tp trace.TracerProvider) *OTel {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &OTel{tracer: tp.Tracer(instrumentationName)}
}

// Start opens the root span of a run
func (o *OTel) Start(ctx context.Context, name string) (context.Context, Trace) {
	ctx, span := o.tracer.Start(ctx, name)
	return ctx, &otelTrace{tracer: o.tracer, span: span}
}

type otelTrace struct {
	tracer trace.Tracer
	span   trace.Span
}

func (t *otelTrace) ID() string {
	sc := t.span.SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

func (t *otelTrace) Annotate(key string, value any) {
	t.span.SetAttributes(toAttribute(key, value))
}

func (t *otelTrace) Stage(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, span := t.tracer.Start(ctx, "stage."+name, trace.WithAttributes(attribute.String("stage", name)))
	return ctx, func(err error) {
		endSpan(span, err)
	}
}

func (t *otelTrace) Finish(err error) {
	endSpan(t.span, err)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	default:
		return attribute.String(key, fmt.Sprint(v))
	}
}
