// Package otel bridges the event bus to OpenTelemetry traces.
package otel

import (
	"context"
	"sync"

	"github.com/gqlkit/sdlschema/internal/eventbus"
	"github.com/gqlkit/sdlschema/internal/events"
	"github.com/gqlkit/sdlschema/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
)

// Setup configures an OTLP/gRPC trace exporter and attaches event-bus
// subscribers that record schema builds and resolver probes as spans. If
// endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithInsecure()))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	sub := &subscriber{tracer: otel.Tracer("sdlschema")}
	sub.register()

	return tp.Shutdown, nil
}

type subscriber struct {
	tracer     trace.Tracer
	buildSpans sync.Map // correlation id -> trace.Span
}

func (s *subscriber) register() {
	eventbus.Subscribe(func(ctx context.Context, e events.BuildStart) {
		rid, _ := reqid.FromContext(ctx)
		_, span := s.tracer.Start(ctx, "schema.build")
		span.SetAttributes(
			attribute.Int("schema.definitions", e.Definitions),
			attribute.Int("schema.directives", e.Directives),
		)
		s.buildSpans.Store(rid, span)
	})

	eventbus.Subscribe(func(ctx context.Context, e events.BuildFinish) {
		rid, _ := reqid.FromContext(ctx)
		v, ok := s.buildSpans.LoadAndDelete(rid)
		if !ok {
			return
		}
		span := v.(trace.Span)
		span.SetAttributes(attribute.Int("schema.types", e.Types))
		if e.Err != nil {
			span.RecordError(e.Err)
		}
		span.End()
	})

	eventbus.Subscribe(func(ctx context.Context, e events.FieldProbe) {
		_, span := s.tracer.Start(ctx, "resolve.probe")
		span.SetAttributes(
			attribute.String("graphql.type", e.ObjectType),
			attribute.String("graphql.field", e.Field),
			attribute.String("resolve.accessor", e.Accessor),
			attribute.String("resolve.convention", e.Convention),
		)
		span.End()
	})
}
