package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

var (
	tracer = otel.Tracer("internal/storage/mq")
	// kTracer creates produce and consume spans and carries the trace
	// context in record headers.
	kTracer = kotel.NewTracer(
		kotel.TracerPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		)),
	)
)
