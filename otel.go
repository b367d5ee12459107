package encryptor

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// instrumentationName identifies this library to OpenTelemetry providers.
const instrumentationName = "github.com/leoh0/swift-encrypt"

const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
)

var (
	tracer = otel.Tracer(instrumentationName)
	meter  = otel.Meter(instrumentationName)

	opCounter   metric.Int64Counter
	byteCounter metric.Int64Counter
)

func init() {
	var err error
	opCounter, err = meter.Int64Counter("encryptor.operations",
		metric.WithDescription("Completed encrypt/decrypt operations."))
	if err != nil {
		otel.Handle(err)
	}
	byteCounter, err = meter.Int64Counter("encryptor.bytes",
		metric.WithUnit("By"),
		metric.WithDescription("Chunk bytes passed through encrypt/decrypt."))
	if err != nil {
		otel.Handle(err)
	}
}

// recordOp records one transform outcome. Key identifiers may appear in
// telemetry attributes elsewhere; key material never does.
func recordOp(driver, op string, n int, err error) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String("crypto.driver", driver),
		attribute.String("crypto.operation", op),
		attribute.Bool("error", err != nil),
	)
	opCounter.Add(ctx, 1, attrs)
	if err == nil {
		byteCounter.Add(ctx, int64(n), attrs)
	}
}
