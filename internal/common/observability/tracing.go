// internal/common/observability/tracing.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
)

// Tracing owns the tracer provider lifecycle.
type Tracing struct {
	provider *tracesdk.TracerProvider
}

// Init installs a Jaeger-backed tracer provider as the global provider.
// A failed exporter setup is returned to the caller; tracing is optional
// and the caller decides whether that is fatal.
func Init(serviceName, jaegerEndpoint string) (*Tracing, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerEndpoint)))
	if err != nil {
		return nil, err
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewSchemaless(
			attribute.String("service.name", serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{provider: provider}, nil
}

// Shutdown flushes and stops the tracer provider.
func (t *Tracing) Shutdown() {
	if t == nil || t.provider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = t.provider.Shutdown(ctx)
}
