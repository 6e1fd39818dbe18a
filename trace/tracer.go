// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/trace"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/countervm/consts"
)

const (
	exportTimeout = 10 * time.Second
	// Must outlast [exportTimeout] so a pending export is not cut off.
	shutdownTimeout = 15 * time.Second

	DefaultEndpoint = "http://localhost:9411/api/v2/spans"
)

// Config selects where processor and RPC spans go. Spans are dropped
// unless [Enabled] is set.
type Config struct {
	Enabled bool `json:"enabled"`

	// Zipkin span collector. Defaults to [DefaultEndpoint].
	Endpoint string `json:"endpoint"`

	// Fraction of traces kept, clamped to [0, 1].
	TraceSampleRate float64 `json:"traceSampleRate"`

	// Name of the tracer, the service name reported to zipkin and the
	// version attribute. Empty values fall back to the node's own.
	AppName string `json:"appName"`
	Agent   string `json:"agent"`
	Version string `json:"version"`
}

// withDefaults fills every empty field of a copy of [c].
func (c Config) withDefaults() Config {
	if len(c.Endpoint) == 0 {
		c.Endpoint = DefaultEndpoint
	}
	if len(c.AppName) == 0 {
		c.AppName = consts.Name
	}
	if len(c.Agent) == 0 {
		c.Agent = consts.Name
	}
	if len(c.Version) == 0 {
		c.Version = consts.Version.String()
	}
	return c
}

type zipkinTracer struct {
	oteltrace.Tracer

	provider *sdktrace.TracerProvider
}

// Close flushes spans still buffered by the batcher.
func (z *zipkinTracer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return z.provider.Shutdown(ctx)
}

// New returns a tracer batching spans to zipkin, or [Noop] when [config] is
// nil or disabled.
func New(config *Config) (trace.Tracer, error) {
	if config == nil || !config.Enabled {
		return Noop(), nil
	}
	cfg := config.withDefaults()

	exporter, err := zipkin.New(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	service := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(cfg.Agent),
		attribute.String("version", cfg.Version),
	)
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithExportTimeout(exportTimeout)),
		sdktrace.WithResource(service),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.TraceSampleRate)),
	)
	return &zipkinTracer{
		Tracer:   provider.Tracer(cfg.AppName),
		provider: provider,
	}, nil
}
