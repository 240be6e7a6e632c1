// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package navigation

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "rivaas.dev/navigation"

// Span and metric names.
const (
	spanNavigate    = "navigation.navigate"
	spanBind        = "navigation.bind"
	metricNavigates = "navigation_navigations_total"
	metricErrors    = "navigation_errors_total"
	metricBindings  = "navigation_bindings_total"
)

// telemetry holds the instruments of a [Manager].
type telemetry struct {
	tracer      trace.Tracer
	navigations metric.Int64Counter
	errors      metric.Int64Counter
	bindings    metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	t.navigations, err = meter.Int64Counter(
		metricNavigates,
		metric.WithDescription("Total number of navigations"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create navigation counter: %w", err)
	}

	t.errors, err = meter.Int64Counter(
		metricErrors,
		metric.WithDescription("Total number of failed navigations and bindings"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	t.bindings, err = meter.Int64Counter(
		metricBindings,
		metric.WithDescription("Total number of routes bound from a URI"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create binding counter: %w", err)
	}

	return t, nil
}

func (t *telemetry) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// finish ends span and counts the outcome on counter.
func (t *telemetry) finish(ctx context.Context, span trace.Span, counter metric.Int64Counter, err error, attrs ...attribute.KeyValue) {
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		attrs = append(attrs, attribute.String("error.code", errorCode(err)))
		t.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}

	span.SetStatus(codes.Ok, "")
	counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func errorCode(err error) string {
	var ce *ConstructionError
	if errors.As(err, &ce) {
		return ce.Code()
	}

	return "navigator_error"
}
