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
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Navigator performs the actual navigation. forceLoad asks the host to
// bypass client-side routing and load the URI from the server.
type Navigator interface {
	Navigate(uri string, forceLoad bool) error
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(uri string, forceLoad bool) error

// Navigate implements [Navigator].
func (f NavigatorFunc) Navigate(uri string, forceLoad bool) error {
	return f(uri, forceLoad)
}

// URIProvider is implemented by navigators that know the current URI.
type URIProvider interface {
	URI() string
}

// Manager builds URIs for pages and routes and hands them to a [Navigator].
//
// Example:
//
//	m := navigation.MustNewManager(nav)
//	err := navigation.NavigateTo[ProductPage](m, productID)
//	err = m.NavigateToRoute(&ProductRoute{Id: productID, Tab: "history"}, false)
type Manager struct {
	nav    Navigator
	binder *Binder
	logger *slog.Logger
	tel    *telemetry
}

type managerConfig struct {
	binder         *Binder
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// ManagerOption configures a [Manager].
type ManagerOption func(*managerConfig)

// WithBinder sets the [Binder]. The default is [Default].
func WithBinder(b *Binder) ManagerOption {
	return func(c *managerConfig) {
		c.binder = b
	}
}

// WithManagerLogger sets the logger. The default discards everything.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(c *managerConfig) {
		c.logger = logger
	}
}

// WithTracerProvider sets the provider for navigation spans. The default is
// a no-op provider.
func WithTracerProvider(tp trace.TracerProvider) ManagerOption {
	return func(c *managerConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets the provider for navigation counters. The default
// is a no-op provider.
func WithMeterProvider(mp metric.MeterProvider) ManagerOption {
	return func(c *managerConfig) {
		c.meterProvider = mp
	}
}

// NewManager creates a [Manager] navigating through nav.
func NewManager(nav Navigator, opts ...ManagerOption) (*Manager, error) {
	if nav == nil {
		return nil, errors.New("navigation: navigator cannot be nil")
	}

	cfg := &managerConfig{
		binder:         defaultBinder,
		logger:         slog.New(slog.DiscardHandler),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.binder == nil {
		return nil, errors.New("navigation: binder cannot be nil")
	}
	if cfg.logger == nil {
		return nil, errors.New("navigation: logger cannot be nil")
	}

	tel, err := newTelemetry(cfg.tracerProvider, cfg.meterProvider)
	if err != nil {
		return nil, err
	}

	return &Manager{nav: nav, binder: cfg.binder, logger: cfg.logger, tel: tel}, nil
}

// MustNewManager is like [NewManager] but panics on error.
func MustNewManager(nav Navigator, opts ...ManagerOption) *Manager {
	m, err := NewManager(nav, opts...)
	if err != nil {
		panic(fmt.Sprintf("navigation.MustNewManager: %v", err))
	}

	return m
}

// Binder returns the Binder used by m.
func (m *Manager) Binder() *Binder {
	return m.binder
}

// NavigateToRoute navigates to the URI of r.
func (m *Manager) NavigateToRoute(r Route, forceLoad bool) error {
	if isNil(r) {
		return newError(ErrInvalidRoute, "route cannot be nil")
	}

	return m.navigate(r.PageType(), forceLoad, func() (string, error) {
		return m.binder.URI(r)
	})
}

// NavigateToPage navigates to page with ordered path values and a query
// parameter source (see [QueryString]).
func (m *Manager) NavigateToPage(page reflect.Type, query any, params []any, forceLoad bool) error {
	return m.navigate(page, forceLoad, func() (string, error) {
		return m.binder.URIFor(page, query, params)
	})
}

func (m *Manager) navigate(page reflect.Type, forceLoad bool, build func() (string, error)) error {
	attrs := []attribute.KeyValue{attribute.String("navigation.page", typeName(page))}
	ctx, span := m.tel.start(context.Background(), spanNavigate,
		append(attrs, attribute.Bool("navigation.force_load", forceLoad))...)

	uri, err := build()
	if err == nil {
		span.SetAttributes(attribute.String("navigation.uri", uri))
		err = m.nav.Navigate(uri, forceLoad)
	}
	m.tel.finish(ctx, span, m.tel.navigations, err, attrs...)

	if err != nil {
		m.logger.Warn("navigation failed",
			slog.String("page", typeName(page)),
			slog.String("uri", uri),
			slog.Bool("force_load", forceLoad),
			slog.Any("error", err),
		)
		return err
	}

	m.logger.Debug("navigating",
		slog.String("page", typeName(page)),
		slog.String("uri", uri),
		slog.Bool("force_load", forceLoad),
	)

	return nil
}

// NavigateTo navigates to page P with ordered path values.
func NavigateTo[P any](m *Manager, params ...any) error {
	return m.NavigateToPage(reflect.TypeFor[P](), nil, params, false)
}

// NavigateToParams navigates to page P with a path value list.
func NavigateToParams[P any](m *Manager, params []any, forceLoad bool) error {
	return m.NavigateToPage(reflect.TypeFor[P](), nil, params, forceLoad)
}

// NavigateWithQueryTo navigates to page P with query parameters and
// ordered path values. query may be a raw query string, a []Pair, a map or
// a struct.
//
// Example:
//
//	err := navigation.NavigateWithQueryTo[SearchPage](m, struct{ Term string }{"shoes"})
func NavigateWithQueryTo[P any](m *Manager, query any, params ...any) error {
	return m.NavigateToPage(reflect.TypeFor[P](), query, params, false)
}

// NavigateWithQueryToParams is like [NavigateWithQueryTo] with a path value
// list and an explicit forceLoad.
func NavigateWithQueryToParams[P any](m *Manager, query any, params []any, forceLoad bool) error {
	return m.NavigateToPage(reflect.TypeFor[P](), query, params, forceLoad)
}

// CurrentRoute binds the navigator's current URI into a new route of type
// R. The navigator must implement [URIProvider].
func CurrentRoute[R any, PR interface {
	*R
	Route
}](m *Manager) (*R, error) {
	p, ok := m.nav.(URIProvider)
	if !ok {
		return nil, newError(ErrNoCurrentURI, "navigator `%T` does not expose the current uri", m.nav)
	}
	uri := p.URI()

	r := new(R)
	page := PR(r).PageType()
	attrs := []attribute.KeyValue{attribute.String("navigation.page", typeName(page))}
	ctx, span := m.tel.start(context.Background(), spanBind,
		append(attrs, attribute.String("navigation.uri", uri))...)

	err := m.binder.SetParameters(PR(r), uri)
	m.tel.finish(ctx, span, m.tel.bindings, err, attrs...)
	if err != nil {
		m.logger.Warn("route binding failed",
			slog.String("page", typeName(page)),
			slog.String("uri", uri),
			slog.Any("error", err),
		)
		return nil, err
	}

	return r, nil
}
