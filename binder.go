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
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Binder builds URIs from routes and binds URIs back into routes.
//
// Use [New] or [MustNew] to create a configured Binder, or use the
// package-level functions ([URI], [SetParameters], [GetCurrentRoute]) which
// share a default Binder.
//
// Templates are cached per page type and definitions per (page, route)
// pair for the lifetime of the Binder. Binder is safe for concurrent use.
type Binder struct {
	cfg         *config
	templates   rcuCache[reflect.Type, *Template]
	definitions rcuCache[definitionKey, *Definition]
}

type definitionKey struct {
	page  reflect.Type
	route reflect.Type
}

// New creates a [Binder] with the given options.
//
// Example:
//
//	binder, err := navigation.New(
//	    navigation.WithTemplateSource(registry),
//	    navigation.WithConverter(navigation.EnumConverter[Tab]("overview", "history"), nil),
//	)
func New(opts ...Option) (*Binder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Binder{cfg: cfg}, nil
}

// MustNew is like [New] but panics if the configuration is invalid.
func MustNew(opts ...Option) *Binder {
	b, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("navigation.MustNew: %v", err))
	}

	return b
}

var defaultBinder = MustNew()

// Default returns the Binder used by the package-level functions.
func Default() *Binder {
	return defaultBinder
}

// Template returns the parsed template declared for page.
func (b *Binder) Template(page reflect.Type) (*Template, error) {
	return b.templates.getOrCreate(page, func() (*Template, error) {
		raw, ok := b.cfg.source.Template(page)
		if !ok {
			return nil, noTemplateError(page)
		}
		t, err := ParseTemplate(raw)
		if err != nil {
			return nil, err
		}
		b.cfg.logger.Debug("route template parsed",
			slog.String("page", typeName(page)),
			slog.String("template", raw),
		)
		return t, nil
	})
}

// Definition returns the binding shape of route type route for page.
func (b *Binder) Definition(page, route reflect.Type) (*Definition, error) {
	route = indirectType(route)
	if route == nil || route.Kind() != reflect.Struct {
		return nil, newError(ErrInvalidRoute, "route type `%s` must be a struct", typeName(route))
	}

	key := definitionKey{page: page, route: route}
	return b.definitions.getOrCreate(key, func() (*Definition, error) {
		t, err := b.Template(page)
		if err != nil {
			return nil, err
		}
		return newDefinition(page, route, t), nil
	})
}

func (b *Binder) definitionOf(r Route) (*Definition, reflect.Value, error) {
	if isNil(r) {
		return nil, reflect.Value{}, newError(ErrInvalidRoute, "route cannot be nil")
	}

	rv := reflect.ValueOf(r)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}

	d, err := b.Definition(r.PageType(), rv.Type())
	if err != nil {
		return nil, reflect.Value{}, err
	}

	return d, rv, nil
}

// RouteParameters returns the path values of r in template order. Routes
// implementing [RouteParameterProvider] supply their own.
func (b *Binder) RouteParameters(r Route) ([]any, error) {
	if p, ok := r.(RouteParameterProvider); ok {
		return p.RouteParameters(), nil
	}

	return b.DefaultRouteParameters(r)
}

// DefaultRouteParameters reads the fields of r that match template
// parameters, in template order.
func (b *Binder) DefaultRouteParameters(r Route) ([]any, error) {
	d, rv, err := b.definitionOf(r)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(d.routeFields))
	for i, f := range d.routeFields {
		values[i] = rv.FieldByIndex(f.index).Interface()
	}

	return values, nil
}

// QueryParameters returns the query parameter source of r. Routes
// implementing [QueryParameterProvider] supply their own.
func (b *Binder) QueryParameters(r Route) (any, error) {
	if p, ok := r.(QueryParameterProvider); ok {
		return p.QueryParameters(), nil
	}

	return b.DefaultQueryParameters(r)
}

// DefaultQueryParameters reads the non-nil query fields of r.
func (b *Binder) DefaultQueryParameters(r Route) ([]Pair, error) {
	d, rv, err := b.definitionOf(r)
	if err != nil {
		return nil, err
	}

	pairs := make([]Pair, 0, len(d.queryFields))
	for _, f := range d.queryFields {
		v := rv.FieldByIndex(f.index).Interface()
		if !isNil(v) {
			pairs = append(pairs, Pair{Name: f.name, Value: v})
		}
	}

	return pairs, nil
}

// URI builds the URI of r.
func (b *Binder) URI(r Route) (string, error) {
	if isNil(r) {
		return "", newError(ErrInvalidRoute, "route cannot be nil")
	}

	params, err := b.RouteParameters(r)
	if err != nil {
		return "", err
	}
	query, err := b.QueryParameters(r)
	if err != nil {
		return "", err
	}

	return b.URIFor(r.PageType(), query, params)
}

// URIFor builds a URI for page from ordered path values and a query
// parameter source (see [QueryString]). Path values are formatted with
// [ToText] and path-escaped.
func (b *Binder) URIFor(page reflect.Type, query any, params []any) (string, error) {
	t, err := b.Template(page)
	if err != nil {
		return "", err
	}

	values := make([]string, len(params))
	for i, p := range params {
		text := toText(p, b.cfg.converters)
		if i < len(t.params) && t.params[i].CatchAll {
			values[i] = escapeSegments(text)
		} else {
			values[i] = url.PathEscape(text)
		}
	}

	q, err := queryString(query, b.cfg.converters)
	if err != nil {
		return "", err
	}

	return t.Construct(values, q)
}

func escapeSegments(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}

	return strings.Join(parts, "/")
}

// SetParameters binds uri into r, which must be a non-nil pointer to a
// route struct. Only the path and query of uri are used.
//
// Every path field is set from the matching segment. Every query field is
// overwritten: with the converted value when the key is present, with true
// for a bare key, and with the zero value otherwise. Binding stops at the
// first conversion error; fields written before it keep their new values.
// With [WithValidation], the bound route is validated last.
func (b *Binder) SetParameters(r Route, uri string) error {
	rv := reflect.ValueOf(r)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return newError(ErrInvalidRoute, "route must be a non-nil pointer to a struct, got `%T`", r)
	}
	rv = rv.Elem()

	d, err := b.Definition(r.PageType(), rv.Type())
	if err != nil {
		return err
	}

	u, err := url.Parse(uri)
	if err != nil {
		return &ConstructionError{Kind: ErrPathMismatch, Message: msgPathMismatch, Value: uri, Err: err}
	}

	segments, err := d.template.matchValues(u.EscapedPath())
	if err != nil {
		return err
	}

	for _, f := range d.routeFields {
		text := segments[f.slot]
		if unescaped, err := url.PathUnescape(text); err == nil {
			text = unescaped
		}
		if err := b.setField(rv.FieldByIndex(f.index), f.field, []string{text}); err != nil {
			return err
		}
	}

	args := parseRawQuery(u.RawQuery)
	for _, f := range d.queryFields {
		target := rv.FieldByIndex(f.index)
		texts, ok := lookupQuery(args, f.name)
		if !ok {
			target.SetZero()
			continue
		}
		if err := b.setField(target, f, texts); err != nil {
			return err
		}
	}

	if b.cfg.tagValidator != nil {
		if err := b.cfg.tagValidator.Struct(r); err != nil {
			return b.validationFailed(err)
		}
	}

	return nil
}

// setField converts texts into target. Slice fields take every value;
// other fields take the first.
func (b *Binder) setField(target reflect.Value, f field, texts []string) error {
	if isMultiValue(f.typ) && f.typ.Kind() == reflect.Slice {
		if _, ok := b.cfg.converters.lookup(f.typ); !ok {
			slice := reflect.MakeSlice(f.typ, len(texts), len(texts))
			for i, text := range texts {
				v, err := convertText(text, f.typ.Elem(), b.cfg.converters)
				if err != nil {
					return b.conversionFailed(text, f, err)
				}
				slice.Index(i).Set(v)
			}
			target.Set(slice)
			return nil
		}
	}

	v, err := convertText(texts[0], f.typ, b.cfg.converters)
	if err != nil {
		return b.conversionFailed(texts[0], f, err)
	}
	target.Set(v)

	return nil
}

func (b *Binder) conversionFailed(text string, f field, cause error) error {
	err := conversionError(text, f.typ, f.name, cause)
	b.cfg.logger.Debug("route parameter conversion failed",
		slog.String("field", f.name),
		slog.String("value", text),
		slog.Any("error", cause),
	)

	return err
}

// validationFailed reports the first failing field of a validation error.
func (b *Binder) validationFailed(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ConstructionError{Kind: ErrValidation, Message: "route validation failed", Err: err}
	}

	fe := verrs[0]
	value := fmt.Sprint(fe.Value())
	b.cfg.logger.Debug("route validation failed",
		slog.String("field", fe.Field()),
		slog.String("rule", fe.Tag()),
		slog.Int("failures", len(verrs)),
	)

	return &ConstructionError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("value `%s` of property `%s` fails rule `%s`", value, fe.Field(), fe.ActualTag()),
		Field:   fe.Field(),
		Value:   value,
		Type:    fe.Type(),
		Err:     err,
	}
}

func indirectType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// URI builds the URI of r with the default [Binder].
func URI(r Route) (string, error) {
	return defaultBinder.URI(r)
}

// URIFor builds a URI for page type P with the default [Binder].
//
// Example:
//
//	uri, err := navigation.URIFor[ProductPage](map[string]any{"tab": "history"}, id)
func URIFor[P any](query any, params ...any) (string, error) {
	return defaultBinder.URIFor(reflect.TypeFor[P](), query, params)
}

// SetParameters binds uri into r with the default [Binder].
func SetParameters(r Route, uri string) error {
	return defaultBinder.SetParameters(r, uri)
}

// GetCurrentRoute allocates a route of type R and binds uri into it with
// the default [Binder].
//
// Example:
//
//	route, err := navigation.GetCurrentRoute[ProductRoute]("/products/3f2a...?tab=history")
func GetCurrentRoute[R any, PR interface {
	*R
	Route
}](uri string) (*R, error) {
	return GetCurrentRouteWith[R, PR](defaultBinder, uri)
}

// GetCurrentRouteWith is like [GetCurrentRoute] with a specific [Binder].
func GetCurrentRouteWith[R any, PR interface {
	*R
	Route
}](b *Binder, uri string) (*R, error) {
	r := new(R)
	if err := b.SetParameters(PR(r), uri); err != nil {
		return nil, err
	}

	return r, nil
}
