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

//go:build !integration

package navigation

import (
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	b, err := New()
	require.NoError(t, err)
	assert.NotNil(t, b)

	_, err = New(WithTemplateSource(nil))
	assert.Error(t, err)

	_, err = New(WithLogger(nil))
	assert.Error(t, err)

	assert.Panics(t, func() { MustNew(WithTemplateSource(nil)) })
	assert.Same(t, defaultBinder, Default())
}

func TestBinder_RouteParametersByConvention(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	route := &routeWithParameters{
		Parameter1:     uuid.New(),
		Parameter2:     "TEST",
		QueryParameter: 100,
	}

	params, err := b.RouteParameters(route)
	require.NoError(t, err)
	assert.Equal(t, []any{route.Parameter1, route.Parameter2}, params)

	query, err := b.QueryParameters(route)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"QueryParameter", 100}}, query)
}

func TestBinder_RouteWithoutPathParameters(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	params, err := b.RouteParameters(routeWithoutParameters{QueryParameter: ptr(100)})
	require.NoError(t, err)
	assert.Empty(t, params)

	query, err := b.QueryParameters(routeWithoutParameters{QueryParameter: ptr(100)})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"QueryParameter", ptr(100)}}, query)

	query, err = b.QueryParameters(routeWithoutParameters{})
	require.NoError(t, err)
	assert.Empty(t, query)

	params, err = b.RouteParameters(routeWithoutAnyParameters{})
	require.NoError(t, err)
	assert.Empty(t, params)
	query, err = b.QueryParameters(routeWithoutAnyParameters{})
	require.NoError(t, err)
	assert.Empty(t, query)
}

func TestBinder_OverriddenParameters(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	route := routeWithOverrides{Parameter1: uuid.New(), Parameter2: "TEST", QueryParameter: 100}

	params, err := b.RouteParameters(route)
	require.NoError(t, err)
	assert.Equal(t, []any{hardcodedID, "Hardcoded"}, params)

	query, err := b.QueryParameters(route)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"QueryParameter", 13456789}}, query)

	// The defaults are still reachable
	params, err = b.DefaultRouteParameters(route)
	require.NoError(t, err)
	assert.Equal(t, []any{route.Parameter1, "TEST"}, params)

	uri, err := b.URI(route)
	require.NoError(t, err)
	assert.Equal(t, "/page/"+hardcodedID.String()+"/something/Hardcoded?QueryParameter=13456789", uri)
}

func TestBinder_Definition(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	d, err := b.Definition(reflect.TypeFor[pageWithParameters](), reflect.TypeFor[*routeWithParameters]())
	require.NoError(t, err)
	assert.Equal(t, []string{"Parameter1", "Parameter2"}, d.RouteFields())
	assert.Equal(t, []string{"QueryParameter"}, d.QueryFields())
	assert.Equal(t, reflect.TypeFor[pageWithParameters](), d.Page())
	assert.Equal(t, reflect.TypeFor[routeWithParameters](), d.RouteType())
	assert.Equal(t, "/page/{Parameter1:guid}/something/{Parameter2}", d.Template().Raw())

	again, err := b.Definition(reflect.TypeFor[pageWithParameters](), reflect.TypeFor[routeWithParameters]())
	require.NoError(t, err)
	assert.Same(t, d, again)

	s, err := b.Definition(reflect.TypeFor[searchPage](), reflect.TypeFor[searchRoute]())
	require.NoError(t, err)
	assert.Empty(t, s.RouteFields())
	assert.Equal(t, []string{"Page", "Size", "Term", "Price", "Exact", "Tags", "MaxPrice", "Since", "sort"}, s.QueryFields())

	_, err = b.Definition(reflect.TypeFor[pageWithParameters](), reflect.TypeFor[int]())
	AssertConstructionError(t, err, ErrInvalidRoute)
}

func TestBinder_DefinitionConcurrentFirstAccess(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	page := reflect.TypeFor[pageWithParameters]()
	route := reflect.TypeFor[routeWithParameters]()

	const n = 32
	defs := make([]*Definition, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := b.Definition(page, route)
			assert.NoError(t, err)
			defs[i] = d
		}()
	}
	wg.Wait()

	for _, d := range defs {
		assert.Same(t, defs[0], d)
	}
	assert.Equal(t, 1, b.definitions.len())
	assert.Equal(t, 1, b.templates.len())
}

func TestBinder_MissingTemplate(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	_, err := b.URI(routeWithoutTemplate{Id: 1})
	ce := AssertConstructionError(t, err, ErrNoTemplate)
	assert.Equal(t, "type `navigation.pageWithoutTemplate` does not declare a route template", ce.Error())
	assert.Equal(t, 500, ce.HTTPStatus())

	// Failures are not cached
	assert.Equal(t, 0, b.templates.len())
}

func TestBinder_URI(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	id := uuid.MustParse("6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f")

	tests := []struct {
		name     string
		route    Route
		expected string
	}{
		{
			name:     "path and query",
			route:    &routeWithParameters{Parameter1: id, Parameter2: "TEST", QueryParameter: 1},
			expected: "/page/6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f/something/TEST?QueryParameter=1",
		},
		{
			name:     "path values are escaped",
			route:    routeWithParameters{Parameter1: id, Parameter2: "a b/c?", QueryParameter: 0},
			expected: "/page/6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f/something/a%20b%2Fc%3F?QueryParameter=0",
		},
		{
			name:     "query only",
			route:    &routeWithoutParameters{QueryParameter: ptr(1)},
			expected: "/page?QueryParameter=1",
		},
		{
			name:     "nil query field is skipped",
			route:    &routeWithoutParameters{},
			expected: "/page",
		},
		{
			name: "tags, slices and embedded fields",
			route: &searchRoute{
				pagination: pagination{Page: 2},
				Term:       "red shoes",
				Tags:       []string{"a", "b"},
				Sort:       "price",
				Internal:   "ignored",
			},
			expected: "/search?Page=2&Size=0&Term=red+shoes&Price=0&Exact=False&Tags=a&Tags=b&sort=price",
		},
		{
			name:     "catch-all keeps separators",
			route:    &filesRoute{Path: "docs/read me.txt"},
			expected: "/files/docs/read%20me.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uri, err := b.URI(tt.route)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, uri)
		})
	}
}

func TestBinder_URIFor(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	page := reflect.TypeFor[pageWithParameters]()

	uri, err := b.URIFor(page, nil, []any{"PARAM1", "PARAM2"})
	require.NoError(t, err)
	assert.Equal(t, "/page/PARAM1/something/PARAM2", uri)

	uri, err = b.URIFor(page, struct{ QueryParameter int }{1}, []any{"PARAM1", "PARAM2"})
	require.NoError(t, err)
	assert.Equal(t, "/page/PARAM1/something/PARAM2?QueryParameter=1", uri)

	_, err = b.URIFor(page, nil, nil)
	AssertConstructionError(t, err, ErrParameterCount)

	_, err = b.URIFor(page, map[string]any{"": 1}, []any{"a", "b"})
	AssertConstructionError(t, err, ErrEmptyParameterName)
}

func TestBinder_SetParameters(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route routeWithParameters
	err := b.SetParameters(&route, "/page/00000000-0000-0000-0000-000000000000/something/ZXC?QueryParameter=7")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, route.Parameter1)
	assert.Equal(t, "ZXC", route.Parameter2)
	assert.Equal(t, 7, route.QueryParameter)
}

func TestBinder_SetParametersIgnoresSchemeAndHost(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	id := uuid.New()

	var route routeWithParameters
	err := b.SetParameters(&route, "https://example.com/PAGE/"+id.String()+"/Something/a%20b?QueryParameter=3#frag")
	require.NoError(t, err)
	assert.Equal(t, id, route.Parameter1)
	assert.Equal(t, "a b", route.Parameter2)
	assert.Equal(t, 3, route.QueryParameter)
}

func TestBinder_SetParametersResetsQueryFields(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	since := time.Now()
	route := searchRoute{
		pagination: pagination{Page: 3, Size: 10},
		Term:       "old",
		Price:      9.5,
		Exact:      true,
		Tags:       []string{"x"},
		MaxPrice:   ptr(1.5),
		Since:      &since,
		Sort:       "name",
		Internal:   "kept",
	}

	require.NoError(t, b.SetParameters(&route, "/search"))

	assert.Equal(t, searchRoute{Internal: "kept"}, route)
}

func TestBinder_SetParametersQueryValues(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route searchRoute
	err := b.SetParameters(&route, "/search/?term=red+shoes&Page=2&Price=1.5&Exact&Tags=a&tags=b&MaxPrice=&Since=2024-01-15&SORT=price&Internal=x")
	require.NoError(t, err)

	assert.Equal(t, 2, route.Page)
	assert.Equal(t, 0, route.Size)
	assert.Equal(t, "red shoes", route.Term)
	assert.Equal(t, 1.5, route.Price)
	assert.True(t, route.Exact)
	assert.Equal(t, []string{"a"}, route.Tags, "exact key match wins")
	assert.Nil(t, route.MaxPrice)
	require.NotNil(t, route.Since)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), *route.Since)
	assert.Equal(t, "price", route.Sort)
	assert.Empty(t, route.Internal)
}

func TestBinder_SetParametersBooleans(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	for query, expected := range map[string]bool{
		"?Exact":       true,
		"?Exact=true":  true,
		"?Exact=TRUE":  true,
		"?Exact=False": false,
		"?exact=fAlSe": false,
		"":             false,
	} {
		var route searchRoute
		require.NoError(t, b.SetParameters(&route, "/search"+query), query)
		assert.Equal(t, expected, route.Exact, query)
	}

	for _, query := range []string{"?Exact=1", "?Exact=yes", "?Exact="} {
		var route searchRoute
		err := b.SetParameters(&route, "/search"+query)
		ce := AssertConstructionError(t, err, ErrConversion)
		assert.Equal(t, "Exact", ce.Field)
	}
}

func TestBinder_SetParametersConversionFailure(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route searchRoute
	err := b.SetParameters(&route, "/search?Price=1,6")
	ce := AssertConstructionError(t, err, ErrConversion)
	assert.Equal(t, "cannot convert value `1,6` to type `float64` for property `Price`", ce.Error())
	assert.Equal(t, "1,6", ce.Value)
	assert.Equal(t, 400, ce.HTTPStatus())
	assert.Equal(t, "conversion_failed", ce.Code())

	var withBadPath routeWithParameters
	err = b.SetParameters(&withBadPath, "/page/not-a-guid/something/x")
	ce = AssertConstructionError(t, err, ErrConversion)
	assert.Equal(t, "Parameter1", ce.Field)
}

func TestBinder_SetParametersFailsFast(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	route := searchRoute{Term: "old", Sort: "old"}
	err := b.SetParameters(&route, "/search?Page=1&Size=x&Term=new&sort=new")
	AssertConstructionError(t, err, ErrConversion)

	assert.Equal(t, 1, route.Page, "written before the failure")
	assert.Equal(t, "old", route.Term, "not reached")
	assert.Equal(t, "old", route.Sort, "not reached")
}

func TestBinder_SetParametersPathMismatch(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route routeWithParameters
	err := b.SetParameters(&route, "/page/x")
	ce := AssertConstructionError(t, err, ErrPathMismatch)
	assert.Equal(t, 404, ce.HTTPStatus())

	err = b.SetParameters(&route, "http://[::1")
	AssertConstructionError(t, err, ErrPathMismatch)

	err = b.SetParameters(&route, "/page/100%")
	ce = AssertConstructionError(t, err, ErrPathMismatch)
	assert.Equal(t, "input path does not match page's template", ce.Error())
	assert.ErrorContains(t, ce.Err, "invalid URL escape")
}

func TestBinder_SetParametersRequiresPointer(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	err := b.SetParameters(routeWithParameters{}, "/page")
	AssertConstructionError(t, err, ErrInvalidRoute)

	err = b.SetParameters((*routeWithParameters)(nil), "/page")
	AssertConstructionError(t, err, ErrInvalidRoute)
}

func TestBinder_SetParametersCatchAll(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route filesRoute
	require.NoError(t, b.SetParameters(&route, "/files/docs/read%20me.txt"))
	assert.Equal(t, "docs/read me.txt", route.Path)
}

func TestBinder_RoundTrip(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)
	since := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	in := &searchRoute{
		pagination: pagination{Page: 4, Size: 25},
		Term:       "=?% &",
		Price:      12.75,
		Exact:      true,
		Tags:       []string{"x y", "z"},
		MaxPrice:   ptr(99.5),
		Since:      &since,
		Sort:       "-price",
	}

	uri, err := b.URI(in)
	require.NoError(t, err)

	out := new(searchRoute)
	require.NoError(t, b.SetParameters(out, uri))
	assert.Equal(t, in, out)
}

func TestGetCurrentRoute(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	route, err := GetCurrentRoute[routeWithParameters]("/page/" + id.String() + "/something/X?QueryParameter=5")
	require.NoError(t, err)
	assert.Equal(t, id, route.Parameter1)
	assert.Equal(t, "X", route.Parameter2)
	assert.Equal(t, 5, route.QueryParameter)

	_, err = GetCurrentRoute[routeWithParameters]("/elsewhere")
	AssertConstructionError(t, err, ErrPathMismatch)
}

func TestPackageLevelHelpers(t *testing.T) {
	t.Parallel()

	uri, err := URI(&routeWithoutParameters{QueryParameter: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, "/page?QueryParameter=1", uri)

	uri, err = URIFor[pageWithParameters]("?x=1", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "/page/a/something/b?x=1", uri)

	var route routeWithoutParameters
	require.NoError(t, SetParameters(&route, "/page?QueryParameter=9"))
	assert.Equal(t, ptr(9), route.QueryParameter)
}

func TestBinder_NilRoute(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	_, err := b.URI(nil)
	AssertConstructionError(t, err, ErrInvalidRoute)

	_, err = b.DefaultQueryParameters((*routeWithParameters)(nil))
	AssertConstructionError(t, err, ErrInvalidRoute)
}

func TestBinder_LogsConversionFailures(t *testing.T) {
	t.Parallel()

	logger, buf := NewTestLogger()
	b := TestBinder(t, nil, WithLogger(logger))

	var route searchRoute
	require.Error(t, b.SetParameters(&route, "/search?Page=abc"))

	entries, err := ParseJSONLogEntries(buf)
	require.NoError(t, err)

	var found bool
	for _, e := range entries {
		if e.Message == "route parameter conversion failed" {
			found = true
			assert.Equal(t, "Page", e.Attrs["field"])
			assert.Equal(t, "abc", e.Attrs["value"])
		}
	}
	assert.True(t, found)
}

type validatedRoute struct {
	For[pageWithoutParameters]
	Size int    `route:"size" validate:"gte=1,lte=100"`
	Tab  string `validate:"omitempty,oneof=overview history"`
}

func TestBinder_WithValidation(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil, WithValidation(nil))

	var route validatedRoute
	require.NoError(t, b.SetParameters(&route, "/page?size=10&Tab=history"))
	assert.Equal(t, validatedRoute{Size: 10, Tab: "history"}, route)

	err := b.SetParameters(&route, "/page?size=500")
	ce := AssertConstructionError(t, err, ErrValidation)
	assert.Equal(t, "size", ce.Field)
	assert.Equal(t, "500", ce.Value)
	assert.Equal(t, "value `500` of property `size` fails rule `lte`", ce.Error())
	assert.Equal(t, 422, ce.HTTPStatus())
	assert.Equal(t, "validation_failed", ce.Code())

	err = b.SetParameters(&route, "/page?size=5&Tab=settings")
	ce = AssertConstructionError(t, err, ErrValidation)
	assert.Equal(t, "Tab", ce.Field)

	// Conversion errors are reported before validation runs
	err = b.SetParameters(&route, "/page?size=x")
	AssertConstructionError(t, err, ErrConversion)
}

func TestBinder_WithoutValidation(t *testing.T) {
	t.Parallel()

	b := TestBinder(t, nil)

	var route validatedRoute
	require.NoError(t, b.SetParameters(&route, "/page?size=500"))
	assert.Equal(t, 500, route.Size)
}
