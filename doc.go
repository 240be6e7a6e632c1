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

// Package navigation provides typed navigation for page-based web UIs.
//
// A page type declares a route template such as "/products/{Id:guid}". A
// route struct bound to the page supplies the values: fields whose name
// matches a template parameter fill the path, every other field becomes a
// query parameter. The same struct can be populated back from an incoming
// URI.
//
// # Quick Start
//
//	type ProductPage struct{}
//
//	func (ProductPage) RouteTemplate() string { return "/products/{Id:guid}" }
//
//	type ProductRoute struct {
//	    navigation.For[ProductPage]
//	    Id  uuid.UUID
//	    Tab string
//	}
//
//	// Build a URI
//	uri, err := navigation.URI(&ProductRoute{Id: id, Tab: "history"})
//	// /products/3f2a...?Tab=history
//
//	// Bind a URI
//	route, err := navigation.GetCurrentRoute[ProductRoute](uri)
//
// # Templates
//
// Templates start with '/' and each parameter occupies a whole segment:
// "{Name}", "{Name:constraint}" or, for the last segment, a catch-all
// "{*Name}". Literal segments match without regard to case. Constraints
// are recorded but not enforced.
//
// Templates come from a [TemplateSource]. [DefaultSource] looks in
// [DefaultRegistry] first, then at pages implementing [TemplateDeclarer].
// Registries can be filled in code or from YAML and TOML route tables.
//
// # Binding Rules
//
//   - Only exported fields bind. `route:"-"` excludes a field and
//     `route:"Name"` renames it.
//   - Path fields are ordered by the template, not by declaration.
//   - Binding a URI overwrites every query field: missing keys reset it to
//     the zero value and a bare key ("?Flag") sets true.
//   - Values are formatted and parsed without locale: "1.5" is a float,
//     "1,5" is an error. Booleans are true or false in any case.
//
// Routes can replace field binding by implementing
// [RouteParameterProvider] or [QueryParameterProvider]. A Binder created
// with [WithValidation] also checks `validate` struct tags after binding.
//
// # Navigation
//
// A [Manager] hands built URIs to a [Navigator]:
//
//	m := navigation.MustNewManager(nav,
//	    navigation.WithManagerLogger(logger),
//	    navigation.WithTracerProvider(tp),
//	)
//	err := navigation.NavigateTo[ProductPage](m, id)
//	err = navigation.NavigateWithQueryTo[SearchPage](m, map[string]any{"q": "shoes"})
//
// The navhttp package provides an HTTP Navigator that redirects plain,
// htmx and Datastar requests, plus chi integration.
//
// # Errors
//
// Every failure is a [*ConstructionError]. Use [errors.Is] with the Err*
// sentinels to tell the kinds apart.
package navigation
