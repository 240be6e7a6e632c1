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

import "reflect"

// Route is implemented by route structs. Embed [For] to implement it.
type Route interface {
	// PageType returns the page the route navigates to.
	PageType() reflect.Type
}

// For binds a route struct to page type P.
//
//	type ProductRoute struct {
//	    navigation.For[ProductPage]
//	    Id   uuid.UUID // matches {Id} in the page template
//	    Tab  string    // everything else is a query parameter
//	}
type For[P any] struct{}

// PageType implements [Route].
func (For[P]) PageType() reflect.Type {
	return reflect.TypeFor[P]()
}

// RouteParameterProvider lets a route supply its path values directly,
// bypassing field binding. Values are used in template order.
type RouteParameterProvider interface {
	RouteParameters() []any
}

// QueryParameterProvider lets a route supply its query parameters directly.
// The result may be any shape accepted by [QueryString].
type QueryParameterProvider interface {
	QueryParameters() any
}

// TemplateDeclarer is implemented by page types that declare their own
// route template.
//
//	type ProductPage struct{}
//
//	func (ProductPage) RouteTemplate() string { return "/products/{Id:guid}" }
type TemplateDeclarer interface {
	RouteTemplate() string
}

var routeType = reflect.TypeFor[Route]()
