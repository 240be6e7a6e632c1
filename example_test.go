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

package navigation_test

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"rivaas.dev/navigation"
)

type ProductPage struct{}

func (ProductPage) RouteTemplate() string { return "/products/{Id:guid}/{Slug}" }

type ProductRoute struct {
	navigation.For[ProductPage]
	Id   uuid.UUID
	Slug string
	Tab  string `route:"tab"`
	Page *int
}

func ExampleURI() {
	route := ProductRoute{
		Id:   uuid.MustParse("6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f"),
		Slug: "blue shirt",
		Tab:  "history",
	}

	uri, err := navigation.URI(route)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(uri)
	// Output: /products/6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f/blue%20shirt?tab=history
}

func ExampleGetCurrentRoute() {
	route, err := navigation.GetCurrentRoute[ProductRoute](
		"/products/6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f/blue%20shirt?tab=history&page=2",
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(route.Slug, route.Tab, *route.Page)
	// Output: blue shirt history 2
}

func ExampleGetCurrentRoute_conversionError() {
	_, err := navigation.GetCurrentRoute[ProductRoute]("/products/not-a-guid/shirt")

	var ce *navigation.ConstructionError
	if errors.As(err, &ce) {
		fmt.Println(ce.HTTPStatus(), ce.Field)
	}
	fmt.Println(errors.Is(err, navigation.ErrConversion))
	// Output:
	// 400 Id
	// true
}

func ExampleTemplate_Construct() {
	t := navigation.MustParseTemplate("/page/{Parameter1}/something/{Parameter2}")

	path, err := t.Construct([]string{"PARAM1", "PARAM2"}, "?QueryParameter=1")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(path)
	// Output: /page/PARAM1/something/PARAM2?QueryParameter=1
}

func ExampleTemplate_Match() {
	t := navigation.MustParseTemplate("/page/{Parameter1}/something/{Parameter2}")

	values, err := t.Match("/Page/ASD/Something/ZXC")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(values["Parameter1"], values["Parameter2"])

	_, err = t.Match("/page/ASD")
	fmt.Println(err)
	// Output:
	// ASD ZXC
	// input path does not match page's template
}

func ExampleQueryString() {
	q, err := navigation.QueryString(map[string]any{"Second": false, "First": true, "Term": "=?%"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(q)
	// Output: ?First=True&Second=False&Term=%3d%3f%25
}

func ExampleManager() {
	nav := navigation.NewRecordingNavigator("/")
	m := navigation.MustNewManager(nav)

	id := uuid.MustParse("6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f")
	if err := navigation.NavigateWithQueryTo[ProductPage](m, "?tab=reviews", id, "shirt"); err != nil {
		fmt.Println(err)
		return
	}

	route, err := navigation.CurrentRoute[ProductRoute](m)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(nav.URI())
	fmt.Println(route.Tab, route.Page == nil)
	// Output:
	// /products/6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f/shirt?tab=reviews
	// reviews true
}
