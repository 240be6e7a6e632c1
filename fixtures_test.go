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
	"time"

	"github.com/google/uuid"
)

type pageWithParameters struct{}

func (pageWithParameters) RouteTemplate() string {
	return "/page/{Parameter1:guid}/something/{Parameter2}"
}

type pageWithoutParameters struct{}

func (pageWithoutParameters) RouteTemplate() string { return "/page" }

type pageWithoutTemplate struct{}

type searchPage struct{}

func (*searchPage) RouteTemplate() string { return "/search" }

type filesPage struct{}

func (filesPage) RouteTemplate() string { return "/files/{*Path}" }

// Parameter2 is declared first: path order follows the template.
type routeWithParameters struct {
	For[pageWithParameters]
	Parameter2     string
	Parameter1     uuid.UUID
	QueryParameter int
}

type routeWithoutParameters struct {
	For[pageWithoutParameters]
	QueryParameter *int
}

type routeWithoutAnyParameters struct {
	For[pageWithoutParameters]
}

type routeWithoutTemplate struct {
	For[pageWithoutTemplate]
	Id int
}

var hardcodedID = uuid.MustParse("6f1c2a3e-9b7d-4c1e-8a5f-2d3b4c5d6e7f")

type routeWithOverrides struct {
	For[pageWithParameters]
	Parameter1     uuid.UUID
	Parameter2     string
	QueryParameter int
}

func (routeWithOverrides) RouteParameters() []any {
	return []any{hardcodedID, "Hardcoded"}
}

func (routeWithOverrides) QueryParameters() any {
	return []Pair{{Name: "QueryParameter", Value: 13456789}}
}

type pagination struct {
	Page int
	Size int
}

type searchRoute struct {
	For[searchPage]
	pagination
	Term     string
	Price    float64
	Exact    bool
	Tags     []string
	MaxPrice *float64
	Since    *time.Time
	Sort     string `route:"sort"`
	Internal string `route:"-"`
	hidden   string
}

type filesRoute struct {
	For[filesPage]
	Path string
}

func ptr[T any](v T) *T { return &v }
