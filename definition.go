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
	"reflect"
	"slices"
)

// TagRoute is the struct tag read on route fields. `route:"-"` excludes a
// field from binding; `route:"Name"` binds it under another name.
const TagRoute = "route"

// field is a bindable struct field.
type field struct {
	name  string // binding name
	index []int  // index path, through embedded structs
	typ   reflect.Type
}

var fieldCache rcuCache[reflect.Type, []field]

// fieldsOf returns the bindable fields of a struct type in declaration
// order. Embedded route markers are skipped and other embedded structs are
// flattened.
func fieldsOf(typ reflect.Type) []field {
	fields, _ := fieldCache.getOrCreate(typ, func() ([]field, error) {
		return collectFields(typ, nil), nil
	})

	return fields
}

func collectFields(typ reflect.Type, parent []int) []field {
	var out []field
	for i := range typ.NumField() {
		sf := typ.Field(i)
		index := append(slices.Clone(parent), i)

		if sf.Anonymous {
			ft := sf.Type
			if ft.Implements(routeType) {
				continue
			}
			if ft.Kind() == reflect.Struct && sf.Tag.Get(TagRoute) == "" {
				out = append(out, collectFields(ft, index)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		switch tag := sf.Tag.Get(TagRoute); tag {
		case "-":
			continue
		case "":
		default:
			name = tag
		}

		out = append(out, field{name: name, index: index, typ: sf.Type})
	}

	return out
}

// Definition is the binding shape of one (page, route) type pair: which
// route fields fill template parameters and which become query
// parameters. Definitions are immutable.
type Definition struct {
	page        reflect.Type
	route       reflect.Type
	template    *Template
	routeFields []routeField // template order
	queryFields []field      // declaration order
}

// routeField is a field bound to the template parameter at slot.
type routeField struct {
	field
	slot int
}

func newDefinition(page, route reflect.Type, t *Template) *Definition {
	d := &Definition{page: page, route: route, template: t}

	fields := fieldsOf(route)
	used := make([]bool, len(fields))
	for slot, p := range t.params {
		for i, f := range fields {
			if !used[i] && f.name == p.Name {
				used[i] = true
				d.routeFields = append(d.routeFields, routeField{field: f, slot: slot})
				break
			}
		}
	}
	for i, f := range fields {
		if !used[i] {
			d.queryFields = append(d.queryFields, f)
		}
	}

	return d
}

// Page returns the page type.
func (d *Definition) Page() reflect.Type { return d.page }

// RouteType returns the route struct type.
func (d *Definition) RouteType() reflect.Type { return d.route }

// Template returns the page template.
func (d *Definition) Template() *Template { return d.template }

// RouteFields returns the binding names of the path fields in template
// order.
func (d *Definition) RouteFields() []string {
	names := make([]string, len(d.routeFields))
	for i, f := range d.routeFields {
		names[i] = f.name
	}

	return names
}

// QueryFields returns the binding names of the query fields.
func (d *Definition) QueryFields() []string {
	names := make([]string, len(d.queryFields))
	for i, f := range d.queryFields {
		names[i] = f.name
	}

	return names
}
