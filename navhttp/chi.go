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

package navhttp

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"

	"rivaas.dev/navigation"
)

// Pattern converts a template to a chi route pattern. Constrained
// parameters become regexp parameters and a catch-all becomes "*".
//
//	/page/{Id:guid}/something/{Code}
//	=> /page/{Id:[0-9a-fA-F]{8}-...}/something/{Code}
func Pattern(t *navigation.Template) string {
	literals := t.Literals()
	params := t.Params()

	var b strings.Builder
	for i, p := range params {
		b.WriteString(literals[i].Value)
		switch re := p.Constraint.Pattern(); {
		case p.CatchAll:
			b.WriteByte('*')
		case re != "":
			b.WriteString("{" + p.Name + ":" + re + "}")
		default:
			b.WriteString("{" + p.Name + "}")
		}
	}

	last := literals[len(literals)-1].Value
	if len(literals) > 1 || last != "/" {
		last = strings.TrimSuffix(last, "/")
	}
	if len(params) > 0 && params[len(params)-1].CatchAll {
		last = ""
	}
	b.WriteString(last)

	return b.String()
}

// Bind binds req into a new route of type R.
func Bind[R any, PR interface {
	*R
	navigation.Route
}](b *navigation.Binder, req *http.Request) (*R, error) {
	return navigation.GetCurrentRouteWith[R, PR](b, req.URL.RequestURI())
}

// Handler returns a handler that binds each request into a route of type
// R before calling h. Binding failures are answered with [WriteError].
func Handler[R any, PR interface {
	*R
	navigation.Route
}](b *navigation.Binder, h func(http.ResponseWriter, *http.Request, *R)) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		route, err := Bind[R, PR](b, req)
		if err != nil {
			WriteError(w, req, err)
			return
		}
		h(w, req, route)
	}
}

// Handle registers h for GET requests on the template of R's page.
func Handle[R any, PR interface {
	*R
	navigation.Route
}](r chi.Router, b *navigation.Binder, h func(http.ResponseWriter, *http.Request, *R)) error {
	page := PR(new(R)).PageType()
	t, err := b.Template(page)
	if err != nil {
		return err
	}

	r.Get(Pattern(t), Handler[R, PR](b, h))

	return nil
}

// HandlePage registers h for GET requests on the template of page P.
func HandlePage[P any](r chi.Router, b *navigation.Binder, h http.Handler) error {
	t, err := b.Template(reflect.TypeFor[P]())
	if err != nil {
		return err
	}

	r.Method(http.MethodGet, Pattern(t), h)

	return nil
}
