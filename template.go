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
	"slices"
	"strings"
)

const separator = '/'

// Token is a literal piece of a template. Literals always begin and end on
// a path separator boundary.
type Token struct {
	Value          string // literal text, e.g. "/page/"
	SeparatorCount int    // number of '/' in Value
}

// Param is a named parameter slot of a template.
type Param struct {
	Name       string
	Constraint Constraint
	CatchAll   bool // {*rest}: value may span several segments
}

// Template is a parsed route template such as
//
//	/page/{Id:guid}/something/{Code}
//
// Templates are immutable and safe for concurrent use. A template with n
// parameters has exactly n+1 literal tokens; the last one always ends with
// the separator added by normalization.
type Template struct {
	raw      string
	literals []Token
	params   []Param
}

// ParseTemplate parses a route template. The template must start with '/'.
// Every parameter must occupy a whole path segment.
func ParseTemplate(raw string) (*Template, error) {
	if raw == "" {
		return nil, newError(ErrMalformedTemplate, "route template is empty")
	}
	if raw[0] != separator {
		return nil, newError(ErrMalformedTemplate, "route template %q must start with '/'", raw)
	}

	normalized := ensureTrailingSeparator(raw)
	t := &Template{raw: raw}

	pos := 0
	for {
		open := strings.IndexByte(normalized[pos:], '{')
		if open < 0 {
			rest := normalized[pos:]
			if strings.IndexByte(rest, '}') >= 0 {
				return nil, newError(ErrMalformedTemplate, "route template %q has an unmatched '}'", raw)
			}
			t.literals = append(t.literals, newToken(rest))
			break
		}
		open += pos

		literal := normalized[pos:open]
		if strings.IndexByte(literal, '}') >= 0 {
			return nil, newError(ErrMalformedTemplate, "route template %q has an unmatched '}'", raw)
		}

		closing := strings.IndexByte(normalized[open:], '}')
		if closing < 0 {
			return nil, newError(ErrMalformedTemplate, "route template %q has an unclosed '{'", raw)
		}
		closing += open

		param, err := parseParam(raw, normalized[open+1:closing])
		if err != nil {
			return nil, err
		}
		if t.HasParameter(param.Name) {
			return nil, newError(ErrMalformedTemplate, "route template %q declares parameter %q twice", raw, param.Name)
		}

		t.literals = append(t.literals, newToken(literal))
		t.params = append(t.params, param)
		pos = closing + 1
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// MustParseTemplate is like [ParseTemplate] but panics on error.
func MustParseTemplate(raw string) *Template {
	t, err := ParseTemplate(raw)
	if err != nil {
		panic("navigation: " + err.Error())
	}

	return t
}

func parseParam(raw, inner string) (Param, error) {
	if strings.IndexByte(inner, '{') >= 0 {
		return Param{}, newError(ErrMalformedTemplate, "route template %q has a nested '{'", raw)
	}

	name, constraint, _ := strings.Cut(inner, ":")
	p := Param{Constraint: parseConstraint(constraint)}
	if trimmed := strings.TrimLeft(name, "*"); trimmed != name {
		p.CatchAll = true
		name = trimmed
	}
	if name == "" {
		return Param{}, newError(ErrMalformedTemplate, "route template %q has a parameter without a name", raw)
	}
	if strings.ContainsAny(name, "/?#") {
		return Param{}, newError(ErrMalformedTemplate, "route template %q has an invalid parameter name %q", raw, name)
	}
	p.Name = name

	return p, nil
}

// validate checks the segment boundary rule: literals between parameters
// end and start with a separator, and a catch-all is the last parameter.
func (t *Template) validate() error {
	last := len(t.literals) - 1
	for i, lit := range t.literals {
		v := lit.Value
		if i < last && (v == "" || v[len(v)-1] != separator) {
			return newError(ErrMalformedTemplate, "route template %q: parameter %q must occupy a whole segment", t.raw, t.params[i].Name)
		}
		if i > 0 && (v == "" || v[0] != separator) {
			return newError(ErrMalformedTemplate, "route template %q: parameter %q must occupy a whole segment", t.raw, t.params[i-1].Name)
		}
	}
	for i, p := range t.params {
		if p.CatchAll && (i != len(t.params)-1 || t.literals[last].Value != "/") {
			return newError(ErrMalformedTemplate, "route template %q: catch-all parameter %q must be the last segment", t.raw, p.Name)
		}
	}

	return nil
}

func newToken(v string) Token {
	return Token{Value: v, SeparatorCount: strings.Count(v, "/")}
}

func ensureTrailingSeparator(p string) string {
	if p == "" || p[len(p)-1] != separator {
		return p + "/"
	}

	return p
}

// Raw returns the template text as declared.
func (t *Template) Raw() string { return t.raw }

// String implements [fmt.Stringer].
func (t *Template) String() string { return t.raw }

// Literals returns a copy of the literal tokens.
func (t *Template) Literals() []Token { return slices.Clone(t.literals) }

// Params returns a copy of the parameter slots in template order.
func (t *Template) Params() []Param { return slices.Clone(t.params) }

// ParameterNames returns the parameter names in template order.
func (t *Template) ParameterNames() []string {
	names := make([]string, len(t.params))
	for i, p := range t.params {
		names[i] = p.Name
	}

	return names
}

// HasParameter reports whether the template declares a parameter with the
// exact given name.
func (t *Template) HasParameter(name string) bool {
	return t.paramIndex(name) >= 0
}

func (t *Template) paramIndex(name string) int {
	for i, p := range t.params {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// Construct builds a path by interleaving the literal tokens with values,
// then appends query verbatim. It needs exactly one value per parameter;
// a trailing extra value is rejected rather than appended after the path.
// The trailing separator added during parsing is dropped, except for the
// root template "/".
//
// Values are emitted as given; escaping is the caller's business.
func (t *Template) Construct(values []string, query string) (string, error) {
	if len(values) != len(t.params) {
		return "", &ConstructionError{Kind: ErrParameterCount, Message: msgParameterCount}
	}

	var b strings.Builder
	last := len(t.literals) - 1
	for i, lit := range t.literals {
		if i < last {
			b.WriteString(lit.Value)
			b.WriteString(values[i])
			continue
		}

		v := lit.Value
		if !(last == 0 && v == "/") {
			v = strings.TrimSuffix(v, "/")
		}
		b.WriteString(v)
	}
	b.WriteString(query)

	return b.String(), nil
}

// Match matches path against the template and returns the raw text of each
// parameter keyed by name. Literal comparison ignores case. A parameter value
// ends at the next '/' unless the parameter is a catch-all.
//
// Example:
//
//	t := navigation.MustParseTemplate("/page/{Id:guid}/something/{Code}")
//	values, err := t.Match("/page/00000000-0000-0000-0000-000000000000/something/ZXC")
//	// values["Code"] == "ZXC"
func (t *Template) Match(path string) (map[string]string, error) {
	values, err := t.matchValues(path)
	if err != nil {
		return nil, err
	}

	m := make(map[string]string, len(values))
	for i, v := range values {
		m[t.params[i].Name] = v
	}

	return m, nil
}

// matchValues returns parameter values in template order.
func (t *Template) matchValues(path string) ([]string, error) {
	path = ensureTrailingSeparator(path)
	values := make([]string, len(t.params))

	pos := 0
	for i, p := range t.params {
		lit := t.literals[i].Value
		if len(path)-pos < len(lit) || !strings.EqualFold(path[pos:pos+len(lit)], lit) {
			return nil, mismatch()
		}
		pos += len(lit)

		var end int
		if p.CatchAll {
			end = len(path) - 1
		} else {
			next := strings.IndexByte(path[pos:], separator)
			if next < 0 {
				return nil, mismatch()
			}
			end = pos + next
		}
		if end <= pos {
			return nil, mismatch()
		}

		values[i] = path[pos:end]
		pos = end
	}

	if !strings.EqualFold(path[pos:], t.literals[len(t.literals)-1].Value) {
		return nil, mismatch()
	}

	return values, nil
}

func mismatch() *ConstructionError {
	return &ConstructionError{Kind: ErrPathMismatch, Message: msgPathMismatch}
}
