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
	"net/url"
	"reflect"
	"slices"
	"strings"
)

// Pair is a single query parameter.
type Pair struct {
	Name  string
	Value any
}

// BuildQuery encodes pairs as "?n1=v1&n2=v2". It returns "" for no pairs.
// Values are formatted with [ToText] and form-encoded with lowercase hex
// escapes, so "=?%" becomes "%3d%3f%25" and a space becomes "+". A slice
// value produces one pair per element. Nil values are skipped.
//
// A blank name fails with [ErrEmptyParameterName].
func BuildQuery(pairs []Pair) (string, error) {
	return buildQuery(pairs, nil)
}

func buildQuery(pairs []Pair, convs converterSet) (string, error) {
	var b strings.Builder
	add := func(name string, v any) {
		if b.Len() == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(encodeQueryComponent(name))
		b.WriteByte('=')
		b.WriteString(encodeQueryComponent(toText(v, convs)))
	}

	for _, p := range pairs {
		if strings.TrimSpace(p.Name) == "" {
			return "", &ConstructionError{Kind: ErrEmptyParameterName, Message: msgEmptyName}
		}
		if isNil(p.Value) {
			continue
		}

		rv := reflect.ValueOf(p.Value)
		if isMultiValue(rv.Type()) {
			for i := range rv.Len() {
				elem := rv.Index(i).Interface()
				if !isNil(elem) {
					add(p.Name, elem)
				}
			}
			continue
		}
		add(p.Name, p.Value)
	}

	return b.String(), nil
}

// encodeQueryComponent form-encodes s with lowercase hex digits.
func encodeQueryComponent(s string) string {
	escaped := url.QueryEscape(s)
	if strings.IndexByte(escaped, '%') < 0 {
		return escaped
	}

	buf := []byte(escaped)
	for i := 0; i < len(buf); i++ {
		if buf[i] == '%' && i+2 < len(buf) {
			buf[i+1] = lowerHex(buf[i+1])
			buf[i+2] = lowerHex(buf[i+2])
			i += 2
		}
	}

	return string(buf)
}

func lowerHex(c byte) byte {
	if c >= 'A' && c <= 'F' {
		return c + ('a' - 'A')
	}

	return c
}

// QueryString renders any supported query parameter source as query text.
// A string is returned verbatim; every other shape goes through
// [QueryPairsFrom] and [BuildQuery].
func QueryString(source any) (string, error) {
	return queryString(source, nil)
}

func queryString(source any, convs converterSet) (string, error) {
	if s, ok := source.(string); ok {
		return s, nil
	}

	pairs, err := QueryPairsFrom(source)
	if err != nil {
		return "", err
	}

	return buildQuery(pairs, convs)
}

// QueryPairsFrom extracts query pairs from a parameter source:
//
//   - nil: no pairs
//   - []Pair: kept in order
//   - a raw query string: parsed, with valueless keys reported as "true"
//   - a map with string keys, including url.Values: sorted by key
//   - a struct or pointer to struct: exported fields in declaration order,
//     honoring `route:"name"` and `route:"-"` tags
//
// Entries whose value is nil are skipped.
func QueryPairsFrom(source any) ([]Pair, error) {
	switch src := source.(type) {
	case nil:
		return nil, nil
	case []Pair:
		out := make([]Pair, 0, len(src))
		for _, p := range src {
			if !isNil(p.Value) {
				out = append(out, p)
			}
		}
		return out, nil
	case string:
		args := parseRawQuery(src)
		out := make([]Pair, len(args))
		for i, a := range args {
			out[i] = Pair{Name: a.key, Value: a.text()}
		}
		return out, nil
	}

	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		slices.Sort(keys)

		out := make([]Pair, 0, len(keys))
		for _, k := range keys {
			v := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
			if !isNil(v) {
				out = append(out, Pair{Name: k, Value: v})
			}
		}
		return out, nil

	case reflect.Struct:
		fields := fieldsOf(rv.Type())
		out := make([]Pair, 0, len(fields))
		for _, f := range fields {
			v := rv.FieldByIndex(f.index).Interface()
			if !isNil(v) {
				out = append(out, Pair{Name: f.name, Value: v})
			}
		}
		return out, nil
	}

	return nil, newError(ErrUnsupportedQuery, "query parameters of type `%T` are not supported", source)
}

// queryArg is one key of a raw query string. hasValue is false for a bare
// "key" switch.
type queryArg struct {
	key      string
	value    string
	hasValue bool
}

func (a queryArg) text() string {
	if !a.hasValue {
		return "true"
	}

	return a.value
}

// parseRawQuery splits a query (without the leading '?') into arguments.
// Malformed escapes are kept as written.
func parseRawQuery(raw string) []queryArg {
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return nil
	}

	var args []queryArg
	for part := range strings.SplitSeq(raw, "&") {
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		args = append(args, queryArg{
			key:      unescapeQuery(key),
			value:    unescapeQuery(value),
			hasValue: hasValue,
		})
	}

	return args
}

func unescapeQuery(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}

	return s
}

// lookupQuery returns every value given for name. Keys are matched exactly
// first, then without regard to case.
func lookupQuery(args []queryArg, name string) ([]string, bool) {
	collect := func(match func(string) bool) []string {
		var values []string
		for _, a := range args {
			if match(a.key) {
				values = append(values, a.text())
			}
		}
		return values
	}

	if values := collect(func(k string) bool { return k == name }); len(values) > 0 {
		return values, true
	}
	if values := collect(func(k string) bool { return strings.EqualFold(k, name) }); len(values) > 0 {
		return values, true
	}

	return nil, false
}

func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}

// isMultiValue reports whether values of typ expand to repeated keys.
func isMultiValue(typ reflect.Type) bool {
	if typ.Kind() != reflect.Slice && typ.Kind() != reflect.Array {
		return false
	}
	if typ.Elem().Kind() == reflect.Uint8 {
		return false
	}

	return !typ.Implements(textMarshalerType)
}
