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
	"reflect"
	"strings"
	"time"
)

// converter is a registered bidirectional conversion for one type.
// Either half may be nil, in which case built-in handling applies.
type converter struct {
	parse  func(string) (any, error)
	format func(any) string
}

type converterSet map[reflect.Type]converter

// lookup finds the converter for typ. A converter registered for T also
// serves *T.
func (s converterSet) lookup(typ reflect.Type) (converter, bool) {
	if len(s) == 0 {
		return converter{}, false
	}
	if c, ok := s[typ]; ok {
		return c, true
	}
	if typ.Kind() == reflect.Pointer {
		if c, ok := s[typ.Elem()]; ok {
			return c, true
		}
	}

	return converter{}, false
}

// TimeConverter returns a parser for time.Time that tries each layout in
// order.
//
// Example:
//
//	binder := navigation.MustNew(
//	    navigation.WithConverter(navigation.TimeConverter("02.01.2006"), nil),
//	)
func TimeConverter(layouts ...string) func(string) (time.Time, error) {
	if len(layouts) == 0 {
		return func(string) (time.Time, error) {
			return time.Time{}, errors.New("no time layouts provided")
		}
	}

	return func(s string) (time.Time, error) {
		s = strings.TrimSpace(s)
		var lastErr error
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return t, nil
			}
			lastErr = err
		}

		return time.Time{}, fmt.Errorf("unable to parse time %q (tried %d layouts): %w", s, len(layouts), lastErr)
	}
}

// TimeFormatter returns a formatter matching a [TimeConverter] layout.
func TimeFormatter(layout string) func(time.Time) string {
	return func(t time.Time) string {
		return t.Format(layout)
	}
}

// EnumConverter returns a parser that accepts only the allowed values.
// Matching ignores case; the declared spelling is returned.
//
// Example:
//
//	type Tab string
//
//	binder := navigation.MustNew(
//	    navigation.WithConverter(navigation.EnumConverter[Tab]("overview", "history"), nil),
//	)
func EnumConverter[T ~string](allowed ...T) func(string) (T, error) {
	index := make(map[string]T, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, v := range allowed {
		index[strings.ToLower(string(v))] = v
		names = append(names, string(v))
	}

	return func(s string) (T, error) {
		if v, ok := index[strings.ToLower(s)]; ok {
			return v, nil
		}

		return T(""), fmt.Errorf("invalid value %q: must be one of: %s", s, strings.Join(names, ", "))
	}
}

// DurationConverter returns a parser for time.Duration that also accepts
// named aliases, compared without regard to case.
func DurationConverter(aliases map[string]time.Duration) func(string) (time.Duration, error) {
	lower := make(map[string]time.Duration, len(aliases))
	for k, v := range aliases {
		lower[strings.ToLower(k)] = v
	}

	return func(s string) (time.Duration, error) {
		if d, ok := lower[strings.ToLower(strings.TrimSpace(s))]; ok {
			return d, nil
		}

		return time.ParseDuration(s)
	}
}
