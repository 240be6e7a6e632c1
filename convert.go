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
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Type references for special type handling.
var (
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	stringerType        = reflect.TypeFor[fmt.Stringer]()
	timeType            = reflect.TypeFor[time.Time]()
	durationType        = reflect.TypeFor[time.Duration]()
)

var (
	errInvalidBool     = errors.New("expected true or false")
	errUnsupportedType = errors.New("unsupported type")
)

// ToText formats a value for use in a URI. Formatting never depends on the
// locale:
//
//   - nil and nil pointers format as ""
//   - booleans format as "True" and "False"
//   - floats use '.' and the shortest text that round-trips
//   - time.Time uses RFC 3339 with nanoseconds
//   - encoding.TextMarshaler and fmt.Stringer implementations are honored
func ToText(v any) string {
	return toText(v, nil)
}

func toText(v any, convs converterSet) string {
	if v == nil {
		return ""
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return ""
		}
		if c, ok := convs.lookup(rv.Type()); ok && c.format != nil {
			return c.format(rv.Interface())
		}
		rv = rv.Elem()
	}

	return formatValue(rv, convs)
}

func formatValue(rv reflect.Value, convs converterSet) string {
	typ := rv.Type()
	if c, ok := convs.lookup(typ); ok && c.format != nil {
		return c.format(rv.Interface())
	}

	switch typ {
	case timeType:
		return rv.Interface().(time.Time).Format(time.RFC3339Nano)
	case durationType:
		return rv.Interface().(time.Duration).String()
	}

	if typ.Implements(textMarshalerType) {
		if text, err := rv.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(text)
		}
	}
	if reflect.PointerTo(typ).Implements(textMarshalerType) {
		ptr := reflect.New(typ)
		ptr.Elem().Set(rv)
		if text, err := ptr.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(text)
		}
	}

	switch typ.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return "True"
		}
		return "False"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, typ.Bits())
	case reflect.String:
		return rv.String()
	}

	if typ.Implements(stringerType) {
		return rv.Interface().(fmt.Stringer).String()
	}

	return fmt.Sprint(rv.Interface())
}

// FromText parses text into a value of type typ. Supported targets are
// strings, booleans (true or false in any case), integers, floats,
// time.Time, time.Duration, any encoding.TextUnmarshaler (uuid.UUID,
// big.Rat, big.Float) and pointers to any of these. A pointer target with
// empty text yields a nil pointer.
//
// Parsing is strict: "1,6" is not a float and "yes" is not a boolean.
// Failures are [*ConstructionError] values of kind [ErrConversion].
func FromText(text string, typ reflect.Type) (any, error) {
	rv, err := convertText(text, typ, nil)
	if err != nil {
		return nil, conversionError(text, typ, "", err)
	}

	return rv.Interface(), nil
}

// convertText converts text into a value assignable to typ.
func convertText(text string, typ reflect.Type, convs converterSet) (reflect.Value, error) {
	if typ == nil {
		return reflect.Value{}, errUnsupportedType
	}

	if c, ok := convs.lookup(typ); ok && c.parse != nil {
		return fromConverter(text, typ, c)
	}

	if typ.Kind() == reflect.Pointer {
		if text == "" {
			return reflect.Zero(typ), nil
		}
		elem, err := convertText(text, typ.Elem(), convs)
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(elem)
		return ptr, nil
	}

	switch typ {
	case timeType:
		t, err := parseTime(text)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case durationType:
		d, err := time.ParseDuration(text)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}

	if reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		ptr := reflect.New(typ)
		if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return reflect.Value{}, err
		}
		return ptr.Elem(), nil
	}

	v := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		v.SetString(text)
	case reflect.Bool:
		b, err := parseBool(text)
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(text, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(text, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		v.SetFloat(f)
	case reflect.Interface:
		if typ.NumMethod() != 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s", errUnsupportedType, typ)
		}
		v.Set(reflect.ValueOf(text))
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", errUnsupportedType, typ)
	}

	return v, nil
}

func fromConverter(text string, typ reflect.Type, c converter) (reflect.Value, error) {
	out, err := c.parse(text)
	if err != nil {
		return reflect.Value{}, err
	}

	rv := reflect.ValueOf(out)
	switch {
	case !rv.IsValid():
		return reflect.Zero(typ), nil
	case rv.Type().AssignableTo(typ):
		return rv, nil
	case typ.Kind() == reflect.Pointer && rv.Type().AssignableTo(typ.Elem()):
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(rv)
		return ptr, nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: converter returned %s, want %s", errUnsupportedType, rv.Type(), typ)
	}
}

// parseBool accepts true and false in any letter case and nothing else.
func parseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "false"):
		return false, nil
	default:
		return false, errInvalidBool
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

func parseTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}

// DefaultOf returns the zero value of typ. Nillable types (pointers, slices,
// maps, interfaces) yield an untyped nil.
func DefaultOf(typ reflect.Type) any {
	if typ == nil {
		return nil
	}

	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return nil
	default:
		return reflect.Zero(typ).Interface()
	}
}
