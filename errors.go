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
	"net/http"
	"reflect"
)

// Error kinds carried by [ConstructionError]. Use [errors.Is] to select one:
//
//	if errors.Is(err, navigation.ErrPathMismatch) {
//	    http.NotFound(w, r)
//	}
var (
	ErrParameterCount     = errors.New("parameter count mismatch")
	ErrPathMismatch       = errors.New("path mismatch")
	ErrConversion         = errors.New("value conversion failed")
	ErrNoTemplate         = errors.New("no route template")
	ErrMalformedTemplate  = errors.New("malformed route template")
	ErrEmptyParameterName = errors.New("empty parameter name")
	ErrInvalidRoute       = errors.New("invalid route")
	ErrUnsupportedQuery   = errors.New("unsupported query parameter source")
	ErrNoCurrentURI       = errors.New("no current uri")
	ErrValidation         = errors.New("route validation failed")
)

// Messages reported by the template engine.
const (
	msgParameterCount = "Input parameters count does not match one in route template."
	msgPathMismatch   = "input path does not match page's template"
	msgEmptyName      = "Parameter name cannot be empty."
)

// ConstructionError is the single error type returned by this package.
// It is used for path mismatches, parameter count mismatches, value
// conversion failures and configuration problems such as a page type
// without a route template.
//
// The Kind field holds one of the package sentinel errors, so both of these
// work:
//
//	errors.Is(err, navigation.ErrConversion)
//
//	var ce *navigation.ConstructionError
//	if errors.As(err, &ce) {
//	    fmt.Println(ce.Field, ce.Value)
//	}
type ConstructionError struct {
	Kind    error        // One of the Err* sentinels
	Message string       // Human-readable message
	Field   string       // Route field involved, if any
	Value   string       // Offending text, if any
	Type    reflect.Type // Target type, if any
	Err     error        // Underlying cause
}

// Error returns the message. The underlying cause is appended, except for
// path mismatch, conversion and validation errors, whose messages are fixed.
func (e *ConstructionError) Error() string {
	if e.Err != nil && e.Kind != ErrPathMismatch && e.Kind != ErrConversion && e.Kind != ErrValidation {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

// Unwrap exposes both the kind and the cause to [errors.Is] and [errors.As].
func (e *ConstructionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}

	return errs
}

// HTTPStatus maps the error kind to a status code. Errors caused by the
// incoming URI are client errors; everything else is a server
// misconfiguration.
func (e *ConstructionError) HTTPStatus() int {
	switch e.Kind {
	case ErrPathMismatch:
		return http.StatusNotFound
	case ErrConversion:
		return http.StatusBadRequest
	case ErrValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Code returns a machine-readable code for the error kind.
func (e *ConstructionError) Code() string {
	switch e.Kind {
	case ErrParameterCount:
		return "parameter_count"
	case ErrPathMismatch:
		return "path_mismatch"
	case ErrConversion:
		return "conversion_failed"
	case ErrNoTemplate:
		return "no_template"
	case ErrMalformedTemplate:
		return "malformed_template"
	case ErrEmptyParameterName:
		return "empty_parameter_name"
	case ErrInvalidRoute:
		return "invalid_route"
	case ErrUnsupportedQuery:
		return "unsupported_query"
	case ErrNoCurrentURI:
		return "no_current_uri"
	case ErrValidation:
		return "validation_failed"
	default:
		return "route_construction_error"
	}
}

// Details returns field-level context, or nil when there is none.
func (e *ConstructionError) Details() any {
	if e.Field == "" && e.Value == "" && e.Type == nil {
		return nil
	}

	d := map[string]string{}
	if e.Field != "" {
		d["field"] = e.Field
	}
	if e.Value != "" {
		d["value"] = e.Value
	}
	if e.Type != nil {
		d["type"] = e.Type.String()
	}

	return d
}

func newError(kind error, format string, args ...any) *ConstructionError {
	return &ConstructionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func conversionError(value string, typ reflect.Type, field string, cause error) *ConstructionError {
	return &ConstructionError{
		Kind:    ErrConversion,
		Message: fmt.Sprintf("cannot convert value `%s` to type `%s` for property `%s`", value, typeName(typ), field),
		Field:   field,
		Value:   value,
		Type:    typ,
		Err:     cause,
	}
}

func noTemplateError(page reflect.Type) *ConstructionError {
	return &ConstructionError{
		Kind:    ErrNoTemplate,
		Message: fmt.Sprintf("type `%s` does not declare a route template", typeName(page)),
		Type:    page,
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
