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
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructionError_Kinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind   error
		status int
		code   string
	}{
		{ErrParameterCount, http.StatusInternalServerError, "parameter_count"},
		{ErrPathMismatch, http.StatusNotFound, "path_mismatch"},
		{ErrConversion, http.StatusBadRequest, "conversion_failed"},
		{ErrNoTemplate, http.StatusInternalServerError, "no_template"},
		{ErrMalformedTemplate, http.StatusInternalServerError, "malformed_template"},
		{ErrEmptyParameterName, http.StatusInternalServerError, "empty_parameter_name"},
		{ErrInvalidRoute, http.StatusInternalServerError, "invalid_route"},
		{ErrUnsupportedQuery, http.StatusInternalServerError, "unsupported_query"},
		{ErrNoCurrentURI, http.StatusInternalServerError, "no_current_uri"},
		{ErrValidation, http.StatusUnprocessableEntity, "validation_failed"},
		{errors.New("other"), http.StatusInternalServerError, "route_construction_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			t.Parallel()

			err := &ConstructionError{Kind: tt.kind, Message: "message"}
			assert.Equal(t, tt.status, err.HTTPStatus())
			assert.Equal(t, tt.code, err.Code())
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestConstructionError_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	err := &ConstructionError{Kind: ErrInvalidRoute, Message: "route is invalid", Err: cause}
	assert.Equal(t, "route is invalid: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrInvalidRoute)
	assert.NotErrorIs(t, err, ErrConversion)

	mismatch := &ConstructionError{Kind: ErrPathMismatch, Message: msgPathMismatch, Err: cause}
	assert.Equal(t, "input path does not match page's template", mismatch.Error())
	assert.ErrorIs(t, mismatch, cause)

	conv := conversionError("x", reflect.TypeFor[int](), "Id", cause)
	assert.Equal(t, "cannot convert value `x` to type `int` for property `Id`", conv.Error())
	assert.ErrorIs(t, conv, cause)
}

func TestConstructionError_UnwrapsCauseType(t *testing.T) {
	t.Parallel()

	_, cause := strconv.Atoi("x")
	err := conversionError("x", reflect.TypeFor[int](), "Id", cause)

	var numErr *strconv.NumError
	assert.ErrorAs(t, err, &numErr)
	assert.Equal(t, "x", numErr.Num)
}

func TestConstructionError_Details(t *testing.T) {
	t.Parallel()

	assert.Nil(t, newError(ErrInvalidRoute, "bad").Details())

	err := conversionError("abc", reflect.TypeFor[float64](), "Price", nil)
	assert.Equal(t, map[string]string{
		"field": "Price",
		"value": "abc",
		"type":  "float64",
	}, err.Details())

	assert.Equal(t, map[string]string{"type": "navigation.homePage"},
		noTemplateError(reflect.TypeFor[homePage]()).Details())
}

func TestConstructionError_NilKind(t *testing.T) {
	t.Parallel()

	err := &ConstructionError{Message: "bare"}
	assert.Empty(t, err.Unwrap())
	assert.Equal(t, "bare", err.Error())
}
