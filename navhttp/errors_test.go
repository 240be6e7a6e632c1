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

package navhttp_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rerrors "rivaas.dev/errors"
	"rivaas.dev/navigation"
	"rivaas.dev/navigation/navhttp"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		body   map[string]any
	}{
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   map[string]any{"error": "boom"},
		},
		{
			name:   "path mismatch",
			err:    &navigation.ConstructionError{Kind: navigation.ErrPathMismatch, Message: "no match"},
			status: http.StatusNotFound,
			body:   map[string]any{"error": "no match", "code": "path_mismatch", "details": nil},
		},
		{
			name: "wrapped construction error",
			err: fmt.Errorf("loading order: %w", &navigation.ConstructionError{
				Kind:    navigation.ErrConversion,
				Message: "bad id",
				Field:   "Id",
			}),
			status: http.StatusBadRequest,
			body: map[string]any{
				"error":   "loading order: bad id",
				"code":    "conversion_failed",
				"details": map[string]any{"field": "Id"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			navhttp.WriteError(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestWriteErrorWith_ProblemDetails(t *testing.T) {
	t.Parallel()

	problems := rerrors.NewRFC9457("https://example.com/problems")
	problems.DisableErrorID = true

	_, err := navigation.GetCurrentRoute[productRoute]("/products/abc/shirt")
	require.Error(t, err)

	w := httptest.NewRecorder()
	navhttp.WriteErrorWith(problems, w, httptest.NewRequest(http.MethodGet, "/products/abc/shirt", nil), err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json; charset=utf-8", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://example.com/problems/conversion_failed", body["type"])
	assert.Equal(t, "Bad Request", body["title"])
	assert.Equal(t, "/products/abc/shirt", body["instance"])
	assert.Equal(t, "cannot convert value `abc` to type `int` for property `Id`", body["detail"])
	assert.Equal(t, map[string]any{"field": "Id", "value": "abc", "type": "int"}, body["errors"])
}
