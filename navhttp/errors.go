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
	"encoding/json"
	"net/http"

	rerrors "rivaas.dev/errors"
)

var simpleFormatter = rerrors.NewSimple()

// WriteError writes err as a JSON object:
//
//	{"error": "message", "code": "...", "details": {...}}
//
// The status comes from an HTTPStatus method on err, or 500.
// navigation.ConstructionError provides the status, code and details.
func WriteError(w http.ResponseWriter, req *http.Request, err error) {
	WriteErrorWith(simpleFormatter, w, req, err)
}

// WriteErrorWith writes err in the format produced by f.
//
// Example:
//
//	problems := errors.NewRFC9457("https://example.com/problems")
//	navhttp.WriteErrorWith(problems, w, req, err)
func WriteErrorWith(f rerrors.Formatter, w http.ResponseWriter, req *http.Request, err error) {
	resp := f.Format(req, err)

	for k, values := range resp.Headers {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.Status)
	_ = json.NewEncoder(w).Encode(resp.Body)
}
