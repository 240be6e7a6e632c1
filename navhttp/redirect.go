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
	"net/url"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"rivaas.dev/navigation"
)

// htmx headers.
const (
	HXRequest    = "HX-Request"
	HXCurrentURL = "HX-Current-URL"
	HXRedirect   = "HX-Redirect"
	HXLocation   = "HX-Location"
)

// Datastar detection.
const (
	DataStarAcceptHeader = "text/event-stream"
	DataStarQueryParam   = "datastar"
)

// IsHTMX reports whether r was issued by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HXRequest) == "true"
}

// IsDataStar reports whether r was issued by Datastar.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}

	return r.URL.Query().Has(DataStarQueryParam)
}

// Redirector navigates by answering the current request.
//
//   - htmx: HX-Location for client-side navigation, HX-Redirect when
//     forceLoad is set
//   - Datastar: a redirect event on a server-sent event stream
//   - anything else: 303 See Other (or the configured status)
//
// A Redirector serves one request and writes the response at most once.
type Redirector struct {
	w      http.ResponseWriter
	r      *http.Request
	status int
}

// RedirectorOption configures a [Redirector].
type RedirectorOption func(*Redirector)

// WithStatus sets the status of plain redirects. The default is
// http.StatusSeeOther.
func WithStatus(code int) RedirectorOption {
	return func(rd *Redirector) {
		rd.status = code
	}
}

// NewRedirector returns a [Redirector] answering r through w.
func NewRedirector(w http.ResponseWriter, r *http.Request, opts ...RedirectorOption) *Redirector {
	rd := &Redirector{w: w, r: r, status: http.StatusSeeOther}
	for _, opt := range opts {
		opt(rd)
	}

	return rd
}

// Navigate implements navigation.Navigator.
func (rd *Redirector) Navigate(uri string, forceLoad bool) error {
	switch {
	case IsHTMX(rd.r):
		if forceLoad {
			rd.w.Header().Set(HXRedirect, uri)
		} else {
			rd.w.Header().Set(HXLocation, uri)
		}
		rd.w.WriteHeader(http.StatusOK)
		return nil

	case IsDataStar(rd.r):
		sse := datastar.NewSSE(rd.w, rd.r)
		return sse.Redirect(uri)

	default:
		http.Redirect(rd.w, rd.r, uri, rd.status)
		return nil
	}
}

// URI implements navigation.URIProvider. For htmx requests it reports the
// page the request came from, taken from HX-Current-URL.
func (rd *Redirector) URI() string {
	if IsHTMX(rd.r) {
		if current := rd.r.Header.Get(HXCurrentURL); current != "" {
			if u, err := url.Parse(current); err == nil {
				return u.RequestURI()
			}
		}
	}

	return rd.r.URL.RequestURI()
}

// NewManager returns a navigation.Manager redirecting the current request.
func NewManager(w http.ResponseWriter, r *http.Request, opts ...navigation.ManagerOption) (*navigation.Manager, error) {
	return navigation.NewManager(NewRedirector(w, r), opts...)
}
