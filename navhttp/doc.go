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

// Package navhttp connects rivaas.dev/navigation to net/http.
//
// [Redirector] is a navigation.Navigator for a single request. It answers
// plain requests with a 303 redirect, htmx requests with HX-Location or
// HX-Redirect, and Datastar requests with a server-sent redirect event.
//
// Page templates can be registered on a chi router with [Handle], which
// binds each request into the page's route struct:
//
//	r := chi.NewRouter()
//	err := navhttp.Handle[ProductRoute](r, binder, func(w http.ResponseWriter, req *http.Request, route *ProductRoute) {
//	    // route.Id and route.Tab are bound
//	})
//
// Binding failures are written with [WriteError] using the rivaas.dev/errors
// Simple format. [WriteErrorWith] accepts any rivaas.dev/errors Formatter,
// such as RFC 9457 problem details.
//
// Inside a handler, [NewManager] navigates by redirecting the response:
//
//	m, _ := navhttp.NewManager(w, req)
//	_ = navigation.NavigateTo[ProductPage](m, id)
package navhttp
