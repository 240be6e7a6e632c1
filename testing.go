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
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"sync"
	"testing"
)

// Navigation is a navigation recorded by [RecordingNavigator].
type Navigation struct {
	URI       string
	ForceLoad bool
}

// RecordingNavigator is a [Navigator] and [URIProvider] for tests. It
// records every navigation and reports the last URI as current.
// It is safe for concurrent use.
type RecordingNavigator struct {
	mu          sync.Mutex
	current     string
	navigations []Navigation
	err         error
}

// NewRecordingNavigator returns a navigator whose current URI is start.
func NewRecordingNavigator(start string) *RecordingNavigator {
	return &RecordingNavigator{current: start}
}

// Navigate implements [Navigator]. After [RecordingNavigator.FailWith] it
// returns the configured error without recording.
func (n *RecordingNavigator) Navigate(uri string, forceLoad bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.navigations = append(n.navigations, Navigation{URI: uri, ForceLoad: forceLoad})
	n.current = uri

	return nil
}

// URI implements [URIProvider].
func (n *RecordingNavigator) URI() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.current
}

// FailWith makes later navigations fail with err.
func (n *RecordingNavigator) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.err = err
}

// Navigations returns a copy of the recorded navigations.
func (n *RecordingNavigator) Navigations() []Navigation {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]Navigation(nil), n.navigations...)
}

// Last returns the most recent navigation.
func (n *RecordingNavigator) Last() (Navigation, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.navigations) == 0 {
		return Navigation{}, false
	}

	return n.navigations[len(n.navigations)-1], true
}

// TestBinder creates a Binder backed by a fresh [Registry] holding
// templates, consulted before [DeclaredTemplates]. Keys of templates are
// page values or reflect.Type values.
//
// Example:
//
//	binder := navigation.TestBinder(t, map[any]string{
//	    ProductPage{}: "/products/{Id:guid}",
//	})
func TestBinder(t *testing.T, templates map[any]string, opts ...Option) *Binder {
	t.Helper()

	reg := NewRegistry()
	for page, template := range templates {
		typ, ok := page.(reflect.Type)
		if !ok {
			typ = reflect.TypeOf(page)
		}
		if err := reg.Declare(typ, template); err != nil {
			t.Fatalf("TestBinder: declaring %s: %v", typ, err)
		}
	}

	allOpts := append([]Option{WithTemplateSource(ChainSources(reg, DeclaredTemplates))}, opts...)
	b, err := New(allOpts...)
	if err != nil {
		t.Fatalf("TestBinder: failed to create binder: %v", err)
	}

	return b
}

// AssertConstructionError asserts that err is a [*ConstructionError] of
// the given kind and returns it.
//
// Example:
//
//	err := binder.SetParameters(&route, "/products/not-a-guid")
//	ce := navigation.AssertConstructionError(t, err, navigation.ErrConversion)
func AssertConstructionError(t *testing.T, err error, kind error) *ConstructionError {
	t.Helper()

	if err == nil {
		t.Fatalf("AssertConstructionError: expected %v, got nil", kind)
	}

	var ce *ConstructionError
	if !errors.As(err, &ce) {
		t.Fatalf("AssertConstructionError: expected *ConstructionError, got %T: %v", err, err)
	}
	if ce.Kind != kind {
		t.Fatalf("AssertConstructionError: expected kind %v, got %v (%v)", kind, ce.Kind, ce)
	}

	return ce
}

// LogEntry is a parsed JSON log line.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// NewTestLogger returns a debug-level JSON logger writing into the
// returned buffer. Use [ParseJSONLogEntries] to inspect the output.
func NewTestLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return logger, buf
}

// ParseJSONLogEntries parses the log lines in buf without consuming it.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			return nil, err
		}

		le := LogEntry{Attrs: make(map[string]any)}
		le.Message, _ = entry["msg"].(string)
		le.Level, _ = entry["level"].(string)
		for k, v := range entry {
			if k != "time" && k != "level" && k != "msg" {
				le.Attrs[k] = v
			}
		}
		entries = append(entries, le)
	}

	return entries, scanner.Err()
}
