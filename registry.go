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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// TemplateSource looks up the route template declared for a page type.
type TemplateSource interface {
	Template(page reflect.Type) (string, bool)
}

// TemplateSourceFunc adapts a function to [TemplateSource].
type TemplateSourceFunc func(page reflect.Type) (string, bool)

// Template implements [TemplateSource].
func (f TemplateSourceFunc) Template(page reflect.Type) (string, bool) {
	return f(page)
}

// DeclaredTemplates finds templates on page types implementing
// [TemplateDeclarer], through either a value or a pointer receiver.
var DeclaredTemplates TemplateSource = TemplateSourceFunc(declaredTemplate)

func declaredTemplate(page reflect.Type) (string, bool) {
	if page == nil {
		return "", false
	}

	var v reflect.Value
	switch {
	case page.Implements(reflect.TypeFor[TemplateDeclarer]()):
		v = reflect.Zero(page)
		if page.Kind() == reflect.Pointer {
			v = reflect.New(page.Elem())
		}
	case reflect.PointerTo(page).Implements(reflect.TypeFor[TemplateDeclarer]()):
		v = reflect.New(page)
	default:
		return "", false
	}

	return v.Interface().(TemplateDeclarer).RouteTemplate(), true
}

// ChainSources returns a source that asks each source in order.
func ChainSources(sources ...TemplateSource) TemplateSource {
	return TemplateSourceFunc(func(page reflect.Type) (string, bool) {
		for _, s := range sources {
			if t, ok := s.Template(page); ok {
				return t, true
			}
		}
		return "", false
	})
}

// DefaultRegistry is the process-wide registry consulted by [DefaultSource].
var DefaultRegistry = NewRegistry()

// DefaultSource consults [DefaultRegistry], then [DeclaredTemplates].
var DefaultSource = ChainSources(DefaultRegistry, DeclaredTemplates)

// Registry maps page types to route templates. Pages can also be given
// names so route tables can be loaded from YAML or TOML:
//
//	routes:
//	  product: /products/{Id:guid}
//	  home: /
//
// A [Binder] caches what it reads, so declare templates before first use.
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[reflect.Type]string
	pages     map[string]reflect.Type
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[reflect.Type]string),
		pages:     make(map[string]reflect.Type),
	}
}

// Template implements [TemplateSource].
func (r *Registry) Template(page reflect.Type) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.templates[page]

	return t, ok
}

// Declare sets the template of page. The template is parsed to reject
// malformed input early. A page has at most one template; declaring a
// different one again fails.
func (r *Registry) Declare(page reflect.Type, template string) error {
	if page == nil {
		return newError(ErrInvalidRoute, "page type cannot be nil")
	}
	if _, err := ParseTemplate(template); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.templates[page]; ok && existing != template {
		return newError(ErrInvalidRoute, "type `%s` already declares route template %q", page, existing)
	}
	r.templates[page] = template

	return nil
}

// Declare sets the template of page type P in r.
//
// Example:
//
//	navigation.Declare[ProductPage](navigation.DefaultRegistry, "/products/{Id:guid}")
func Declare[P any](r *Registry, template string) error {
	return r.Declare(reflect.TypeFor[P](), template)
}

// Name binds a route table name to a page type.
func (r *Registry) Name(name string, page reflect.Type) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pages[name] = page
}

// Name binds a route table name to page type P in r.
func Name[P any](r *Registry, name string) {
	r.Name(name, reflect.TypeFor[P]())
}

// Names returns the bound page names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.pages))
	for n := range r.pages {
		names = append(names, n)
	}
	slices.Sort(names)

	return names
}

// routeTable is the file format of a route table.
type routeTable struct {
	Routes map[string]string `yaml:"routes" toml:"routes"`
}

// Load declares a template for each named page. Every name must have been
// bound with [Registry.Name].
func (r *Registry) Load(routes map[string]string) error {
	names := make([]string, 0, len(routes))
	for n := range routes {
		names = append(names, n)
	}
	slices.Sort(names)

	for _, name := range names {
		r.mu.RLock()
		page, ok := r.pages[name]
		r.mu.RUnlock()
		if !ok {
			return newError(ErrNoTemplate, "route table names unknown page %q", name)
		}
		if err := r.Declare(page, routes[name]); err != nil {
			return err
		}
	}

	return nil
}

// LoadYAML loads a YAML route table.
func (r *Registry) LoadYAML(data []byte) error {
	var table routeTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("navigation: decoding yaml route table: %w", err)
	}

	return r.Load(table.Routes)
}

// LoadTOML loads a TOML route table.
func (r *Registry) LoadTOML(data []byte) error {
	var table routeTable
	md, err := toml.Decode(string(data), &table)
	if err != nil {
		return fmt.Errorf("navigation: decoding toml route table: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("navigation: unknown keys in toml route table: %v", undecoded)
	}

	return r.Load(table.Routes)
}

// LoadFile loads a route table, choosing the format by extension
// (.yaml, .yml or .toml).
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("navigation: reading route table: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return r.LoadYAML(data)
	case ".toml":
		return r.LoadTOML(data)
	default:
		return fmt.Errorf("navigation: unsupported route table format %q", ext)
	}
}
