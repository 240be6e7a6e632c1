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
	"log/slog"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// config holds [Binder] configuration.
type config struct {
	source       TemplateSource
	converters   converterSet
	logger       *slog.Logger
	tagValidator *validator.Validate
}

// Option configures a [Binder].
type Option func(*config)

func defaultConfig() *config {
	return &config{
		source: DefaultSource,
		logger: slog.New(slog.DiscardHandler),
	}
}

func (c *config) validate() error {
	if c.source == nil {
		return errors.New("navigation: template source cannot be nil")
	}
	if c.logger == nil {
		return errors.New("navigation: logger cannot be nil")
	}

	return nil
}

// WithTemplateSource sets where page templates are looked up.
// The default is [DefaultSource].
//
// Example:
//
//	reg := navigation.NewRegistry()
//	binder := navigation.MustNew(
//	    navigation.WithTemplateSource(navigation.ChainSources(reg, navigation.DeclaredTemplates)),
//	)
func WithTemplateSource(src TemplateSource) Option {
	return func(c *config) {
		c.source = src
	}
}

// WithConverter registers a bidirectional converter for T. It is consulted
// before built-in handling and also serves *T. Either function may be nil
// to keep the built-in behavior for that direction.
//
// Example:
//
//	navigation.WithConverter(
//	    navigation.TimeConverter("2006-01-02"),
//	    navigation.TimeFormatter("2006-01-02"),
//	)
func WithConverter[T any](parse func(string) (T, error), format func(T) string) Option {
	return func(c *config) {
		var conv converter
		if parse != nil {
			conv.parse = func(s string) (any, error) {
				return parse(s)
			}
		}
		if format != nil {
			conv.format = func(v any) string {
				if p, ok := v.(*T); ok {
					return format(*p)
				}
				return format(v.(T))
			}
		}
		c.addConverter(reflect.TypeFor[T](), conv)
	}
}

// WithTypeConverter registers a parser for a type known only at runtime.
//
// Example:
//
//	navigation.WithTypeConverter(
//	    reflect.TypeFor[uuid.UUID](),
//	    func(s string) (any, error) { return uuid.Parse(s) },
//	)
func WithTypeConverter(typ reflect.Type, parse func(string) (any, error)) Option {
	return func(c *config) {
		c.addConverter(typ, converter{parse: parse})
	}
}

func (c *config) addConverter(typ reflect.Type, conv converter) {
	if c.converters == nil {
		c.converters = make(converterSet)
	}
	c.converters[typ] = conv
}

// WithLogger sets the logger used for cache fills and binding failures.
// The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithValidation validates every route bound by [Binder.SetParameters]
// against its `validate` struct tags. A nil v selects a default validator
// that reports fields by their binding names.
//
// Example:
//
//	type ProductRoute struct {
//	    navigation.For[ProductPage]
//	    Id   int    `validate:"gt=0"`
//	    Tab  string `validate:"omitempty,oneof=overview history"`
//	}
//
//	binder := navigation.MustNew(navigation.WithValidation(nil))
func WithValidation(v *validator.Validate) Option {
	return func(c *config) {
		if v == nil {
			v = newValidator()
		}
		c.tagValidator = v
	}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by binding name
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		switch name := sf.Tag.Get(TagRoute); name {
		case "", "-":
			return sf.Name
		default:
			return name
		}
	})

	return v
}
