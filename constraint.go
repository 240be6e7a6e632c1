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

import "strings"

// ConstraintKind classifies the constraint suffix of a template parameter,
// as in {Id:guid}. Constraints are documentation for this package: matching
// never enforces them. Adapters such as navhttp use them to build router
// patterns.
type ConstraintKind uint8

const (
	ConstraintNone ConstraintKind = iota
	ConstraintInt
	ConstraintLong
	ConstraintFloat
	ConstraintDouble
	ConstraintDecimal
	ConstraintBool
	ConstraintGUID
	ConstraintDateTime
	ConstraintAlpha
	ConstraintNonFile
	ConstraintOther // unrecognized constraint text
)

var constraintNames = map[string]ConstraintKind{
	"int":      ConstraintInt,
	"long":     ConstraintLong,
	"float":    ConstraintFloat,
	"double":   ConstraintDouble,
	"decimal":  ConstraintDecimal,
	"bool":     ConstraintBool,
	"guid":     ConstraintGUID,
	"uuid":     ConstraintGUID,
	"datetime": ConstraintDateTime,
	"alpha":    ConstraintAlpha,
	"nonfile":  ConstraintNonFile,
}

// String returns the canonical constraint name.
func (k ConstraintKind) String() string {
	switch k {
	case ConstraintNone:
		return ""
	case ConstraintInt:
		return "int"
	case ConstraintLong:
		return "long"
	case ConstraintFloat:
		return "float"
	case ConstraintDouble:
		return "double"
	case ConstraintDecimal:
		return "decimal"
	case ConstraintBool:
		return "bool"
	case ConstraintGUID:
		return "guid"
	case ConstraintDateTime:
		return "datetime"
	case ConstraintAlpha:
		return "alpha"
	case ConstraintNonFile:
		return "nonfile"
	default:
		return "other"
	}
}

// Constraint is the recorded constraint of a template parameter.
type Constraint struct {
	Kind ConstraintKind
	Text string // raw text after the first ':'
}

func parseConstraint(text string) Constraint {
	if text == "" {
		return Constraint{}
	}
	if kind, ok := constraintNames[strings.ToLower(text)]; ok {
		return Constraint{Kind: kind, Text: text}
	}

	return Constraint{Kind: ConstraintOther, Text: text}
}

// Pattern returns a regular expression (without anchors) describing the
// values the constraint admits, or "" when any segment is acceptable.
func (c Constraint) Pattern() string {
	switch c.Kind {
	case ConstraintInt, ConstraintLong:
		return `-?\d+`
	case ConstraintFloat, ConstraintDouble, ConstraintDecimal:
		return `-?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`
	case ConstraintBool:
		return `(?i:true|false)`
	case ConstraintGUID:
		return `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	case ConstraintDateTime:
		return `\d{4}-\d{2}-\d{2}(?:T\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:\d{2})?)?`
	case ConstraintAlpha:
		return `[a-zA-Z]+`
	case ConstraintNonFile:
		return `[^/.]+`
	default:
		return ""
	}
}
