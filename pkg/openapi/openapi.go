// Copyright 2026 The ITL Authors.
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

// Package openapi renders a validated ITL type graph as an OpenAPI v3
// schema document. It is one example of a translator consuming the graph
// through its read interface; it never mutates the graph.
package openapi

import (
	"fmt"
	"strconv"

	extv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	"k8s.io/utils/ptr"

	"github.com/dejlek/itl/pkg/graph"
	"github.com/dejlek/itl/pkg/schema"
)

// Export converts a validated graph into a single schema document: every
// named type becomes an entry under "definitions", and references between
// named types become $ref links, which keeps recursive types finite.
//
// The mapping is structural, not an encoding: sizes become length bounds,
// bit widths become value bounds, unions become oneOf. Notes are opaque and
// are not carried over.
func Export(g *graph.Graph) (*extv1.JSONSchemaProps, error) {
	root := &extv1.JSONSchemaProps{
		Type:        "object",
		Definitions: extv1.JSONSchemaDefinitions{},
	}

	// The registry covers every named definition, top-level or inline, so
	// each name a $ref can point at gets a definitions entry.
	for _, name := range g.Registry().Names() {
		def, ok := g.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("graph is missing named type %q", name)
		}
		s, err := typeSchema(def)
		if err != nil {
			return nil, fmt.Errorf("exporting type %q: %w", name, err)
		}
		root.Definitions[name] = *s
	}

	return root, nil
}

// refSchema renders a type position. Any definition carrying a name is
// rendered as a $ref to its definitions entry, including inline named
// definitions; only anonymous definitions are expanded in place.
func refSchema(r schema.Ref) (*extv1.JSONSchemaProps, error) {
	if r.Def == nil {
		return nil, fmt.Errorf("unresolved type reference %q", r.Name)
	}
	if name := r.Def.TypeName(); name != "" {
		return &extv1.JSONSchemaProps{Ref: ptr.To("#/definitions/" + name)}, nil
	}
	return typeSchema(r.Def)
}

func typeSchema(def schema.TypeDef) (*extv1.JSONSchemaProps, error) {
	switch d := def.(type) {
	case *schema.Byte:
		return &extv1.JSONSchemaProps{
			Type:    "integer",
			Minimum: ptr.To(0.0),
			Maximum: ptr.To(255.0),
		}, nil
	case *schema.Bool:
		return &extv1.JSONSchemaProps{Type: "boolean"}, nil
	case *schema.Int:
		return intSchema(d), nil
	case *schema.Float:
		s := &extv1.JSONSchemaProps{Type: "number"}
		if d.Model != "" {
			s.Format = string(d.Model)
		}
		return s, nil
	case *schema.Fixed:
		return &extv1.JSONSchemaProps{
			Type:        "string",
			Description: fmt.Sprintf("fixed-point decimal: base %d, %d digits, scale %d", d.Base, d.Digits, d.Scale),
		}, nil
	case *schema.String:
		s := &extv1.JSONSchemaProps{Type: "string"}
		if d.Size != nil {
			s.MinLength = ptr.To(*d.Size)
			s.MaxLength = ptr.To(*d.Size)
		} else if d.Capacity != nil {
			s.MaxLength = ptr.To(*d.Capacity)
		}
		return s, nil
	case *schema.Sequence:
		return sequenceSchema(d)
	case *schema.Record:
		return recordSchema(d)
	case *schema.Union:
		return unionSchema(d)
	case *schema.Enum:
		return enumSchema(d), nil
	case *schema.Bitset:
		return &extv1.JSONSchemaProps{
			Type:        "integer",
			Minimum:     ptr.To(0.0),
			Description: fmt.Sprintf("bitset with %d named flags", len(d.Flags)),
		}, nil
	case *schema.Rune:
		return &extv1.JSONSchemaProps{
			Type:      "string",
			MinLength: ptr.To(int64(1)),
			MaxLength: ptr.To(int64(1)),
		}, nil
	default:
		return nil, fmt.Errorf("unhandled kind %q", def.Kind())
	}
}

func intSchema(d *schema.Int) *extv1.JSONSchemaProps {
	s := &extv1.JSONSchemaProps{Type: "integer"}
	if d.Unsigned {
		s.Minimum = ptr.To(0.0)
	}
	if d.Bits == nil {
		return s
	}
	bits := *d.Bits
	// Bounds beyond float64's exact integer range would be misleading.
	if bits <= 0 || bits > 52 {
		return s
	}
	if d.Unsigned {
		s.Maximum = ptr.To(float64(int64(1)<<bits - 1))
		return s
	}
	s.Minimum = ptr.To(float64(-(int64(1) << (bits - 1))))
	s.Maximum = ptr.To(float64(int64(1)<<(bits-1) - 1))
	return s
}

func sequenceSchema(d *schema.Sequence) (*extv1.JSONSchemaProps, error) {
	elem, err := refSchema(d.Elem)
	if err != nil {
		return nil, err
	}

	// A multi-dimensional shape nests one array level per dimension,
	// innermost dimension first.
	if len(d.Dims) > 0 {
		s := elem
		for i := len(d.Dims) - 1; i >= 0; i-- {
			s = &extv1.JSONSchemaProps{
				Type:     "array",
				Items:    &extv1.JSONSchemaPropsOrArray{Schema: s},
				MinItems: ptr.To(d.Dims[i]),
				MaxItems: ptr.To(d.Dims[i]),
			}
		}
		return s, nil
	}

	s := &extv1.JSONSchemaProps{
		Type:  "array",
		Items: &extv1.JSONSchemaPropsOrArray{Schema: elem},
	}
	if d.Size != nil {
		s.MinItems = ptr.To(*d.Size)
		s.MaxItems = ptr.To(*d.Size)
	} else if d.Capacity != nil {
		s.MaxItems = ptr.To(*d.Capacity)
	}
	return s, nil
}

func recordSchema(d *schema.Record) (*extv1.JSONSchemaProps, error) {
	s := &extv1.JSONSchemaProps{
		Type:       "object",
		Properties: map[string]extv1.JSONSchemaProps{},
	}
	for _, f := range d.Fields {
		fs, err := refSchema(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		s.Properties[f.Name] = *fs
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s, nil
}

// unionSchema renders a union as oneOf over single-property objects, one per
// arm, keyed by the arm name.
func unionSchema(d *schema.Union) (*extv1.JSONSchemaProps, error) {
	s := &extv1.JSONSchemaProps{Type: "object"}
	for _, f := range d.Fields {
		fs, err := refSchema(f.Type)
		if err != nil {
			return nil, fmt.Errorf("union field %q: %w", f.Name, err)
		}
		s.OneOf = append(s.OneOf, extv1.JSONSchemaProps{
			Type:       "object",
			Properties: map[string]extv1.JSONSchemaProps{f.Name: *fs},
			Required:   []string{f.Name},
		})
	}
	return s, nil
}

func enumSchema(d *schema.Enum) *extv1.JSONSchemaProps {
	s := &extv1.JSONSchemaProps{Type: "integer"}
	for _, val := range d.Values {
		s.Enum = append(s.Enum, extv1.JSON{Raw: []byte(strconv.FormatInt(val.Value, 10))})
	}
	return s
}
