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

// Package graph compiles Intermediate Type Language documents.
//
// The pipeline is strictly forward: bytes are decoded into a generic JSON
// tree (parser), the tree is shape-checked, built into TypeDef nodes and
// linked through a name registry (builder), and the linked graph is run
// through the semantic rules (validator). An invalid document never yields a
// partial graph: Compile returns either a Graph or the complete list of
// problems, and nothing else.
//
// One Compile call is one independent pipeline; there is no shared state
// between calls, so documents may be compiled concurrently.
package graph

import (
	"slices"

	"golang.org/x/exp/maps"

	"github.com/dejlek/itl/pkg/schema"
)

type options struct {
	legacyKinds bool
}

// Option configures a Compile run.
type Option func(*options)

// WithLegacyKinds accepts the first grammar generation's bitset, enum and
// rune kinds. Documents using them are rejected with a structural error
// otherwise.
func WithLegacyKinds() Option {
	return func(o *options) { o.legacyKinds = true }
}

// Compile parses, builds and validates an ITL document.
//
// On failure the returned error is an ErrorList whose entries are all
// ParseError, all StructuralError, or all ValidationError values, depending
// on the stage that rejected the document.
func Compile(data []byte, opts ...Option) (*Graph, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	tree, err := parse(data)
	if err != nil {
		return nil, ErrorList{err}
	}

	g, err := newBuilder(o).build(tree)
	if err != nil {
		return nil, err
	}

	if errs := validate(g, o); len(errs) > 0 {
		return nil, errs
	}
	return g, nil
}

// Registry maps type names to the definitions that carry them. It owns every
// named node; references into it are links, never copies, so named types can
// reference each other in cycles without ownership cycles. It is populated
// during the build and frozen before validation.
type Registry struct {
	byName map[string]schema.TypeDef
	frozen bool
}

func newRegistry() *Registry {
	return &Registry{byName: make(map[string]schema.TypeDef)}
}

// add registers a definition under name. It reports false when the name is
// taken.
func (r *Registry) add(name string, def schema.TypeDef) bool {
	if r.frozen {
		panic("registry is frozen")
	}
	if _, exists := r.byName[name]; exists {
		return false
	}
	r.byName[name] = def
	return true
}

func (r *Registry) freeze() { r.frozen = true }

// Lookup resolves a type name to its definition.
func (r *Registry) Lookup(name string) (schema.TypeDef, bool) {
	def, ok := r.byName[name]
	return def, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	names := maps.Keys(r.byName)
	slices.Sort(names)
	return names
}

// Graph is a validated type graph. It is immutable once built: consumers,
// including concurrent ones, read through it and never mutate it. A
// translator that needs a transformed schema builds a new document.
type Graph struct {
	reg   *Registry
	types []schema.TypeDef
	note  schema.Note
}

// Types returns the document's top-level definitions in declaration order.
func (g *Graph) Types() []schema.TypeDef {
	return slices.Clone(g.types)
}

// Names returns the names of the top-level named definitions in declaration
// order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.types))
	for _, def := range g.types {
		if name := def.TypeName(); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Lookup resolves a name to its definition. The result is the same node
// every reference to that name links to.
func (g *Graph) Lookup(name string) (schema.TypeDef, bool) {
	return g.reg.Lookup(name)
}

// Registry exposes the graph's name registry.
func (g *Graph) Registry() *Registry { return g.reg }

// Note returns the document-level annotation payload, or nil.
func (g *Graph) Note() schema.Note { return g.note }
