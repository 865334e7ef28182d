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

package schema

// Sequence is an ordered collection of one element type.
//
// Sizing is one of: nothing (variable length), a scalar Size (exact element
// count), or Dims (a fixed multi-dimensional shape). Size and Dims are
// mutually exclusive; the builder fills at most one. Capacity is an advisory
// upper bound, meaningful when Size is absent; when both are present Size is
// authoritative for allocation.
type Sequence struct {
	Header
	Elem     Ref
	Size     *int64
	Dims     []int64
	Capacity *int64
}

func (*Sequence) Kind() Kind { return KindSequence }
func (*Sequence) isTypeDef() {}

// Field is a single record member.
type Field struct {
	// Name is unique within the owning record.
	Name     string
	Type     Ref
	Optional bool
	Note     Note
}

// Record is an ordered collection of named fields.
type Record struct {
	Header
	Fields []Field
}

func (*Record) Kind() Kind { return KindRecord }
func (*Record) isTypeDef() {}

// Field returns the named field, or nil.
func (r *Record) Field(name string) *Field {
	for i := range r.Fields {
		if r.Fields[i].Name == name {
			return &r.Fields[i]
		}
	}
	return nil
}

// UnionField is one arm of a union.
//
// Labels holds the discriminator values that select this arm, in declaration
// order. An empty label set marks the arm as the union's default, selected
// when no other label matches. Label values are JSON scalars as decoded by
// the parser (int64, string or bool).
type UnionField struct {
	// Name is unique within the owning union.
	Name   string
	Type   Ref
	Labels []any
	Note   Note
}

// Default reports whether this arm is the union's default.
func (f UnionField) Default() bool { return len(f.Labels) == 0 }

// Union is a discriminated choice between arms. Discriminator is the type
// whose values select the active arm.
type Union struct {
	Header
	Discriminator Ref
	Fields        []UnionField
}

func (*Union) Kind() Kind { return KindUnion }
func (*Union) isTypeDef() {}

// DefaultField returns the union's default arm, or nil when every arm is
// labeled.
func (u *Union) DefaultField() *UnionField {
	for i := range u.Fields {
		if u.Fields[i].Default() {
			return &u.Fields[i]
		}
	}
	return nil
}
