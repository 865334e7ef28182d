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

// Package schema defines the data model of the Intermediate Type Language:
// a closed set of TypeDef variants, one per kind, plus the Ref link type
// used for every type position. The model is serialization-neutral; it is
// produced by the graph package and consumed read-only by translators.
package schema

// Kind discriminates the TypeDef variants.
type Kind string

const (
	KindByte     Kind = "byte"
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindFixed    Kind = "fixed"
	KindSequence Kind = "sequence"
	KindString   Kind = "string"
	KindRecord   Kind = "record"
	KindUnion    Kind = "union"

	// Legacy kinds from the first grammar generation. Only accepted when
	// the compiler runs with legacy kinds enabled.
	KindBitset Kind = "bitset"
	KindEnum   Kind = "enum"
	KindRune   Kind = "rune"
)

// Note is an opaque annotation tree attached to a type definition or field.
// Its contents are consumer-defined; the compiler preserves it verbatim and
// never interprets it.
type Note map[string]any

// TypeDef is a single type declaration, named or inline, in one of the fixed
// kinds. The set of implementations is closed: every consumer dispatches on
// Kind and a switch covering all kinds is exhaustive.
type TypeDef interface {
	Kind() Kind

	// TypeName returns the declared name, or "" for anonymous definitions.
	TypeName() string

	// Annotation returns the node's note payload, or nil.
	Annotation() Note

	isTypeDef()
}

// Header carries the two fields common to every TypeDef variant.
type Header struct {
	// Name is unique within the document when non-empty.
	Name string
	// Note is the opaque annotation payload, if any.
	Note Note
}

func (h Header) TypeName() string { return h.Name }
func (h Header) Annotation() Note { return h.Note }

// Ref is a type position: either a named reference into the document's
// registry or an inline anonymous definition.
//
// For a named reference, Name holds the referenced name and Def is nil until
// the builder's link pass resolves it. For an inline definition, Name is ""
// and Def is set at construction. After linking, Def is always non-nil and
// Name reports whether the position was written as a reference.
//
// Def is a link, never a copy: two refs naming the same type share one
// TypeDef, and reference cycles are representable because the registry owns
// every named node.
type Ref struct {
	Name string
	Def  TypeDef
}

// Named reports whether the position was written as a string reference.
func (r Ref) Named() bool { return r.Name != "" }
