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

package graph

import (
	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"k8s.io/utils/ptr"

	"github.com/dejlek/itl/pkg/schema"
)

// builder turns the generic JSON tree into a linked type graph.
//
// It runs two passes. The construction pass shape-checks every node against
// its kind's grammar, builds the TypeDef variants, and registers every named
// definition (top-level or inline) in the registry; registering before any
// resolution is what makes forward references work. The link pass then
// replaces every string-valued type position with a link to its registered
// target. Resolution is always a lookup producing a link, never a copy of
// the referenced subtree, so self and mutual references are fine.
//
// Shape errors are aggregated best-effort: a malformed node is skipped but
// its siblings are still checked.
type builder struct {
	legacy bool

	reg  *Registry
	errs ErrorList
}

func newBuilder(opts options) *builder {
	return &builder{
		legacy: opts.legacyKinds,
		reg:    newRegistry(),
	}
}

func (b *builder) build(tree any) (*Graph, error) {
	root, ok := tree.(map[string]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadRoot, nil, "document root must be an object, got %s", jsonKind(tree)))
		return nil, b.errs
	}

	rootPath := (*field.Path)(nil)
	b.checkKeys(root, rootPath, sets.New("types", "note"))
	note := b.note(root, rootPath)

	rawTypes, ok := root["types"]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadRoot, nil, "document root is missing the %q key", "types"))
		return nil, b.errs
	}
	list, ok := rawTypes.([]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadRoot, field.NewPath("types"), "%q must be an array, got %s", "types", jsonKind(rawTypes)))
		return nil, b.errs
	}

	// Construction pass: build and register every definition.
	defs := make([]schema.TypeDef, 0, len(list))
	paths := make([]*field.Path, 0, len(list))
	for i, el := range list {
		path := field.NewPath("types").Index(i)
		if def := b.buildType(el, path); def != nil {
			defs = append(defs, def)
			paths = append(paths, path)
		}
	}

	// Link pass: resolve every string reference against the registry.
	// Inline definitions are reached by recursion from their containers,
	// so walking the top-level definitions covers the whole graph.
	for i, def := range defs {
		b.link(def, paths[i])
	}

	if len(b.errs) > 0 {
		return nil, b.errs
	}
	b.reg.freeze()
	return &Graph{reg: b.reg, types: defs, note: note}, nil
}

// buildType dispatches on the node's "kind" and builds the matching variant.
// It returns nil after recording an error when the node is malformed.
func (b *builder) buildType(v any, path *field.Path) schema.TypeDef {
	obj, ok := v.(map[string]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "type definition must be an object, got %s", jsonKind(v)))
		return nil
	}

	rawKind, ok := obj["kind"]
	if !ok {
		b.errs = append(b.errs, structural(CodeUnknownKind, path, "type definition is missing the %q key", "kind"))
		return nil
	}
	kindStr, ok := rawKind.(string)
	if !ok {
		b.errs = append(b.errs, structural(CodeUnknownKind, path.Child("kind"), "%q must be a string, got %s", "kind", jsonKind(rawKind)))
		return nil
	}

	var def schema.TypeDef
	switch kind := schema.Kind(kindStr); kind {
	case schema.KindByte:
		b.checkKeys(obj, path, commonKeys)
		def = &schema.Byte{Header: b.header(obj, path)}
	case schema.KindBool:
		b.checkKeys(obj, path, commonKeys)
		def = &schema.Bool{Header: b.header(obj, path)}
	case schema.KindInt:
		def = b.buildInt(obj, path)
	case schema.KindFloat:
		def = b.buildFloat(obj, path)
	case schema.KindFixed:
		def = b.buildFixed(obj, path)
	case schema.KindSequence:
		def = b.buildSequence(obj, path)
	case schema.KindString:
		def = b.buildString(obj, path)
	case schema.KindRecord:
		def = b.buildRecord(obj, path)
	case schema.KindUnion:
		def = b.buildUnion(obj, path)
	case schema.KindEnum, schema.KindBitset, schema.KindRune:
		if !b.legacy {
			b.errs = append(b.errs, structural(CodeLegacyKind, path.Child("kind"), "kind %q is a legacy kind; enable legacy kinds to accept it", kind))
			return nil
		}
		switch kind {
		case schema.KindEnum:
			def = b.buildEnum(obj, path)
		case schema.KindBitset:
			def = b.buildBitset(obj, path)
		default:
			def = b.buildRune(obj, path)
		}
	default:
		b.errs = append(b.errs, structural(CodeUnknownKind, path.Child("kind"), "unknown kind %q", kindStr))
		return nil
	}

	if def != nil {
		b.register(def, path)
	}
	return def
}

func (b *builder) buildInt(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("bits", "unsigned")))
	def := &schema.Int{Header: b.header(obj, path)}
	if bits, ok := b.optInt(obj, "bits", path); ok {
		def.Bits = ptr.To(bits)
	}
	def.Unsigned, _ = b.optBool(obj, "unsigned", path)
	return def
}

func (b *builder) buildFloat(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("model")))
	def := &schema.Float{Header: b.header(obj, path)}
	if model, ok := b.optString(obj, "model", path); ok {
		def.Model = schema.FloatModel(model)
		if !def.Model.IsValid() {
			b.errs = append(b.errs, structural(CodeBadShape, path.Child("model"), "unknown float model %q", model))
			return nil
		}
	}
	return def
}

func (b *builder) buildFixed(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("base", "digits", "scale")))
	def := &schema.Fixed{Header: b.header(obj, path)}
	okBase, okDigits, okScale := true, true, true
	def.Base, okBase = b.reqInt(obj, "base", path)
	def.Digits, okDigits = b.reqInt(obj, "digits", path)
	def.Scale, okScale = b.reqInt(obj, "scale", path)
	if !okBase || !okDigits || !okScale {
		return nil
	}
	return def
}

func (b *builder) buildString(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("size", "capacity")))
	def := &schema.String{Header: b.header(obj, path)}
	if size, ok := b.optInt(obj, "size", path); ok {
		def.Size = ptr.To(size)
	}
	if capacity, ok := b.optInt(obj, "capacity", path); ok {
		def.Capacity = ptr.To(capacity)
	}
	return def
}

func (b *builder) buildSequence(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("type", "size", "capacity")))
	def := &schema.Sequence{Header: b.header(obj, path)}

	rawType, ok := obj["type"]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "sequence is missing the %q key", "type"))
		return nil
	}
	def.Elem = b.buildRef(rawType, path.Child("type"))

	// size is a scalar count or a multi-dimensional shape. An explicit null
	// is a shape error like any other mistyped value, not an absent key.
	if rawSize, present := obj["size"]; present {
		switch t := rawSize.(type) {
		case int64:
			def.Size = ptr.To(t)
		case []any:
			def.Dims = make([]int64, 0, len(t))
			for i, dim := range t {
				n, ok := dim.(int64)
				if !ok {
					b.errs = append(b.errs, structural(CodeBadShape, path.Child("size").Index(i), "dimension must be an integer, got %s", jsonKind(dim)))
					continue
				}
				def.Dims = append(def.Dims, n)
			}
		default:
			b.errs = append(b.errs, structural(CodeBadShape, path.Child("size"), "%q must be an integer or an array of integers, got %s", "size", jsonKind(rawSize)))
		}
	}

	if capacity, ok := b.optInt(obj, "capacity", path); ok {
		def.Capacity = ptr.To(capacity)
	}
	return def
}

func (b *builder) buildRecord(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("fields")))
	def := &schema.Record{Header: b.header(obj, path)}

	list, ok := b.reqArray(obj, "fields", path)
	if !ok {
		return nil
	}
	for i, el := range list {
		fieldPath := path.Child("fields").Index(i)
		fieldObj, ok := el.(map[string]any)
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, fieldPath, "field must be an object, got %s", jsonKind(el)))
			continue
		}
		b.checkKeys(fieldObj, fieldPath, sets.New("name", "type", "optional", "note"))

		f := schema.Field{Note: b.note(fieldObj, fieldPath)}
		name, ok := b.reqString(fieldObj, "name", fieldPath)
		if !ok {
			continue
		}
		f.Name = name
		rawType, ok := fieldObj["type"]
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, fieldPath, "field is missing the %q key", "type"))
			continue
		}
		f.Type = b.buildRef(rawType, fieldPath.Child("type"))
		f.Optional, _ = b.optBool(fieldObj, "optional", fieldPath)
		def.Fields = append(def.Fields, f)
	}
	return def
}

func (b *builder) buildUnion(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("discriminator", "fields")))
	def := &schema.Union{Header: b.header(obj, path)}

	rawDisc, ok := obj["discriminator"]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "union is missing the %q key", "discriminator"))
		return nil
	}
	def.Discriminator = b.buildRef(rawDisc, path.Child("discriminator"))

	list, ok := b.reqArray(obj, "fields", path)
	if !ok {
		return nil
	}
	for i, el := range list {
		fieldPath := path.Child("fields").Index(i)
		fieldObj, ok := el.(map[string]any)
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, fieldPath, "union field must be an object, got %s", jsonKind(el)))
			continue
		}
		b.checkKeys(fieldObj, fieldPath, sets.New("name", "type", "labels", "note"))

		f := schema.UnionField{Note: b.note(fieldObj, fieldPath)}
		name, ok := b.reqString(fieldObj, "name", fieldPath)
		if !ok {
			continue
		}
		f.Name = name
		rawType, ok := fieldObj["type"]
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, fieldPath, "union field is missing the %q key", "type"))
			continue
		}
		f.Type = b.buildRef(rawType, fieldPath.Child("type"))
		f.Labels = b.labels(fieldObj, fieldPath)
		def.Fields = append(def.Fields, f)
	}
	return def
}

// labels extracts a union field's label list. Absent labels mean the empty
// set, which marks the default arm.
func (b *builder) labels(obj map[string]any, path *field.Path) []any {
	raw, ok := obj["labels"]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child("labels"), "%q must be an array, got %s", "labels", jsonKind(raw)))
		return nil
	}
	labels := make([]any, 0, len(list))
	for i, el := range list {
		switch el.(type) {
		case int64, string, bool:
			labels = append(labels, el)
		default:
			b.errs = append(b.errs, structural(CodeBadShape, path.Child("labels").Index(i), "label must be an integer, string or boolean, got %s", jsonKind(el)))
		}
	}
	return labels
}

func (b *builder) buildEnum(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("values")))
	def := &schema.Enum{Header: b.header(obj, path)}

	list, ok := b.reqArray(obj, "values", path)
	if !ok {
		return nil
	}
	for i, el := range list {
		valuePath := path.Child("values").Index(i)
		valueObj, ok := el.(map[string]any)
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, valuePath, "enum value must be an object, got %s", jsonKind(el)))
			continue
		}
		b.checkKeys(valueObj, valuePath, sets.New("name", "value", "note"))

		v := schema.EnumValue{Note: b.note(valueObj, valuePath)}
		name, okName := b.reqString(valueObj, "name", valuePath)
		value, okValue := b.reqInt(valueObj, "value", valuePath)
		if !okName || !okValue {
			continue
		}
		v.Name, v.Value = name, value
		def.Values = append(def.Values, v)
	}
	return def
}

func (b *builder) buildBitset(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("flags")))
	def := &schema.Bitset{Header: b.header(obj, path)}

	list, ok := b.reqArray(obj, "flags", path)
	if !ok {
		return nil
	}
	for i, el := range list {
		flagPath := path.Child("flags").Index(i)
		flagObj, ok := el.(map[string]any)
		if !ok {
			b.errs = append(b.errs, structural(CodeBadShape, flagPath, "bitset flag must be an object, got %s", jsonKind(el)))
			continue
		}
		b.checkKeys(flagObj, flagPath, sets.New("name", "bit", "note"))

		f := schema.BitsetFlag{Note: b.note(flagObj, flagPath)}
		name, okName := b.reqString(flagObj, "name", flagPath)
		bit, okBit := b.reqInt(flagObj, "bit", flagPath)
		if !okName || !okBit {
			continue
		}
		f.Name, f.Bit = name, bit
		def.Flags = append(def.Flags, f)
	}
	return def
}

func (b *builder) buildRune(obj map[string]any, path *field.Path) schema.TypeDef {
	b.checkKeys(obj, path, commonKeys.Union(sets.New("encoding")))
	def := &schema.Rune{Header: b.header(obj, path)}
	def.Encoding, _ = b.optString(obj, "encoding", path)
	return def
}

// buildRef builds a type position: a string is a named reference, an object
// is an inline definition built (and, when named, registered) in place.
func (b *builder) buildRef(v any, path *field.Path) schema.Ref {
	switch t := v.(type) {
	case string:
		if t == "" {
			b.errs = append(b.errs, structural(CodeBadShape, path, "type reference must not be empty"))
			return schema.Ref{}
		}
		return schema.Ref{Name: t}
	case map[string]any:
		return schema.Ref{Def: b.buildType(t, path)}
	default:
		b.errs = append(b.errs, structural(CodeBadShape, path, "type must be a name or an inline definition, got %s", jsonKind(v)))
		return schema.Ref{}
	}
}

// register adds a named definition to the registry. Anonymous definitions
// stay owned by their container and are never registered.
func (b *builder) register(def schema.TypeDef, path *field.Path) {
	name := def.TypeName()
	if name == "" {
		return
	}
	if !b.reg.add(name, def) {
		b.errs = append(b.errs, structural(CodeDuplicateTypeName, path.Child("name"), "type name %q is already declared", name))
	}
}

// link resolves every type position under def. Named references become links
// into the registry; inline definitions are recursed into. A reference that
// failed construction is skipped, its error is already recorded.
func (b *builder) link(def schema.TypeDef, path *field.Path) {
	switch d := def.(type) {
	case *schema.Sequence:
		b.linkRef(&d.Elem, path.Child("type"))
	case *schema.Record:
		for i := range d.Fields {
			b.linkRef(&d.Fields[i].Type, path.Child("fields").Index(i).Child("type"))
		}
	case *schema.Union:
		b.linkRef(&d.Discriminator, path.Child("discriminator"))
		for i := range d.Fields {
			b.linkRef(&d.Fields[i].Type, path.Child("fields").Index(i).Child("type"))
		}
	}
}

func (b *builder) linkRef(r *schema.Ref, path *field.Path) {
	if r.Name != "" {
		target, ok := b.reg.Lookup(r.Name)
		if !ok {
			b.errs = append(b.errs, structural(CodeUnknownTypeReference, path, "no type named %q is declared in this document", r.Name))
			return
		}
		r.Def = target
		return
	}
	if r.Def != nil {
		b.link(r.Def, path)
	}
}

// commonKeys are accepted on every type definition object.
var commonKeys = sets.New("kind", "name", "note")

// checkKeys flags keys outside the kind's grammar.
func (b *builder) checkKeys(obj map[string]any, path *field.Path, allowed sets.Set[string]) {
	for key := range obj {
		if !allowed.Has(key) {
			b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "unexpected key %q", key))
		}
	}
}

// header extracts the fields shared by all kinds.
func (b *builder) header(obj map[string]any, path *field.Path) schema.Header {
	h := schema.Header{Note: b.note(obj, path)}
	h.Name, _ = b.optString(obj, "name", path)
	return h
}

// note extracts the opaque annotation payload, if any. Its contents are
// preserved as decoded, never walked.
func (b *builder) note(obj map[string]any, path *field.Path) schema.Note {
	raw, ok := obj["note"]
	if !ok {
		return nil
	}
	note, ok := raw.(map[string]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child("note"), "%q must be an object, got %s", "note", jsonKind(raw)))
		return nil
	}
	return schema.Note(note)
}

func (b *builder) reqArray(obj map[string]any, key string, path *field.Path) ([]any, bool) {
	raw, ok := obj[key]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "missing the %q key", key))
		return nil, false
	}
	list, ok := raw.([]any)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be an array, got %s", key, jsonKind(raw)))
		return nil, false
	}
	return list, true
}

func (b *builder) reqString(obj map[string]any, key string, path *field.Path) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "missing the %q key", key))
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be a string, got %s", key, jsonKind(raw)))
		return "", false
	}
	return s, true
}

func (b *builder) optString(obj map[string]any, key string, path *field.Path) (string, bool) {
	raw, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be a string, got %s", key, jsonKind(raw)))
		return "", false
	}
	return s, true
}

func (b *builder) reqInt(obj map[string]any, key string, path *field.Path) (int64, bool) {
	raw, ok := obj[key]
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path, "missing the %q key", key))
		return 0, false
	}
	n, ok := raw.(int64)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be an integer, got %s", key, jsonKind(raw)))
		return 0, false
	}
	return n, true
}

func (b *builder) optInt(obj map[string]any, key string, path *field.Path) (int64, bool) {
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}
	n, ok := raw.(int64)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be an integer, got %s", key, jsonKind(raw)))
		return 0, false
	}
	return n, true
}

func (b *builder) optBool(obj map[string]any, key string, path *field.Path) (bool, bool) {
	raw, ok := obj[key]
	if !ok {
		return false, false
	}
	v, ok := raw.(bool)
	if !ok {
		b.errs = append(b.errs, structural(CodeBadShape, path.Child(key), "%q must be a boolean, got %s", key, jsonKind(raw)))
		return false, false
	}
	return v, true
}

// jsonKind names a decoded JSON value's kind for error messages.
func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case int64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
