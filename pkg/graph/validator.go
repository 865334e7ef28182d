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
	"fmt"
	"unicode/utf8"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/dejlek/itl/pkg/schema"
)

// validator runs the semantic rules over a fully linked graph. The rules are
// independent and every violation is collected; acceptance is all-or-nothing.
type validator struct {
	errs ErrorList
}

// node pairs a definition with its document path. Every definition, named or
// inline, appears exactly once: inline children are reached from their
// container, named references are links and are not followed.
type node struct {
	def  schema.TypeDef
	path *field.Path
}

func validate(g *Graph, _ options) ErrorList {
	v := &validator{}

	var nodes []node
	for i, def := range g.types {
		collect(def, field.NewPath("types").Index(i), &nodes)
	}

	for _, n := range nodes {
		v.checkNode(n.def, n.path)
	}
	v.checkFinite(nodes)

	return v.errs
}

func collect(def schema.TypeDef, path *field.Path, out *[]node) {
	*out = append(*out, node{def: def, path: path})
	switch d := def.(type) {
	case *schema.Sequence:
		collectRef(d.Elem, path.Child("type"), out)
	case *schema.Record:
		for i := range d.Fields {
			collectRef(d.Fields[i].Type, path.Child("fields").Index(i).Child("type"), out)
		}
	case *schema.Union:
		collectRef(d.Discriminator, path.Child("discriminator"), out)
		for i := range d.Fields {
			collectRef(d.Fields[i].Type, path.Child("fields").Index(i).Child("type"), out)
		}
	}
}

func collectRef(r schema.Ref, path *field.Path, out *[]node) {
	if !r.Named() && r.Def != nil {
		collect(r.Def, path, out)
	}
}

func (v *validator) checkNode(def schema.TypeDef, path *field.Path) {
	switch d := def.(type) {
	case *schema.Byte, *schema.Bool, *schema.Float, *schema.Rune:
	case *schema.Int:
		if d.Bits != nil && *d.Bits <= 0 {
			v.errs = append(v.errs, semantic(RuleIntBits, path.Child("bits"), "bits must be positive, got %d", *d.Bits))
		}
	case *schema.Fixed:
		v.checkFixed(d, path)
	case *schema.String:
		v.checkSizeCapacity(d.Size, d.Capacity, path)
	case *schema.Sequence:
		v.checkSizeCapacity(d.Size, d.Capacity, path)
		for i, dim := range d.Dims {
			if dim <= 0 {
				v.errs = append(v.errs, semantic(RuleDimensionPositive, path.Child("size").Index(i), "dimension must be a positive integer, got %d", dim))
			}
		}
	case *schema.Record:
		v.checkRecord(d, path)
	case *schema.Union:
		v.checkUnion(d, path)
	case *schema.Enum:
		v.checkEnum(d, path)
	case *schema.Bitset:
		v.checkBitset(d, path)
	}
}

func (v *validator) checkFixed(d *schema.Fixed, path *field.Path) {
	if d.Base < 2 {
		v.errs = append(v.errs, semantic(RuleFixedSanity, path.Child("base"), "base must be at least 2, got %d", d.Base))
	}
	if d.Digits <= 0 {
		v.errs = append(v.errs, semantic(RuleFixedSanity, path.Child("digits"), "digits must be positive, got %d", d.Digits))
	}
	if d.Scale < 0 || d.Scale > d.Digits {
		v.errs = append(v.errs, semantic(RuleFixedSanity, path.Child("scale"), "scale must be between 0 and digits (%d), got %d", d.Digits, d.Scale))
	}
}

// checkSizeCapacity enforces the ordering between a scalar size and a
// capacity hint. Multi-dimension shapes are exempt; their dimensions are
// checked individually.
func (v *validator) checkSizeCapacity(size, capacity *int64, path *field.Path) {
	if size != nil && *size < 0 {
		v.errs = append(v.errs, semantic(RuleSizeCapacity, path.Child("size"), "size must not be negative, got %d", *size))
	}
	if capacity != nil && *capacity < 0 {
		v.errs = append(v.errs, semantic(RuleSizeCapacity, path.Child("capacity"), "capacity must not be negative, got %d", *capacity))
	}
	if size != nil && capacity != nil && *size > *capacity {
		v.errs = append(v.errs, semantic(RuleSizeCapacity, path.Child("size"), "size %d exceeds capacity %d", *size, *capacity))
	}
}

func (v *validator) checkRecord(d *schema.Record, path *field.Path) {
	seen := map[string]int{}
	for i, f := range d.Fields {
		if first, dup := seen[f.Name]; dup {
			v.errs = append(v.errs, semantic(RuleFieldNameUnique, path.Child("fields").Index(i).Child("name"),
				"field name %q already used at %s", f.Name, path.Child("fields").Index(first).Child("name")))
			continue
		}
		seen[f.Name] = i
	}
}

func (v *validator) checkUnion(d *schema.Union, path *field.Path) {
	if len(d.Fields) == 0 {
		v.errs = append(v.errs, semantic(RuleUnionNonEmpty, path.Child("fields"), "union must declare at least one field"))
		return
	}

	seen := map[string]int{}
	for i, f := range d.Fields {
		if first, dup := seen[f.Name]; dup {
			v.errs = append(v.errs, semantic(RuleFieldNameUnique, path.Child("fields").Index(i).Child("name"),
				"field name %q already used at %s", f.Name, path.Child("fields").Index(first).Child("name")))
			continue
		}
		seen[f.Name] = i
	}

	// Exactly zero or one default arm. A missing default is legal: it only
	// means discriminator values outside every label set are
	// unrepresentable, which surfaces when a translator meets one.
	defaultAt := -1
	for i, f := range d.Fields {
		if !f.Default() {
			continue
		}
		if defaultAt >= 0 {
			v.errs = append(v.errs, semantic(RuleDefaultCardinality, path.Child("fields").Index(i),
				"second default field %q; %q at %s is already the default", f.Name, d.Fields[defaultAt].Name, path.Child("fields").Index(defaultAt)))
			continue
		}
		defaultAt = i
	}

	v.checkLabels(d, path)
}

// checkLabels enforces per-arm label uniqueness, pairwise disjointness
// across arms, and that each label is a legal value of the discriminator's
// declared type.
func (v *validator) checkLabels(d *schema.Union, path *field.Path) {
	disc := d.Discriminator.Def
	switch disc.(type) {
	case nil, *schema.Int, *schema.Byte, *schema.Bool, *schema.String, *schema.Rune, *schema.Enum:
	default:
		v.errs = append(v.errs, semantic(RuleDiscriminator, path.Child("discriminator"),
			"kind %q cannot discriminate a union", disc.Kind()))
		disc = nil
	}

	claimed := map[string]*field.Path{} // label key -> first claiming position
	for i, f := range d.Fields {
		arm := sets.New[string]()
		for j, label := range f.Labels {
			labelPath := path.Child("fields").Index(i).Child("labels").Index(j)
			v.checkLabelValue(disc, label, labelPath)

			key := labelKey(label)
			if arm.Has(key) {
				v.errs = append(v.errs, semantic(RuleLabelUnique, labelPath, "duplicate label %v", label))
				continue
			}
			arm.Insert(key)

			if first, taken := claimed[key]; taken {
				v.errs = append(v.errs, semantic(RuleLabelDisjoint, labelPath,
					"label %v is already claimed at %s; label sets must be disjoint", label, first))
				continue
			}
			claimed[key] = labelPath
		}
	}
}

// checkLabelValue checks one label against the resolved discriminator type.
func (v *validator) checkLabelValue(disc schema.TypeDef, label any, path *field.Path) {
	if disc == nil {
		return
	}
	switch d := disc.(type) {
	case *schema.Int:
		n, ok := label.(int64)
		if !ok {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v is not an integer", label))
			return
		}
		if d.Unsigned && n < 0 {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %d is negative but the discriminator is unsigned", n))
			return
		}
		if lo, hi, bounded := intBounds(d); bounded && (n < lo || n > hi) {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %d is outside the discriminator's range [%d, %d]", n, lo, hi))
		}
	case *schema.Byte:
		n, ok := label.(int64)
		if !ok || n < 0 || n > 255 {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v is not a byte value", label))
		}
	case *schema.Bool:
		if _, ok := label.(bool); !ok {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v is not a boolean", label))
		}
	case *schema.String:
		if _, ok := label.(string); !ok {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v is not a string", label))
		}
	case *schema.Rune:
		s, ok := label.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v is not a single character", label))
		}
	case *schema.Enum:
		if !enumHas(d, label) {
			v.errs = append(v.errs, semantic(RuleLabelValue, path, "label %v does not name a value of enum %q", label, d.TypeName()))
		}
	}
}

// intBounds returns the representable range of an int discriminator. The
// range is unbounded when bits is absent or wider than int64 arithmetic;
// the sign constraint for unsigned discriminators is checked separately.
func intBounds(d *schema.Int) (lo, hi int64, bounded bool) {
	if d.Bits == nil || *d.Bits <= 0 {
		return 0, 0, false
	}
	bits := *d.Bits
	if d.Unsigned {
		if bits >= 63 {
			return 0, 0, false // labels are int64; nothing to reject beyond sign
		}
		return 0, int64(1)<<bits - 1, true
	}
	if bits >= 64 {
		return 0, 0, false
	}
	return -(int64(1) << (bits - 1)), int64(1)<<(bits-1) - 1, true
}

// labelKey canonicalizes a label value for set membership. The kind prefix
// keeps int64(1), "1" and true distinct.
func labelKey(label any) string {
	switch t := label.(type) {
	case int64:
		return fmt.Sprintf("i:%d", t)
	case string:
		return "s:" + t
	case bool:
		return fmt.Sprintf("b:%t", t)
	default:
		return fmt.Sprintf("?:%v", t)
	}
}

func enumHas(d *schema.Enum, label any) bool {
	switch t := label.(type) {
	case string:
		for _, val := range d.Values {
			if val.Name == t {
				return true
			}
		}
	case int64:
		for _, val := range d.Values {
			if val.Value == t {
				return true
			}
		}
	}
	return false
}

func (v *validator) checkEnum(d *schema.Enum, path *field.Path) {
	seen := map[string]int{}
	for i, val := range d.Values {
		if first, dup := seen[val.Name]; dup {
			v.errs = append(v.errs, semantic(RuleValueNameUnique, path.Child("values").Index(i).Child("name"),
				"value name %q already used at %s", val.Name, path.Child("values").Index(first).Child("name")))
			continue
		}
		seen[val.Name] = i
	}
}

func (v *validator) checkBitset(d *schema.Bitset, path *field.Path) {
	seen := map[string]int{}
	for i, flag := range d.Flags {
		if first, dup := seen[flag.Name]; dup {
			v.errs = append(v.errs, semantic(RuleValueNameUnique, path.Child("flags").Index(i).Child("name"),
				"flag name %q already used at %s", flag.Name, path.Child("flags").Index(first).Child("name")))
			continue
		}
		seen[flag.Name] = i
	}
}

// checkFinite rejects types with no finite-size representation: a record or
// fixed-size sequence that contains itself by value with no base case. The
// base cases are optional record fields, variable-length or zero-size
// sequences, and union arms that are themselves representable.
//
// Groundedness is computed as a fixpoint over all nodes: scalars start
// grounded, and composites become grounded once a base case or all their
// by-value parts are. Whatever never becomes grounded has no finite
// representation.
func (v *validator) checkFinite(nodes []node) {
	grounded := map[schema.TypeDef]bool{}

	for changed := true; changed; {
		changed = false
		for _, n := range nodes {
			if grounded[n.def] {
				continue
			}
			if isGrounded(n.def, grounded) {
				grounded[n.def] = true
				changed = true
			}
		}
	}

	for _, n := range nodes {
		if grounded[n.def] {
			continue
		}
		v.errs = append(v.errs, semantic(RuleFiniteSize, n.path,
			"type %s contains itself by value with no base case; no finite representation exists", describe(n.def)))
	}
}

func isGrounded(def schema.TypeDef, grounded map[schema.TypeDef]bool) bool {
	switch d := def.(type) {
	case *schema.Sequence:
		if d.Size == nil && d.Dims == nil {
			return true // variable length, may be empty
		}
		if d.Size != nil && *d.Size == 0 {
			return true
		}
		for _, dim := range d.Dims {
			if dim == 0 {
				return true
			}
		}
		return refGrounded(d.Elem, grounded)
	case *schema.Record:
		for _, f := range d.Fields {
			if !f.Optional && !refGrounded(f.Type, grounded) {
				return false
			}
		}
		return true
	case *schema.Union:
		for _, f := range d.Fields {
			if refGrounded(f.Type, grounded) {
				return true
			}
		}
		return len(d.Fields) == 0 // emptiness is reported by its own rule
	default:
		return true
	}
}

func refGrounded(r schema.Ref, grounded map[schema.TypeDef]bool) bool {
	if r.Def == nil {
		return true
	}
	return grounded[r.Def]
}

func describe(def schema.TypeDef) string {
	if name := def.TypeName(); name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("(anonymous %s)", def.Kind())
}
