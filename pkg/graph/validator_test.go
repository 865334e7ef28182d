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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validationErrors compiles the document and asserts the failure happened in
// the validator stage, returning the typed errors.
func validationErrors(t *testing.T, doc string, opts ...Option) []*ValidationError {
	t.Helper()

	g, err := Compile([]byte(doc), opts...)
	require.Nil(t, g, "expected no graph")
	require.Error(t, err)

	list, ok := err.(ErrorList)
	require.True(t, ok, "expected an ErrorList, got %T", err)

	out := make([]*ValidationError, 0, len(list))
	for _, e := range list {
		ve, ok := e.(*ValidationError)
		require.True(t, ok, "expected *ValidationError, got %T: %v", e, e)
		out = append(out, ve)
	}
	return out
}

func TestValidateSizeCapacity(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name:    "string size exceeds capacity",
			doc:     `{"types": [{"kind": "string", "size": 10, "capacity": 5}]}`,
			wantErr: true,
		},
		{
			name: "string size within capacity",
			doc:  `{"types": [{"kind": "string", "size": 5, "capacity": 10}]}`,
		},
		{
			name:    "sequence size exceeds capacity",
			doc:     `{"types": [{"kind": "sequence", "type": {"kind": "byte"}, "size": 8, "capacity": 4}]}`,
			wantErr: true,
		},
		{
			name: "multi-dimension size exempt from capacity ordering",
			doc:  `{"types": [{"kind": "sequence", "type": {"kind": "byte"}, "size": [8, 8], "capacity": 4}]}`,
		},
		{
			name:    "negative size",
			doc:     `{"types": [{"kind": "string", "size": -1}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				errs := validationErrors(t, tt.doc)
				assert.Equal(t, RuleSizeCapacity, errs[0].Rule)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateFixedSanity(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{
			name:    "scale exceeds digits",
			doc:     `{"types": [{"kind": "fixed", "base": 10, "digits": 5, "scale": 6}]}`,
			wantErr: true,
		},
		{
			name: "scale within digits",
			doc:  `{"types": [{"kind": "fixed", "base": 10, "digits": 5, "scale": 2}]}`,
		},
		{
			name:    "base below 2",
			doc:     `{"types": [{"kind": "fixed", "base": 1, "digits": 5, "scale": 2}]}`,
			wantErr: true,
		},
		{
			name:    "zero digits",
			doc:     `{"types": [{"kind": "fixed", "base": 10, "digits": 0, "scale": 0}]}`,
			wantErr: true,
		},
		{
			name:    "negative scale",
			doc:     `{"types": [{"kind": "fixed", "base": 10, "digits": 5, "scale": -1}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile([]byte(tt.doc))
			if tt.wantErr {
				errs := validationErrors(t, tt.doc)
				assert.Equal(t, RuleFixedSanity, errs[0].Rule)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateIntBits(t *testing.T) {
	errs := validationErrors(t, `{"types": [{"kind": "int", "bits": 0}]}`)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleIntBits, errs[0].Rule)
	assert.Equal(t, "types[0].bits", errs[0].Path)
}

func TestValidateDuplicateFieldNames(t *testing.T) {
	errs := validationErrors(t, `{
		"types": [
			{"name": "R", "kind": "record", "fields": [
				{"name": "a", "type": {"kind": "byte"}},
				{"name": "a", "type": {"kind": "bool"}}
			]}
		]
	}`)

	require.Len(t, errs, 1)
	assert.Equal(t, RuleFieldNameUnique, errs[0].Rule)
	assert.Equal(t, "types[0].fields[1].name", errs[0].Path)
	// The detail names the other offending position.
	assert.Contains(t, errs[0].Detail, "types[0].fields[0].name")
}

func TestValidateAggregation(t *testing.T) {
	// Two independent duplicate-field violations in different records must
	// both be reported, stage-tagged, neither masking the other.
	errs := validationErrors(t, `{
		"types": [
			{"name": "R1", "kind": "record", "fields": [
				{"name": "a", "type": {"kind": "byte"}},
				{"name": "a", "type": {"kind": "byte"}}
			]},
			{"name": "R2", "kind": "record", "fields": [
				{"name": "b", "type": {"kind": "byte"}},
				{"name": "b", "type": {"kind": "byte"}}
			]}
		]
	}`)

	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, StageSemantic, e.Stage())
		assert.Equal(t, RuleFieldNameUnique, e.Rule)
	}
	assert.Equal(t, "types[0].fields[1].name", errs[0].Path)
	assert.Equal(t, "types[1].fields[1].name", errs[1].Path)
}

func TestValidateUnionLabelDisjointness(t *testing.T) {
	errs := validationErrors(t, `{
		"types": [
			{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
				{"name": "a", "type": {"kind": "byte"}, "labels": [1, 2]},
				{"name": "b", "type": {"kind": "byte"}, "labels": [2, 3]}
			]}
		]
	}`)

	require.Len(t, errs, 1)
	assert.Equal(t, RuleLabelDisjoint, errs[0].Rule)
	assert.Equal(t, "types[0].fields[1].labels[0]", errs[0].Path)
	assert.Contains(t, errs[0].Detail, "types[0].fields[0].labels[1]")
}

func TestValidateUnionDefaultCardinality(t *testing.T) {
	t.Run("two defaults rejected", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": []},
					{"name": "b", "type": {"kind": "byte"}, "labels": []}
				]}
			]
		}`)
		require.Len(t, errs, 1)
		assert.Equal(t, RuleDefaultCardinality, errs[0].Rule)
	})

	t.Run("one default accepted", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [1]},
					{"name": "b", "type": {"kind": "byte"}, "labels": []}
				]}
			]
		}`))
		require.NoError(t, err)
	})

	t.Run("no default accepted", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [1]},
					{"name": "b", "type": {"kind": "byte"}, "labels": [2]}
				]}
			]
		}`))
		require.NoError(t, err)
	})
}

func TestValidateUnionNonEmpty(t *testing.T) {
	errs := validationErrors(t, `{
		"types": [
			{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": []}
		]
	}`)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleUnionNonEmpty, errs[0].Rule)
}

func TestValidateLabelValues(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantRule Rule
	}{
		{
			name: "negative label on unsigned discriminator",
			doc: `{"types": [
				{"name": "Flag", "kind": "int", "bits": 8, "unsigned": true},
				{"name": "U", "kind": "union", "discriminator": "Flag", "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [-1]}
				]}
			]}`,
			wantRule: RuleLabelValue,
		},
		{
			name: "label above uint8 range",
			doc: `{"types": [
				{"name": "Flag", "kind": "int", "bits": 8, "unsigned": true},
				{"name": "U", "kind": "union", "discriminator": "Flag", "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [300]}
				]}
			]}`,
			wantRule: RuleLabelValue,
		},
		{
			name: "label outside int8 range",
			doc: `{"types": [
				{"name": "Flag", "kind": "int", "bits": 8},
				{"name": "U", "kind": "union", "discriminator": "Flag", "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [128]}
				]}
			]}`,
			wantRule: RuleLabelValue,
		},
		{
			name: "string label on int discriminator",
			doc: `{"types": [
				{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": ["one"]}
				]}
			]}`,
			wantRule: RuleLabelValue,
		},
		{
			name: "duplicate label within one arm",
			doc: `{"types": [
				{"name": "U", "kind": "union", "discriminator": {"kind": "int"}, "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [1, 1]}
				]}
			]}`,
			wantRule: RuleLabelUnique,
		},
		{
			name: "record cannot discriminate",
			doc: `{"types": [
				{"name": "R", "kind": "record", "fields": [{"name": "x", "type": {"kind": "byte"}}]},
				{"name": "U", "kind": "union", "discriminator": "R", "fields": [
					{"name": "a", "type": {"kind": "byte"}, "labels": [1]}
				]}
			]}`,
			wantRule: RuleDiscriminator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validationErrors(t, tt.doc)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantRule, errs[0].Rule)
		})
	}
}

func TestValidateLabelValuesAccepted(t *testing.T) {
	g, err := Compile([]byte(`{
		"types": [
			{"name": "Code", "kind": "int", "bits": 8, "unsigned": true},
			{"name": "U", "kind": "union", "discriminator": "Code", "fields": [
				{"name": "lo", "type": {"kind": "byte"}, "labels": [0, 1, 2]},
				{"name": "hi", "type": {"kind": "byte"}, "labels": [255]},
				{"name": "rest", "type": {"kind": "byte"}, "labels": []}
			]}
		]
	}`))
	require.NoError(t, err)
	require.NotNil(t, g)
}

func TestValidateBoolAndStringDiscriminators(t *testing.T) {
	_, err := Compile([]byte(`{
		"types": [
			{"name": "B", "kind": "union", "discriminator": {"kind": "bool"}, "fields": [
				{"name": "yes", "type": {"kind": "byte"}, "labels": [true]},
				{"name": "no", "type": {"kind": "byte"}, "labels": [false]}
			]},
			{"name": "S", "kind": "union", "discriminator": {"kind": "string"}, "fields": [
				{"name": "ping", "type": {"kind": "byte"}, "labels": ["ping"]},
				{"name": "other", "type": {"kind": "byte"}, "labels": []}
			]}
		]
	}`))
	require.NoError(t, err)
}

func TestValidateFiniteSize(t *testing.T) {
	t.Run("record of itself rejected", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "R", "kind": "record", "fields": [
					{"name": "again", "type": "R"}
				]}
			]
		}`)
		require.Len(t, errs, 1)
		assert.Equal(t, RuleFiniteSize, errs[0].Rule)
		assert.Equal(t, "types[0]", errs[0].Path)
	})

	t.Run("fixed-size sequence of itself rejected", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "S", "kind": "sequence", "type": "S", "size": 2}
			]
		}`)
		require.Len(t, errs, 1)
		assert.Equal(t, RuleFiniteSize, errs[0].Rule)
	})

	t.Run("mutual by-value recursion rejected", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "A", "kind": "record", "fields": [{"name": "b", "type": "B"}]},
				{"name": "B", "kind": "record", "fields": [{"name": "a", "type": "A"}]}
			]
		}`)
		require.Len(t, errs, 2, "both participants are unrepresentable")
		for _, e := range errs {
			assert.Equal(t, RuleFiniteSize, e.Rule)
		}
	})

	t.Run("recursion through union default accepted", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "Tag", "kind": "int", "bits": 8, "unsigned": true},
				{"name": "List", "kind": "record", "fields": [
					{"name": "head", "type": {"kind": "byte"}},
					{"name": "tail", "type": "ListOrNil"}
				]},
				{"name": "ListOrNil", "kind": "union", "discriminator": "Tag", "fields": [
					{"name": "cons", "type": "List", "labels": [1]},
					{"name": "nil", "type": {"kind": "byte"}, "labels": []}
				]}
			]
		}`))
		require.NoError(t, err)
	})

	t.Run("recursion through optional field accepted", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "Chain", "kind": "record", "fields": [
					{"name": "value", "type": {"kind": "int"}},
					{"name": "next", "type": "Chain", "optional": true}
				]}
			]
		}`))
		require.NoError(t, err)
	})

	t.Run("recursion through variable sequence accepted", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "Node", "kind": "record", "fields": [
					{"name": "children", "type": {"kind": "sequence", "type": "Node"}}
				]}
			]
		}`))
		require.NoError(t, err)
	})
}

func TestValidateLegacyNameUniqueness(t *testing.T) {
	t.Run("duplicate enum value names", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "E", "kind": "enum", "values": [
					{"name": "x", "value": 1},
					{"name": "x", "value": 2}
				]}
			]
		}`, WithLegacyKinds())
		require.Len(t, errs, 1)
		assert.Equal(t, RuleValueNameUnique, errs[0].Rule)
	})

	t.Run("duplicate bitset flag names", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "F", "kind": "bitset", "flags": [
					{"name": "x", "bit": 0},
					{"name": "x", "bit": 1}
				]}
			]
		}`, WithLegacyKinds())
		require.Len(t, errs, 1)
		assert.Equal(t, RuleValueNameUnique, errs[0].Rule)
	})

	t.Run("enum discriminator labels", func(t *testing.T) {
		_, err := Compile([]byte(`{
			"types": [
				{"name": "Color", "kind": "enum", "values": [
					{"name": "red", "value": 1},
					{"name": "green", "value": 2}
				]},
				{"name": "U", "kind": "union", "discriminator": "Color", "fields": [
					{"name": "r", "type": {"kind": "byte"}, "labels": ["red"]},
					{"name": "g", "type": {"kind": "byte"}, "labels": [2]}
				]}
			]
		}`), WithLegacyKinds())
		require.NoError(t, err)
	})

	t.Run("unknown enum label rejected", func(t *testing.T) {
		errs := validationErrors(t, `{
			"types": [
				{"name": "Color", "kind": "enum", "values": [{"name": "red", "value": 1}]},
				{"name": "U", "kind": "union", "discriminator": "Color", "fields": [
					{"name": "b", "type": {"kind": "byte"}, "labels": ["blue"]}
				]}
			]
		}`, WithLegacyKinds())
		require.Len(t, errs, 1)
		assert.Equal(t, RuleLabelValue, errs[0].Rule)
	})
}
