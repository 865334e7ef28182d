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
)

func TestParseMalformedJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantLine int
	}{
		{name: "truncated object", input: `{"types": [`, wantLine: 1},
		{name: "trailing comma", input: "{\n  \"types\": [],\n}", wantLine: 3},
		{name: "bare garbage", input: "not json", wantLine: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected a parse error, got nil")
			}
			pe, ok := err.(*ParseError)
			if !ok {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Stage() != StageParse {
				t.Errorf("expected stage %q, got %q", StageParse, pe.Stage())
			}
			if pe.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d (offset %d)", tt.wantLine, pe.Line, pe.Offset)
			}
		})
	}
}

func TestParsePreservesIntegers(t *testing.T) {
	tree, err := parse([]byte(`{"types": [{"kind": "int", "bits": 8}]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	root := tree.(map[string]any)
	def := root["types"].([]any)[0].(map[string]any)
	bits, ok := def["bits"].(int64)
	if !ok {
		t.Fatalf("expected bits to decode as int64, got %T", def["bits"])
	}
	if bits != 8 {
		t.Errorf("expected bits 8, got %d", bits)
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset             int64
		wantLine, wantCol  int
	}{
		{offset: 0, wantLine: 1, wantCol: 1},
		{offset: 2, wantLine: 1, wantCol: 3},
		{offset: 3, wantLine: 2, wantCol: 1},
		{offset: 7, wantLine: 3, wantCol: 2},
		{offset: 100, wantLine: 3, wantCol: 3},
	}
	for _, tt := range tests {
		line, col := lineColumn(data, tt.offset)
		if line != tt.wantLine || col != tt.wantCol {
			t.Errorf("lineColumn(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.wantLine, tt.wantCol)
		}
	}
}
