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
	encjson "encoding/json"
	"errors"

	"k8s.io/apimachinery/pkg/util/json"
)

// parse decodes an ITL document into a generic JSON tree. It knows nothing
// about the grammar beyond "the input must be well-formed JSON"; shape
// checking belongs to the builder.
//
// Decoding goes through apimachinery's json helpers so that integral numbers
// arrive as int64 rather than float64. Sizes, bit widths and union labels
// depend on that.
func parse(data []byte) (any, error) {
	if !encjson.Valid(data) {
		// Re-decode with the standard decoder purely to obtain a
		// positioned syntax error; it also catches trailing garbage,
		// which the streaming decoder underneath Unmarshal would
		// silently ignore.
		var discard any
		err := encjson.Unmarshal(data, &discard)
		if err == nil {
			err = errors.New("invalid JSON document")
		}
		return nil, parseError(data, err)
	}

	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, parseError(data, err)
	}
	return tree, nil
}

// parseError wraps a decoder error with position information when the
// underlying decoder supplies an offset.
func parseError(data []byte, err error) *ParseError {
	pe := &ParseError{Err: err}

	var syntax *encjson.SyntaxError
	var typeErr *encjson.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		pe.Offset = syntax.Offset
	case errors.As(err, &typeErr):
		pe.Offset = typeErr.Offset
	default:
		return pe
	}

	pe.Line, pe.Column = lineColumn(data, pe.Offset)
	return pe
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func lineColumn(data []byte, offset int64) (line, col int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
