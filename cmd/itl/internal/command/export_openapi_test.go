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

package command_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOpenAPI_ValidDocument(t *testing.T) {
	file := writeDoc(t, t.TempDir(), "types.json", validDoc)

	buf := new(bytes.Buffer)
	root := setupRoot(buf)
	root.SetArgs([]string{"export", "openapi", "-f", file})

	err := root.Execute()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &schema))
	defs, ok := schema["definitions"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, defs, "point")
}

func TestExportOpenAPI_YAMLFlag(t *testing.T) {
	file := writeDoc(t, t.TempDir(), "types.json", validDoc)

	buf := new(bytes.Buffer)
	root := setupRoot(buf)
	root.SetArgs([]string{"export", "openapi", "-f", file, "--yaml"})

	err := root.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "definitions:")
	assert.Contains(t, output, "point:")
}

func TestExportOpenAPI_InvalidDocument(t *testing.T) {
	file := writeDoc(t, t.TempDir(), "loop.json", invalidDoc)

	buf := new(bytes.Buffer)
	root := setupRoot(buf)
	root.SetArgs([]string{"export", "openapi", "-f", file})

	err := root.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile")
}
