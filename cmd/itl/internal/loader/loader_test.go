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

package loader_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejlek/itl/cmd/itl/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDocument_JSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.json", `{"types": []}`)

	data, err := loader.LoadDocument(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"types": []}`, string(data))
}

func TestLoadDocument_YAMLConvertedToJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.yaml", "types:\n  - kind: bool\n    name: flag\n")

	data, err := loader.LoadDocument(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	types, ok := doc["types"].([]any)
	require.True(t, ok)
	assert.Len(t, types, 1)
}

func TestLoadDocument_RejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.txt", "{}")

	_, err := loader.LoadDocument(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must have a .json, .yaml or .yml extension")
}

func TestLoadDocument_RejectsDirectory(t *testing.T) {
	_, err := loader.LoadDocument(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestLoadDocument_RejectsBadYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "doc.yaml", "types: [\n")

	_, err := loader.LoadDocument(path)
	assert.Error(t, err)
}

func TestLoadDocumentsDetailed_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"types": []}`)
	writeFile(t, dir, "a.yaml", "types: []\n")
	writeFile(t, dir, "ignored.txt", "not a document")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	results, err := loader.LoadDocumentsDetailed(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Sorted by path, subdirectories and unknown extensions skipped.
	assert.Equal(t, filepath.Join(dir, "a.yaml"), results[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.json"), results[1].Path)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.Data)
	}
}

func TestLoadDocumentsDetailed_ContinuesOnFileError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"types": []}`)
	writeFile(t, dir, "bad.yaml", "types: [\n")

	results, err := loader.LoadDocumentsDetailed(dir)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Error(t, results[0].Err)
	assert.NoError(t, results[1].Err)
}

func TestLoadDocumentsDetailed_MissingPath(t *testing.T) {
	_, err := loader.LoadDocumentsDetailed(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to access path")
}
