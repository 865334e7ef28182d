// Package loader reads type definition documents from disk.
//
// Documents may be plain JSON or YAML. YAML input is converted to JSON
// before compilation so both forms share one pipeline.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"sigs.k8s.io/yaml"
)

// DocumentLoadResult holds the outcome of loading a single document file.
type DocumentLoadResult struct {
	Path string
	Data []byte
	Err  error
}

// collectDocumentFiles returns a list of document file paths from the given path.
// If path is a file, it returns a single-element slice.
// If path is a directory, it returns all .json, .yaml and .yml files in the
// directory (non-recursive).
func collectDocumentFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}

	if !info.IsDir() {
		if !hasDocumentExt(path) {
			return nil, fmt.Errorf("file %q must have a .json, .yaml or .yml extension", path)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if hasDocumentExt(entry.Name()) {
			files = append(files, filepath.Join(path, entry.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasDocumentExt(path string) bool {
	switch filepath.Ext(path) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// LoadDocumentsDetailed loads type definition documents from a file or directory,
// returning per-file results (including read errors) so callers can continue on
// failure. Only errors related to accessing the path (stat/readdir) are returned
// directly.
func LoadDocumentsDetailed(path string) ([]DocumentLoadResult, error) {
	files, err := collectDocumentFiles(path)
	if err != nil {
		return nil, err
	}

	results := make([]DocumentLoadResult, 0, len(files))
	for _, file := range files {
		data, loadErr := LoadDocument(file)
		results = append(results, DocumentLoadResult{Path: file, Data: data, Err: loadErr})
	}

	return results, nil
}

// LoadDocument reads a single document file and returns its content as JSON.
// YAML files are converted to JSON.
func LoadDocument(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access file: %w", err)
	}

	if info.IsDir() {
		return nil, fmt.Errorf("path %q is a directory, provide a path to a document file (.json, .yaml or .yml)", path)
	}

	if !hasDocumentExt(path) {
		return nil, fmt.Errorf("file %q must have a .json, .yaml or .yml extension", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		converted, err := yaml.YAMLToJSON(content)
		if err != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
		return converted, nil
	}

	return content, nil
}
