package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FormatOf returns the import format for path based on its extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".jsonl", ".ndjson":
		return FormatJSONL, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// ScanDir walks dir and discovers every importable file. A path to a single
// file is accepted too. A missing path yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		f, ok := FormatOf(dir)
		if !ok {
			return nil, ErrUnsupportedFormat
		}
		return []DiscoveredFile{{Path: dir, Format: f}}, nil
	}

	var files []DiscoveredFile
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		// Skip editor lock files such as ~$logbook.xlsx
		if strings.HasPrefix(d.Name(), "~$") {
			return nil
		}
		if f, ok := FormatOf(path); ok {
			files = append(files, DiscoveredFile{Path: path, Format: f})
		}
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}
