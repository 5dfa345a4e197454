package desugar

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// LoadSources reads path, or every .rs file below path when it is a
// directory. Hidden directories and target/ are skipped.
func LoadSources(path string) ([]SourceFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []SourceFile{{Path: path, Src: string(src)}}, nil
	}

	var files []SourceFile
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if p != path && (name == "target" || (len(name) > 1 && name[0] == '.')) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != ".rs" {
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, SourceFile{Path: p, Src: string(src)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}
