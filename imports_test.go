package main

import (
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestImportGroupsSorted checks every import group is in path order, the
// layout gofmt leaves behind
func TestImportGroupsSorted(t *testing.T) {
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		fset := token.NewFileSet()
		file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}

		var group []string
		lastLine := 0
		check := func() {
			assert.True(t, sort.StringsAreSorted(group), "%s: %v", path, group)
			group = nil
		}
		for _, spec := range file.Imports {
			line := fset.Position(spec.Pos()).Line
			if lastLine != 0 && line > lastLine+1 {
				check()
			}
			importPath, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				return err
			}
			group = append(group, importPath)
			lastLine = line
		}
		check()
		return nil
	})
	require.NoError(t, err)
}
