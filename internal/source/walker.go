// Package source produces the ordered file sets that scans consume, either
// from a working tree on disk or from a git revision.
package source

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/dusk-indust/archdrift/internal/lang"
)

// builtinExcludes are directory names never worth scanning regardless of
// configuration.
var builtinExcludes = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"target":       true,
	"dist":         true,
	"build":        true,
	"__pycache__":  true,
}

// Walker reads supported source files from a directory tree.
type Walker struct {
	root     string
	excludes map[string]bool
	ignore   *gitignore.GitIgnore
}

// NewWalker creates a walker rooted at root. extraExcludes extends the
// built-in directory exclusions. A .gitignore at the root is honored when
// present.
func NewWalker(root string, extraExcludes []string) (*Walker, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: %s is not a directory", root)
	}

	excludes := make(map[string]bool, len(builtinExcludes)+len(extraExcludes))
	for name := range builtinExcludes {
		excludes[name] = true
	}
	for _, name := range extraExcludes {
		if name != "" {
			excludes[name] = true
		}
	}

	w := &Walker{root: root, excludes: excludes}
	ignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(ignorePath); err == nil {
		ign, err := gitignore.CompileIgnoreFile(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("source: parse %s: %w", ignorePath, err)
		}
		w.ignore = ign
	}
	return w, nil
}

// Files returns every supported source file under the root in lexicographic
// path order, with paths relative to the root and slash-separated. The
// ordering makes repeated scans of an unchanged tree byte-identical.
func (w *Walker) Files() ([]lang.File, error) {
	var files []lang.File

	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if d.IsDir() {
			if w.excluded(rel, d.Name(), true) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.excluded(rel, d.Name(), false) {
			return nil
		}
		if _, ok := lang.LanguageForPath(rel); !ok {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", rel, readErr)
		}
		files = append(files, lang.File{Path: rel, Content: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("source: walk %s: %w", w.root, err)
	}
	return files, nil
}

func (w *Walker) excluded(rel, name string, isDir bool) bool {
	if isDir && (w.excludes[name] || strings.HasPrefix(name, ".")) && name != "." {
		return true
	}
	if w.ignore != nil && w.ignore.MatchesPath(rel) {
		return true
	}
	return false
}
