//go:build !windows

package lang

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// grammarDirEnv overrides the portable artifact search directory.
const grammarDirEnv = "ARCHDRIFT_GRAMMAR_DIR"

// portableCache holds grammars loaded from shared libraries. A dlopen
// handle stays open for the life of the process, so loaded grammars are
// cached by artifact name and never reloaded.
var portableCache = struct {
	mu    sync.Mutex
	langs map[string]*tree_sitter.Language
}{langs: make(map[string]*tree_sitter.Language)}

// portableSupported reports whether this platform can dlopen grammar
// artifacts at all. Presence of the artifacts themselves is checked per
// grammar at load time.
func portableSupported() bool {
	return true
}

// loadPortableGrammar dlopens the shared-library artifact for a grammar and
// resolves its tree_sitter_<lang>() entry point.
func loadPortableGrammar(spec *languageSpec) (*tree_sitter.Language, error) {
	portableCache.mu.Lock()
	defer portableCache.mu.Unlock()

	if lang, ok := portableCache.langs[spec.artifact]; ok {
		return lang, nil
	}

	path, err := findArtifact(spec.artifact)
	if err != nil {
		return nil, err
	}

	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	sym, err := purego.Dlsym(handle, spec.symbol)
	if err != nil {
		return nil, fmt.Errorf("resolve %s in %s: %w", spec.symbol, path, err)
	}

	ptr, _, _ := purego.SyscallN(sym)
	if ptr == 0 {
		return nil, fmt.Errorf("%s in %s returned nil grammar", spec.symbol, path)
	}

	lang := tree_sitter.NewLanguage(unsafe.Pointer(ptr))
	if lang == nil {
		return nil, fmt.Errorf("%s in %s produced unusable grammar", spec.symbol, path)
	}
	portableCache.langs[spec.artifact] = lang
	return lang, nil
}

// findArtifact locates a grammar shared library, preferring the override
// directory over the user cache.
func findArtifact(stem string) (string, error) {
	name := stem + sharedLibSuffix()

	var dirs []string
	if dir := os.Getenv(grammarDirEnv); dir != "" {
		dirs = append(dirs, dir)
	}
	if cache, err := os.UserCacheDir(); err == nil {
		dirs = append(dirs, filepath.Join(cache, "archdrift", "grammars"))
	}

	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("artifact %s not found (searched %v)", name, dirs)
}

func sharedLibSuffix() string {
	if runtime.GOOS == "darwin" {
		return ".dylib"
	}
	return ".so"
}
