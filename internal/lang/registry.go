package lang

import (
	"unsafe"

	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies a supported source language.
type Language string

const (
	LangGo         Language = "go"
	LangTypeScript Language = "typescript"
	LangPython     Language = "python"
	LangRust       Language = "rust"
)

// Supported lists every language with a registered extractor, in dispatch
// order.
var Supported = []Language{LangGo, LangTypeScript, LangPython, LangRust}

// languageSpec describes how to obtain a grammar and an extractor for one
// language.
type languageSpec struct {
	id Language

	// extensions is the ordered extension list matched by the dispatcher.
	extensions []string

	// native returns the compiled-in grammar pointer, or is nil when the
	// grammar is distributed only as a portable artifact.
	native func() unsafe.Pointer

	// artifact is the shared-library stem of the portable grammar artifact
	// (platform suffix appended at load time).
	artifact string

	// symbol is the grammar entry point exported by the portable artifact.
	symbol string

	newExtractor func() extractor
}

// registry is the static, ordered dispatch table. First extension match
// wins; unmatched files are skipped by the dispatcher.
var registry = []languageSpec{
	{
		id:           LangGo,
		extensions:   []string{".go"},
		native:       tree_sitter_go.Language,
		artifact:     "libtree-sitter-go",
		symbol:       "tree_sitter_go",
		newExtractor: func() extractor { return &goExtractor{} },
	},
	{
		id:           LangTypeScript,
		extensions:   []string{".ts", ".tsx"},
		native:       tree_sitter_typescript.LanguageTypescript,
		artifact:     "libtree-sitter-typescript",
		symbol:       "tree_sitter_typescript",
		newExtractor: func() extractor { return &tsExtractor{} },
	},
	{
		id:           LangPython,
		extensions:   []string{".py"},
		native:       tree_sitter_python.Language,
		artifact:     "libtree-sitter-python",
		symbol:       "tree_sitter_python",
		newExtractor: func() extractor { return &pyExtractor{} },
	},
	{
		id:           LangRust,
		extensions:   []string{".rs"},
		native:       tree_sitter_rust.Language,
		artifact:     "libtree-sitter-rust",
		symbol:       "tree_sitter_rust",
		newExtractor: func() extractor { return &rsExtractor{} },
	},
}

// specFor returns the registry entry for id, or nil when unsupported.
func specFor(id Language) *languageSpec {
	for i := range registry {
		if registry[i].id == id {
			return &registry[i]
		}
	}
	return nil
}

// LanguageForPath returns the language whose extension list matches the
// file path, first match wins. ok is false for unmatched paths.
func LanguageForPath(path string) (Language, bool) {
	for _, spec := range registry {
		for _, ext := range spec.extensions {
			if hasSuffixFold(path, ext) {
				return spec.id, true
			}
		}
	}
	return "", false
}

// hasSuffixFold is a case-insensitive ASCII suffix match; extensions on
// case-insensitive filesystems arrive in mixed case.
func hasSuffixFold(s, suffix string) bool {
	if len(s) < len(suffix) {
		return false
	}
	tail := s[len(s)-len(suffix):]
	for i := 0; i < len(suffix); i++ {
		a, b := tail[i], suffix[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}
