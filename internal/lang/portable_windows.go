//go:build windows

package lang

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// The portable backend relies on dlopen semantics that purego only provides
// on unix-like platforms. Windows builds use the native backend only.

func portableSupported() bool {
	return false
}

func loadPortableGrammar(spec *languageSpec) (*tree_sitter.Language, error) {
	return nil, fmt.Errorf("portable backend not supported on windows")
}
