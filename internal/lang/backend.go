package lang

import (
	"fmt"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Backend names a grammar loading mechanism.
type Backend string

const (
	// BackendNative uses the grammars compiled into the binary.
	BackendNative Backend = "native"
	// BackendPortable loads grammar shared libraries at runtime.
	BackendPortable Backend = "portable"
)

var (
	detectOnce     sync.Once
	nativeWorks    bool
	portableWorks  bool
	detectFailures []string
)

// DetectBackends probes backend availability exactly once per process and
// returns the cached result on every later call. Concurrent first callers
// share the single probe. Probing never panics outward; a grammar binding
// that faults is recorded as unavailable.
func DetectBackends() (native, portable bool) {
	detectOnce.Do(func() {
		nativeWorks = probeNative()
		portableWorks = portableSupported()
	})
	return nativeWorks, portableWorks
}

// probeNative verifies that a compiled-in grammar can actually be handed to
// a parser. A build without working CGO bindings surfaces here as a panic
// or an error, both of which mean "not available" rather than a crash.
func probeNative() (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			detectFailures = append(detectFailures, fmt.Sprintf("native probe: %v", r))
			ok = false
		}
	}()

	spec := &registry[0]
	if spec.native == nil {
		return false
	}
	lang := tree_sitter.NewLanguage(spec.native())
	if lang == nil {
		return false
	}
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		detectFailures = append(detectFailures, fmt.Sprintf("native probe: %v", err))
		return false
	}
	return true
}

// LoadGrammar returns the grammar for a language together with the backend
// that produced it. The native backend is preferred; when a single grammar
// fails natively the portable artifact for that grammar is tried before
// giving up. Errors identify the language and every backend consulted.
func LoadGrammar(id Language) (*tree_sitter.Language, Backend, error) {
	spec := specFor(id)
	if spec == nil {
		return nil, "", fmt.Errorf("lang: unsupported language %q", id)
	}

	native, portable := DetectBackends()

	var nativeErr error
	if native && spec.native != nil {
		lang, err := loadNative(spec)
		if err == nil {
			return lang, BackendNative, nil
		}
		nativeErr = err
	}

	if portable {
		lang, err := loadPortableGrammar(spec)
		if err == nil {
			return lang, BackendPortable, nil
		}
		if nativeErr != nil {
			return nil, "", fmt.Errorf("lang: grammar %s unavailable: native: %v; portable: %w", id, nativeErr, err)
		}
		return nil, "", fmt.Errorf("lang: grammar %s unavailable: portable: %w", id, err)
	}

	if nativeErr != nil {
		return nil, "", fmt.Errorf("lang: grammar %s unavailable: native: %w", id, nativeErr)
	}
	return nil, "", fmt.Errorf("lang: grammar %s unavailable: no usable backend", id)
}

// loadNative wraps the compiled-in grammar pointer, converting a faulting
// binding into an error so per-grammar fallback can proceed.
func loadNative(spec *languageSpec) (lang *tree_sitter.Language, err error) {
	defer func() {
		if r := recover(); r != nil {
			lang = nil
			err = fmt.Errorf("binding panicked: %v", r)
		}
	}()
	lang = tree_sitter.NewLanguage(spec.native())
	if lang == nil {
		return nil, fmt.Errorf("binding returned nil grammar")
	}
	return lang, nil
}

// NewParser returns a parser configured for the given grammar.
func NewParser(lang *tree_sitter.Language) (*tree_sitter.Parser, error) {
	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(lang); err != nil {
		parser.Close()
		return nil, fmt.Errorf("lang: set language: %w", err)
	}
	return parser, nil
}
