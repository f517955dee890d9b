package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageForPath(t *testing.T) {
	cases := []struct {
		path string
		want Language
		ok   bool
	}{
		{"main.go", LangGo, true},
		{"src/app/service.ts", LangTypeScript, true},
		{"src/app/View.tsx", LangTypeScript, true},
		{"scripts/job.py", LangPython, true},
		{"core/lib.rs", LangRust, true},
		{"MODEL.PY", LangPython, true},
		{"README.md", "", false},
		{"go", "", false},
		{"archive.tar.gz", "", false},
	}
	for _, tc := range cases {
		got, ok := LanguageForPath(tc.path)
		assert.Equal(t, tc.ok, ok, "path %s", tc.path)
		if tc.ok {
			assert.Equal(t, tc.want, got, "path %s", tc.path)
		}
	}
}

func TestDetectBackends_StableAcrossCalls(t *testing.T) {
	n1, p1 := DetectBackends()
	n2, p2 := DetectBackends()
	assert.Equal(t, n1, n2)
	assert.Equal(t, p1, p2)
}

func TestDetectBackends_NativeAvailableInCGOBuild(t *testing.T) {
	native, _ := DetectBackends()
	assert.True(t, native, "compiled-in grammars should probe successfully")
}

func TestLoadGrammar_AllLanguages(t *testing.T) {
	for _, id := range Supported {
		lang, backend, err := LoadGrammar(id)
		require.NoError(t, err, "grammar %s", id)
		assert.NotNil(t, lang, "grammar %s", id)
		assert.Equal(t, BackendNative, backend, "grammar %s", id)
	}
}

func TestLoadGrammar_UnsupportedLanguage(t *testing.T) {
	_, _, err := LoadGrammar("cobol")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestNewParser(t *testing.T) {
	lang, _, err := LoadGrammar(LangGo)
	require.NoError(t, err)

	parser, err := NewParser(lang)
	require.NoError(t, err)
	defer parser.Close()

	tree := parser.Parse([]byte("package x\n"), nil)
	require.NotNil(t, tree)
	defer tree.Close()
	assert.Equal(t, "source_file", tree.RootNode().Kind())
}
