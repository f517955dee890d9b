package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AbsentFileIsZeroConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &ProjectConfig{}, cfg)
}

func TestLoad_ReadsYml(t *testing.T) {
	dir := t.TempDir()
	doc := `
languages: [go, typescript]
excludeDirs:
  - generated
output: graph.json
dbPath: .archdrift/snapshots
workers: 4
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archdrift.yml"), []byte(doc), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "typescript"}, cfg.Languages)
	assert.Equal(t, []string{"generated"}, cfg.ExcludeDirs)
	assert.Equal(t, "graph.json", cfg.Output)
	assert.Equal(t, ".archdrift/snapshots", cfg.DBPath)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoad_PrefersYmlOverYaml(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archdrift.yml"), []byte("workers: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archdrift.yaml"), []byte("workers: 9\n"), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "archdrift.yaml"), []byte("languages: {{\n"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
