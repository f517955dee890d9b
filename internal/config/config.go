package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from archdrift.yml.
type ProjectConfig struct {
	Languages   []string `yaml:"languages,omitempty"`
	ExcludeDirs []string `yaml:"excludeDirs,omitempty"`
	Output      string   `yaml:"output,omitempty"`
	DBPath      string   `yaml:"dbPath,omitempty"`
	Workers     int      `yaml:"workers,omitempty"`
	Verbose     bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read archdrift.yml or archdrift.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists; a malformed file is an error.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"archdrift.yml", "archdrift.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}
