package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/motion/pkg/root"
)

// FileName is the configuration file looked up next to documents.
const FileName = "motion.yaml"

// Load reads the configuration at path. Fields it leaves out keep their
// defaults.
func Load(path string) (root.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return root.Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	cfg := root.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return root.Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional reads motion.yaml from dir if present.
func LoadOptional(dir string) (root.Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return root.DefaultConfig(), nil
		}
		return root.Config{}, err
	}
	return cfg, nil
}

// Resolve returns the configuration for the document at docPath: explicit
// when path is set, otherwise the nearest motion.yaml in the document's
// directory or one of its parents.
func Resolve(path, docPath string) (root.Config, error) {
	if path != "" {
		return Load(path)
	}
	dir, err := filepath.Abs(filepath.Dir(docPath))
	if err != nil {
		return root.Config{}, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, FileName)); err == nil {
			return LoadOptional(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return root.DefaultConfig(), nil
		}
		dir = parent
	}
}
