package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir, creating it if needed.
// An existing configuration is never overwritten.
func Initialize(fs afero.Fs, dir string, logger *log.Logger) (*Configuration, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	target := filepath.Join(dir, ConfigurationName)
	switch exists, err := afero.Exists(fs, target); {
	case err != nil:
		return nil, err
	case exists:
		return nil, fmt.Errorf("%s already exists", target)
	}

	logger.Printf("Writing %s\n", target)
	if err := afero.WriteFile(fs, target, defaultConfigData, 0644); err != nil {
		return nil, err
	}

	return Load(fs, dir)
}
