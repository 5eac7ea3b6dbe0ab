package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hqding/Thermal-FIST/internal/particle"
)

// Load reads a catalogue from a .cue, .yaml or .yml file, or from a
// directory holding one CUE package, and builds it.
func Load(path string, opts Options) (*particle.Catalogue, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Build(f, opts)
}

// LoadFile decodes a catalogue without building it.
func LoadFile(path string) (*File, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalogue not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalogue: %v", err)}
	}
	if info.IsDir() {
		return LoadCUEDir(path)
	}

	switch filepath.Ext(path) {
	case ".cue":
		return LoadCUEFile(path)
	case ".yaml", ".yml":
		return LoadYAMLFile(path)
	}
	return nil, &LoadError{
		Code:    ErrCodeUnsupportedFormat,
		Message: fmt.Sprintf("unsupported catalogue format %q (want .cue, .yaml or .yml)", filepath.Ext(path)),
	}
}
