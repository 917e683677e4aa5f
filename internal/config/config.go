package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"paranoia/internal/types"
)

// FileName is the game configuration inside the root directory.
const FileName = "paranoia.yml"

// File is the parsed paranoia.yml.
type File struct {
	// Field definitions, one of them the player field.
	Fields []types.FieldSpec `yaml:"fields"`

	// Print styling
	Config PrintConfig `yaml:"config"`
}

// Default returns a configuration with no fields and the default print
// styling.
func Default() *File {
	return &File{Config: DefaultPrintConfig()}
}

// Path returns the configuration path inside root.
func Path(root string) string {
	return filepath.Join(root, FileName)
}

// Load reads a paranoia.yml. Keys missing from the config block keep their
// defaults; unknown keys and mistyped values are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.MissingResourceError{Path: path, What: "main configuration file"}
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

// Parse decodes configuration bytes on top of the defaults.
func Parse(data []byte) (*File, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &types.SchemaError{Message: fmt.Sprintf("failed to parse config: %v", err)}
	}
	return cfg, nil
}

// Validate checks the print configuration. Field definitions are checked by
// the schema package.
func (f *File) Validate() error {
	return f.Config.Validate()
}

// applyEnvOverrides applies environment variable overrides.
func (f *File) applyEnvOverrides() {
	if prefix, ok := os.LookupEnv("PARANOIA_ID_PREFIX"); ok {
		f.Config.IDPrefix = prefix
	}
	if v := os.Getenv("PARANOIA_FOLD_LINES"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			f.Config.PrintFoldLines = on
		}
	}
}
