package orga

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"paranoia/internal/types"
)

// FileName is the organization file inside the game's root directory.
const FileName = ".organization"

// ErrAlreadyOrganized is returned by Save when an organization exists and
// overwriting was not requested.
var ErrAlreadyOrganized = errors.New("game already organized, and --force not specified")

// Store reads and writes the organization file of one game directory.
type Store struct {
	Root string
}

// Path returns the organization file path.
func (s Store) Path() string {
	return filepath.Join(s.Root, FileName)
}

// Exists reports whether the game has been organized.
func (s Store) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Save writes data via a temp file in the same directory and renames it into
// place, so readers see either the old file or the complete new one.
func (s Store) Save(data []byte, force bool) error {
	path := s.Path()
	if !force && s.Exists() {
		return ErrAlreadyOrganized
	}

	tmp, err := os.CreateTemp(s.Root, FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load returns the raw organization file.
func (s Store) Load() ([]byte, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &types.MissingResourceError{Path: s.Path(), What: "organization file (run organize first)"}
		}
		return nil, fmt.Errorf("failed to read organization: %w", err)
	}
	return data, nil
}

// SaveAssignment encodes a with c and saves it.
func (s Store) SaveAssignment(c Codec, a *types.Assignment, force bool) error {
	data, err := c.Encode(a)
	if err != nil {
		return err
	}
	return s.Save(data, force)
}

// LoadAssignment loads and decodes the organization with c.
func (s Store) LoadAssignment(c Codec) (*types.Assignment, error) {
	data, err := s.Load()
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}
