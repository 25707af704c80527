// Package setupflag persists the "setup complete" marker, the only state
// that survives a restart. Everything else in the application is volatile.
package setupflag

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Flag reads and writes the setup-complete marker.
type Flag interface {
	IsSet() bool
	Set() error
	Clear() error
}

const markerName = "setup_complete"

// File stores the marker as an empty file under a data directory.
type File struct {
	path string
}

// NewFile creates a file-backed flag, creating the data directory if needed.
func NewFile(dataDir string) (*File, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &File{path: filepath.Join(dataDir, markerName)}, nil
}

// IsSet reports whether the marker file exists.
func (f *File) IsSet() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Set creates the marker file.
func (f *File) Set() error {
	if err := os.WriteFile(f.path, nil, 0o644); err != nil {
		return fmt.Errorf("write setup marker: %w", err)
	}
	return nil
}

// Clear removes the marker file. Clearing an absent marker is not an error.
func (f *File) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove setup marker: %w", err)
	}
	return nil
}

// Memory is an in-process flag for tests.
type Memory struct {
	set bool
}

// NewMemory creates an in-memory flag.
func NewMemory() *Memory { return &Memory{} }

// IsSet reports the current value.
func (m *Memory) IsSet() bool { return m.set }

// Set marks setup as complete.
func (m *Memory) Set() error {
	m.set = true
	return nil
}

// Clear resets the flag.
func (m *Memory) Clear() error {
	m.set = false
	return nil
}
