package encode

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteError reports that an artifact could not be written to Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write %s: %v", e.Path, e.Err) }

func (e *WriteError) Unwrap() error { return e.Err }

// WriteOptions tunes how artifacts land on disk.
type WriteOptions struct {
	// StrictPerms writes artifacts with 0600 instead of 0644.
	StrictPerms bool
}

func (o WriteOptions) mode() os.FileMode {
	if o.StrictPerms {
		return 0o600
	}
	return 0o644
}

// WriteArtifact creates or replaces the file at path with data. The bytes go
// to a temporary file in the same directory which is then renamed over path,
// so a reader sees either the previous artifact or the complete new one.
func WriteArtifact(path string, data []byte, opts WriteOptions) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, opts.mode()); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	success = true
	return nil
}
