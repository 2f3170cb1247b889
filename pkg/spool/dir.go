package spool

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const fileSuffix = ".body"

// Dir spools bodies into files under a base directory.
// Safe for concurrent use.
type Dir struct {
	baseDir string // Absolute path - all files live directly inside it
	prefix  string
}

// Option configures a Dir.
type Option func(*Dir)

// WithPrefix sets the file name prefix.
func WithPrefix(prefix string) Option {
	if strings.ContainsAny(prefix, `/\`) {
		panic("WithPrefix: prefix must not contain path separators")
	}
	return func(d *Dir) { d.prefix = prefix }
}

// NewDir creates the base directory if needed and returns a Dir over it.
func NewDir(baseDir string, opts ...Option) (*Dir, error) {
	if baseDir == "" {
		return nil, ErrInvalidConfig
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	d := &Dir{baseDir: abs, prefix: "wirehttp-"}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// BaseDir returns the absolute spool directory.
func (d *Dir) BaseDir() string { return d.baseDir }

// Create opens a new, uniquely named spool file for writing.
func (d *Dir) Create() (string, io.WriteCloser, error) {
	name := d.prefix + uuid.NewString() + fileSuffix
	f, err := os.OpenFile(filepath.Join(d.baseDir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToCreateFile, err)
	}
	return name, f, nil
}

// Open reopens a spool file for reading.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	return f, nil
}

// Remove deletes a spool file. Removing a missing file is not an error.
func (d *Dir) Remove(name string) error {
	path, err := d.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// resolve maps a spool name to its path, refusing anything that is not a
// plain file name produced by Create.
func (d *Dir) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." ||
		!strings.HasSuffix(name, fileSuffix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(d.baseDir, name), nil
}
