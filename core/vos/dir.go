package vos

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/afero"
)

// VDir tracks a working directory.
type VDir interface {
	// Chdir changes the working directory.
	Chdir(dir string) error

	// Getwd returns the working directory.
	Getwd() (string, error)
}

// OSDir is the working directory of the running process, it's inherited by
// every child the shell starts.
type OSDir struct{}

var _ VDir = OSDir{}

// Chdir implements VDir.Chdir.
func (OSDir) Chdir(dir string) error {
	return os.Chdir(dir)
}

// Getwd implements VDir.Getwd.
func (OSDir) Getwd() (string, error) {
	return os.Getwd()
}

// NewFsDir creates a working directory over fs starting at dir.
func NewFsDir(fs afero.Fs, dir string) *FsDir {
	return &FsDir{fs: fs, dir: path.Clean(dir)}
}

// FsDir is a working directory inside an afero.Fs.
type FsDir struct {
	fs  afero.Fs
	dir string
}

var _ VDir = (*FsDir)(nil)

// Getwd implements VDir.Getwd.
func (f *FsDir) Getwd() (string, error) {
	return f.dir, nil
}

// Chdir implements VDir.Chdir.
func (f *FsDir) Chdir(dir string) error {
	if dir == "" {
		return &os.PathError{Op: "chdir", Path: dir, Err: os.ErrNotExist}
	}

	if !path.IsAbs(dir) {
		dir = path.Join(f.dir, dir)
	}
	dir = path.Clean(dir)

	stat, err := f.fs.Stat(dir)
	switch {
	case err != nil:
		return err
	case !stat.IsDir():
		return fmt.Errorf("%s: Not a directory", dir)
	default:
		f.dir = dir
		return nil
	}
}
