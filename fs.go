package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// AppFS is an Afero FS with added functionality
// to replicate OS filesystems in testing
type AppFS interface {
	afero.Fs
	Abs(string) (string, error)
	HomeDir() (string, error)
}

type appOSFS struct {
	afero.Fs
}

func newAppOSFS() AppFS {
	return &appOSFS{
		afero.NewOsFs(),
	}
}

func (f *appOSFS) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

func (f *appOSFS) HomeDir() (string, error) {
	return os.UserHomeDir()
}

type appMemFS struct {
	afero.Fs
}

func NewAppMemFS() AppFS {
	return &appMemFS{
		afero.NewMemMapFs(),
	}
}

func (f *appMemFS) Abs(path string) (string, error) {
	return path, nil
}

func (f *appMemFS) HomeDir() (string, error) {
	return "/", nil
}
