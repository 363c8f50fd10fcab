// Package fs abstracts the handful of filesystem operations the codec
// needs, so tests can inject failures without touching a real disk.
//
// Production code uses fs.Default, backed by the os package. The
// [FaultyFS] wrapper simulates write and close failures for
// error-propagation tests.
package fs

import (
	"io"
	"os"
)

// File is an open file. The codec only ever writes sequentially or reads
// sequentially, so the surface is deliberately small.
type File interface {
	io.ReadWriteCloser
	Sync() error
}

// FileSystem abstracts file creation and removal.
type FileSystem interface {
	Create(name string) (File, error)
	Open(name string) (File, error)
	Remove(name string) error
}

// LocalFS implements FileSystem with the local os package.
type LocalFS struct{}

func (LocalFS) Create(name string) (File, error) { return os.Create(name) }
func (LocalFS) Open(name string) (File, error)   { return os.Open(name) }
func (LocalFS) Remove(name string) error         { return os.Remove(name) }

// Default is the local file system.
var Default FileSystem = LocalFS{}
