package fs

import "errors"

// ErrInjected is the error surfaced by FaultyFS failures unless a rule
// overrides it.
var ErrInjected = errors.New("injected fault error")

// Fault describes the failure behavior of files opened through a
// FaultyFS.
type Fault struct {
	// FailAfterBytes fails writes once this many bytes have been written
	// to the file. -1 disables the limit.
	FailAfterBytes int64

	// FailOnClose makes Close return an error after closing the
	// underlying file.
	FailOnClose bool

	// Err overrides ErrInjected when set.
	Err error
}

// FaultyFS wraps a FileSystem and injects errors into the files it
// creates. It is a test utility.
type FaultyFS struct {
	FS    FileSystem
	Fault Fault
}

// NewFaultyFS wraps fs (or Default when nil) with no active fault.
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:    fs,
		Fault: Fault{FailAfterBytes: -1},
	}
}

func (f *FaultyFS) err() error {
	if f.Fault.Err != nil {
		return f.Fault.Err
	}
	return ErrInjected
}

func (f *FaultyFS) Create(name string) (File, error) {
	file, err := f.FS.Create(name)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *FaultyFS) Open(name string) (File, error) { return f.FS.Open(name) }
func (f *FaultyFS) Remove(name string) error       { return f.FS.Remove(name) }

type faultyFile struct {
	File
	fs      *FaultyFS
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	limit := ff.fs.Fault.FailAfterBytes
	if limit >= 0 && ff.written+int64(len(p)) > limit {
		return 0, ff.fs.err()
	}
	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Close() error {
	if ff.fs.Fault.FailOnClose {
		ff.File.Close()
		return ff.fs.err()
	}
	return ff.File.Close()
}
