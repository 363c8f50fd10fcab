// Package mmap provides read-only memory-mapped file access.
//
// The npy header's 64-byte alignment contract exists so that the data
// section of a mapped file lands on an aligned offset; this package is
// the mapping half of that bargain. Only whole-file read-only mappings
// are supported.
package mmap

import (
	"os"
	"sync/atomic"
)

// Mapping is a read-only memory-mapped file. It owns the mapped bytes
// and unmaps them on Close.
type Mapping struct {
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path read-only. An empty file yields a valid
// mapping over no bytes.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}

	data, err := mmapFile(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data}, nil
}

// Bytes returns the mapped contents. The slice is valid only until
// Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the length of the mapping.
func (m *Mapping) Size() int { return len(m.data) }

// Close unmaps the file. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.data == nil {
		return nil
	}
	return munmap(m.data)
}
