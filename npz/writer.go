package npz

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	npy "github.com/cxzheng/ndarray-npy"
	"github.com/cxzheng/ndarray-npy/internal/fs"
)

// Writer builds an .npz archive one array at a time. Arrays are added
// with the package-level Add function; Close finalizes the zip central
// directory.
type Writer struct {
	zw     *zip.Writer
	method uint16
	owned  io.Closer
	closed bool
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithStored disables compression, storing members verbatim the way
// numpy.savez does. The default is DEFLATE, matching
// numpy.savez_compressed.
func WithStored() WriterOption {
	return func(w *Writer) {
		w.method = zip.Store
	}
}

// NewWriter returns a Writer emitting the archive to w.
func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	nw := &Writer{zw: zw, method: zip.Deflate}
	for _, opt := range opts {
		opt(nw)
	}
	return nw
}

// Create creates or truncates the file at path and returns a Writer over
// it. Close also closes the file.
func Create(path string, opts ...WriterOption) (*Writer, error) {
	return createOn(fs.Default, path, opts...)
}

func createOn(filesystem fs.FileSystem, path string, opts ...WriterOption) (*Writer, error) {
	f, err := filesystem.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create npz file: %w", err)
	}
	w := NewWriter(f, opts...)
	w.owned = f
	return w, nil
}

// Add appends view to the archive as a member named name (".npy" is
// appended when missing, following numpy.savez).
func Add[T npy.Element](w *Writer, name string, view npy.ArrayView[T]) error {
	if w.closed {
		return ErrWriterClosed
	}
	entry, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:   memberName(name),
		Method: w.method,
	})
	if err != nil {
		return fmt.Errorf("failed to create npz member: %w", err)
	}
	return npy.Write(entry, view)
}

// Close finalizes the archive. It must be called for the zip central
// directory to be written.
func (w *Writer) Close() error {
	if w.closed {
		return ErrWriterClosed
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		if w.owned != nil {
			w.owned.Close()
		}
		return fmt.Errorf("failed to finalize npz archive: %w", err)
	}
	if w.owned != nil {
		if err := w.owned.Close(); err != nil {
			return fmt.Errorf("failed to close npz file: %w", err)
		}
	}
	return nil
}
