package npy

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cxzheng/ndarray-npy/internal/mmap"
	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

// Write serializes view to w in .npy format.
//
// When the view exposes a contiguous backing slice the data section is
// written in one streaming pass. Otherwise the header declares row-major
// order and the elements are written one at a time via Iter.
func Write[T Element](w io.Writer, view ArrayView[T]) error {
	header := Header{
		TypeDescriptor: pylit.String(DTypeOf[T]().Descr()),
		FortranOrder:   view.FortranOrder(),
		Shape:          view.Shape(),
	}

	if data, ok := view.Contiguous(); ok {
		if err := header.WriteHeader(w); err != nil {
			return err
		}
		return WriteSlice(w, data)
	}

	header.FortranOrder = false
	if err := header.WriteHeader(w); err != nil {
		return err
	}
	scratch := make([]byte, 8)
	return view.Iter(func(v T) error {
		return writeElement(w, scratch, v)
	})
}

// Read deserializes a .npy file from r. The file's descriptor must match
// T exactly; r must be exhausted once the declared element count has been
// read.
func Read[T Element](r io.Reader) (*Array[T], error) {
	header, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	count, ok := header.numElements()
	if !ok {
		return nil, ErrLengthOverflow
	}
	data, err := ReadSlice[T](r, header.TypeDescriptor, count)
	if err != nil {
		return nil, err
	}
	return &Array[T]{
		shape:   header.Shape,
		fortran: header.FortranOrder,
		data:    data,
	}, nil
}

// WriteFile writes view to a .npy file at path, creating or truncating
// it.
func WriteFile[T Element](path string, view ArrayView[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create npy file: %w", err)
	}
	if err := Write(f, view); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close npy file: %w", err)
	}
	return nil
}

// ReadFile reads the .npy file at path.
func ReadFile[T Element](path string) (*Array[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open npy file: %w", err)
	}
	defer f.Close()
	return Read[T](f)
}

// ReadMmap reads the .npy file at path through a memory mapping instead
// of buffered reads. The 64-byte header alignment guarantees the data
// section starts on an aligned page offset, which is what makes this
// path worthwhile for large files.
func ReadMmap[T Element](path string) (*Array[T], error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to mmap npy file: %w", err)
	}
	defer m.Close()
	return Read[T](bytes.NewReader(m.Bytes()))
}
