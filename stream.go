package npy

import (
	"fmt"

	"github.com/cxzheng/ndarray-npy/internal/fs"
	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

// OutStreamBuilder configures and opens an OutStream: a .npy destination
// that array data is written to incrementally, without holding the whole
// array in memory.
//
//	stream, err := npy.NewOutStreamBuilder[float32]("out.npy").
//		ForArr2([2]int{2, 2}).
//		Fortran().
//		Build()
type OutStreamBuilder[T Element] struct {
	path    string
	fs      fs.FileSystem
	logger  *Logger
	shape   []int
	fortran bool
}

// NewOutStreamBuilder starts a builder targeting the file at path. The
// shape defaults to a rank-1 array of zero elements until set.
func NewOutStreamBuilder[T Element](path string) *OutStreamBuilder[T] {
	return &OutStreamBuilder[T]{
		path:   path,
		fs:     fs.Default,
		logger: defaultLogger,
		shape:  []int{0},
	}
}

// WithShape sets the full shape, replacing any previously set shape.
func (b *OutStreamBuilder[T]) WithShape(dims ...int) *OutStreamBuilder[T] {
	b.shape = append([]int(nil), dims...)
	return b
}

// ForArr1 declares a rank-1 array of n elements, replacing any
// previously set shape.
func (b *OutStreamBuilder[T]) ForArr1(n int) *OutStreamBuilder[T] {
	b.shape = []int{n}
	return b
}

// ForArr2 declares a rank-2 array, replacing any previously set shape.
func (b *OutStreamBuilder[T]) ForArr2(dim [2]int) *OutStreamBuilder[T] {
	b.shape = []int{dim[0], dim[1]}
	return b
}

// ForArr3 declares a rank-3 array, replacing any previously set shape.
func (b *OutStreamBuilder[T]) ForArr3(dim [3]int) *OutStreamBuilder[T] {
	b.shape = []int{dim[0], dim[1], dim[2]}
	return b
}

// Fortran declares column-major element order.
func (b *OutStreamBuilder[T]) Fortran() *OutStreamBuilder[T] {
	b.fortran = true
	return b
}

// C declares row-major element order (the default).
func (b *OutStreamBuilder[T]) C() *OutStreamBuilder[T] {
	b.fortran = false
	return b
}

// WithFS overrides the filesystem the destination is created on.
func (b *OutStreamBuilder[T]) WithFS(filesystem fs.FileSystem) *OutStreamBuilder[T] {
	if filesystem == nil {
		filesystem = fs.Default
	}
	b.fs = filesystem
	return b
}

// WithLogger overrides the logger used for stream diagnostics. A nil
// logger disables them.
func (b *OutStreamBuilder[T]) WithLogger(logger *Logger) *OutStreamBuilder[T] {
	if logger == nil {
		logger = NoopLogger()
	}
	b.logger = logger
	return b
}

// Build creates the destination file, writes the header, and returns the
// open stream. The stream's declared element count is the product of the
// configured shape. On any failure nothing callable is returned.
func (b *OutStreamBuilder[T]) Build() (*OutStream[T], error) {
	header := Header{
		TypeDescriptor: pylit.String(DTypeOf[T]().Descr()),
		FortranOrder:   b.fortran,
		Shape:          append([]int(nil), b.shape...),
	}
	total, ok := header.numElements()
	if !ok {
		return nil, ErrLengthOverflow
	}

	f, err := b.fs.Create(b.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create npy file: %w", err)
	}
	if err := header.WriteHeader(f); err != nil {
		f.Close()
		return nil, err
	}

	return &OutStream[T]{
		path:   b.path,
		f:      f,
		logger: b.logger,
		total:  total,
	}, nil
}

// OutStream is an open, append-only .npy destination bound to one
// array's worth of declared elements. The header has already been
// committed; WriteSlice appends element data until exactly the declared
// count has been written, after which Close finalizes the file.
//
// A stream must not be used from multiple goroutines.
type OutStream[T Element] struct {
	path     string
	f        fs.File
	logger   *Logger
	total    int
	written  int
	closed   bool
	finished bool
}

// WriteSlice appends chunk to the stream and returns the new cumulative
// element count. A chunk that would push the cumulative count past the
// declared total fails with ErrTooManyElements and writes nothing; the
// counter is not advanced.
func (s *OutStream[T]) WriteSlice(chunk []T) (int, error) {
	if s.closed {
		return s.written, ErrStreamClosed
	}
	if s.written+len(chunk) > s.total {
		return s.written, &ErrTooManyElements{Total: s.total, Attempted: s.written + len(chunk)}
	}
	if err := WriteSlice(s.f, chunk); err != nil {
		return s.written, err
	}
	s.written += len(chunk)
	return s.written, nil
}

// TotalElements returns the declared element count.
func (s *OutStream[T]) TotalElements() int { return s.total }

// Written returns the cumulative element count written so far.
func (s *OutStream[T]) Written() int { return s.written }

// IsFinished reports whether the declared element count has been fully
// written.
func (s *OutStream[T]) IsFinished() bool { return s.written == s.total }

// Close finalizes the stream. Closing before the declared element count
// has been written fails with ErrTooFewElements and leaves the stream
// open, so the caller can either supply the missing elements or Discard.
func (s *OutStream[T]) Close() error {
	if s.closed {
		return ErrStreamClosed
	}
	if s.written < s.total {
		return &ErrTooFewElements{Total: s.total, Written: s.written}
	}
	s.finished = true
	s.closed = true
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("failed to close npy file: %w", err)
	}
	return nil
}

// Discard releases the stream without the completeness check. It is
// meant for defer: after a successful Close it does nothing; on an
// abandoned, incomplete stream it logs a warning naming the declared and
// written counts instead of failing, since by the time a deferred
// Discard runs the caller is already past the point of reacting.
func (s *OutStream[T]) Discard() {
	if s.closed {
		return
	}
	s.closed = true
	if !s.finished {
		s.logger.Warn("npy stream discarded before completion",
			"path", s.path,
			"total_elements", s.total,
			"written_elements", s.written,
		)
	}
	s.f.Close()
}
