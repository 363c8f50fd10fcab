package npy

// ArrayView is the surface the codec needs from a host array library.
//
// Implementations with a contiguous backing slice in their declared
// storage order return it from Contiguous; the codec then serializes it
// in one pass. Views with custom strides return false and are written
// through Iter, one element at a time in row-major order.
type ArrayView[T Element] interface {
	// Shape returns the dimension sizes in order.
	Shape() []int

	// FortranOrder reports column-major layout of the contiguous data.
	FortranOrder() bool

	// Contiguous returns the elements in memory order when the layout is
	// contiguous, and false otherwise.
	Contiguous() ([]T, bool)

	// Iter visits every element in row-major order. It is only invoked
	// when Contiguous reports false.
	Iter(visit func(T) error) error
}

// Array is a dense in-memory array: a contiguous data slice plus shape
// and storage order. It implements ArrayView.
type Array[T Element] struct {
	shape   []int
	fortran bool
	data    []T
}

// NewArray constructs a dense row-major array over data. The length of
// data must equal the product of the shape.
func NewArray[T Element](data []T, shape ...int) (*Array[T], error) {
	return newArray(data, shape, false)
}

// NewArrayFortran constructs a dense column-major array over data.
func NewArrayFortran[T Element](data []T, shape ...int) (*Array[T], error) {
	return newArray(data, shape, true)
}

func newArray[T Element](data []T, shape []int, fortran bool) (*Array[T], error) {
	h := Header{Shape: shape}
	n, ok := h.numElements()
	if !ok {
		return nil, ErrLengthOverflow
	}
	if n != len(data) {
		return nil, &ErrShapeMismatch{Shape: shape, DataLen: len(data), Expected: n}
	}
	return &Array[T]{
		shape:   append([]int(nil), shape...),
		fortran: fortran,
		data:    data,
	}, nil
}

// Shape returns a copy of the dimension sizes.
func (a *Array[T]) Shape() []int {
	return append([]int(nil), a.shape...)
}

// FortranOrder reports column-major storage.
func (a *Array[T]) FortranOrder() bool { return a.fortran }

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int { return len(a.shape) }

// Len returns the total number of elements.
func (a *Array[T]) Len() int { return len(a.data) }

// Data returns the backing slice in storage order.
func (a *Array[T]) Data() []T { return a.data }

// Contiguous implements ArrayView. A dense array is always contiguous.
func (a *Array[T]) Contiguous() ([]T, bool) { return a.data, true }

// Iter implements ArrayView. It is never needed for a dense array but
// keeps Array usable wherever an ArrayView is expected.
func (a *Array[T]) Iter(visit func(T) error) error {
	if !a.fortran {
		for _, v := range a.data {
			if err := visit(v); err != nil {
				return err
			}
		}
		return nil
	}
	// Column-major storage iterated in row-major order.
	idx := make([]int, len(a.shape))
	for range a.data {
		if err := visit(a.data[a.flatIndex(idx)]); err != nil {
			return err
		}
		for axis := len(idx) - 1; axis >= 0; axis-- {
			idx[axis]++
			if idx[axis] < a.shape[axis] {
				break
			}
			idx[axis] = 0
		}
	}
	return nil
}

// At returns the element at the given multi-dimensional index. It panics
// when the index rank or bounds do not match the shape, mirroring slice
// indexing.
func (a *Array[T]) At(indices ...int) T {
	if len(indices) != len(a.shape) {
		panic("npy: index rank does not match array rank")
	}
	for axis, i := range indices {
		if i < 0 || i >= a.shape[axis] {
			panic("npy: index out of range")
		}
	}
	return a.data[a.flatIndex(indices)]
}

// flatIndex maps a multi-dimensional index to a position in the backing
// slice, honoring the storage order.
func (a *Array[T]) flatIndex(indices []int) int {
	flat := 0
	if a.fortran {
		stride := 1
		for axis := 0; axis < len(a.shape); axis++ {
			flat += indices[axis] * stride
			stride *= a.shape[axis]
		}
	} else {
		stride := 1
		for axis := len(a.shape) - 1; axis >= 0; axis-- {
			flat += indices[axis] * stride
			stride *= a.shape[axis]
		}
	}
	return flat
}
