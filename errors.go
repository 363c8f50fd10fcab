package npy

import (
	"errors"
	"fmt"

	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

var (
	// ErrMagicMismatch is returned when a file does not start with the
	// \x93NUMPY magic string.
	ErrMagicMismatch = errors.New("start does not match npy magic string")

	// ErrNonASCIIHeader is returned when a version 1.0 or 2.0 header
	// record contains non-ASCII bytes.
	ErrNonASCIIHeader = errors.New("non-ascii header record; not allowed in npy versions 1.0 and 2.0")

	// ErrInvalidUTF8 is returned when a version 3.0 header record is not
	// valid UTF-8.
	ErrInvalidUTF8 = errors.New("header record is not valid UTF-8")

	// ErrMissingNewline is returned when the header record does not end
	// with a newline byte.
	ErrMissingNewline = errors.New("missing newline at end of header")

	// ErrHeaderTooLong is returned when formatting a header whose length
	// cannot be encoded by any supported npy version.
	ErrHeaderTooLong = errors.New("header is too long")

	// ErrTruncatedData is returned when the data section ends before the
	// element count declared by the header has been read.
	ErrTruncatedData = errors.New("reached EOF before reading all data")

	// ErrLengthOverflow is returned when the element count computed from
	// the shape overflows.
	ErrLengthOverflow = errors.New("overflow computing length from shape")

	// ErrStreamClosed is returned when writing to a stream that has
	// already been closed or discarded.
	ErrStreamClosed = errors.New("stream is closed")
)

// ErrUnsupportedVersion indicates an unknown version byte pair.
type ErrUnsupportedVersion struct {
	Major byte
	Minor byte
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unknown npy version: %d.%d", e.Major, e.Minor)
}

// ErrHeaderLengthOverflow indicates a declared header length that does
// not fit in int.
type ErrHeaderLengthOverflow struct {
	Value uint32
}

func (e *ErrHeaderLengthOverflow) Error() string {
	return fmt.Sprintf("header length %d does not fit in int", e.Value)
}

// ErrRecordParse indicates that the header's descriptive record is not a
// parseable Python literal.
//
// The underlying parse error can be accessed via errors.Unwrap.
type ErrRecordParse struct {
	cause error
}

func (e *ErrRecordParse) Error() string {
	return fmt.Sprintf("cannot parse header record: %v", e.cause)
}

func (e *ErrRecordParse) Unwrap() error { return e.cause }

// ErrRecordNotDict indicates that the header record parsed to something
// other than a dict.
type ErrRecordNotDict struct {
	Value pylit.Value
}

func (e *ErrRecordNotDict) Error() string {
	return fmt.Sprintf("header record is not a dict: %s", e.Value)
}

// ErrUnknownKey indicates an unrecognized key in the header record.
type ErrUnknownKey struct {
	Key pylit.Value
}

func (e *ErrUnknownKey) Error() string {
	return fmt.Sprintf("unknown key in header record: %s", e.Key)
}

// ErrMissingKey indicates a required key absent from the header record.
type ErrMissingKey struct {
	Key string
}

func (e *ErrMissingKey) Error() string {
	return fmt.Sprintf("missing key in header record: %s", e.Key)
}

// ErrIllegalValue indicates a header record value of the wrong shape or
// type for its key.
type ErrIllegalValue struct {
	Key   string
	Value pylit.Value
}

func (e *ErrIllegalValue) Error() string {
	return fmt.Sprintf("illegal value for key %s: %s", e.Key, e.Value)
}

// ErrWrongDescriptor indicates that the file's type descriptor does not
// match the requested element type.
type ErrWrongDescriptor struct {
	Descr pylit.Value
}

func (e *ErrWrongDescriptor) Error() string {
	return fmt.Sprintf("incorrect descriptor (%s) for this type", e.Descr)
}

// ErrExtraBytes indicates trailing bytes after the declared data section.
type ErrExtraBytes struct {
	Count int64
}

func (e *ErrExtraBytes) Error() string {
	return fmt.Sprintf("file had %d extra bytes before EOF", e.Count)
}

// ErrInvalidBool indicates a boolean payload byte other than 0x00 or 0x01.
type ErrInvalidBool struct {
	Byte byte
}

func (e *ErrInvalidBool) Error() string {
	return fmt.Sprintf("cannot parse value %#04x as a bool", e.Byte)
}

// ErrTooManyElements indicates a stream write that would exceed the
// declared element count.
type ErrTooManyElements struct {
	Total     int
	Attempted int
}

func (e *ErrTooManyElements) Error() string {
	return fmt.Sprintf("number of written elements (%d) exceeds the size (%d) given by the shape", e.Attempted, e.Total)
}

// ErrTooFewElements indicates a stream closed before the declared element
// count was written.
type ErrTooFewElements struct {
	Total   int
	Written int
}

func (e *ErrTooFewElements) Error() string {
	return fmt.Sprintf("number of written elements (%d) is less than the size (%d) given by the shape", e.Written, e.Total)
}

// ErrShapeMismatch indicates array data whose length does not equal the
// product of the shape.
type ErrShapeMismatch struct {
	Shape    []int
	DataLen  int
	Expected int
}

func (e *ErrShapeMismatch) Error() string {
	return fmt.Sprintf("data length %d does not match shape %v (want %d elements)", e.DataLen, e.Shape, e.Expected)
}
