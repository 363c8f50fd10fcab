package npy

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

// magicString marks the start of every .npy file.
var magicString = []byte("\x93NUMPY")

// headerDivisor is the alignment unit of the total header length
// (magic string, version, length field, record, padding and trailing
// newline). Keeping the data section 64-byte aligned is what makes
// memory-mapped access practical.
const headerDivisor = 64

// Header is the parsed form of a .npy file header.
type Header struct {
	// TypeDescriptor is the value of the record's "descr" key. For the
	// primitive types this codec supports it is always a string, but
	// structured dtypes written by other tools parse to tuples or dicts
	// and are preserved as-is so the caller can classify the mismatch.
	TypeDescriptor pylit.Value

	// FortranOrder reports column-major element layout.
	FortranOrder bool

	// Shape holds the dimension sizes in order. An empty shape denotes a
	// rank-0 array with exactly one element.
	Shape []int
}

// numElements returns the product of the shape, or false on overflow.
// The empty product is 1.
func (h *Header) numElements() (int, bool) {
	n := 1
	for _, dim := range h.Shape {
		if dim == 0 {
			return 0, true
		}
		if n > maxInt/dim {
			return 0, false
		}
		n *= dim
	}
	return n, true
}

const maxInt = int(^uint(0) >> 1)

// ParseHeader reads and parses a .npy header from r, leaving r positioned
// at the first byte of the data section.
func ParseHeader(r io.Reader) (*Header, error) {
	buf := make([]byte, len(magicString)+versionNumBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("failed to read npy header prefix: %w", err)
	}
	for i, b := range magicString {
		if buf[i] != b {
			return nil, ErrMagicMismatch
		}
	}

	version, err := parseVersion(buf[len(magicString)], buf[len(magicString)+1])
	if err != nil {
		return nil, err
	}

	headerLen, err := version.readHeaderLen(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read npy header length: %w", err)
	}

	record := make([]byte, headerLen)
	if _, err := io.ReadFull(r, record); err != nil {
		return nil, fmt.Errorf("failed to read npy header record: %w", err)
	}
	if len(record) == 0 || record[len(record)-1] != '\n' {
		return nil, ErrMissingNewline
	}
	record = record[:len(record)-1]

	if version.asciiRequired() {
		for _, b := range record {
			if b >= 0x80 {
				return nil, ErrNonASCIIHeader
			}
		}
	} else if !utf8.Valid(record) {
		return nil, ErrInvalidUTF8
	}

	value, err := pylit.Parse(string(record))
	if err != nil {
		return nil, &ErrRecordParse{cause: err}
	}
	return headerFromValue(value)
}

func headerFromValue(value pylit.Value) (*Header, error) {
	entries, ok := value.AsDict()
	if !ok {
		return nil, &ErrRecordNotDict{Value: value}
	}

	var (
		descr        *pylit.Value
		fortranOrder *bool
		shape        []int
	)
	for _, entry := range entries {
		key, isString := entry.Key.AsString()
		if !isString {
			return nil, &ErrUnknownKey{Key: entry.Key}
		}
		switch key {
		case "descr":
			v := entry.Value
			descr = &v
		case "fortran_order":
			b, isBool := entry.Value.AsBool()
			if !isBool {
				return nil, &ErrIllegalValue{Key: "fortran_order", Value: entry.Value}
			}
			fortranOrder = &b
		case "shape":
			dims, err := parseShape(entry.Value)
			if err != nil {
				return nil, err
			}
			shape = dims
		default:
			return nil, &ErrUnknownKey{Key: entry.Key}
		}
	}

	switch {
	case descr == nil:
		return nil, &ErrMissingKey{Key: "descr"}
	case fortranOrder == nil:
		return nil, &ErrMissingKey{Key: "fortran_order"}
	case shape == nil:
		return nil, &ErrMissingKey{Key: "shape"}
	}

	return &Header{
		TypeDescriptor: *descr,
		FortranOrder:   *fortranOrder,
		Shape:          shape,
	}, nil
}

func parseShape(value pylit.Value) ([]int, error) {
	items, ok := value.AsTuple()
	if !ok {
		return nil, &ErrIllegalValue{Key: "shape", Value: value}
	}
	dims := make([]int, 0, len(items))
	for _, item := range items {
		dim, isInt := item.AsInt()
		if !isInt || dim < 0 || uint64(dim) > uint64(maxInt) {
			return nil, &ErrIllegalValue{Key: "shape", Value: value}
		}
		dims = append(dims, int(dim))
	}
	return dims, nil
}

// toValue renders the header as the record dict.
func (h *Header) toValue() pylit.Value {
	shape := make([]pylit.Value, len(h.Shape))
	for i, dim := range h.Shape {
		shape[i] = pylit.Int(int64(dim))
	}
	return pylit.Dict(
		pylit.DictEntry{Key: pylit.String("descr"), Value: h.TypeDescriptor},
		pylit.DictEntry{Key: pylit.String("fortran_order"), Value: pylit.Bool(h.FortranOrder)},
		pylit.DictEntry{Key: pylit.String("shape"), Value: pylit.Tuple(shape...)},
	)
}

// MarshalHeader formats the header as on-disk bytes, selecting the
// smallest version whose length field can hold the computed length. The
// result is newline-terminated and its length is a multiple of 64.
func (h *Header) MarshalHeader() ([]byte, error) {
	record, err := pylit.Format(h.toValue())
	if err != nil {
		return nil, fmt.Errorf("failed to format header record: %w", err)
	}

	// The formatter only emits ASCII, so version 3.0 is never needed on
	// the write side.
	for _, version := range []Version{V1_0, V2_0} {
		prefixLen := len(magicString) + versionNumBytes + version.headerLenNumBytes()
		unpadded := prefixLen + len(record) + 1 // trailing newline
		padding := 0
		if rem := unpadded % headerDivisor; rem != 0 {
			padding = headerDivisor - rem
		}
		totalLen := unpadded + padding
		lenField, ok := version.formatHeaderLen(totalLen - prefixLen)
		if !ok {
			continue
		}

		out := make([]byte, 0, totalLen)
		out = append(out, magicString...)
		out = append(out, version.majorVersion(), version.minorVersion())
		out = append(out, lenField...)
		out = append(out, record...)
		for i := 0; i < padding; i++ {
			out = append(out, ' ')
		}
		out = append(out, '\n')
		return out, nil
	}
	return nil, ErrHeaderTooLong
}

// WriteHeader formats the header and writes it to w.
func (h *Header) WriteHeader(w io.Writer) error {
	out, err := h.MarshalHeader()
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write npy header: %w", err)
	}
	return nil
}

func (h *Header) String() string {
	return h.toValue().String()
}
