package npy

import (
	"encoding/binary"
)

// DType enumerates the primitive element types this codec supports. Each
// carries its descriptor strings, item size, and byte-order behavior;
// the shared element codec dispatches on it instead of one routine per
// type.
type DType int

const (
	Bool DType = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// hostLittleEndian reports the byte order elements are written in. The
// descriptor embedded in the header records it, so readers on any
// platform can decode the data.
var hostLittleEndian = binary.NativeEndian.Uint16([]byte{0x01, 0x00}) == 1

func hostOrder() binary.ByteOrder {
	if hostLittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// ItemSize returns the element width in bytes.
func (d DType) ItemSize() int {
	switch d {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	default:
		return 8
	}
}

func (d DType) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	default:
		return "float64"
	}
}

// typeCode is the numpy kind character followed by the byte width,
// without the leading byte-order character.
func (d DType) typeCode() string {
	switch d {
	case Bool:
		return "b1"
	case Int8:
		return "i1"
	case Uint8:
		return "u1"
	case Int16:
		return "i2"
	case Uint16:
		return "u2"
	case Int32:
		return "i4"
	case Uint32:
		return "u4"
	case Int64:
		return "i8"
	case Uint64:
		return "u8"
	case Float32:
		return "f4"
	default:
		return "f8"
	}
}

// Descr returns the descriptor string written to headers for this dtype:
// "|" for one-byte types, otherwise the host byte order.
func (d DType) Descr() string {
	if d.ItemSize() == 1 {
		return "|" + d.typeCode()
	}
	if hostLittleEndian {
		return "<" + d.typeCode()
	}
	return ">" + d.typeCode()
}

// readDescrs lists every descriptor string accepted when reading this
// dtype, including numpy's legacy aliases for the one-byte integers.
func (d DType) readDescrs() []string {
	switch d {
	case Bool:
		return []string{"|b1"}
	case Int8:
		return []string{"|i1", "i1", "b"}
	case Uint8:
		return []string{"|u1", "u1", "B"}
	default:
		code := d.typeCode()
		return []string{"<" + code, ">" + code}
	}
}

// matchDescr reports whether descr names this dtype, and the byte order
// the data was written in. Matching is exact string comparison; there is
// no coercion between widths or kinds.
func (d DType) matchDescr(descr string) (binary.ByteOrder, bool) {
	if d.ItemSize() == 1 {
		for _, accepted := range d.readDescrs() {
			if descr == accepted {
				return nil, true
			}
		}
		return nil, false
	}
	code := d.typeCode()
	switch descr {
	case "<" + code:
		return binary.LittleEndian, true
	case ">" + code:
		return binary.BigEndian, true
	default:
		return nil, false
	}
}

// Element is the closed set of Go types with a .npy primitive encoding.
type Element interface {
	bool | int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32 | float64
}

// DTypeOf returns the DType corresponding to the element type T.
func DTypeOf[T Element]() DType {
	var zero T
	switch any(zero).(type) {
	case bool:
		return Bool
	case int8:
		return Int8
	case uint8:
		return Uint8
	case int16:
		return Int16
	case uint16:
		return Uint16
	case int32:
		return Int32
	case uint32:
		return Uint32
	case int64:
		return Int64
	case uint64:
		return Uint64
	case float32:
		return Float32
	default:
		return Float64
	}
}
