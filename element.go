package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

// elementBufSize bounds the scratch buffer used to stream element data,
// so large arrays are encoded without a second full-size allocation.
const elementBufSize = 64 * 1024

// WriteSlice serializes elems contiguously to w in the host byte order.
// The matching descriptor for the header is DTypeOf[T]().Descr().
func WriteSlice[T Element](w io.Writer, elems []T) error {
	itemSize := DTypeOf[T]().ItemSize()
	chunkElems := elementBufSize / itemSize
	buf := make([]byte, min(len(elems), chunkElems)*itemSize)
	order := hostOrder()

	for len(elems) > 0 {
		n := min(len(elems), chunkElems)
		encodeElements(buf[:n*itemSize], elems[:n], order)
		if _, err := w.Write(buf[:n*itemSize]); err != nil {
			return fmt.Errorf("failed to write element data: %w", err)
		}
		elems = elems[n:]
	}
	return nil
}

// writeElement serializes a single element. scratch must be at least 8
// bytes; it exists so the per-element fallback path does not allocate.
func writeElement[T Element](w io.Writer, scratch []byte, v T) error {
	itemSize := DTypeOf[T]().ItemSize()
	encodeElements(scratch[:itemSize], []T{v}, hostOrder())
	if _, err := w.Write(scratch[:itemSize]); err != nil {
		return fmt.Errorf("failed to write element data: %w", err)
	}
	return nil
}

// ReadSlice reads exactly count elements of type T from r. The
// descriptor must name T's dtype exactly; the byte order it encodes is
// honored regardless of the host order. After the declared count the
// stream must be exhausted: remaining bytes are an ErrExtraBytes
// condition, and hitting EOF early is ErrTruncatedData.
func ReadSlice[T Element](r io.Reader, descr pylit.Value, count int) ([]T, error) {
	s, ok := descr.AsString()
	if !ok {
		return nil, &ErrWrongDescriptor{Descr: descr}
	}
	dtype := DTypeOf[T]()
	order, ok := dtype.matchDescr(s)
	if !ok {
		return nil, &ErrWrongDescriptor{Descr: descr}
	}

	if dtype == Bool {
		return readBools[T](r, count)
	}

	out := make([]T, count)
	itemSize := dtype.ItemSize()
	chunkElems := max(elementBufSize/itemSize, 1)
	buf := make([]byte, min(count, chunkElems)*itemSize)

	for done := 0; done < count; {
		n := min(count-done, chunkElems)
		if _, err := io.ReadFull(r, buf[:n*itemSize]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, ErrTruncatedData
			}
			return nil, fmt.Errorf("failed to read element data: %w", err)
		}
		decodeElements(out[done:done+n], buf[:n*itemSize], order)
		done += n
	}

	if err := checkExhausted(r); err != nil {
		return nil, err
	}
	return out, nil
}

// readBools decodes the one-byte boolean payload. The whole buffer is
// validated before any value is surfaced: every byte must be 0x00 or
// 0x01.
func readBools[T Element](r io.Reader, count int) ([]T, error) {
	raw := make([]byte, count)
	if _, err := io.ReadFull(r, raw); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrTruncatedData
		}
		return nil, fmt.Errorf("failed to read element data: %w", err)
	}
	if err := checkExhausted(r); err != nil {
		return nil, err
	}
	for _, b := range raw {
		if b > 1 {
			return nil, &ErrInvalidBool{Byte: b}
		}
	}
	out := make([]T, count)
	if bools, ok := any(out).([]bool); ok {
		for i, b := range raw {
			bools[i] = b == 1
		}
	}
	return out, nil
}

// checkExhausted consumes the remainder of r and fails if any bytes were
// left after the declared data section.
func checkExhausted(r io.Reader) error {
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return fmt.Errorf("failed to check for extra bytes: %w", err)
	}
	if n > 0 {
		return &ErrExtraBytes{Count: n}
	}
	return nil
}

// encodeElements writes elems into dst using order for multi-byte types.
// dst must be exactly len(elems) * itemSize bytes.
func encodeElements[T Element](dst []byte, elems []T, order binary.ByteOrder) {
	switch s := any(elems).(type) {
	case []bool:
		for i, v := range s {
			if v {
				dst[i] = 1
			} else {
				dst[i] = 0
			}
		}
	case []int8:
		for i, v := range s {
			dst[i] = byte(v)
		}
	case []uint8:
		copy(dst, s)
	case []int16:
		for i, v := range s {
			order.PutUint16(dst[i*2:], uint16(v))
		}
	case []uint16:
		for i, v := range s {
			order.PutUint16(dst[i*2:], v)
		}
	case []int32:
		for i, v := range s {
			order.PutUint32(dst[i*4:], uint32(v))
		}
	case []uint32:
		for i, v := range s {
			order.PutUint32(dst[i*4:], v)
		}
	case []int64:
		for i, v := range s {
			order.PutUint64(dst[i*8:], uint64(v))
		}
	case []uint64:
		for i, v := range s {
			order.PutUint64(dst[i*8:], v)
		}
	case []float32:
		for i, v := range s {
			order.PutUint32(dst[i*4:], math.Float32bits(v))
		}
	case []float64:
		for i, v := range s {
			order.PutUint64(dst[i*8:], math.Float64bits(v))
		}
	}
}

// decodeElements fills out from src using order for multi-byte types.
// src must be exactly len(out) * itemSize bytes. Boolean data takes the
// validating path in readBools and never reaches here.
func decodeElements[T Element](out []T, src []byte, order binary.ByteOrder) {
	switch s := any(out).(type) {
	case []int8:
		for i := range s {
			s[i] = int8(src[i])
		}
	case []uint8:
		copy(s, src)
	case []int16:
		for i := range s {
			s[i] = int16(order.Uint16(src[i*2:]))
		}
	case []uint16:
		for i := range s {
			s[i] = order.Uint16(src[i*2:])
		}
	case []int32:
		for i := range s {
			s[i] = int32(order.Uint32(src[i*4:]))
		}
	case []uint32:
		for i := range s {
			s[i] = order.Uint32(src[i*4:])
		}
	case []int64:
		for i := range s {
			s[i] = int64(order.Uint64(src[i*8:]))
		}
	case []uint64:
		for i := range s {
			s[i] = order.Uint64(src[i*8:])
		}
	case []float32:
		for i := range s {
			s[i] = math.Float32frombits(order.Uint32(src[i*4:]))
		}
	case []float64:
		for i := range s {
			s[i] = math.Float64frombits(order.Uint64(src[i*8:]))
		}
	}
}
