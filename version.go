package npy

import (
	"encoding/binary"
	"io"
	"math"
)

// Version identifies one of the supported .npy format revisions.
type Version uint8

const (
	// V1_0 uses a 2-byte header length field and requires an ASCII
	// header record.
	V1_0 Version = iota
	// V2_0 widens the header length field to 4 bytes; the record is
	// still required to be ASCII.
	V2_0
	// V3_0 keeps the 4-byte length field and allows UTF-8 in the record.
	V3_0
)

// versionNumBytes is the size of the on-disk version field (major byte
// followed by minor byte).
const versionNumBytes = 2

func parseVersion(major, minor byte) (Version, error) {
	switch {
	case major == 1 && minor == 0:
		return V1_0, nil
	case major == 2 && minor == 0:
		return V2_0, nil
	case major == 3 && minor == 0:
		return V3_0, nil
	default:
		return 0, &ErrUnsupportedVersion{Major: major, Minor: minor}
	}
}

func (v Version) majorVersion() byte {
	switch v {
	case V1_0:
		return 1
	case V2_0:
		return 2
	default:
		return 3
	}
}

func (v Version) minorVersion() byte { return 0 }

// headerLenNumBytes is the width of the little-endian header length field.
func (v Version) headerLenNumBytes() int {
	if v == V1_0 {
		return 2
	}
	return 4
}

// asciiRequired reports whether the header record must be pure ASCII.
func (v Version) asciiRequired() bool { return v != V3_0 }

// readHeaderLen reads the header length field from r.
func (v Version) readHeaderLen(r io.Reader) (int, error) {
	buf := make([]byte, v.headerLenNumBytes())
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, err
	}
	if v == V1_0 {
		return int(binary.LittleEndian.Uint16(buf)), nil
	}
	n := binary.LittleEndian.Uint32(buf)
	if uint64(n) > uint64(math.MaxInt) {
		return 0, &ErrHeaderLengthOverflow{Value: n}
	}
	return int(n), nil
}

// formatHeaderLen renders headerLen as the on-disk length field. It
// reports false when the value does not fit the field for this version.
func (v Version) formatHeaderLen(headerLen int) ([]byte, bool) {
	if headerLen < 0 {
		return nil, false
	}
	if v == V1_0 {
		if headerLen > math.MaxUint16 {
			return nil, false
		}
		out := make([]byte, 2)
		binary.LittleEndian.PutUint16(out, uint16(headerLen))
		return out, true
	}
	if uint64(headerLen) > uint64(math.MaxUint32) {
		return nil, false
	}
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, uint32(headerLen))
	return out, true
}
