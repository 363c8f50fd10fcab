// Package npz reads and writes .npz archives: zip containers whose
// members are individual .npy files, as produced by numpy.savez and
// numpy.savez_compressed.
//
// The container layer is archive/zip with klauspost's DEFLATE
// implementation registered for compression. Failures stay classifiable:
// zip-layer errors are wrapped by this package, while errors from an
// inner .npy member surface as the npy package's own error types.
package npz

import (
	"errors"
	"fmt"
	"strings"
)

// suffix is appended to member names that do not already carry it,
// matching numpy.savez.
const suffix = ".npy"

var (
	// ErrWriterClosed is returned when adding to a closed writer.
	ErrWriterClosed = errors.New("npz writer is closed")
)

// ErrArrayNotFound indicates that an archive has no member with the
// requested name.
type ErrArrayNotFound struct {
	Name string
}

func (e *ErrArrayNotFound) Error() string {
	return fmt.Sprintf("archive has no array named %q", e.Name)
}

// memberName normalizes an array name to its on-disk member name.
func memberName(name string) string {
	if strings.HasSuffix(name, suffix) {
		return name
	}
	return name + suffix
}

// arrayName strips the member suffix back off for presentation.
func arrayName(member string) string {
	return strings.TrimSuffix(member, suffix)
}
