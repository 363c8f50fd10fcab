// Package npy reads and writes files in the NumPy .npy format.
//
// The format is a self-describing container for a single dense
// multi-dimensional array: a versioned text header naming the element
// type, storage order and shape, followed by the raw element data.
// Files written by this package are byte-compatible with numpy.save and
// files written by numpy.save load back with exact shape, order and
// values.
//
// # Quick Start
//
// Whole-array I/O:
//
//	arr, _ := npy.NewArray([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
//	_ = npy.WriteFile("array.npy", arr)
//
//	back, _ := npy.ReadFile[float64]("array.npy")
//	v := back.At(1, 2) // 6
//
// Streaming writes, for arrays too large to hold in memory:
//
//	stream, _ := npy.NewOutStreamBuilder[float32]("out.npy").
//		ForArr2([2]int{1000, 128}).
//		Build()
//	defer stream.Discard()
//	for _, chunk := range chunks {
//		if _, err := stream.WriteSlice(chunk); err != nil {
//			return err
//		}
//	}
//	return stream.Close()
//
// # Element Types
//
// Supported element types are bool, the fixed-width integers int8
// through uint64, float32 and float64. The descriptor in a file's header
// must match the requested Go type exactly: reading a "<f8" file as
// float32 fails with ErrWrongDescriptor rather than converting.
//
// # Errors
//
// Every failure is classified: header conditions (ErrMagicMismatch,
// ErrUnsupportedVersion, ErrMissingKey, ...), data conditions
// (ErrWrongDescriptor, ErrTruncatedData, ErrExtraBytes, ErrInvalidBool)
// and stream contract violations (ErrTooManyElements,
// ErrTooFewElements) are distinct types usable with errors.Is and
// errors.As. There are no retries and no partial results; every error is
// terminal at the point of detection.
//
// Zip archives of several arrays (.npz) are handled by the npz
// subpackage.
package npy
