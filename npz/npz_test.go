package npz

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	npy "github.com/cxzheng/ndarray-npy"
)

func writeArchive(t *testing.T, path string, opts ...WriterOption) {
	t.Helper()

	w, err := Create(path, opts...)
	require.NoError(t, err)

	matrix, err := npy.NewArray([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	require.NoError(t, Add(w, "matrix", matrix))

	counts, err := npy.NewArray([]int32{10, 20, 30, 40}, 4)
	require.NoError(t, err)
	require.NoError(t, Add(w, "counts", counts))

	require.NoError(t, w.Close())
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.npz")
	writeArchive(t, path)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, []string{"counts", "matrix"}, r.Names())

	matrix, err := Read[float64](r, "matrix")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, matrix.Shape())
	assert.EqualValues(t, 6, matrix.At(1, 2))

	counts, err := Read[int32](r, "counts")
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 20, 30, 40}, counts.Data())
}

func TestArchiveStored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stored.npz")
	writeArchive(t, path, WithStored())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	matrix, err := Read[float64](r, "matrix")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, matrix.Data())
}

func TestArchiveHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.npz")
	writeArchive(t, path)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	h, ok := r.Header("matrix")
	require.True(t, ok)
	assert.Equal(t, []int{2, 3}, h.Shape)
	assert.False(t, h.FortranOrder)

	// The on-disk member name with its suffix also resolves.
	_, ok = r.Header("matrix.npy")
	assert.True(t, ok)

	_, ok = r.Header("missing")
	assert.False(t, ok)
}

func TestArchiveArrayNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.npz")
	writeArchive(t, path)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = Read[float64](r, "missing")
	var nferr *ErrArrayNotFound
	require.ErrorAs(t, err, &nferr)
	assert.Equal(t, "missing", nferr.Name)
}

func TestArchiveWrongElementType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bundle.npz")
	writeArchive(t, path)

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = Read[int16](r, "matrix")
	var werr *npy.ErrWrongDescriptor
	assert.ErrorAs(t, err, &werr)
}

func TestArchiveInMemory(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	flags, err := npy.NewArray([]bool{true, false, true}, 3)
	require.NoError(t, err)
	require.NoError(t, Add(w, "flags", flags))
	require.NoError(t, w.Close())

	r, err := NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	defer r.Close()

	flagsBack, err := Read[bool](r, "flags")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, flagsBack.Data())
}

func TestWriterAddAfterClose(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.Close())

	arr, err := npy.NewArray([]uint8{1}, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, Add(w, "late", arr), ErrWriterClosed)
	assert.ErrorIs(t, w.Close(), ErrWriterClosed)
}

func TestMemberNames(t *testing.T) {
	assert.Equal(t, "a.npy", memberName("a"))
	assert.Equal(t, "a.npy", memberName("a.npy"))
	assert.Equal(t, "a", arrayName("a.npy"))
	assert.Equal(t, "a", arrayName("a"))
}
