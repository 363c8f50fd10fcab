package npy

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cxzheng/ndarray-npy/internal/fs"
)

func TestStreamWriteContract(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.npy")
	stream, err := NewOutStreamBuilder[float64](path).
		ForArr2([2]int{2, 3}).
		Build()
	require.NoError(t, err)
	defer stream.Discard()

	assert.Equal(t, 6, stream.TotalElements())
	assert.False(t, stream.IsFinished())

	n, err := stream.WriteSlice([]float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Overshooting fails and must not advance the counter.
	_, err = stream.WriteSlice([]float64{3, 4, 5, 6, 7})
	var terr *ErrTooManyElements
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 6, terr.Total)
	assert.Equal(t, 7, terr.Attempted)
	assert.Equal(t, 2, stream.Written())

	n, err = stream.WriteSlice([]float64{3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.True(t, stream.IsFinished())

	require.NoError(t, stream.Close())

	back, err := ReadFile[float64](path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, back.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, back.Data())
}

func TestStreamCloseTooFew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.npy")
	stream, err := NewOutStreamBuilder[int32](path).ForArr1(6).Build()
	require.NoError(t, err)
	defer stream.Discard()

	_, err = stream.WriteSlice([]int32{1, 2, 3, 4, 5})
	require.NoError(t, err)

	err = stream.Close()
	var ferr *ErrTooFewElements
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 6, ferr.Total)
	assert.Equal(t, 5, ferr.Written)

	// The stream is still open; the missing element can be supplied.
	_, err = stream.WriteSlice([]int32{6})
	require.NoError(t, err)
	require.NoError(t, stream.Close())
}

func TestStreamWriteAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.npy")
	stream, err := NewOutStreamBuilder[uint8](path).ForArr1(1).Build()
	require.NoError(t, err)

	_, err = stream.WriteSlice([]uint8{1})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	_, err = stream.WriteSlice([]uint8{2})
	assert.ErrorIs(t, err, ErrStreamClosed)
	assert.ErrorIs(t, stream.Close(), ErrStreamClosed)
}

func TestStreamDiscardWarns(t *testing.T) {
	var logBuf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&logBuf, nil))

	path := filepath.Join(t.TempDir(), "abandoned.npy")
	stream, err := NewOutStreamBuilder[float32](path).
		ForArr1(4).
		WithLogger(logger).
		Build()
	require.NoError(t, err)

	_, err = stream.WriteSlice([]float32{1})
	require.NoError(t, err)

	stream.Discard()
	out := logBuf.String()
	assert.Contains(t, out, "discarded before completion")
	assert.Contains(t, out, "total_elements=4")
	assert.Contains(t, out, "written_elements=1")

	// Idempotent, and silent once closed.
	logBuf.Reset()
	stream.Discard()
	assert.Empty(t, logBuf.String())
}

func TestStreamDiscardAfterCloseIsSilent(t *testing.T) {
	var logBuf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&logBuf, nil))

	path := filepath.Join(t.TempDir(), "done.npy")
	stream, err := NewOutStreamBuilder[int8](path).
		ForArr1(2).
		WithLogger(logger).
		Build()
	require.NoError(t, err)
	defer stream.Discard()

	_, err = stream.WriteSlice([]int8{1, 2})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	stream.Discard()
	assert.Empty(t, logBuf.String())
}

func TestStreamShapeSettersReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reshaped.npy")
	stream, err := NewOutStreamBuilder[int64](path).
		ForArr3([3]int{9, 9, 9}).
		WithShape(5, 5).
		ForArr1(3).
		Build()
	require.NoError(t, err)
	defer stream.Discard()

	assert.Equal(t, 3, stream.TotalElements())
	_, err = stream.WriteSlice([]int64{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	back, err := ReadFile[int64](path)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, back.Shape())
}

func TestStreamFortranHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fortran.npy")
	stream, err := NewOutStreamBuilder[float64](path).
		ForArr2([2]int{2, 2}).
		Fortran().
		Build()
	require.NoError(t, err)
	defer stream.Discard()

	_, err = stream.WriteSlice([]float64{1, 3, 2, 4})
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	back, err := ReadFile[float64](path)
	require.NoError(t, err)
	assert.True(t, back.FortranOrder())
	assert.EqualValues(t, 2, back.At(0, 1))
}

func TestStreamBuildFailurePropagates(t *testing.T) {
	faulty := fs.NewFaultyFS(nil)
	faulty.Fault.FailAfterBytes = 8 // header cannot fit

	path := filepath.Join(t.TempDir(), "faulty.npy")
	_, err := NewOutStreamBuilder[float64](path).
		ForArr1(4).
		WithFS(faulty).
		Build()
	assert.ErrorIs(t, err, fs.ErrInjected)
}

func TestStreamWriteFailurePropagates(t *testing.T) {
	faulty := fs.NewFaultyFS(nil)
	// One 64-byte header fits exactly; the first element write fails.
	faulty.Fault.FailAfterBytes = 64

	path := filepath.Join(t.TempDir(), "faulty.npy")
	stream, err := NewOutStreamBuilder[float64](path).
		ForArr1(4).
		WithFS(faulty).
		WithLogger(NoopLogger()).
		Build()
	require.NoError(t, err)
	defer stream.Discard()

	_, err = stream.WriteSlice([]float64{1})
	assert.ErrorIs(t, err, fs.ErrInjected)
	assert.Equal(t, 0, stream.Written())
}
