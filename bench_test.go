package npy

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/cxzheng/ndarray-npy/internal/pylit"
)

func benchmarkWrite(b *testing.B, rows, cols int) {
	b.Helper()
	b.ReportAllocs()

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i)
	}
	arr, err := NewArray(data, rows, cols)
	if err != nil {
		b.Fatal(err)
	}

	var warm bytes.Buffer
	if err := Write(&warm, arr); err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(warm.Len()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Write(io.Discard, arr); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkWrite(b *testing.B) {
	for _, size := range []struct{ rows, cols int }{
		{10, 10},
		{100, 100},
		{1000, 100},
	} {
		b.Run(fmt.Sprintf("%dx%d", size.rows, size.cols), func(b *testing.B) {
			benchmarkWrite(b, size.rows, size.cols)
		})
	}
}

func BenchmarkRead(b *testing.B) {
	for _, n := range []int{100, 10000, 1000000} {
		b.Run(fmt.Sprintf("f64_%d", n), func(b *testing.B) {
			b.ReportAllocs()

			data := make([]float64, n)
			for i := range data {
				data[i] = float64(i)
			}
			arr, err := NewArray(data, n)
			if err != nil {
				b.Fatal(err)
			}
			var buf bytes.Buffer
			if err := Write(&buf, arr); err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(buf.Len()))

			var sink *Array[float64]
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				out, err := Read[float64](bytes.NewReader(buf.Bytes()))
				if err != nil {
					b.Fatal(err)
				}
				sink = out
			}
			_ = sink
		})
	}
}

func BenchmarkParseHeader(b *testing.B) {
	b.ReportAllocs()

	h := Header{
		TypeDescriptor: pylit.String("<f8"),
		Shape:          []int{128, 768},
	}
	raw, err := h.MarshalHeader()
	if err != nil {
		b.Fatal(err)
	}
	b.SetBytes(int64(len(raw)))

	var sink *Header
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		out, err := ParseHeader(bytes.NewReader(raw))
		if err != nil {
			b.Fatal(err)
		}
		sink = out
	}
	_ = sink
}
