package npz

import (
	"archive/zip"
	"fmt"
	"io"
	"runtime"
	"sort"

	"github.com/klauspost/compress/flate"
	"golang.org/x/sync/errgroup"

	npy "github.com/cxzheng/ndarray-npy"
)

// Reader reads arrays out of an .npz archive. Member headers are parsed
// up front so Names and Header are cheap; element data is decompressed
// on demand per Read call.
type Reader struct {
	zr      *zip.Reader
	closer  io.Closer
	members map[string]*member
	names   []string
}

type member struct {
	file   *zip.File
	header *npy.Header
}

// Open opens the .npz archive at path.
func Open(path string) (*Reader, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open npz archive: %w", err)
	}
	r, err := newReader(&rc.Reader)
	if err != nil {
		rc.Close()
		return nil, err
	}
	r.closer = rc
	return r, nil
}

// NewReader reads an archive from ra, which must span size bytes.
func NewReader(ra io.ReaderAt, size int64) (*Reader, error) {
	zr, err := zip.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open npz archive: %w", err)
	}
	return newReader(zr)
}

func newReader(zr *zip.Reader) (*Reader, error) {
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	r := &Reader{
		zr:      zr,
		members: make(map[string]*member, len(zr.File)),
	}
	members := make([]*member, len(zr.File))

	// Members are independent DEFLATE streams over one ReaderAt, so
	// their headers can be parsed concurrently.
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range zr.File {
		i, f := i, f
		g.Go(func() error {
			entry, err := f.Open()
			if err != nil {
				return fmt.Errorf("failed to open npz member %q: %w", f.Name, err)
			}
			defer entry.Close()
			header, err := npy.ParseHeader(entry)
			if err != nil {
				return err
			}
			members[i] = &member{file: f, header: header}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, m := range members {
		name := arrayName(m.file.Name)
		r.members[name] = m
		r.names = append(r.names, name)
	}
	sort.Strings(r.names)
	return r, nil
}

// Names returns the array names in the archive, sorted, with the ".npy"
// member suffix stripped.
func (r *Reader) Names() []string {
	return append([]string(nil), r.names...)
}

// Header returns the parsed .npy header of the named array.
func (r *Reader) Header(name string) (*npy.Header, bool) {
	m, ok := r.lookup(name)
	if !ok {
		return nil, false
	}
	return m.header, true
}

func (r *Reader) lookup(name string) (*member, bool) {
	if m, ok := r.members[name]; ok {
		return m, true
	}
	m, ok := r.members[arrayName(name)]
	return m, ok
}

// Read decodes the named array from the archive. The member's descriptor
// must match T exactly, as for npy.Read.
func Read[T npy.Element](r *Reader, name string) (*npy.Array[T], error) {
	m, ok := r.lookup(name)
	if !ok {
		return nil, &ErrArrayNotFound{Name: name}
	}
	entry, err := m.file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open npz member %q: %w", m.file.Name, err)
	}
	defer entry.Close()
	return npy.Read[T](entry)
}

// Close releases the underlying file when the reader was created with
// Open; it is a no-op for NewReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
