package vfs2

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Archive is an opened VFS2 archive: its decoded catalog plus positioned
// access to file contents. Reads never move a shared cursor, so any number of
// goroutines may read files concurrently. Close must not race with reads.
type Archive struct {
	*Catalog

	r      io.ReaderAt
	size   int64
	closer io.Closer
	logger *slog.Logger
}

// Open memory-maps the archive at path and decodes its TOC.
func Open(path string, opts ...Option) (*Archive, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "vfs2: failed to open archive %s", path)
	}
	a, err := NewArchive(m, int64(m.Len()), opts...)
	if err != nil {
		m.Close()
		return nil, errors.WithMessagef(err, "archive %s", path)
	}
	a.closer = m
	return a, nil
}

// NewArchive decodes the TOC of the size bytes available through r.
// The caller keeps ownership of r; Close does not close it.
func NewArchive(r io.ReaderAt, size int64, opts ...Option) (*Archive, error) {
	o := newOptions(opts)
	cat, err := ReadTOC(io.NewSectionReader(r, 0, size), opts...)
	if err != nil {
		return nil, err
	}
	return &Archive{
		Catalog: cat,
		r:       r,
		size:    size,
		logger:  o.logger,
	}, nil
}

// Size returns the archive length in bytes.
func (a *Archive) Size() int64 { return a.size }

// Close releases the mapping created by Open.
func (a *Archive) Close() error {
	if a.r == nil {
		return nil
	}
	a.r = nil
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// OpenFile returns a reader over the content of f. The range
// [OffsetStart, OffsetStart+FileSize) must lie inside the archive, otherwise
// ErrOutOfRange is returned.
func (a *Archive) OpenFile(f File) (*io.SectionReader, error) {
	if a.r == nil {
		return nil, ErrClosed
	}
	if f.End() > a.size {
		return nil, errors.Wrapf(ErrOutOfRange,
			"file %d %q: offset 0x%08x + size 0x%08x exceeds archive size 0x%x",
			f.ID, f.Name, f.OffsetStart, f.FileSize, a.size)
	}
	return io.NewSectionReader(a.r, int64(f.OffsetStart), int64(f.FileSize)), nil
}

// ReadFile returns the content of f.
func (a *Archive) ReadFile(f File) ([]byte, error) {
	sr, err := a.OpenFile(f)
	if err != nil {
		return nil, err
	}
	data := make([]byte, f.FileSize)
	if _, err := io.ReadFull(sr, data); err != nil {
		return nil, errors.Wrapf(err, "vfs2: failed to read file %d %q", f.ID, f.Name)
	}
	return data, nil
}

// Pack is reserved for building archives. It is not implemented and always
// returns ErrNotImplemented.
func Pack(srcDir string, w io.Writer) error {
	return ErrNotImplemented
}
