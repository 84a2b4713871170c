package vfs2

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// ReadTOC decodes the header and the directory and file arrays of an archive.
//
// The stream is rewound to offset 0 first, so calling ReadTOC again on the
// same handle yields an identical catalog. Nothing past the file array is read.
func ReadTOC(r io.ReadSeeker, opts ...Option) (*Catalog, error) {
	o := newOptions(opts)

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "vfs2: failed to determine archive size")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "vfs2: failed to seek to start of archive")
	}

	var magic [4]byte
	if err := readRecord(r, magic[:], "magic"); err != nil {
		return nil, err
	}
	if string(magic[:]) != Magic {
		return nil, errors.Wrapf(ErrFormat, "magic %q", magic[:])
	}

	var rest [HeaderSize - 4]byte
	if err := readRecord(r, rest[:], "header"); err != nil {
		return nil, err
	}
	b := readBuf(rest[:])
	hdr := Header{Magic: magic}
	hdr.DirCount = b.uint32()
	hdr.FileCount = b.uint32()
	copy(hdr.Reserved[:], b.sub(reservedLen))

	// Refuse counts the stream cannot hold before allocating for them.
	need := int64(HeaderSize) + int64(hdr.DirCount)*DirectoryRecordLen + int64(hdr.FileCount)*FileRecordLen
	if need > size {
		return nil, errors.Wrapf(ErrTruncated, "TOC of %d directories and %d files needs %d bytes, archive has %d",
			hdr.DirCount, hdr.FileCount, need, size)
	}

	c := newCatalog(hdr, o)

	var dirBuf [DirectoryRecordLen]byte
	for i := uint32(0); i < hdr.DirCount; i++ {
		id := i + 1
		if err := readRecord(r, dirBuf[:], "directory record %d", id); err != nil {
			return nil, err
		}
		b := readBuf(dirBuf[:])
		d := Directory{ID: id, Parent: b.uint32()}
		if d.Name, err = decodeName(b.sub(NameFieldSize), o.namePolicy); err != nil {
			return nil, errors.WithMessagef(err, "directory record %d", id)
		}
		c.dirs = append(c.dirs, d)
	}

	var fileBuf [FileRecordLen]byte
	for i := uint32(0); i < hdr.FileCount; i++ {
		id := i + 1
		if err := readRecord(r, fileBuf[:], "file record %d", id); err != nil {
			return nil, err
		}
		b := readBuf(fileBuf[:])
		f := File{ID: id, Parent: b.uint32()}
		if f.Name, err = decodeName(b.sub(NameFieldSize), o.namePolicy); err != nil {
			return nil, errors.WithMessagef(err, "file record %d", id)
		}
		f.OffsetStart = b.uint32()
		f.FileSize = b.uint32()
		for j := range f.Unknown {
			f.Unknown[j] = b.uint32()
		}
		c.files = append(c.files, f)
	}

	o.logger.Debug("vfs2: decoded TOC",
		"directories", hdr.DirCount, "files", hdr.FileCount, "archive_size", size)
	return c, nil
}

// readRecord fills buf completely; a short read is reported as ErrTruncated.
func readRecord(r io.Reader, buf []byte, format string, args ...any) error {
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return errors.Wrapf(ErrTruncated, "reading "+format, args...)
		}
		return errors.Wrapf(err, "vfs2: reading "+format, args...)
	}
	return nil
}

type readBuf []byte

func (b *readBuf) uint32() uint32 {
	v := binary.LittleEndian.Uint32(*b)
	*b = (*b)[4:]
	return v
}

func (b *readBuf) sub(n int) []byte {
	b2 := (*b)[:n]
	*b = (*b)[n:]
	return b2
}
