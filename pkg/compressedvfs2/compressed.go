// Package compressedvfs2 opens VFS2 archives that were shipped inside an lz4
// or zstd frame. The wrapper is decompressed to memory and the inner archive
// is decoded with the vfs2 package as usual.
package compressedvfs2

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"

	"github.com/user/vfs2go/pkg/vfs2"
)

// Format identifies the container around a VFS2 archive.
type Format int

const (
	Raw Format = iota
	LZ4
	Zstd
)

func (f Format) String() string {
	switch f {
	case Raw:
		return "raw"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// sniffLen covers the largest lz4 frame header.
const sniffLen = 19

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Detect reports the container format from the leading bytes of a file.
// Anything that is neither an lz4 nor a zstd frame is Raw.
func Detect(head []byte) Format {
	if bytes.HasPrefix(head, zstdMagic) {
		return Zstd
	}
	if ok, _ := lz4.ValidFrameHeader(head); ok {
		return LZ4
	}
	return Raw
}

// Open opens the archive at path. Raw archives are memory-mapped through
// vfs2.Open; lz4 and zstd wrapped archives are decompressed to memory.
func Open(path string, opts ...vfs2.Option) (*vfs2.Archive, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Raw, errors.Wrapf(err, "compressedvfs2: failed to open %s", path)
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, Raw, errors.Wrapf(err, "compressedvfs2: failed to read %s", path)
	}

	format := Detect(head[:n])
	if format == Raw {
		a, err := vfs2.Open(path, opts...)
		return a, Raw, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, format, errors.Wrapf(err, "compressedvfs2: failed to rewind %s", path)
	}
	data, err := Decompress(f, format)
	if err != nil {
		return nil, format, errors.WithMessagef(err, "archive %s", path)
	}
	a, err := OpenBytes(data, opts...)
	if err != nil {
		return nil, format, errors.WithMessagef(err, "%s archive %s", format, path)
	}
	return a, format, nil
}

// OpenBytes decodes an archive held in memory.
func OpenBytes(data []byte, opts ...vfs2.Option) (*vfs2.Archive, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(vfs2.ErrTruncated, "compressedvfs2: wrapped archive is empty")
	}
	return vfs2.NewArchive(bytes.NewReader(data), int64(len(data)), opts...)
}

// Decompress reads the whole frame from r.
func Decompress(r io.Reader, format Format) ([]byte, error) {
	switch format {
	case LZ4:
		data, err := io.ReadAll(lz4.NewReader(r))
		if err != nil {
			return nil, errors.Wrap(err, "compressedvfs2: lz4 decompression failed")
		}
		return data, nil
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, errors.Wrap(err, "compressedvfs2: zstd decoder")
		}
		defer dec.Close()
		data, err := io.ReadAll(dec)
		if err != nil {
			return nil, errors.Wrap(err, "compressedvfs2: zstd decompression failed")
		}
		return data, nil
	case Raw:
		return io.ReadAll(r)
	}
	return nil, errors.Errorf("compressedvfs2: unknown format %v", format)
}
