// Package testutil builds synthetic VFS2 archives for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// Dir is a directory record as written to the archive.
type Dir struct {
	Parent uint32
	Name   []byte // raw name field contents; padded with NULs to 0x80
}

// File is a file record as written to the archive. When Data is set and
// Offset is zero, Offset and Size are filled in by Bytes.
type File struct {
	Parent  uint32
	Name    []byte
	Data    []byte
	Offset  uint32
	Size    uint32
	Unknown [5]uint32
}

// Builder assembles an archive: header, directory array, file array, then
// the file contents in file order.
type Builder struct {
	Magic    [4]byte
	Reserved [12]byte
	Dirs     []Dir
	Files    []File
}

// NewBuilder returns a builder with the VFS2 magic.
func NewBuilder() *Builder {
	b := &Builder{}
	copy(b.Magic[:], "VFS2")
	return b
}

// AddDir appends a directory and returns its ID.
func (b *Builder) AddDir(parent uint32, name string) uint32 {
	b.Dirs = append(b.Dirs, Dir{Parent: parent, Name: []byte(name)})
	return uint32(len(b.Dirs))
}

// AddFile appends a file with contents and returns its ID.
func (b *Builder) AddFile(parent uint32, name string, data []byte) uint32 {
	b.Files = append(b.Files, File{Parent: parent, Name: []byte(name), Data: data})
	return uint32(len(b.Files))
}

// Bytes serialises the archive.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	buf.Write(b.Magic[:])
	binary.Write(&buf, binary.LittleEndian, uint32(len(b.Dirs)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(b.Files)))
	buf.Write(b.Reserved[:])

	for _, d := range b.Dirs {
		binary.Write(&buf, binary.LittleEndian, d.Parent)
		buf.Write(NameField(d.Name))
	}

	dataStart := uint32(buf.Len() + len(b.Files)*(4+0x80+7*4))
	next := dataStart
	for _, f := range b.Files {
		if f.Data != nil && f.Offset == 0 {
			f.Offset = next
			f.Size = uint32(len(f.Data))
			next += f.Size
		}
		binary.Write(&buf, binary.LittleEndian, f.Parent)
		buf.Write(NameField(f.Name))
		binary.Write(&buf, binary.LittleEndian, f.Offset)
		binary.Write(&buf, binary.LittleEndian, f.Size)
		binary.Write(&buf, binary.LittleEndian, f.Unknown)
	}
	for _, f := range b.Files {
		if f.Data != nil && f.Offset == 0 {
			buf.Write(f.Data)
		}
	}
	return buf.Bytes()
}

// WriteFile writes the archive into a fresh temp dir and returns its path.
func (b *Builder) WriteFile(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.vfs")
	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write test archive: %v", err)
	}
	return path
}

// NameField pads name with NULs to the 0x80-byte field width. Longer names
// are cut.
func NameField(name []byte) []byte {
	field := make([]byte, 0x80)
	copy(field, name)
	return field
}
