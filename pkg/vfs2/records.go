package vfs2

// Magic is the 4-byte signature at offset 0 of every VFS2 archive.
const Magic = "VFS2"

// On-disk layout. All integers are little-endian uint32.
const (
	HeaderSize         = 0x18 // magic + dir_count + file_count + 12 reserved bytes
	NameFieldSize      = 0x80
	DirectoryRecordLen = 4 + NameFieldSize       // parent + name
	FileRecordLen      = 4 + NameFieldSize + 7*4 // parent + name + offset_start, file_size, 5 unknown

	reservedLen = 12
)

// RootID is the identifier of the synthetic root directory. Real directories
// and files are numbered from 1 in the order they appear in the TOC.
const RootID uint32 = 0

// RootName is the name of the synthetic root directory.
const RootName = "/"

// Header is the fixed 0x18-byte preamble of an archive.
type Header struct {
	Magic     [4]byte
	DirCount  uint32
	FileCount uint32
	Reserved  [reservedLen]byte // not interpreted
}

// Directory is one entry of the directory array.
type Directory struct {
	ID     uint32
	Parent uint32 // 0 = root
	Name   string
}

// IsRoot reports whether d is the synthetic root sentinel.
func (d Directory) IsRoot() bool { return d.ID == RootID }

// Unknown holds the five trailing file record fields whose meaning is not
// known. They are carried verbatim and never validated.
type Unknown [5]uint32

// File is one entry of the file array.
type File struct {
	ID          uint32
	Parent      uint32 // directory ID
	Name        string
	OffsetStart uint32 // absolute offset of the content in the archive
	FileSize    uint32
	Unknown     Unknown
}

// End returns the offset one past the last content byte.
func (f File) End() int64 {
	return int64(f.OffsetStart) + int64(f.FileSize)
}
