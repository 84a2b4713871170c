package vfs2

import "errors"

var (
	// ErrFormat is returned when the archive does not start with the VFS2 magic.
	ErrFormat = errors.New("vfs2: not a recognized archive")

	// ErrTruncated is returned when the header or a TOC record runs past the
	// end of the stream.
	ErrTruncated = errors.New("vfs2: truncated archive")

	// ErrDecode is returned when a name field is not valid UTF-8 under the
	// strict name policy.
	ErrDecode = errors.New("vfs2: invalid name encoding")

	// ErrMissingParent is returned by strict path resolution when a parent ID
	// is not in the catalog.
	ErrMissingParent = errors.New("vfs2: missing parent directory")

	// ErrCyclicHierarchy is returned when a parent chain loops instead of
	// reaching the root.
	ErrCyclicHierarchy = errors.New("vfs2: cyclic directory hierarchy")

	// ErrOutOfRange is returned when a file's byte range does not lie inside
	// the archive.
	ErrOutOfRange = errors.New("vfs2: file data out of range")

	// ErrUnsafePath is returned when a resolved path would escape the
	// extraction root.
	ErrUnsafePath = errors.New("vfs2: unsafe path")

	// ErrUnknownDirectory is returned for a directory ID not in the catalog.
	ErrUnknownDirectory = errors.New("vfs2: unknown directory id")

	// ErrUnknownFile is returned for a file ID not in the catalog.
	ErrUnknownFile = errors.New("vfs2: unknown file id")

	// ErrNotFound is returned by Lookup when no file has the requested path.
	ErrNotFound = errors.New("vfs2: file not found")

	// ErrNotImplemented is returned by Pack.
	ErrNotImplemented = errors.New("vfs2: not implemented")

	// ErrClosed is returned when reading from a closed archive.
	ErrClosed = errors.New("vfs2: archive is closed")
)
