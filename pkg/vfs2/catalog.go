package vfs2

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/pkg/errors"
)

// Catalog is the decoded TOC of one archive. Directories and files live in
// ID-indexed slices and refer to their parent by ID only. A Catalog is never
// modified after ReadTOC returns and is safe for concurrent use.
type Catalog struct {
	header Header
	dirs   []Directory // dirs[id]; dirs[0] is the root sentinel
	files  []File      // files[id-1]

	logger        *slog.Logger
	strictParents bool

	byPathOnce sync.Once
	byPath     map[string]uint32
}

func newCatalog(hdr Header, o options) *Catalog {
	c := &Catalog{
		header:        hdr,
		dirs:          make([]Directory, 1, int(hdr.DirCount)+1),
		files:         make([]File, 0, hdr.FileCount),
		logger:        o.logger,
		strictParents: o.strictParents,
	}
	c.dirs[RootID] = Directory{ID: RootID, Parent: RootID, Name: RootName}
	return c
}

// Header returns the decoded archive header.
func (c *Catalog) Header() Header { return c.header }

// NumDirectories returns the number of directories including the root.
func (c *Catalog) NumDirectories() int { return len(c.dirs) }

// NumFiles returns the number of files.
func (c *Catalog) NumFiles() int { return len(c.files) }

// Directory returns the directory with the given ID. ID 0 is the root.
func (c *Catalog) Directory(id uint32) (Directory, bool) {
	if uint64(id) >= uint64(len(c.dirs)) {
		return Directory{}, false
	}
	return c.dirs[id], true
}

// File returns the file with the given ID.
func (c *Catalog) File(id uint32) (File, bool) {
	if id == 0 || uint64(id) > uint64(len(c.files)) {
		return File{}, false
	}
	return c.files[id-1], true
}

// Directories returns all directories, root first, in ID order.
func (c *Catalog) Directories() []Directory { return slices.Clone(c.dirs) }

// Files returns all files in ID order.
func (c *Catalog) Files() []File { return slices.Clone(c.files) }

// Lookup finds a file by its resolved path, e.g. "/assets/tex.bin".
// Files whose path cannot be resolved are not indexed. When two files resolve
// to the same path the one with the lower ID wins.
func (c *Catalog) Lookup(path string) (File, error) {
	c.byPathOnce.Do(c.indexPaths)
	id, ok := c.byPath[path]
	if !ok {
		return File{}, errors.Wrapf(ErrNotFound, "%q", path)
	}
	return c.files[id-1], nil
}

func (c *Catalog) indexPaths() {
	c.byPath = make(map[string]uint32, len(c.files))
	for _, f := range c.files {
		p, err := c.filePath(f)
		if err != nil {
			c.logger.Debug("vfs2: file not indexed", "id", f.ID, "err", err)
			continue
		}
		if _, dup := c.byPath[p]; !dup {
			c.byPath[p] = f.ID
		}
	}
}
