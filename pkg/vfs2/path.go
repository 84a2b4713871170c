package vfs2

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// DirPath returns the absolute path of a directory: "/" for the root,
// "/<name>" for its children and so on.
//
// The walk goes up through parent IDs until it reaches the root. A parent
// that is not in the catalog ends the walk early with a logged warning, or
// fails with ErrMissingParent when strict parents are enabled. A chain that
// revisits a directory fails with ErrCyclicHierarchy.
func (c *Catalog) DirPath(id uint32) (string, error) {
	d, ok := c.Directory(id)
	if !ok {
		return "", errors.Wrapf(ErrUnknownDirectory, "%d", id)
	}
	if d.IsRoot() {
		return RootName, nil
	}

	var parts []string
	// Without a cycle a chain visits each directory at most once.
	for hops := 0; ; hops++ {
		if hops >= len(c.dirs) {
			return "", errors.Wrapf(ErrCyclicHierarchy, "directory %d", id)
		}
		parts = append(parts, d.Name)
		if d.Parent == RootID {
			break
		}
		parent, ok := c.Directory(d.Parent)
		if !ok {
			if c.strictParents {
				return "", errors.Wrapf(ErrMissingParent, "directory %d has parent %d", d.ID, d.Parent)
			}
			c.logger.Warn("vfs2: parent directory not in catalog, path truncated",
				"dir", d.ID, "parent", d.Parent)
			break
		}
		d = parent
	}

	slices.Reverse(parts)
	return RootName + strings.Join(parts, "/"), nil
}

// FilePath returns the absolute path of a file: its directory's path
// followed by the file name.
func (c *Catalog) FilePath(id uint32) (string, error) {
	f, ok := c.File(id)
	if !ok {
		return "", errors.Wrapf(ErrUnknownFile, "%d", id)
	}
	return c.filePath(f)
}

func (c *Catalog) filePath(f File) (string, error) {
	if f.Parent == RootID {
		return RootName + f.Name, nil
	}
	if _, ok := c.Directory(f.Parent); !ok {
		if c.strictParents {
			return "", errors.Wrapf(ErrMissingParent, "file %d has parent %d", f.ID, f.Parent)
		}
		c.logger.Warn("vfs2: parent directory not in catalog, file placed at root",
			"file", f.ID, "parent", f.Parent)
		return RootName + f.Name, nil
	}
	dir, err := c.DirPath(f.Parent)
	if err != nil {
		return "", err
	}
	return dir + "/" + f.Name, nil
}
