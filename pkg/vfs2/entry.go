package vfs2

import "iter"

// Entry is a file together with its resolved path, as reported by listing
// and extraction.
type Entry struct {
	File
	Path string
}

// All yields every file in ID order with its resolved path. A file whose
// path cannot be resolved is yielded with the resolution error; iteration
// continues unless the caller stops it.
func (c *Catalog) All() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, f := range c.files {
			p, err := c.filePath(f)
			if !yield(Entry{File: f, Path: p}, err) {
				return
			}
		}
	}
}

// Entries resolves every file in ID order. It stops at the first file whose
// path cannot be resolved.
func (c *Catalog) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(c.files))
	for e, err := range c.All() {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
