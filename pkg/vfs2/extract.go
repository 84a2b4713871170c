package vfs2

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ExtractOptions controls Extract.
type ExtractOptions struct {
	// Jobs is the number of files extracted concurrently. Values below 1
	// mean 1, which extracts strictly in ID order.
	Jobs int

	// KeepGoing records per-file failures and carries on with the remaining
	// files instead of stopping at the first one. The failures are returned
	// together as an *ExtractError.
	KeepGoing bool

	// Match selects the entries to extract. Nil extracts everything. When
	// Match is set, files whose path cannot be resolved are skipped with a
	// warning instead of failing the run.
	Match func(Entry) bool

	// OnFile is called before each file is written. With Jobs > 1 it may be
	// called from several goroutines.
	OnFile func(Entry)
}

// FileError is the failure to extract one file.
type FileError struct {
	ID   uint32
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %d %s: %v", e.ID, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// ExtractError collects the failures of an extraction run with KeepGoing.
type ExtractError struct {
	Failures []*FileError // ordered by file ID
}

func (e *ExtractError) Error() string {
	if len(e.Failures) == 1 {
		return "vfs2: extraction failed: " + e.Failures[0].Error()
	}
	return fmt.Sprintf("vfs2: %d files failed to extract, first: %v", len(e.Failures), e.Failures[0])
}

func (e *ExtractError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Extract writes every selected file to outDir joined with its resolved
// path, creating directories as needed, and returns the number of files
// written. Without KeepGoing the run stops at the first failure. The context
// is checked between files.
func (a *Archive) Extract(ctx context.Context, outDir string, opts ExtractOptions) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, errors.Wrapf(err, "vfs2: failed to create output directory %s", outDir)
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var (
		written  atomic.Int64
		mu       sync.Mutex
		failures []*FileError
	)
	fail := func(fe *FileError) error {
		a.logger.Error("vfs2: extraction failed", "id", fe.ID, "path", fe.Path, "err", fe.Err)
		if !opts.KeepGoing {
			return fe
		}
		mu.Lock()
		failures = append(failures, fe)
		mu.Unlock()
		return nil
	}

	var stop error
	// Files resolving to the same path are written one after another in ID
	// order, so the highest ID wins whatever the number of jobs.
	pending := make(map[string]chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for e, err := range a.All() {
		if gctx.Err() != nil {
			break
		}
		if err != nil {
			if opts.Match != nil {
				a.logger.Warn("vfs2: skipping file with unresolvable path", "id", e.ID, "name", e.Name, "err", err)
				continue
			}
			if stop = fail(&FileError{ID: e.ID, Path: e.Name, Err: err}); stop != nil {
				break
			}
			continue
		}
		if opts.Match != nil && !opts.Match(e) {
			continue
		}
		prev := pending[e.Path]
		done := make(chan struct{})
		pending[e.Path] = done
		g.Go(func() error {
			defer close(done)
			if prev != nil {
				<-prev
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			if opts.OnFile != nil {
				opts.OnFile(e)
			}
			if err := a.extractEntry(outDir, e); err != nil {
				return fail(&FileError{ID: e.ID, Path: e.Path, Err: err})
			}
			written.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = stop
	}
	if err == nil {
		// The group context only reports the parent's cancellation here.
		err = ctx.Err()
	}
	n := int(written.Load())
	if err != nil {
		return n, err
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].ID < failures[j].ID })
		return n, &ExtractError{Failures: failures}
	}
	a.logger.Debug("vfs2: extraction finished", "files", n, "output", outDir)
	return n, nil
}

func (a *Archive) extractEntry(outDir string, e Entry) error {
	dest, err := safeJoin(outDir, e.Path)
	if err != nil {
		return err
	}
	src, err := a.OpenFile(e.File)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrap(err, "vfs2: failed to create directory")
	}
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrap(err, "vfs2: failed to create file")
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return errors.Wrapf(err, "vfs2: failed to write %s", dest)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, "vfs2: failed to write %s", dest)
	}
	return nil
}

// safeJoin maps a resolved archive path below root. Paths with ".."
// segments are rejected rather than cleaned.
func safeJoin(root, resolved string) (string, error) {
	rel := strings.TrimLeft(resolved, "/")
	for seg := range strings.SplitSeq(rel, "/") {
		if seg == ".." {
			return "", errors.Wrapf(ErrUnsafePath, "%q", resolved)
		}
	}
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) {
		return "", errors.Wrapf(ErrUnsafePath, "%q", resolved)
	}
	return filepath.Join(root, local), nil
}

// MatchPaths returns a matcher for ExtractOptions that selects files whose
// resolved path equals one of paths or lies below one of them.
func MatchPaths(paths ...string) func(Entry) bool {
	prefixes := make([]string, 0, len(paths))
	for _, p := range paths {
		p = RootName + strings.Trim(p, "/")
		prefixes = append(prefixes, p)
	}
	return func(e Entry) bool {
		for _, p := range prefixes {
			if p == RootName || e.Path == p || strings.HasPrefix(e.Path, p+"/") {
				return true
			}
		}
		return false
	}
}
