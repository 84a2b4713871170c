package vfs2_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vfs2go/internal/testutil"
	"github.com/user/vfs2go/pkg/vfs2"
)

func openBytes(t *testing.T, data []byte, opts ...vfs2.Option) *vfs2.Archive {
	t.Helper()
	a, err := vfs2.NewArchive(bytes.NewReader(data), int64(len(data)), opts...)
	require.NoError(t, err)
	return a
}

func TestExtract_RoundTrip(t *testing.T) {
	data := sampleBuilder().Bytes()
	a := openBytes(t, data)
	out := filepath.Join(t.TempDir(), "out")

	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	entries, err := a.Entries()
	require.NoError(t, err)
	for _, e := range entries {
		got, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(e.Path)))
		require.NoError(t, err, e.Path)
		assert.Equal(t, data[e.OffsetStart:e.End()], got, e.Path)
	}
	assert.FileExists(t, filepath.Join(out, "assets", "sounds", "boom.wav"))
	assert.FileExists(t, filepath.Join(out, "readme.txt"))
}

// outOfRangeBuilder has a bad second file between two good ones.
func outOfRangeBuilder() *testutil.Builder {
	b := testutil.NewBuilder()
	d := b.AddDir(0, "data")
	b.AddFile(d, "one.bin", []byte("one"))
	b.Files = append(b.Files, testutil.File{Parent: d, Name: []byte("two.bin"), Offset: 0x7FFFFFFF, Size: 16})
	b.AddFile(d, "three.bin", []byte("three"))
	return b
}

func TestExtract_OutOfRangeAborts(t *testing.T) {
	a := openBytes(t, outOfRangeBuilder().Bytes())
	out := t.TempDir()

	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, vfs2.ErrOutOfRange)
	assert.Equal(t, 1, n)

	var fe *vfs2.FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, uint32(2), fe.ID)
	assert.Equal(t, "/data/two.bin", fe.Path)

	assert.FileExists(t, filepath.Join(out, "data", "one.bin"))
	assert.NoFileExists(t, filepath.Join(out, "data", "two.bin"), "no truncated output")
	assert.NoFileExists(t, filepath.Join(out, "data", "three.bin"), "run stops at the first failure")
}

func TestExtract_KeepGoing(t *testing.T) {
	a := openBytes(t, outOfRangeBuilder().Bytes())
	out := t.TempDir()

	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{KeepGoing: true})
	require.Error(t, err)
	assert.Equal(t, 2, n)

	var ee *vfs2.ExtractError
	require.ErrorAs(t, err, &ee)
	require.Len(t, ee.Failures, 1)
	assert.Equal(t, uint32(2), ee.Failures[0].ID)
	assert.ErrorIs(t, err, vfs2.ErrOutOfRange)

	got, err := os.ReadFile(filepath.Join(out, "data", "three.bin"))
	require.NoError(t, err)
	assert.Equal(t, "three", string(got))
}

func TestExtract_Parallel(t *testing.T) {
	b := testutil.NewBuilder()
	want := map[string]string{}
	for i := range 8 {
		d := b.AddDir(0, fmt.Sprintf("dir%d", i))
		for j := range 16 {
			name := fmt.Sprintf("file%02d.dat", j)
			content := fmt.Sprintf("payload %d/%d", i, j)
			b.AddFile(d, name, []byte(content))
			want[filepath.Join(fmt.Sprintf("dir%d", i), name)] = content
		}
	}
	a := openBytes(t, b.Bytes())
	out := t.TempDir()

	var mu sync.Mutex
	var seen int
	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{
		Jobs: 4,
		OnFile: func(vfs2.Entry) {
			mu.Lock()
			seen++
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	assert.Equal(t, len(want), n)
	assert.Equal(t, len(want), seen)

	for rel, content := range want {
		got, err := os.ReadFile(filepath.Join(out, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, content, string(got), rel)
	}
}

func TestExtract_SequentialOrder(t *testing.T) {
	a := openBytes(t, sampleBuilder().Bytes())

	var order []uint32
	_, err := a.Extract(context.Background(), t.TempDir(), vfs2.ExtractOptions{
		OnFile: func(e vfs2.Entry) { order = append(order, e.ID) },
	})
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 2, 3}, order)
}

func TestExtract_Match(t *testing.T) {
	a := openBytes(t, sampleBuilder().Bytes())
	out := t.TempDir()

	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{
		Match: vfs2.MatchPaths("assets/sounds", "/readme.txt"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(out, "assets", "sounds", "boom.wav"))
	assert.FileExists(t, filepath.Join(out, "readme.txt"))
	assert.NoFileExists(t, filepath.Join(out, "assets", "tex.bin"))
}

func TestMatchPaths(t *testing.T) {
	m := vfs2.MatchPaths("/assets")
	assert.True(t, m(vfs2.Entry{Path: "/assets"}))
	assert.True(t, m(vfs2.Entry{Path: "/assets/a/b"}))
	assert.False(t, m(vfs2.Entry{Path: "/assets2/a"}))

	all := vfs2.MatchPaths("/")
	assert.True(t, all(vfs2.Entry{Path: "/anything"}))
}

func TestExtract_UnsafePath(t *testing.T) {
	b := testutil.NewBuilder()
	up := b.AddDir(0, "..")
	b.AddFile(up, "escape.txt", []byte("nope"))
	b.AddFile(0, "fine.txt", []byte("ok"))
	a := openBytes(t, b.Bytes())

	root := t.TempDir()
	out := filepath.Join(root, "out")
	_, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{KeepGoing: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, vfs2.ErrUnsafePath)
	assert.NoFileExists(t, filepath.Join(root, "escape.txt"))
	assert.FileExists(t, filepath.Join(out, "fine.txt"))
}

func TestExtract_CycleFails(t *testing.T) {
	b := testutil.NewBuilder()
	b.AddDir(2, "a")
	b.AddDir(1, "b")
	b.AddFile(1, "loop.txt", []byte("x"))
	a := openBytes(t, b.Bytes())

	_, err := a.Extract(context.Background(), t.TempDir(), vfs2.ExtractOptions{})
	assert.ErrorIs(t, err, vfs2.ErrCyclicHierarchy)
}

func TestExtract_MatchSkipsUnresolvable(t *testing.T) {
	b := testutil.NewBuilder()
	assets := b.AddDir(0, "assets")
	b.AddDir(3, "loop-a")
	b.AddDir(2, "loop-b")
	b.AddFile(assets, "tex.bin", []byte("tex"))
	b.AddFile(2, "x.bin", []byte("x"))
	b.AddFile(assets, "more.bin", []byte("more"))

	var logs bytes.Buffer
	a := openBytes(t, b.Bytes(), vfs2.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	out := t.TempDir()

	n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{
		Match: vfs2.MatchPaths("/assets"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.FileExists(t, filepath.Join(out, "assets", "more.bin"))
	assert.Contains(t, logs.String(), "unresolvable path")
	assert.Contains(t, logs.String(), "id=2")
}

func TestExtract_DuplicatePathsHighestIDWins(t *testing.T) {
	b := testutil.NewBuilder()
	for i := range 32 {
		content := []byte("a much longer payload that must not leave its tail behind")
		if i%2 == 1 {
			content = []byte(fmt.Sprintf("short %d", i))
		}
		b.AddFile(0, "dup.txt", content)
	}
	a := openBytes(t, b.Bytes())

	for _, jobs := range []int{1, 8} {
		out := t.TempDir()
		n, err := a.Extract(context.Background(), out, vfs2.ExtractOptions{Jobs: jobs})
		require.NoError(t, err)
		assert.Equal(t, 32, n)

		got, err := os.ReadFile(filepath.Join(out, "dup.txt"))
		require.NoError(t, err)
		assert.Equal(t, "short 31", string(got), "jobs=%d", jobs)
	}
}

func TestExtract_ResolutionErrorText(t *testing.T) {
	b := testutil.NewBuilder()
	b.AddDir(2, "a")
	b.AddDir(1, "b")
	b.AddFile(0, "ok.bin", []byte("ok"))
	b.AddFile(2, "x.bin", []byte("x"))
	a := openBytes(t, b.Bytes())

	_, err := a.Extract(context.Background(), t.TempDir(), vfs2.ExtractOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "file 2"), err.Error())
}

func TestExtract_Canceled(t *testing.T) {
	a := openBytes(t, sampleBuilder().Bytes())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := a.Extract(ctx, t.TempDir(), vfs2.ExtractOptions{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, n)
}

func TestExtract_OutputNotCreatable(t *testing.T) {
	a := openBytes(t, sampleBuilder().Bytes())
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := a.Extract(context.Background(), filepath.Join(blocker, "out"), vfs2.ExtractOptions{})
	assert.Error(t, err)
}
