package vfs2_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/vfs2go/internal/testutil"
	"github.com/user/vfs2go/pkg/vfs2"
)

func TestOpen(t *testing.T) {
	path := sampleBuilder().WriteFile(t)

	a, err := vfs2.Open(path)
	require.NoError(t, err)
	defer a.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.Size(), a.Size())
	assert.Equal(t, 3, a.NumFiles())

	f, err := a.Lookup("/readme.txt")
	require.NoError(t, err)
	data, err := a.ReadFile(f)
	require.NoError(t, err)
	assert.Equal(t, "hello world from VFS2", string(data))
}

func TestOpen_Errors(t *testing.T) {
	_, err := vfs2.Open(filepath.Join(t.TempDir(), "missing.vfs"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(t.TempDir(), "empty.vfs")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = vfs2.Open(empty)
	assert.ErrorIs(t, err, vfs2.ErrTruncated)

	b := sampleBuilder()
	copy(b.Magic[:], "VFS1")
	_, err = vfs2.Open(b.WriteFile(t))
	assert.ErrorIs(t, err, vfs2.ErrFormat)
}

func TestArchive_OpenFile(t *testing.T) {
	b := testutil.NewBuilder()
	b.AddFile(0, "ok.bin", []byte("0123456789"))
	size := uint32(vfs2.HeaderSize + 5*vfs2.FileRecordLen + 10)
	b.Files = append(b.Files,
		testutil.File{Parent: 0, Name: []byte("tail.bin"), Offset: size - 4, Size: 4},
		testutil.File{Parent: 0, Name: []byte("past-end.bin"), Offset: size - 4, Size: 5},
		testutil.File{Parent: 0, Name: []byte("far.bin"), Offset: 0xFFFFFFF0, Size: 0x20},
		testutil.File{Parent: 0, Name: []byte("empty.bin"), Offset: size, Size: 0},
	)
	data := b.Bytes()
	require.Len(t, data, int(size))

	a, err := vfs2.NewArchive(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	f, _ := a.File(1)
	got, err := a.ReadFile(f)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(got))

	f, _ = a.File(2)
	sr, err := a.OpenFile(f)
	require.NoError(t, err)
	got, err = io.ReadAll(sr)
	require.NoError(t, err)
	assert.Equal(t, "6789", string(got))

	for _, id := range []uint32{3, 4} {
		f, _ := a.File(id)
		_, err := a.ReadFile(f)
		assert.ErrorIs(t, err, vfs2.ErrOutOfRange, "file %d", id)
	}

	f, _ = a.File(5)
	got, err = a.ReadFile(f)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestArchive_Close(t *testing.T) {
	a, err := vfs2.Open(sampleBuilder().WriteFile(t))
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "closing twice is harmless")

	f, _ := a.File(1)
	_, err = a.ReadFile(f)
	assert.ErrorIs(t, err, vfs2.ErrClosed)
}

func TestPack_NotImplemented(t *testing.T) {
	var buf bytes.Buffer
	for _, src := range []string{"", ".", t.TempDir()} {
		err := vfs2.Pack(src, &buf)
		assert.ErrorIs(t, err, vfs2.ErrNotImplemented)
		assert.Equal(t, vfs2.ErrNotImplemented.Error(), err.Error())
	}
	assert.Zero(t, buf.Len())
}
