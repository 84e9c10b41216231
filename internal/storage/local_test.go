package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	st, err := NewLocalStorage(Config{BasePath: dir})
	require.NoError(t, err)
	return st, dir
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st, dir := newLocal(t)

	require.NoError(t, st.Save(ctx, "D-1_A/cv.pdf", strings.NewReader("hello"), "application/pdf"))

	rc, err := st.Get(ctx, "D-1_A/cv.pdf")
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "hello", string(body))

	size, err := st.GetSize(ctx, "D-1_A/cv.pdf")
	require.NoError(t, err)
	assert.EqualValues(t, 5, size)

	entries, err := os.ReadDir(filepath.Join(dir, "D-1_A"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	require.NoError(t, st.Delete(ctx, "D-1_A/cv.pdf"))
	require.NoError(t, st.Delete(ctx, "D-1_A/cv.pdf"), "second delete is a no-op")

	exists, err := st.Exists(ctx, "D-1_A/cv.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = st.Get(ctx, "D-1_A/cv.pdf")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorage_RejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	st, _ := newLocal(t)

	for _, p := range []string{"../secret", "a/../../b", "/etc/passwd", "", ".", "a\\..\\..\\b"} {
		err := st.Save(ctx, p, strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrInvalidPath, p)
	}
}

func TestLocalStorage_ListAndMove(t *testing.T) {
	ctx := context.Background()
	st, _ := newLocal(t)

	require.NoError(t, st.Save(ctx, ".staging/abc/one.txt", strings.NewReader("1"), ""))
	require.NoError(t, st.Save(ctx, ".staging/abc/two.txt", strings.NewReader("22"), ""))

	staged, err := st.List(ctx, ".staging/abc")
	require.NoError(t, err)
	require.Len(t, staged, 2)
	assert.Equal(t, ".staging/abc/one.txt", staged[0].Path)
	assert.EqualValues(t, 2, staged[1].Size)

	for _, obj := range staged {
		require.NoError(t, st.Move(ctx, obj.Path, "folder/"+filepath.Base(obj.Path)))
	}

	moved, err := st.List(ctx, "folder")
	require.NoError(t, err)
	assert.Equal(t, []Object{{Path: "folder/one.txt", Size: 1}, {Path: "folder/two.txt", Size: 2}}, moved)

	leftover, err := st.List(ctx, ".staging")
	require.NoError(t, err)
	assert.Empty(t, leftover)

	missing, err := st.List(ctx, "no-such-folder")
	require.NoError(t, err)
	assert.Empty(t, missing)

	err = st.Move(ctx, "nope.txt", "folder/nope.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCleanPath(t *testing.T) {
	cleaned, err := CleanPath("suivi//x.pdf")
	require.NoError(t, err)
	assert.Equal(t, "suivi/x.pdf", cleaned)

	cleaned, err = CleanPath("D-1001_Ali\\cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "D-1001_Ali/cv.pdf", cleaned)
}
