package disk

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/blog-in-go/pkg/server/store"
)

func newStore(t *testing.T) *FilesStore {
	t.Helper()
	s, err := NewFilesStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return s
}

func TestNewFilesStoreCreatesRoot(t *testing.T) {
	s := newStore(t)
	assert.True(t, s.Available())

	require.NoError(t, os.RemoveAll(s.Root()))
	assert.False(t, s.Available())
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	n, err := s.Save(ctx, "a.png", strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	data, err := os.ReadFile(filepath.Join(s.Root(), "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	t.Run("oversize file is removed", func(t *testing.T) {
		_, err := s.Save(ctx, "big.zip", bytes.NewReader(make([]byte, 11)), 10)
		assert.ErrorIs(t, err, store.ErrFileTooLarge)
		_, statErr := os.Stat(filepath.Join(s.Root(), "big.zip"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("existing file is kept", func(t *testing.T) {
		_, err := s.Save(ctx, "a.png", strings.NewReader("x"), 5)
		assert.Error(t, err)
		data, _ := os.ReadFile(filepath.Join(s.Root(), "a.png"))
		assert.Equal(t, "12345", string(data))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := s.Save(cctx, "c.pdf", strings.NewReader("abc"), 10)
		assert.ErrorIs(t, err, context.Canceled)
		_, statErr := os.Stat(filepath.Join(s.Root(), "c.pdf"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("bad name", func(t *testing.T) {
		_, err := s.Save(ctx, "../escape.png", strings.NewReader("x"), 5)
		assert.ErrorIs(t, err, store.ErrInvalidFileName)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	_, err := s.Save(ctx, "doc.pdf", strings.NewReader("pdf"), 10)
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "sub"), 0o755))

	require.NoError(t, s.Delete(ctx, "doc.pdf"))
	assert.ErrorIs(t, s.Delete(ctx, "doc.pdf"), store.ErrFileNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "sub"), store.ErrFileNotFound)

	for _, name := range []string{"", "..", "../x", "a/b", `a\b`, "x..y"} {
		assert.ErrorIs(t, s.Delete(ctx, name), store.ErrInvalidFileName, name)
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, name := range []string{"c.zip", "a.png", "b.pdf"} {
		_, err := s.Save(ctx, name, strings.NewReader(name), 100)
		require.NoError(t, err)
	}
	require.NoError(t, os.Mkdir(filepath.Join(s.Root(), "nested"), 0o755))

	files, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "a.png", files[0].Name)
	assert.Equal(t, "b.pdf", files[1].Name)
	assert.Equal(t, "c.zip", files[2].Name)
	assert.EqualValues(t, len("a.png"), files[0].Size)
	assert.False(t, files[0].ModTime.IsZero())
}
