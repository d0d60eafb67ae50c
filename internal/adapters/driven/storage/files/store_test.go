package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.FileStore = (*Store)(nil)
}

func TestSaveAndRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, "report.pdf", []byte("pdf bytes"))
	require.NoError(t, err)
	assert.Contains(t, path, "report.pdf")

	content, err := store.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf bytes"), content)
}

func TestSave_EmptyFilename(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "", []byte("data"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSave_SameNameTwice(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Save(ctx, "notes.txt", []byte("one"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "notes.txt", []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "uploads with the same name must not collide")

	content, err := store.Read(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), content)
}

func TestRead_NotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Read(context.Background(), "/nonexistent/path")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, "temp.txt", []byte("data"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, path))

	_, err = store.Read(ctx, path)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_MissingFileIsNotAnError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "/nonexistent/path"))
}
