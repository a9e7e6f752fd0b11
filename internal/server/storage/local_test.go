package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filesmanager/internal/common"
)

func TestLocal_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "files_manager", "nested")
	l := NewLocal()

	require.NoError(t, l.MkdirAll(ctx, dir))
	require.NoError(t, l.MkdirAll(ctx, dir))

	path := filepath.Join(dir, "blob")
	ok, err := l.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Write(ctx, path, []byte("Hello Webstack!\n")))

	ok, err = l.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := l.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!\n", string(got))

	require.NoError(t, l.Write(ctx, path, []byte("v2")))
	got, err = l.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(got))
}

func TestLocal_Missing(t *testing.T) {
	l := NewLocal()
	_, err := l.Read(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLocal_DirectoryIsNotAFile(t *testing.T) {
	dir := t.TempDir()
	ok, err := NewLocal().Exists(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocal_WriteIntoMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "blob")
	err := NewLocal().Write(context.Background(), path, []byte("x"))
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocal_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewLocal().Write(ctx, filepath.Join(t.TempDir(), "x"), []byte("x"))
	require.ErrorIs(t, err, context.Canceled)
}
