package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/sitevec/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		ext  string
		want string
	}{
		{"https://example.com/about", ".txt", "example_com_about.txt"},
		{"http://example.com/", ".txt", "example_com_.txt"},
		{"https://example.com/a?b=c&d=e", ".txt", "example_com_a_b_c_d_e.txt"},
		{"https://example.com:8080/x-y", ".md", "example_com_8080_x_y.md"},
		{"https://example.com/ünï", ".txt", "example_com___n__.txt"},
		{"https://bücher.example/", ".txt", "b__cher_example_.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fs.StagedName(tt.url, tt.ext))
		})
	}
}

// Story: Staging Lifecycle
// A crawl creates a private directory, stages pages, deletes them after
// upload and finally removes the directory.

func TestStagingStore_lifecycle(t *testing.T) {
	t.Parallel()

	// Given a store rooted in a temp directory
	root := t.TempDir()
	store := fs.NewStagingStore(root, ".txt")

	// When I create the staging directory
	require.NoError(t, store.Create())

	// Then it is a fresh directory under root
	dir := store.Dir()
	assert.Equal(t, root, filepath.Dir(dir))
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "crawl-"))

	// When I stage a page
	file, err := store.Stage(context.Background(), "https://example.com/about", "About us")
	require.NoError(t, err)

	// Then the file holds the content under its sanitized name
	assert.Equal(t, "example_com_about.txt", file.Name)
	assert.Equal(t, filepath.Join(dir, "example_com_about.txt"), file.Path)
	assert.Equal(t, len("About us"), file.Bytes)
	assert.NotEmpty(t, file.Hash)

	rc, err := store.Open(file)
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "About us", string(b))

	// When I delete it
	require.NoError(t, store.Delete(file))
	_, err = os.Stat(file.Path)
	assert.True(t, os.IsNotExist(err))

	// And remove the directory
	require.NoError(t, store.Remove())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, store.Dir())
}

func TestStagingStore_Create_isolates_sessions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	a := fs.NewStagingStore(root, ".txt")
	b := fs.NewStagingStore(root, ".txt")
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())

	assert.NotEqual(t, a.Dir(), b.Dir())
}

func TestStagingStore_Stage(t *testing.T) {
	t.Parallel()

	t.Run("fails before Create", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStagingStore(t.TempDir(), ".txt")
		_, err := store.Stage(context.Background(), "https://example.com/", "x")
		assert.Error(t, err)
	})

	t.Run("disambiguates colliding names", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStagingStore(t.TempDir(), ".txt")
		require.NoError(t, store.Create())

		a, err := store.Stage(context.Background(), "https://example.com/a-b", "first")
		require.NoError(t, err)
		b, err := store.Stage(context.Background(), "https://example.com/a_b", "second")
		require.NoError(t, err)

		assert.Equal(t, "example_com_a_b.txt", a.Name)
		assert.Equal(t, "example_com_a_b_2.txt", b.Name)

		content, err := os.ReadFile(a.Path)
		require.NoError(t, err)
		assert.Equal(t, "first", string(content))
	})

	t.Run("uses the configured suffix", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStagingStore(t.TempDir(), ".md")
		require.NoError(t, store.Create())

		file, err := store.Stage(context.Background(), "https://example.com/docs", "# Docs")
		require.NoError(t, err)
		assert.Equal(t, "example_com_docs.md", file.Name)
	})

	t.Run("hashes identical content identically", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStagingStore(t.TempDir(), ".txt")
		require.NoError(t, store.Create())

		a, err := store.Stage(context.Background(), "https://example.com/a", "same")
		require.NoError(t, err)
		b, err := store.Stage(context.Background(), "https://example.com/b", "same")
		require.NoError(t, err)
		assert.Equal(t, a.Hash, b.Hash)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		t.Parallel()

		store := fs.NewStagingStore(t.TempDir(), ".txt")
		require.NoError(t, store.Create())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := store.Stage(ctx, "https://example.com/", "x")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStagingStore_Remove_without_Create(t *testing.T) {
	t.Parallel()

	store := fs.NewStagingStore(t.TempDir(), ".txt")
	assert.NoError(t, store.Remove())
}
