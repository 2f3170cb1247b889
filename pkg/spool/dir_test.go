package spool_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/wirehttp/pkg/spool"
)

func TestNewDir(t *testing.T) {
	t.Parallel()

	t.Run("creates nested directory", func(t *testing.T) {
		t.Parallel()
		base := filepath.Join(t.TempDir(), "a", "b")

		d, err := spool.NewDir(base)
		require.NoError(t, err)

		info, err := os.Stat(d.BaseDir())
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	})

	t.Run("rejects empty base", func(t *testing.T) {
		t.Parallel()
		_, err := spool.NewDir("")
		assert.ErrorIs(t, err, spool.ErrInvalidConfig)
	})

	t.Run("prefix with separator panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { spool.WithPrefix("a/b") })
	})
}

func TestDirLifecycle(t *testing.T) {
	t.Parallel()

	d, err := spool.NewDir(t.TempDir(), spool.WithPrefix("test-"))
	require.NoError(t, err)

	name, w, err := d.Create()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "test-"))
	assert.True(t, strings.HasSuffix(name, ".body"))

	_, err = io.WriteString(w, "payload")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(filepath.Join(d.BaseDir(), name))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	r, err := d.Open(name)
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, "payload", string(data))

	require.NoError(t, d.Remove(name))
	_, err = os.Stat(filepath.Join(d.BaseDir(), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, d.Remove(name), "removing twice is not an error")
}

func TestDirUniqueNames(t *testing.T) {
	t.Parallel()

	d, err := spool.NewDir(t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for range 50 {
		name, w, err := d.Create()
		require.NoError(t, err)
		require.NoError(t, w.Close())
		assert.False(t, seen[name])
		seen[name] = true
	}
}

func TestDirRejectsTraversal(t *testing.T) {
	t.Parallel()

	d, err := spool.NewDir(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../x.body", "sub/x.body", "/etc/passwd", "plain.txt"} {
		t.Run(name, func(t *testing.T) {
			_, err := d.Open(name)
			assert.ErrorIs(t, err, spool.ErrInvalidName)
			assert.ErrorIs(t, d.Remove(name), spool.ErrInvalidName)
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	d, err := spool.NewFromConfig(spool.Config{Dir: t.TempDir(), Prefix: "cfg-"})
	require.NoError(t, err)

	name, w, err := d.Create()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.True(t, strings.HasPrefix(name, "cfg-"))
}
