package orga

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paranoia/internal/types"
)

func TestStore_SaveLoad(t *testing.T) {
	s := Store{Root: t.TempDir()}
	a := sample(t, 1)

	require.NoError(t, s.SaveAssignment(DefaultCodec, a, false))
	assert.True(t, s.Exists())

	got, err := s.LoadAssignment(DefaultCodec)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, got))

	entries, err := os.ReadDir(s.Root)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, FileName, entries[0].Name())
}

func TestStore_RefusesOverwriteWithoutForce(t *testing.T) {
	s := Store{Root: t.TempDir()}
	require.NoError(t, s.Save([]byte("first\n"), false))

	err := s.Save([]byte("second\n"), false)
	require.ErrorIs(t, err, ErrAlreadyOrganized)

	data, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(data))

	require.NoError(t, s.Save([]byte("second\n"), true))
	data, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))
}

func TestStore_LoadMissing(t *testing.T) {
	s := Store{Root: t.TempDir()}
	_, err := s.Load()

	var mr *types.MissingResourceError
	require.True(t, errors.As(err, &mr))
	assert.Equal(t, filepath.Join(s.Root, FileName), mr.Path)
}

func TestStore_LoadCorrupt(t *testing.T) {
	s := Store{Root: t.TempDir()}
	require.NoError(t, os.WriteFile(s.Path(), []byte("bm90IGFuIG9yZ2FuaXphdGlvbg==\n"), 0o600))

	_, err := s.LoadAssignment(DefaultCodec)
	var ce *types.CodecError
	require.True(t, errors.As(err, &ce))
}

func TestStore_FailedSaveLeavesNothing(t *testing.T) {
	if runtime.GOOS == "windows" || os.Getuid() == 0 {
		t.Skip("directory permissions are not enforced")
	}
	root := t.TempDir()
	require.NoError(t, os.Chmod(root, 0o500))
	t.Cleanup(func() { _ = os.Chmod(root, 0o700) })

	s := Store{Root: root}
	require.Error(t, s.Save([]byte("data"), false))
	assert.False(t, s.Exists())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
