package keychain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "install-1")
	require.NoError(t, err)

	_, err = s.Get(KeySessionID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(KeySessionID, "abc123"))
	require.NoError(t, s.Set(KeyUsername, "artem"))

	v, err := s.Get(KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, "abc123", v)
	assert.True(t, s.Has(" USERNAME "))

	require.NoError(t, s.Delete(KeySessionID, "missing"))
	assert.False(t, s.Has(KeySessionID))
	assert.True(t, s.Has(KeyUsername))
}

func TestStore_ValuesAreNotPlainText(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "install-1")
	require.NoError(t, err)
	require.NoError(t, s.Set(KeySessionID, "very-secret-session"))

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "very-secret-session")

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_WrongSecretCannotDecrypt(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "install-1")
	require.NoError(t, err)
	require.NoError(t, s.Set(KeySessionID, "abc"))

	other, err := Open(dir, "install-2")
	require.NoError(t, err)
	_, err = other.Get(KeySessionID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt")
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, "install-1")
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyGuestSessionID, "guest"))

	again, err := Open(dir, "install-1")
	require.NoError(t, err)
	v, err := again.Get(KeyGuestSessionID)
	require.NoError(t, err)
	assert.Equal(t, "guest", v)
}

func TestOpen_RequiresSecret(t *testing.T) {
	_, err := Open(t.TempDir(), "  ")
	require.Error(t, err)
}

func TestStore_EmptyKey(t *testing.T) {
	s, err := Open(t.TempDir(), "install-1")
	require.NoError(t, err)
	assert.Error(t, s.Set("", "x"))
	_, err = s.Get("")
	assert.Error(t, err)
}
