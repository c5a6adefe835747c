package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SetClearRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")

	s, err := Open(path)
	require.NoError(t, err)

	if _, ok := s.UserID(); ok {
		t.Fatalf("fresh store reports a user id")
	}
	if _, err := s.RequireUserID(); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("RequireUserID error = %v, want ErrUnauthenticated", err)
	}

	require.NoError(t, s.Set(7, "dana"))

	id, err := s.RequireUserID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, "dana", s.Nickname())

	require.NoError(t, s.Clear())
	if _, ok := s.UserID(); ok {
		t.Fatalf("UserID present after Clear")
	}
	assert.Equal(t, "", s.Nickname())
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("session file still exists after Clear")
	}
}

func TestStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(42, "mira"))

	second, err := Open(path)
	require.NoError(t, err)

	ident, ok := second.Current()
	require.True(t, ok, "reopened store lost the identity")
	assert.Equal(t, int64(42), ident.UserID)
	assert.Equal(t, "mira", ident.Nickname)
}

func TestStore_CorruptFileDegradesToLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.toml")
	require.NoError(t, os.WriteFile(path, []byte("user_id = ["), 0o600))

	s, err := Open(path)
	require.NoError(t, err)
	if _, ok := s.UserID(); ok {
		t.Fatalf("corrupt session file produced an identity")
	}
}

func TestStore_RejectsInvalidUserID(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.toml"))
	require.NoError(t, err)
	assert.Error(t, s.Set(0, "nobody"))
	assert.Error(t, s.Set(-3, "nobody"))
}
