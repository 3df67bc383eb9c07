package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	val, err := st.Get("token")
	require.NoError(t, err)
	require.Equal(t, "", val)

	require.NoError(t, st.Set("token", "abc"))
	val, err = st.Get("token")
	require.NoError(t, err)
	require.Equal(t, "abc", val)

	// Overwrite
	require.NoError(t, st.Set("token", "def"))
	val, err = st.Get("token")
	require.NoError(t, err)
	require.Equal(t, "def", val)

	require.NoError(t, st.Delete("token"))
	val, err = st.Get("token")
	require.NoError(t, err)
	require.Equal(t, "", val)
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Set("token", "persisted"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	val, err := st.Get("token")
	require.NoError(t, err)
	require.Equal(t, "persisted", val)
}
