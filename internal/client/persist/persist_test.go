package persist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estate_market/internal/client/persist"
)

func backends(t *testing.T) map[string]persist.Storage {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return map[string]persist.Storage{
		"memory": persist.NewMemoryStorage(),
		"file":   persist.NewFileStorage(filepath.Join(t.TempDir(), "nested", "state.json")),
		"redis":  persist.NewRedisStorage(rc, "estatectl:"),
	}
}

func TestStorage_Contract(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set("k", "v"))
			v, ok, err := s.Get("k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v", v)

			require.NoError(t, s.Remove("k"))
			require.NoError(t, s.Remove("k"))
			_, ok, _ = s.Get("k")
			assert.False(t, ok)
		})
	}
}

func TestLists_And_Flags(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got, err := persist.LoadList(s, persist.KeyFavorites)
			require.NoError(t, err)
			assert.Nil(t, got)

			require.NoError(t, persist.SaveList(s, persist.KeyFavorites, []string{"p2", "p1"}))
			raw, _, _ := s.Get(persist.KeyFavorites)
			assert.JSONEq(t, `["p2","p1"]`, raw)
			got, err = persist.LoadList(s, persist.KeyFavorites)
			require.NoError(t, err)
			assert.Equal(t, []string{"p2", "p1"}, got)

			require.NoError(t, persist.SaveFlag(s, persist.KeyIsAdmin, true))
			raw, _, _ = s.Get(persist.KeyIsAdmin)
			assert.Equal(t, "true", raw)
			on, err := persist.LoadFlag(s, persist.KeyIsAdmin)
			require.NoError(t, err)
			assert.True(t, on)

			require.NoError(t, persist.SaveFlag(s, persist.KeyIsAdmin, false))
			_, ok, _ := s.Get(persist.KeyIsAdmin)
			assert.False(t, ok, "logout removes the key")
		})
	}
}

func TestLoadList_MalformedIsEmpty(t *testing.T) {
	s := persist.NewMemoryStorage()
	require.NoError(t, s.Set(persist.KeyRecentlyViewed, "{nope"))
	got, err := persist.LoadList(s, persist.KeyRecentlyViewed)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileStorage_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, persist.NewFileStorage(path).Set("a", "1"))

	v, ok, err := persist.NewFileStorage(path).Get("a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
