package sessions_test

import (
	"testing"

	"github.com/jrsteele09/docflow-admin/sessions"
	"github.com/jrsteele09/docflow-admin/storage"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	st := storage.NewInMemoryStore()
	require.NoError(t, st.Set(storage.KeyLang, "ru"))
	store := sessions.NewStore(st)

	require.False(t, store.Get().Authenticated())

	require.NoError(t, store.Save(sessions.Session{AccessToken: "a1", RefreshToken: "r1"}))
	got := store.Get()
	require.True(t, got.Authenticated())
	require.Equal(t, "a1", store.AccessToken())
	require.Equal(t, "r1", got.RefreshToken)

	tok := got.OAuth2Token()
	require.Equal(t, "Bearer", tok.Type())
	require.Equal(t, "a1", tok.AccessToken)

	require.NoError(t, store.Clear())
	require.False(t, store.Get().Authenticated())
	lang, ok := st.Get(storage.KeyLang)
	require.True(t, ok)
	require.Equal(t, "ru", lang)
}
