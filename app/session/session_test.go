package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	db, err := OpenDB("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, ttl)
}

func setupTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(setupTestStore(t, time.Hour), Options{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)
	return m
}

func TestSessionFlashes(t *testing.T) {
	sess := newSession(time.Now())
	assert.True(t, sess.IsNew())
	assert.False(t, sess.Authenticated())
	assert.Nil(t, sess.PopFlashes())

	sess.AddFlash(FlashWarning, "first")
	sess.AddFlash(FlashInfo, "second")
	flashes := sess.PopFlashes()
	require.Len(t, flashes, 2)
	assert.Equal(t, Flash{Kind: FlashWarning, Message: "first"}, flashes[0])
	assert.Nil(t, sess.PopFlashes(), "flashes are one-shot")

	sess.Login(3)
	assert.True(t, sess.Authenticated())
	sess.Logout()
	assert.False(t, sess.Authenticated())
}

func TestStore(t *testing.T) {
	store := setupTestStore(t, time.Hour)

	sess := newSession(time.Now())
	sess.Login(1)
	sess.AddFlash(FlashInfo, "welcome")
	require.NoError(t, store.Save(sess))
	assert.False(t, sess.IsNew())
	assert.False(t, sess.Dirty())

	t.Run("get", func(t *testing.T) {
		got, err := store.Get(sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.UserID)
		require.Len(t, got.Flashes, 1)
		assert.False(t, got.IsNew())
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.Get("nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("count and purge", func(t *testing.T) {
		require.NoError(t, store.Save(newSession(time.Now())))
		n, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		require.NoError(t, store.Purge())
		n, err = store.Count()
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete", func(t *testing.T) {
		s := newSession(time.Now())
		require.NoError(t, store.Save(s))
		require.NoError(t, store.Delete(s.ID))
		_, err := store.Get(s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCodec(t *testing.T) {
	codec, err := NewCodec("secret", time.Hour)
	require.NoError(t, err)

	token, err := codec.Encode("abc")
	require.NoError(t, err)

	id, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", id)

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewCodec("other", time.Hour)
		require.NoError(t, err)
		_, err = other.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := codec.Decode("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		codec.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { codec.now = time.Now }()
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewCodec("", time.Hour)
		assert.Error(t, err)
	})
}

func TestManagerRoundTrip(t *testing.T) {
	m := setupTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := m.Load(req)
	require.NoError(t, err)
	assert.True(t, sess.IsNew())

	sess.Login(5)
	w := httptest.NewRecorder()
	require.NoError(t, m.Save(w, sess))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	loaded, err := m.Load(req)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, 5, loaded.UserID)

	t.Run("unchanged session writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Save(w, loaded))
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("renew rotates id", func(t *testing.T) {
		oldID := loaded.ID
		w := httptest.NewRecorder()
		require.NoError(t, m.Renew(w, loaded))
		assert.NotEqual(t, oldID, loaded.ID)
		assert.Len(t, w.Result().Cookies(), 1)

		_, err := m.Store().Get(oldID)
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := m.Store().Get(loaded.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.UserID)
	})

	t.Run("destroy expires cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, m.Destroy(w, loaded))
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)

		_, err := m.Store().Get(loaded.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestManagerRejectsForgedCookie(t *testing.T) {
	m := setupTestManager(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
	sess, err := m.Load(req)
	require.NoError(t, err)
	assert.True(t, sess.IsNew())
	assert.False(t, sess.Authenticated())
}

func TestManagerSkipsEmptySessions(t *testing.T) {
	m := setupTestManager(t)

	sess, err := m.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Nil(t, sess.PopFlashes())

	w := httptest.NewRecorder()
	require.NoError(t, m.Save(w, sess))
	assert.Empty(t, w.Result().Cookies())

	count, err := m.Store().Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}
