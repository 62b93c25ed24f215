package controllers

import (
	"context"
	"html"
	"net/http"
	"net/url"
	"testing"

	"quill/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("register form", func(t *testing.T) {
		w := env.newClient().get(t, "/register")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/register"`)
	})

	t.Run("register logs the user in", func(t *testing.T) {
		c := env.newClient()
		c.register(t, "root@x.com", "pw0", "Root")
		require.NotNil(t, c.cookie)

		w := c.get(t, "/")
		assert.Contains(t, w.Body.String(), "Log Out")

		user, err := env.users.GetByEmail(context.Background(), "root@x.com")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, user.Role)
	})

	t.Run("duplicate email redirects to login", func(t *testing.T) {
		c := env.newClient()
		w := c.post(t, "/register", url.Values{"email": {"root@x.com"}, "password": {"other"}, "name": {"Again"}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		_, err := env.users.GetByID(context.Background(), 2)
		assert.Error(t, err, "no second row")

		w = c.get(t, "/login")
		assert.Contains(t, html.UnescapeString(w.Body.String()), MsgEmailTaken)
		assert.NotContains(t, c.get(t, "/login").Body.String(), "log in instead", "flash is shown once")
	})

	t.Run("invalid registration", func(t *testing.T) {
		w := env.newClient().post(t, "/register", url.Values{"email": {"nope"}, "password": {""}, "name": {"X"}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email address.")
		assert.Contains(t, w.Body.String(), "This field is required.")
	})

	t.Run("login", func(t *testing.T) {
		c := env.newClient()
		w := c.post(t, "/login", url.Values{"email": {"root@x.com"}, "password": {"pw0"}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Contains(t, c.get(t, "/").Body.String(), "Log Out")
	})

	t.Run("wrong password", func(t *testing.T) {
		c := env.newClient()
		w := c.post(t, "/login", url.Values{"email": {"root@x.com"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgWrongPassword)
		assert.Contains(t, w.Body.String(), `value="root@x.com"`)
		assert.NotContains(t, c.get(t, "/").Body.String(), "Log Out")
	})

	t.Run("unknown email", func(t *testing.T) {
		w := env.newClient().post(t, "/login", url.Values{"email": {"ghost@x.com"}, "password": {"pw0"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), MsgUnknownEmail)
	})

	t.Run("logout", func(t *testing.T) {
		c := env.newClient()
		c.post(t, "/login", url.Values{"email": {"root@x.com"}, "password": {"pw0"}})
		old := c.cookie
		require.NotNil(t, old)

		w := c.get(t, "/logout")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Nil(t, c.cookie)

		// the old cookie no longer names a live session
		replay := env.newClient()
		replay.cookie = old
		assert.NotContains(t, replay.get(t, "/").Body.String(), "Log Out")
	})
}
