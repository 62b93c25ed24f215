package dataloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"quill/app/models"
	"quill/app/repositories"
	"quill/app/repositories/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingUsers struct {
	repositories.UserRepository
	calls atomic.Int32
}

func (c *countingUsers) ListByIDs(ctx context.Context, ids []int) ([]*models.User, error) {
	c.calls.Add(1)
	return c.UserRepository.ListByIDs(ctx, ids)
}

func TestLoadUsersBatches(t *testing.T) {
	ctx := context.Background()
	repo := mock.NewUserRepository()
	for _, email := range []string{"root@x.com", "a@x.com"} {
		require.NoError(t, repo.Create(ctx, &models.User{Email: email, Name: email}))
	}
	users := &countingUsers{UserRepository: repo}
	loaders := NewLoaders(users)

	got, err := loaders.LoadUsers(ctx, []int{1, 2, 1, 99})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "root@x.com", got[1].Email)
	assert.Equal(t, "a@x.com", got[2].Email)
	assert.Equal(t, int32(1), users.calls.Load())

	// Cached for the loader's lifetime.
	_, err = loaders.LoadUsers(ctx, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, int32(1), users.calls.Load())

	empty, err := loaders.LoadUsers(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMiddlewareInstallsLoaders(t *testing.T) {
	var seen *Loaders
	handler := Middleware(mock.NewUserRepository())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = For(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotNil(t, seen)
	assert.Nil(t, For(context.Background()))
}
