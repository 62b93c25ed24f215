package dataloader

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"quill/app/models"
	"quill/app/repositories"

	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders holds the per-request batch loaders.
type Loaders struct {
	UserByID *dataloader.Loader
}

// NewLoaders builds loaders backed by users. Each loader caches for its own
// lifetime, so a Loaders value must not outlive one request.
func NewLoaders(users repositories.UserRepository) *Loaders {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]int, 0, len(keys))
		for _, k := range keys {
			id, err := strconv.Atoi(k.String())
			if err == nil {
				ids = append(ids, id)
			}
		}

		found, err := users.ListByIDs(ctx, ids)
		results := make([]*dataloader.Result, len(keys))
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		byID := make(map[string]*models.User, len(found))
		for _, u := range found {
			byID[strconv.Itoa(u.ID)] = u
		}
		for i, k := range keys {
			results[i] = &dataloader.Result{Data: byID[k.String()]}
		}
		return results
	}

	return &Loaders{
		UserByID: dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(time.Millisecond)),
	}
}

// Middleware puts fresh loaders in each request's context.
func Middleware(users repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(users))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLoaders returns ctx carrying loaders.
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, key, loaders)
}

// For extracts the loaders from ctx, or nil when none were installed.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(key).(*Loaders)
	return loaders
}

// LoadUsers resolves ids in one batch. The result maps every found ID to its
// user; unknown IDs are absent.
func (l *Loaders) LoadUsers(ctx context.Context, ids []int) (map[int]*models.User, error) {
	keys := make(dataloader.Keys, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		keys = append(keys, dataloader.StringKey(strconv.Itoa(id)))
	}
	out := make(map[int]*models.User, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	values, errs := l.UserByID.LoadMany(ctx, keys)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for _, v := range values {
		if u, ok := v.(*models.User); ok && u != nil {
			out[u.ID] = u
		}
	}
	return out, nil
}
