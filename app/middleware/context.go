package middleware

import (
	"context"

	"quill/app/models"
	"quill/app/session"
)

type contextKey string

const (
	sessionKey = contextKey("session")
	userKey    = contextKey("user")
)

// WithSession returns a copy of ctx carrying sess and the logged in user, which may be nil.
func WithSession(ctx context.Context, sess *session.Session, user *models.User) context.Context {
	ctx = context.WithValue(ctx, sessionKey, sess)
	return context.WithValue(ctx, userKey, user)
}

// SessionFrom returns the request's session, or nil outside the Sessions middleware.
func SessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

// CurrentUser returns the logged in user, or nil for anonymous visitors.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
