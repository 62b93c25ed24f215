package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"quill/app/models"
	"quill/app/repositories"
	"quill/app/session"
)

// Messages flashed when a visitor is sent to the login page.
const (
	LoginRequiredMessage = "Please log in to access this page."
	CommentRequiresLogin = "You need to login or register to comment."
)

// UserFinder resolves the user a session is bound to.
type UserFinder interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Sessions loads the browser session and its user into the request context.
// A session pointing at a user that no longer exists is demoted to anonymous.
func Sessions(manager *session.Manager, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := manager.Load(r)
			if err != nil {
				log.Printf("[%s] session: %v", RequestIDFrom(r), err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			var user *models.User
			if sess.Authenticated() {
				user, err = users.GetByID(r.Context(), sess.UserID)
				switch {
				case errors.Is(err, repositories.ErrNotFound):
					sess.Logout()
					user = nil
				case err != nil:
					log.Printf("[%s] session user: %v", RequestIDFrom(r), err)
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess, user)))
		})
	}
}

// RequireAuth sends anonymous visitors to /login with message flashed.
func RequireAuth(manager *session.Manager, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) == nil {
				redirectToLogin(w, r, manager, message)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin lets through only users that may manage posts. Anonymous
// visitors are sent to /login; everyone else gets 403.
func RequireAdmin(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				redirectToLogin(w, r, manager, LoginRequiredMessage)
				return
			}
			if !canManagePosts(user) {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func canManagePosts(p models.PostManager) bool {
	return p.CanManagePosts()
}

func redirectToLogin(w http.ResponseWriter, r *http.Request, manager *session.Manager, message string) {
	if sess := SessionFrom(r.Context()); sess != nil {
		sess.AddFlash(session.FlashWarning, message)
		if err := manager.Save(w, sess); err != nil {
			log.Printf("[%s] %v", RequestIDFrom(r), err)
		}
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
