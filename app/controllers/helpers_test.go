package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quill/app/middleware"
	"quill/app/models"
	"quill/app/repositories/mock"
	"quill/app/services"
	"quill/app/session"
	"quill/app/views"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router   *mux.Router
	sessions *session.Manager
	users    *mock.UserRepository
	posts    *mock.PostRepository
	comments *mock.CommentRepository
	auth     *services.AuthService
	postSvc  *services.PostService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := session.OpenDB("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	manager, err := session.NewManager(session.NewStore(db, time.Hour), session.Options{Secret: "test-secret", TTL: time.Hour})
	require.NoError(t, err)

	templates, err := views.Load()
	require.NoError(t, err)

	users := mock.NewUserRepository()
	commentRepo := mock.NewCommentRepository()
	postRepo := mock.NewPostRepository(commentRepo)

	auth := services.NewAuthService(users)
	auth.SetHashCost(bcrypt.MinCost)
	postSvc := services.NewPostService(postRepo, users)
	commentSvc := services.NewCommentService(commentRepo, postRepo, users)

	rd := NewRenderer(templates, manager)
	ac := NewAuthController(rd, auth)
	pc := NewPostController(rd, postSvc, commentSvc)
	pages := NewPagesController(rd)

	// Register routes manually so controller tests do not depend on the routes package
	router := mux.NewRouter()
	router.Use(middleware.Sessions(manager, users))
	admin := middleware.RequireAdmin(manager)
	router.HandleFunc("/", pc.Index).Methods("GET")
	router.HandleFunc("/register", ac.ShowRegister).Methods("GET")
	router.HandleFunc("/register", ac.Register).Methods("POST")
	router.HandleFunc("/login", ac.ShowLogin).Methods("GET")
	router.HandleFunc("/login", ac.Login).Methods("POST")
	router.HandleFunc("/logout", ac.Logout).Methods("GET")
	router.HandleFunc("/post/{id:[0-9]+}", pc.Show).Methods("GET")
	router.Handle("/post/{id:[0-9]+}", middleware.RequireAuth(manager, middleware.CommentRequiresLogin)(http.HandlerFunc(pc.Comment))).Methods("POST")
	router.Handle("/new-post", admin(http.HandlerFunc(pc.New))).Methods("GET")
	router.Handle("/new-post", admin(http.HandlerFunc(pc.Create))).Methods("POST")
	router.Handle("/edit-post/{id:[0-9]+}", admin(http.HandlerFunc(pc.Edit))).Methods("GET")
	router.Handle("/edit-post/{id:[0-9]+}", admin(http.HandlerFunc(pc.Update))).Methods("POST")
	router.Handle("/delete/{id:[0-9]+}", admin(http.HandlerFunc(pc.Delete))).Methods("GET")
	router.HandleFunc("/about", pages.About).Methods("GET")
	router.HandleFunc("/contact", pages.Contact).Methods("GET")

	return &testEnv{
		router:   router,
		sessions: manager,
		users:    users,
		posts:    postRepo,
		comments: commentRepo,
		auth:     auth,
		postSvc:  postSvc,
	}
}

// client carries the session cookie between requests like a browser would.
type client struct {
	env    *testEnv
	cookie *http.Cookie
}

func (e *testEnv) newClient() *client {
	return &client{env: e}
}

func (c *client) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name != session.CookieName {
			continue
		}
		if ck.MaxAge < 0 {
			c.cookie = nil
		} else {
			c.cookie = ck
		}
	}
	return w
}

func (c *client) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	return c.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(t, req)
}

// register signs up through the handler and leaves the client logged in.
func (c *client) register(t *testing.T, email, password, name string) {
	t.Helper()
	w := c.post(t, "/register", url.Values{"email": {email}, "password": {password}, "name": {name}})
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	require.Equal(t, "/", w.Header().Get("Location"))
}

func (e *testEnv) seedPost(t *testing.T, author *models.User, title string) *models.Post {
	t.Helper()
	post, err := e.postSvc.CreatePost(context.Background(), author, &models.PostForm{
		Title:    title,
		Subtitle: "Subtitle of " + title,
		ImgURL:   "https://example.com/img.jpg",
		Body:     "<p>Body of " + title + "</p>",
	})
	require.NoError(t, err)
	return post
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://example.com/img.jpg"},
		"body":     {"<p>Hello world</p>"},
	}
}
