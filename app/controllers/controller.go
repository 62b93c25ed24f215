package controllers

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"quill/app/middleware"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/session"
	"quill/app/views"

	"github.com/gorilla/mux"
)

// pageData is everything a page template may read. The layout uses User,
// Flashes and Year; the rest depends on the page.
type pageData struct {
	User      *models.User
	Flashes   []session.Flash
	Year      int
	CanManage bool

	Form   any
	Errors models.FieldErrors

	Posts    []*models.Post
	Post     *models.Post
	Comments []*models.Comment
	IsEdit   bool
	Action   string
}

// Renderer writes pages and redirects, saving the session first so flashes
// and logins reach the browser.
type Renderer struct {
	templates views.Templates
	sessions  *session.Manager
	now       func() time.Time
}

// NewRenderer creates a Renderer over the parsed templates
func NewRenderer(templates views.Templates, sessions *session.Manager) *Renderer {
	return &Renderer{templates: templates, sessions: sessions, now: time.Now}
}

func (rd *Renderer) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	if data == nil {
		data = &pageData{}
	}
	data.User = middleware.CurrentUser(r.Context())
	data.CanManage = data.User.CanManagePosts()
	data.Year = rd.now().Year()

	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		data.Flashes = sess.PopFlashes()
		if err := rd.sessions.Save(w, sess); err != nil {
			rd.serverError(w, r, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := rd.templates.Render(&buf, page, data); err != nil {
		rd.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (rd *Renderer) redirect(w http.ResponseWriter, r *http.Request, url string) {
	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		if err := rd.sessions.Save(w, sess); err != nil {
			rd.serverError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (rd *Renderer) flash(r *http.Request, kind, message string) {
	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		sess.AddFlash(kind, message)
	}
}

// fail maps err to a response: missing records are 404, anything else is logged as a 500.
func (rd *Renderer) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repositories.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	rd.serverError(w, r, err)
}

func (rd *Renderer) serverError(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("[%s] %s %s: %v", middleware.RequestIDFrom(r), r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (rd *Renderer) badRequest(w http.ResponseWriter, err error) {
	http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
}

// postID reads the {id} route variable. The router only matches digits, so
// errors here mean the handler was mounted without it.
func postID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

// fieldErrors extracts validation failures from err.
func fieldErrors(err error) (models.FieldErrors, bool) {
	var fe models.FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
