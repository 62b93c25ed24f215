// Package views holds the embedded HTML templates and static assets.
package views

import (
	"crypto/md5"
	"embed"
	"encoding/hex"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"quill/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Templates.Render.
const (
	PageIndex    = "index"
	PagePost     = "post"
	PageMakePost = "make-post"
	PageLogin    = "login"
	PageRegister = "register"
	PageAbout    = "about"
	PageContact  = "contact"
)

var pages = []string{PageIndex, PagePost, PageMakePost, PageLogin, PageRegister, PageAbout, PageContact}

// Templates maps a page name to its template set, each parsed together with the layout.
type Templates map[string]*template.Template

// Field is the data passed to the shared "field" form template.
type Field struct {
	Name  string
	Label string
	Type  string
	Value string
	Error string
}

var funcs = template.FuncMap{
	"gravatar": func(user *models.User) string {
		if user == nil {
			return Gravatar("", 80)
		}
		return Gravatar(user.Email, 80)
	},
	// Post bodies are written by the administrator in the rich-text editor.
	"rawHTML": func(s string) template.HTML { return template.HTML(s) },
	"field": func(name, label, typ, value, errMsg string) Field {
		return Field{Name: name, Label: label, Type: typ, Value: value, Error: errMsg}
	},
}

// Load parses every page template.
func Load() (Templates, error) {
	templates := make(Templates, len(pages))
	for _, page := range pages {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

// Render executes page through the layout.
func (t Templates) Render(w io.Writer, page string, data any) error {
	tmpl, ok := t[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// Static serves the embedded assets; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// Gravatar returns the avatar URL for email at size pixels, falling back to
// the generated "retro" image.
func Gravatar(email string, size int) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=retro&r=g", hex.EncodeToString(sum[:]), size)
}
