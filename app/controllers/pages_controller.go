package controllers

import (
	"net/http"

	"quill/app/views"
)

// PagesController serves the static informational pages
type PagesController struct {
	*Renderer
}

// NewPagesController creates a new PagesController
func NewPagesController(rd *Renderer) *PagesController {
	return &PagesController{Renderer: rd}
}

// About renders the about page
func (pc *PagesController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.PageAbout, nil)
}

// Contact renders the contact page
func (pc *PagesController) Contact(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.PageContact, nil)
}
