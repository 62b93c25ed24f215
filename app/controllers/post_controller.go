package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"quill/app/middleware"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/services"
	"quill/app/views"
)

// MsgDuplicateTitle is shown on the title field when another post already uses it.
const MsgDuplicateTitle = "A post with that title already exists."

// PostController handles HTTP requests for blog posts and their comments
type PostController struct {
	*Renderer
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController
func NewPostController(rd *Renderer, posts *services.PostService, comments *services.CommentService) *PostController {
	return &PostController{Renderer: rd, posts: posts, comments: comments}
}

// Index handles listing all posts
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.posts.ListPosts(r.Context())
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PageIndex, &pageData{Posts: posts})
}

// Show handles displaying a single post with its comments
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.badRequest(w, err)
		return
	}
	pc.showPost(w, r, id, http.StatusOK, &models.CommentForm{}, nil)
}

// Comment adds a comment from the logged in user to the post
func (pc *PostController) Comment(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.badRequest(w, err)
		return
	}

	var form models.CommentForm
	if err := models.DecodeForm(r, &form); err != nil {
		pc.badRequest(w, err)
		return
	}

	_, err = pc.comments.CreateComment(r.Context(), id, middleware.CurrentUser(r.Context()), &form)
	if fe, ok := fieldErrors(err); ok {
		pc.showPost(w, r, id, http.StatusUnprocessableEntity, &form, fe)
		return
	}
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.redirect(w, r, "/post/"+strconv.Itoa(id))
}

func (pc *PostController) showPost(w http.ResponseWriter, r *http.Request, id, status int, form *models.CommentForm, errs models.FieldErrors) {
	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	comments, err := pc.comments.ListPostComments(r.Context(), id)
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.render(w, r, status, views.PagePost, &pageData{Post: post, Comments: comments, Form: form, Errors: errs})
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, http.StatusOK, views.PageMakePost, &pageData{Form: &models.PostForm{}, Action: "/new-post"})
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.PostForm
	if err := models.DecodeForm(r, &form); err != nil {
		pc.badRequest(w, err)
		return
	}

	_, err := pc.posts.CreatePost(r.Context(), middleware.CurrentUser(r.Context()), &form)
	if pc.formFailed(w, r, err, &pageData{Form: &form, Action: "/new-post"}) {
		return
	}
	if err != nil {
		pc.serverError(w, r, err)
		return
	}
	pc.redirect(w, r, "/")
}

// Edit displays the post form filled with the stored post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.badRequest(w, err)
		return
	}
	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, views.PageMakePost, &pageData{
		Form:   models.PostFormFrom(post),
		IsEdit: true,
		Action: "/edit-post/" + strconv.Itoa(id),
	})
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.badRequest(w, err)
		return
	}

	var form models.PostForm
	if err := models.DecodeForm(r, &form); err != nil {
		pc.badRequest(w, err)
		return
	}

	_, err = pc.posts.UpdatePost(r.Context(), id, middleware.CurrentUser(r.Context()), &form)
	data := &pageData{Form: &form, IsEdit: true, Action: "/edit-post/" + strconv.Itoa(id)}
	if pc.formFailed(w, r, err, data) {
		return
	}
	if err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.redirect(w, r, "/post/"+strconv.Itoa(id))
}

// Delete handles deleting a post
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := postID(r)
	if err != nil {
		pc.badRequest(w, err)
		return
	}
	if err := pc.posts.DeletePost(r.Context(), id); err != nil {
		pc.fail(w, r, err)
		return
	}
	pc.redirect(w, r, "/")
}

// formFailed re-renders the post form for validation errors (422) and title
// clashes (409). It reports whether a response was written.
func (pc *PostController) formFailed(w http.ResponseWriter, r *http.Request, err error, data *pageData) bool {
	if fe, ok := fieldErrors(err); ok {
		data.Errors = fe
		pc.render(w, r, http.StatusUnprocessableEntity, views.PageMakePost, data)
		return true
	}
	if errors.Is(err, repositories.ErrDuplicate) {
		data.Errors = models.FieldErrors{"title": MsgDuplicateTitle}
		pc.render(w, r, http.StatusConflict, views.PageMakePost, data)
		return true
	}
	return false
}
