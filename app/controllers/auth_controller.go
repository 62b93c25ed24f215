package controllers

import (
	"errors"
	"net/http"

	"quill/app/middleware"
	"quill/app/models"
	"quill/app/services"
	"quill/app/session"
	"quill/app/views"
)

// Flash messages shown by the auth handlers.
const (
	MsgEmailTaken    = "You've already signed up with that email, log in instead"
	MsgUnknownEmail  = "Email does not exist, Please try again."
	MsgWrongPassword = "Password is incorrect, Please try again."
)

// AuthController handles registration, login and logout
type AuthController struct {
	*Renderer
	auth *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(rd *Renderer, auth *services.AuthService) *AuthController {
	return &AuthController{Renderer: rd, auth: auth}
}

// ShowRegister displays the registration form
func (ac *AuthController) ShowRegister(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, views.PageRegister, &pageData{Form: &models.RegisterForm{}})
}

// Register creates the account and logs it in
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var form models.RegisterForm
	if err := models.DecodeForm(r, &form); err != nil {
		ac.badRequest(w, err)
		return
	}

	user, err := ac.auth.Register(r.Context(), &form)
	if fe, ok := fieldErrors(err); ok {
		form.Password = ""
		ac.render(w, r, http.StatusUnprocessableEntity, views.PageRegister, &pageData{Form: &form, Errors: fe})
		return
	}
	if errors.Is(err, services.ErrEmailTaken) {
		ac.flash(r, session.FlashWarning, MsgEmailTaken)
		ac.redirect(w, r, "/login")
		return
	}
	if err != nil {
		ac.serverError(w, r, err)
		return
	}

	if err := ac.startSession(w, r, user); err != nil {
		ac.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// ShowLogin displays the login form
func (ac *AuthController) ShowLogin(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, http.StatusOK, views.PageLogin, &pageData{Form: &models.LoginForm{}})
}

// Login checks the credentials and logs the user in
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if err := models.DecodeForm(r, &form); err != nil {
		ac.badRequest(w, err)
		return
	}

	user, err := ac.auth.Login(r.Context(), &form)
	form.Password = ""
	if fe, ok := fieldErrors(err); ok {
		ac.render(w, r, http.StatusUnprocessableEntity, views.PageLogin, &pageData{Form: &form, Errors: fe})
		return
	}
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		ac.flash(r, session.FlashError, MsgUnknownEmail)
		ac.render(w, r, http.StatusOK, views.PageLogin, &pageData{Form: &form})
		return
	case errors.Is(err, services.ErrWrongPassword):
		ac.flash(r, session.FlashError, MsgWrongPassword)
		ac.render(w, r, http.StatusOK, views.PageLogin, &pageData{Form: &form})
		return
	case err != nil:
		ac.serverError(w, r, err)
		return
	}

	if err := ac.startSession(w, r, user); err != nil {
		ac.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout ends the session
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFrom(r.Context()); sess != nil {
		sess.Logout()
		if err := ac.sessions.Destroy(w, sess); err != nil {
			ac.serverError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// startSession binds the session to user under a fresh session ID.
func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sess := middleware.SessionFrom(r.Context())
	if sess == nil {
		return errors.New("no session in request context")
	}
	sess.Login(user.ID)
	return ac.sessions.Renew(w, sess)
}
