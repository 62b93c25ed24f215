package routes

import (
	"net/http"

	"quill/app/controllers"
	"quill/app/dataloader"
	"quill/app/middleware"
	"quill/app/repositories"
	"quill/app/services"
	"quill/app/session"
	"quill/app/views"

	"github.com/gorilla/mux"
)

// Deps are the collaborators the router hands to controllers and middleware.
type Deps struct {
	Templates views.Templates
	Sessions  *session.Manager
	Users     repositories.UserRepository
	Auth      *services.AuthService
	Posts     *services.PostService
	Comments  *services.CommentService
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders)
	router.Use(dataloader.Middleware(d.Users))
	router.Use(middleware.Sessions(d.Sessions, d.Users))

	rd := controllers.NewRenderer(d.Templates, d.Sessions)
	authController := controllers.NewAuthController(rd, d.Auth)
	postController := controllers.NewPostController(rd, d.Posts, d.Comments)
	pagesController := controllers.NewPagesController(rd)

	// Serve static files
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", views.Static())).Methods("GET")

	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/about", pagesController.About).Methods("GET")
	router.HandleFunc("/contact", pagesController.Contact).Methods("GET")

	// Account endpoints
	router.HandleFunc("/register", authController.ShowRegister).Methods("GET")
	router.HandleFunc("/register", authController.Register).Methods("POST")
	router.HandleFunc("/login", authController.ShowLogin).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("GET")

	// Reading and commenting
	commenter := middleware.RequireAuth(d.Sessions, middleware.CommentRequiresLogin)
	router.HandleFunc("/post/{id:[0-9]+}", postController.Show).Methods("GET")
	router.Handle("/post/{id:[0-9]+}", commenter(http.HandlerFunc(postController.Comment))).Methods("POST")

	// Post management, administrators only
	admin := middleware.RequireAdmin(d.Sessions)
	router.Handle("/new-post", admin(http.HandlerFunc(postController.New))).Methods("GET")
	router.Handle("/new-post", admin(http.HandlerFunc(postController.Create))).Methods("POST")
	router.Handle("/edit-post/{id:[0-9]+}", admin(http.HandlerFunc(postController.Edit))).Methods("GET")
	router.Handle("/edit-post/{id:[0-9]+}", admin(http.HandlerFunc(postController.Update))).Methods("POST")
	router.Handle("/delete/{id:[0-9]+}", admin(http.HandlerFunc(postController.Delete))).Methods("GET")

	return router
}
