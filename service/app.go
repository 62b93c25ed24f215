package service

import (
	"errors"
	"fmt"
	"net/http"

	"quill/app/config"
	"quill/app/repositories"
	"quill/app/routes"
	"quill/app/services"
	"quill/app/session"
	"quill/app/views"

	"github.com/dgraph-io/badger/v4"
	"gorm.io/gorm"
)

// App is the running blog: its database, session store and router.
type App struct {
	Config   *config.Config
	DB       *gorm.DB
	KV       *badger.DB
	Sessions *session.Manager
	Router   http.Handler
}

// New opens the database and session store and wires the router.
func New(cfg *config.Config) (*App, error) {
	db, err := repositories.Open(cfg.DatabaseURI, cfg.DatabaseLog)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	kv, err := session.OpenDB(cfg.SessionStorePath())
	if err != nil {
		_ = repositories.Close(db)
		return nil, fmt.Errorf("open session store: %w", err)
	}

	app := &App{Config: cfg, DB: db, KV: kv}

	app.Sessions, err = session.NewManager(session.NewStore(kv, cfg.SessionTTL), session.Options{
		Secret:       cfg.SecretKey,
		TTL:          cfg.SessionTTL,
		SecureCookie: cfg.SecureCookies,
	})
	if err != nil {
		app.Close()
		return nil, err
	}

	templates, err := views.Load()
	if err != nil {
		app.Close()
		return nil, err
	}

	users := repositories.NewGormUserRepository(db)
	posts := repositories.NewGormPostRepository(db)
	comments := repositories.NewGormCommentRepository(db)

	app.Router = routes.SetupRoutes(routes.Deps{
		Templates: templates,
		Sessions:  app.Sessions,
		Users:     users,
		Auth:      services.NewAuthService(users),
		Posts:     services.NewPostService(posts, users),
		Comments:  services.NewCommentService(comments, posts, users),
	})
	return app, nil
}

// Close releases the session store and the database.
func (a *App) Close() error {
	var errs []error
	if a.KV != nil {
		errs = append(errs, a.KV.Close())
	}
	if a.DB != nil {
		errs = append(errs, repositories.Close(a.DB))
	}
	return errors.Join(errs...)
}
