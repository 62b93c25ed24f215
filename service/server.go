package service

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quill/app/config"
)

// RunAppServer starts the blog service and blocks until SIGINT or SIGTERM.
func RunAppServer(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	if len(args) > 0 {
		cfg.Addr = args[0]
	}

	app, err := New(cfg)
	if err != nil {
		log.Printf("Failed to start: %v", err)
		return 1
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("Failed to close: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		log.Printf("Failed to listen on %s: %v", cfg.Addr, err)
		return 1
	}
	log.Printf("Starting blog service on %s", ln.Addr())
	if err := Serve(ctx, ln, app.Router, cfg.ShutdownTimeout); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	log.Println("Server stopped")
	return 0
}

// Serve handles requests on ln until ctx is done, then shuts down gracefully,
// waiting up to timeout for in-flight requests.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, timeout time.Duration) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
