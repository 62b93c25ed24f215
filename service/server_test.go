package service

import (
	"context"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quill/app/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerGracefulShutdown(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)

	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		// Simulate work.
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, handler, time.Second) }()

	respCh := make(chan int, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			respCh <- 0
			return
		}
		resp.Body.Close()
		respCh <- resp.StatusCode
	}()

	<-started
	cancel()

	require.NoError(t, <-done)
	assert.Equal(t, http.StatusOK, <-respCh, "in-flight request completes")
}

func TestNewApp(t *testing.T) {
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	cfg, err := config.LoadFrom(map[string]string{
		"QUILL_SECRET_KEY":  "test-secret",
		"DB_URI":            "sqlite://" + filepath.Join(t.TempDir(), "posts.db"),
		"QUILL_SESSION_DIR": config.InMemory,
	})
	require.NoError(t, err)

	app, err := New(cfg)
	require.NoError(t, err)
	defer app.Close()

	ln, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, app.Router, time.Second) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/about")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	require.NoError(t, <-done)
}

func TestNewAppBadDatabase(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"QUILL_SECRET_KEY": "test-secret",
		"DB_URI":           "mysql://nope",
	})
	require.NoError(t, err)

	_, err = New(cfg)
	assert.Error(t, err)
}
