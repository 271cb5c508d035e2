package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"tdash/internal/route"
)

const (
	// CallbackTimeout is how long the listener waits for the redirect.
	CallbackTimeout = 5 * time.Minute

	shutdownTimeout = 5 * time.Second
)

var (
	ErrCallbackTimeout = errors.New("oauth callback timed out")
	ErrCancelled       = errors.New("cancelled")
)

// Listen binds the host and port of the redirect URI. The returned path is
// the route the callback is served on.
func Listen(redirectURI string) (net.Listener, string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, "", fmt.Errorf("invalid redirect uri: %w", err)
	}
	if u.Scheme != "http" {
		return nil, "", fmt.Errorf("redirect uri must be a plain http loopback address: %s", redirectURI)
	}
	host := u.Host
	if u.Port() == "" {
		host = net.JoinHostPort(u.Hostname(), "80")
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	ln, err := net.Listen("tcp", host)
	if err != nil {
		return nil, "", fmt.Errorf("could not bind %s for oauth callback: %w", host, err)
	}
	return ln, path, nil
}

// Receiver serves the callback route until the handshake finishes.
type Receiver struct {
	Handshake *Handshake
	Path      string
	Timeout   time.Duration
	Log       *slog.Logger
}

// Serve accepts callbacks on ln until the handshake reaches a terminal
// state, the timeout elapses or ctx is cancelled. The listener is closed on
// return.
func (r *Receiver) Serve(ctx context.Context, ln net.Listener) Result {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = CallbackTimeout
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	mux := http.NewServeMux()
	mux.HandleFunc(r.Path, func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != r.Path {
			http.NotFound(w, req)
			return
		}
		// The exchange outlives the browser connection.
		err := r.Handshake.HandleCallback(ctx, req.URL.Query())
		switch {
		case err == nil:
			writePage(w, http.StatusOK, "Authentication successful", "You may close this window.")
		case errors.Is(err, ErrNoCode):
			log.Debug("ignoring callback without code", "query", req.URL.RawQuery)
			http.Error(w, "No code in callback", http.StatusBadRequest)
		case errors.Is(err, ErrStateMismatch):
			http.Error(w, "Unexpected state in callback", http.StatusBadRequest)
		case errors.Is(err, ErrAlreadyHandled):
			http.Error(w, "Callback already handled", http.StatusConflict)
		default:
			writePage(w, http.StatusUnauthorized, "Authentication failed", err.Error())
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("callback server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		select {
		case <-r.Handshake.Done():
		case <-gctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				r.Handshake.Abort(ErrCallbackTimeout)
			} else {
				r.Handshake.Abort(ErrCancelled)
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		r.Handshake.Abort(err)
	}

	select {
	case <-r.Handshake.Done():
	case <-time.After(shutdownTimeout):
		return Result{Next: route.Login, Err: ErrCallbackTimeout}
	}
	return r.Handshake.Result()
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<html><body><h1>%s</h1><p>%s</p></body></html>", html.EscapeString(title), html.EscapeString(body))
}
