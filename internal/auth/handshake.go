package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"tdash/internal/config"
	"tdash/internal/route"
	"tdash/internal/service"
	"tdash/internal/session"
)

// State is a phase of the OAuth2 redirect handshake.
type State int

const (
	Idle State = iota
	AwaitingRedirect
	ExchangingCode
	Authenticated
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingRedirect:
		return "awaiting_redirect"
	case ExchangingCode:
		return "exchanging_code"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Authenticated || s == Failed
}

var (
	// ErrNoCode is returned for a callback without an authorization code.
	// The handshake is left as it was.
	ErrNoCode = errors.New("no code in callback")

	// ErrStateMismatch is returned in strict mode for a callback whose state
	// is not the one sent with the pending attempt.
	ErrStateMismatch = errors.New("callback state does not match the pending login")

	// ErrAlreadyHandled is returned for every callback after the first one
	// that carried a code.
	ErrAlreadyHandled = errors.New("callback already handled")

	// ErrNotIdle is returned when Initiate is called twice on one handshake.
	ErrNotIdle = errors.New("handshake already started")
)

// Result is the outcome of a finished handshake.
type Result struct {
	// Next is where the user goes: Dashboard on success, Login on failure.
	Next route.Route

	// User is the backend's auth response on success.
	User service.AuthResponse

	// Err is the failure, if any.
	Err error
}

// Handshake drives one OAuth2 login attempt from Initiate to a terminal
// state. It is safe for concurrent callbacks; a new attempt needs a new
// Handshake.
type Handshake struct {
	settings config.Settings
	auth     service.Auth
	sess     *session.Session
	log      *slog.Logger
	newNonce func() string

	mu       sync.Mutex
	state    State
	fired    bool
	provider Provider
	pending  string
	result   Result
	done     chan struct{}
}

// NewHandshake creates a handshake in the idle state.
func NewHandshake(settings config.Settings, auth service.Auth, sess *session.Session, log *slog.Logger) *Handshake {
	if log == nil {
		log = slog.Default()
	}
	return &Handshake{
		settings: settings,
		auth:     auth,
		sess:     sess,
		log:      log,
		newNonce: uuid.NewString,
		done:     make(chan struct{}),
	}
}

// State returns the current phase.
func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Done is closed once the handshake reaches a terminal state.
func (h *Handshake) Done() <-chan struct{} {
	return h.done
}

// Result returns the outcome. It is only meaningful after Done is closed.
func (h *Handshake) Result() Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result
}

// Initiate builds the authorization URL for p and moves to awaiting_redirect.
// On error the handshake stays idle.
func (h *Handshake) Initiate(p Provider) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != Idle {
		return "", ErrNotIdle
	}

	state := string(p)
	if h.settings.StrictState {
		state = string(p) + "." + h.newNonce()
	}

	authURL, err := p.AuthURL(h.settings.ClientID(string(p)), h.settings.RedirectURI, state)
	if err != nil {
		return "", err
	}

	h.provider = p
	h.pending = state
	h.state = AwaitingRedirect
	h.log.Debug("oauth handshake initiated", "provider", p, "strict", h.settings.StrictState)
	return authURL, nil
}

// HandleCallback processes the query of a redirect to the callback route.
// The first callback carrying a code triggers the exchange; it returns the
// exchange error, if any. Later callbacks return ErrAlreadyHandled and have
// no effect.
func (h *Handshake) HandleCallback(ctx context.Context, query url.Values) error {
	code := query.Get("code")
	if code == "" {
		return ErrNoCode
	}
	state := query.Get("state")

	h.mu.Lock()
	if h.fired || h.state.Terminal() {
		h.mu.Unlock()
		return ErrAlreadyHandled
	}
	if h.settings.StrictState && (h.state != AwaitingRedirect || state != h.pending) {
		h.mu.Unlock()
		h.log.Warn("rejected oauth callback with unexpected state", "state", state)
		return ErrStateMismatch
	}
	h.fired = true

	provider, err := providerFromState(state)
	if err != nil {
		h.finishLocked(Result{Next: route.Login, Err: err})
		h.mu.Unlock()
		return err
	}
	h.state = ExchangingCode
	h.mu.Unlock()

	res := h.exchange(ctx, code, provider)

	h.mu.Lock()
	h.finishLocked(res)
	h.mu.Unlock()
	return res.Err
}

func (h *Handshake) exchange(ctx context.Context, code string, provider Provider) Result {
	h.log.Debug("exchanging oauth code", "provider", provider)

	resp, err := h.auth.OAuthCallback(ctx, service.OAuthCallbackRequest{
		Code:        code,
		Provider:    string(provider),
		RedirectURI: h.settings.RedirectURI,
	})
	if err != nil {
		return Result{Next: route.Login, Err: fmt.Errorf("login failed: %w", err)}
	}
	if err := h.sess.Set(ctx, resp.Token); err != nil {
		return Result{Next: route.Login, Err: fmt.Errorf("login failed: %w", err)}
	}
	return Result{Next: route.Dashboard, User: resp}
}

// Abort fails a handshake that has not started its exchange. It is used
// when the callback listener times out or is cancelled.
func (h *Handshake) Abort(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fired || h.state.Terminal() {
		return
	}
	h.fired = true
	h.finishLocked(Result{Next: route.Login, Err: err})
}

func (h *Handshake) finishLocked(res Result) {
	if res.Err != nil {
		h.state = Failed
		h.log.Debug("oauth handshake failed", "error", res.Err)
	} else {
		h.state = Authenticated
	}
	h.result = res
	close(h.done)
}
