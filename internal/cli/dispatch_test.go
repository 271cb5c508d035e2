package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"tdash/internal/cli"
	"tdash/internal/commands"
	"tdash/internal/config"
	"tdash/internal/exitcode"
	"tdash/internal/logger"
	"tdash/internal/service"
	"tdash/internal/session"
	"tdash/internal/testutil"
)

// testFactory creates a service factory over svc and sess.
func testFactory(svc *testutil.FakeService, sess *session.Session) cli.ServiceFactory {
	svc.Session = sess
	return func(ctx context.Context, cfg *config.Config) (*commands.Env, error) {
		return &commands.Env{
			Session: sess,
			Tasks:   svc,
			Auth:    svc,
			Log:     logger.Discard(),
			Now:     func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local) },
		}, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func newDispatcher(t *testing.T, svc *testutil.FakeService, token string) *cli.Dispatcher {
	t.Helper()
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, testutil.NewSession(t, token)))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), ""), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), ""), "--quiet")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), ""), "help", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

func TestDispatcher_VersionCommand(t *testing.T) {
	stdout, _, code := run(t, newDispatcher(t, testutil.NewFakeService(), ""), "version", "--config", t.TempDir())

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "tdash 0.1.0\n" {
		t.Errorf("expected %q, got %q", "tdash 0.1.0\n", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), "t1"), "list", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: -unknown\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_FlagNeedsValue(t *testing.T) {
	_, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), "t1"), "list", "--view")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: flag needs an argument: -view\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()

	for _, name := range []string{"list", "add", "done", "rm", "edit", "whoami"} {
		_, stderr, code := run(t, newDispatcher(t, svc, ""), name, "--config", t.TempDir())
		if code != exitcode.AuthError {
			t.Errorf("%s: expected exit code %d, got %d", name, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: tdash login)\n" {
			t.Errorf("%s: unexpected stderr %q", name, stderr)
		}
	}
	if svc.ListCalls != 0 {
		t.Errorf("expected no backend calls, got %d", svc.ListCalls)
	}
}

func TestDispatcher_NoArgsShowsInbox(t *testing.T) {
	// Without --config the default directory is read; point it somewhere empty.
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	svc := testutil.NewFakeService()
	svc.AddTask(service.Task{ID: 7, Description: "Buy milk"})

	stdout, stderr, code := run(t, newDispatcher(t, svc, "t1"))

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	expected := "------------\nInbox (1)\n------------\n   1  [ ] Buy milk  (normal)  #7\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestDispatcher_UnauthorizedHint(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = &service.APIError{StatusCode: http.StatusUnauthorized, Message: "Full authentication is required"}

	_, stderr, code := run(t, newDispatcher(t, svc, "stale"), "list", "--config", t.TempDir())

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	expected := "error: Full authentication is required\nsession expired or invalid (run: tdash login)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("session_store: redis\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := run(t, newDispatcher(t, testutil.NewFakeService(), "t1"), "list", "--config", dir)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid session_store") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_NoFactory(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)
	_, stderr, code := run(t, d, "list", "--config", t.TempDir())

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: no backend configured\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// apiServer is a tiny task backend that accepts one account and one token.
type apiServer struct {
	mu      sync.Mutex
	token   string
	revoked bool
	tasks   []service.Task
}

func (s *apiServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reply := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	if r.URL.Path == "/auth/login" {
		var req service.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Identifier != "alice" || req.Password != "pw" {
			reply(http.StatusUnauthorized, map[string]string{"code": "UNAUTHORIZED", "message": "Invalid credentials"})
			return
		}
		reply(http.StatusOK, service.AuthResponse{Token: s.token, Username: "alice"})
		return
	}

	if s.revoked || r.Header.Get("Authorization") != "Bearer "+s.token {
		reply(http.StatusUnauthorized, map[string]string{"code": "UNAUTHORIZED", "message": "Full authentication is required"})
		return
	}

	switch {
	case r.URL.Path == "/tasks" && r.Method == http.MethodGet:
		reply(http.StatusOK, map[string]any{"content": s.tasks, "last": true})
	case r.URL.Path == "/tasks/2" && r.Method == http.MethodPut:
		var in service.TaskInput
		json.NewDecoder(r.Body).Decode(&in)
		s.tasks[1].Status = in.Status
		reply(http.StatusOK, s.tasks[1])
	default:
		http.NotFound(w, r)
	}
}

func (s *apiServer) revoke() {
	s.mu.Lock()
	s.revoked = true
	s.mu.Unlock()
}

func TestDispatcher_RestEndToEnd(t *testing.T) {
	for _, store := range []string{config.StoreFile, config.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			api := &apiServer{token: "jwt-" + store, tasks: []service.Task{
				{ID: 1, Description: "Buy milk", Priority: service.PriorityUrgent, Status: service.StatusNotStarted},
				{ID: 2, Description: "Pay rent", Priority: service.PriorityLow, Status: service.StatusNotStarted},
			}}
			srv := httptest.NewServer(api)
			defer srv.Close()

			t.Setenv("TDASH_API_URL", srv.URL)
			t.Setenv("TDASH_SESSION_STORE", store)
			dir := t.TempDir()
			d := cli.NewDispatcher(commands.DefaultRegistry, cli.RestFactory)

			if _, stderr, code := run(t, d, "list", "--config", dir); code != exitcode.AuthError {
				t.Fatalf("expected not logged in, got %d: %s", code, stderr)
			}

			stdout, stderr, code := run(t, d, "login", "--config", dir, "-u", "alice", "--password", "pw")
			if code != exitcode.Success {
				t.Fatalf("login failed with %d: %s", code, stderr)
			}
			if stdout != "ok (logged in as alice)\n" {
				t.Errorf("unexpected login output %q", stdout)
			}

			if _, stderr, code := run(t, d, "done", "--config", dir, "2"); code != exitcode.Success {
				t.Fatalf("done failed with %d: %s", code, stderr)
			}

			stdout, stderr, code = run(t, d, "list", "--config", dir)
			if code != exitcode.Success {
				t.Fatalf("list failed with %d: %s", code, stderr)
			}
			testutil.GoldenString(t, "dashboard", stdout)

			api.revoke()
			_, stderr, code = run(t, d, "list", "--config", dir)
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
			if !strings.Contains(stderr, "error: Full authentication is required\n") {
				t.Errorf("expected backend message, got %q", stderr)
			}
			if !strings.HasSuffix(stderr, "session expired or invalid (run: tdash login)\n") {
				t.Errorf("expected re-login hint, got %q", stderr)
			}

			// The 401 dropped the stored token.
			_, stderr, _ = run(t, d, "list", "--config", dir)
			if stderr != "error: not logged in (run: tdash login)\n" {
				t.Errorf("expected session gone, got %q", stderr)
			}
		})
	}
}
