package commands_test

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tdash/internal/commands"
	"tdash/internal/exitcode"
	"tdash/internal/service"
	"tdash/internal/testutil"
)

var errDial = errors.New("connection refused")

func TestLoginCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Accounts["alice"] = "secret"
	env := newEnv(t, svc, "", false)

	stdout, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"--identifier", "alice", "--password", "secret"})

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d: %s", exitcode.Success, code, stderr)
	}
	if stdout != "ok (logged in as alice)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if got := testutil.SessionToken(t, env.Session); got != "t1" {
		t.Errorf("expected token t1 stored, got %q", got)
	}
}

func TestLoginCommand_PositionalIdentifierAndEnvPassword(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Accounts["alice@example.com"] = "secret"
	t.Setenv(commands.PasswordEnv, "secret")
	env := newEnv(t, svc, "", true)

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"alice@example.com"})

	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if !env.Session.Present(context.Background()) {
		t.Error("expected session stored")
	}
}

func TestLoginCommand_BadCredentialsDropsSession(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.Accounts["alice"] = "secret"
	env := newEnv(t, svc, "old", false)

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, env, []string{"-u", "alice", "--password", "wrong"})

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Invalid credentials\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	// The 401 drops any token already held.
	if env.Session.Present(context.Background()) {
		t.Errorf("expected session cleared, got %q", testutil.SessionToken(t, env.Session))
	}
}

func TestLoginCommand_MissingPassword(t *testing.T) {
	t.Setenv(commands.PasswordEnv, "")
	_, stderr, code := runCommand(t, &commands.LoginCmd{}, newEnv(t, testutil.NewFakeService(), "", false), []string{"alice"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, commands.PasswordEnv) {
		t.Errorf("expected hint about %s, got %q", commands.PasswordEnv, stderr)
	}
}

func TestLoginCommand_BackendUnreachable(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.LoginErr = &service.TransportError{Op: "POST /auth/login", Err: errDial}

	_, stderr, code := runCommand(t, &commands.LoginCmd{}, newEnv(t, svc, "", false), []string{"-u", "a", "--password", "b"})

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stderr != "error: backend unreachable: connection refused\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestSignupCommand(t *testing.T) {
	svc := testutil.NewFakeService()
	env := newEnv(t, svc, "", false)
	args := []string{"--username", "alice", "--email", "alice@example.com", "--password", "secret"}

	stdout, stderr, code := runCommand(t, &commands.SignupCmd{}, env, args)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d: %s", code, stderr)
	}
	if stdout != "signup successful, please log in (run: tdash login)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
	if env.Session.Present(context.Background()) {
		t.Error("signup must not log in")
	}
	if len(svc.SignupCalls) != 1 || svc.SignupCalls[0].Username != "alice" {
		t.Errorf("unexpected signup calls %+v", svc.SignupCalls)
	}

	_, stderr, code = runCommand(t, &commands.SignupCmd{}, env, args)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d for duplicate, got %d", exitcode.AuthError, code)
	}
	if stderr != "error: Email already in use\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestSignupCommand_MissingFields(t *testing.T) {
	svc := testutil.NewFakeService()
	_, _, code := runCommand(t, &commands.SignupCmd{}, newEnv(t, svc, "", false), []string{"--username", "alice", "--password", "x"})

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if len(svc.SignupCalls) != 0 {
		t.Error("expected no request")
	}
}

func TestLogoutCommand(t *testing.T) {
	env := newEnv(t, testutil.NewFakeService(), "t1", false)

	stdout, _, code := runCommand(t, &commands.LogoutCmd{}, env, nil)
	if code != exitcode.Success || stdout != "ok\n" {
		t.Errorf("expected ok, got %d %q", code, stdout)
	}
	if env.Session.Present(context.Background()) {
		t.Error("expected session cleared")
	}

	stdout, _, code = runCommand(t, &commands.LogoutCmd{}, env, nil)
	if code != exitcode.Success || stdout != "not logged in\n" {
		t.Errorf("expected 'not logged in', got %d %q", code, stdout)
	}
}

func signToken(t *testing.T, secret string, subject string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestWhoamiCommand(t *testing.T) {
	t.Run("no secret", func(t *testing.T) {
		stdout, _, code := runCommand(t, &commands.WhoamiCmd{}, newEnv(t, nil, "opaque", false), nil)
		if code != exitcode.Success || stdout != "logged in\n" {
			t.Errorf("unexpected %d %q", code, stdout)
		}
	})

	t.Run("verified", func(t *testing.T) {
		env := newEnv(t, nil, signToken(t, "k", "alice", fixedNow.Add(time.Hour)), false)
		env.Config.Settings.JWTSecret = "k"

		stdout, stderr, code := runCommand(t, &commands.WhoamiCmd{}, env, nil)
		if code != exitcode.Success {
			t.Fatalf("expected success, got %d: %s", code, stderr)
		}
		if stdout != "logged in as alice\nexpires 2026-03-10 13:00\n" {
			t.Errorf("unexpected stdout %q", stdout)
		}
	})

	t.Run("expired", func(t *testing.T) {
		env := newEnv(t, nil, signToken(t, "k", "alice", fixedNow.Add(-time.Hour)), false)
		env.Config.Settings.JWTSecret = "k"

		_, stderr, code := runCommand(t, &commands.WhoamiCmd{}, env, nil)
		if code != exitcode.AuthError {
			t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
		}
		if !strings.HasPrefix(stderr, "error: session token expired") {
			t.Errorf("unexpected stderr %q", stderr)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		env := newEnv(t, nil, signToken(t, "k", "alice", fixedNow.Add(time.Hour)), false)
		env.Config.Settings.JWTSecret = "other"

		_, _, code := runCommand(t, &commands.WhoamiCmd{}, env, nil)
		if code != exitcode.AuthError {
			t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
		}
	})
}

func TestOAuthCommand_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no provider", nil, exitcode.UserError, "error: provider required (google or github)\n"},
		{"unknown provider", []string{"gitlab"}, exitcode.UserError, "error: unknown provider"},
		{"no client id", []string{"github"}, exitcode.AuthError, "error: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testutil.NewFakeService()
			_, stderr, code := runCommand(t, &commands.OAuthCmd{}, newEnv(t, svc, "", false), tt.args)
			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if !strings.HasPrefix(stderr, tt.want) {
				t.Errorf("expected stderr starting %q, got %q", tt.want, stderr)
			}
			if svc.OAuthCallCount() != 0 {
				t.Error("expected no exchange")
			}
		})
	}
}

func TestOAuthCommand_LoopbackFlow(t *testing.T) {
	// Reserve a port for the redirect URI.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	svc := testutil.NewFakeService()
	env := newEnv(t, svc, "", false)
	env.Config.Settings.GoogleClientID = "g-client"
	env.Config.Settings.RedirectURI = "http://" + addr + "/callback"

	type outcome struct {
		code           int
		stdout, stderr string
	}
	done := make(chan outcome, 1)
	go func() {
		var out, errOut bytes.Buffer
		code := (&commands.OAuthCmd{}).Run(context.Background(), env, []string{"google"}, &out, &errOut)
		done <- outcome{code, out.String(), errOut.String()}
	}()

	callback := "http://" + addr + "/callback?code=abc&state=google"
	deadline := time.Now().Add(10 * time.Second)
	for {
		resp, err := http.Get(callback)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("callback listener never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case res := <-done:
		if res.code != exitcode.Success {
			t.Fatalf("expected success, got %d: %s", res.code, res.stderr)
		}
		if res.stdout != "ok\n" {
			t.Errorf("unexpected stdout %q", res.stdout)
		}
		if !strings.Contains(res.stderr, "https://accounts.google.com/") {
			t.Errorf("expected authorization URL on stderr, got %q", res.stderr)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("oauth command did not finish")
	}

	if got := testutil.SessionToken(t, env.Session); got != "t1" {
		t.Errorf("expected token stored, got %q", got)
	}
	want := service.OAuthCallbackRequest{Code: "abc", Provider: "google", RedirectURI: env.Config.Settings.RedirectURI}
	if len(svc.OAuthCalls) != 1 || svc.OAuthCalls[0] != want {
		t.Errorf("expected exchange %+v, got %+v", want, svc.OAuthCalls)
	}
}

func TestOAuthCommand_Cancelled(t *testing.T) {
	env := newEnv(t, testutil.NewFakeService(), "", false)
	env.Config.Settings.GitHubClientID = "gh-client"
	env.Config.Settings.RedirectURI = "http://127.0.0.1:0/callback"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out, errOut bytes.Buffer
	code := (&commands.OAuthCmd{}).Run(ctx, env, []string{"github"}, &out, &errOut)
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.HasSuffix(errOut.String(), "error: cancelled\nrun: tdash login\n") {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
	if env.Session.Present(context.Background()) {
		t.Error("expected no session")
	}
}
