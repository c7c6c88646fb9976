// Package session tracks the authenticated identity of the terminal. The
// session toggles between anonymous and authenticated for the process
// lifetime and gates whether sync may run.
package session

import (
	"context"
	"errors"
	"log/slog"
)

// User is the authenticated identity, persisted locally so the terminal
// stays signed in across restarts.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Authenticator is the remote auth collaborator.
//
//go:generate mockgen -source=session.go -destination=authenticator_mock.go -package=session
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (User, error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
}

// Result describes how a sign-in attempt ended.
type Result int

const (
	// ResultSignedIn means the session is now authenticated.
	ResultSignedIn Result = iota
	// ResultSignedUp means a new account was created; the account needs
	// confirmation and the user has to sign in again. The session stays
	// anonymous.
	ResultSignedUp
)

// Recorder persists a named record. Satisfied by *storage.Store.
type Recorder interface {
	Read(key string, dst any)
	Write(key string, v any)
	Delete(key string)
}

type Session struct {
	store    Recorder
	auth     Authenticator
	log      *slog.Logger
	user     *User
	onSignIn func(ctx context.Context)
}

// Load restores the persisted identity, if any. auth may be nil when no
// remote is configured; sign-in then fails with ErrNoAuth.
func Load(store Recorder, auth Authenticator, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}

	s := &Session{store: store, auth: auth, log: log}

	var u User

	store.Read("user", &u)

	if u.ID != "" {
		s.user = &u
	}

	return s
}

// ErrNoAuth is returned when sign-in is attempted without a configured
// remote auth service.
var ErrNoAuth = errors.New("no auth service configured, running local-only")

// OnSignIn registers the hook fired after a successful sign-in. Wiring uses
// it to dispatch the pull-then-push sync round.
func (s *Session) OnSignIn(fn func(ctx context.Context)) {
	s.onSignIn = fn
}

// SignIn authenticates against the remote service. A failed sign-in falls
// back to sign-up, treating an unknown account as an implicit registration:
// on sign-up success the session stays anonymous until the user signs in
// again after confirming the account.
func (s *Session) SignIn(ctx context.Context, email, password string) (Result, error) {
	if s.auth == nil {
		return ResultSignedIn, ErrNoAuth
	}

	user, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.log.Info("sign-in failed, trying sign-up", "email", email, "error", err)

		if err := s.auth.SignUp(ctx, email, password); err != nil {
			return ResultSignedIn, err
		}

		return ResultSignedUp, nil
	}

	s.user = &user
	s.store.Write("user", user)

	if s.onSignIn != nil {
		s.onSignIn(ctx)
	}

	return ResultSignedIn, nil
}

// SignOut clears the local identity. The remote sign-out is best-effort;
// its failure is logged and ignored.
func (s *Session) SignOut(ctx context.Context) {
	if s.auth != nil {
		if err := s.auth.SignOut(ctx); err != nil {
			s.log.Warn("remote sign-out failed", "error", err)
		}
	}

	s.user = nil
	s.store.Delete("user")
}

// Current returns the authenticated user, if any.
func (s *Session) Current() (User, bool) {
	if s.user == nil {
		return User{}, false
	}

	return *s.user, true
}

// Authenticated reports whether the session holds an identity.
func (s *Session) Authenticated() bool {
	return s.user != nil
}
