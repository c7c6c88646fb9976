package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/warung/internal/session"
	"github.com/MrJamesThe3rd/warung/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()

	s, err := storage.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s
}

func TestSession_SignInSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := openStore(t)
	auth := session.NewMockAuthenticator(ctrl)
	auth.EXPECT().
		SignIn(gomock.Any(), "kasir@warung.id", "rahasia").
		Return(session.User{ID: "u1", Email: "kasir@warung.id"}, nil)

	s := session.Load(store, auth, nil)

	hookFired := false

	s.OnSignIn(func(ctx context.Context) { hookFired = true })

	result, err := s.SignIn(context.Background(), "kasir@warung.id", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, session.ResultSignedIn, result)
	assert.True(t, s.Authenticated())
	assert.True(t, hookFired, "sign-in must trigger the sync hook")

	user, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "kasir@warung.id", user.Email)

	// Identity survives a restart.
	reloaded := session.Load(store, auth, nil)
	assert.True(t, reloaded.Authenticated())
}

func TestSession_SignInFallsBackToSignUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := session.NewMockAuthenticator(ctrl)
	auth.EXPECT().
		SignIn(gomock.Any(), "baru@warung.id", "rahasia").
		Return(session.User{}, errors.New("invalid credentials"))
	auth.EXPECT().
		SignUp(gomock.Any(), "baru@warung.id", "rahasia").
		Return(nil)

	s := session.Load(openStore(t), auth, nil)
	s.OnSignIn(func(ctx context.Context) {
		t.Fatal("sync hook must not fire on sign-up")
	})

	result, err := s.SignIn(context.Background(), "baru@warung.id", "rahasia")
	require.NoError(t, err)
	assert.Equal(t, session.ResultSignedUp, result)

	// Registration needs a confirmation step; the session stays anonymous
	// until the user signs in again.
	assert.False(t, s.Authenticated())
}

func TestSession_SignInAndSignUpBothFail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	auth := session.NewMockAuthenticator(ctrl)
	auth.EXPECT().
		SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(session.User{}, errors.New("invalid credentials"))
	auth.EXPECT().
		SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("password too short"))

	s := session.Load(openStore(t), auth, nil)

	_, err := s.SignIn(context.Background(), "x@warung.id", "p")
	require.Error(t, err)
	assert.False(t, s.Authenticated())
}

func TestSession_SignOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := openStore(t)
	auth := session.NewMockAuthenticator(ctrl)
	auth.EXPECT().
		SignIn(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(session.User{ID: "u1", Email: "kasir@warung.id"}, nil)
	auth.EXPECT().
		SignOut(gomock.Any()).
		Return(errors.New("network down"))

	s := session.Load(store, auth, nil)

	_, err := s.SignIn(context.Background(), "kasir@warung.id", "rahasia")
	require.NoError(t, err)

	// Remote sign-out failure is ignored; local identity is cleared anyway.
	s.SignOut(context.Background())
	assert.False(t, s.Authenticated())

	reloaded := session.Load(store, auth, nil)
	assert.False(t, reloaded.Authenticated())
}

func TestSession_NoAuthConfigured(t *testing.T) {
	s := session.Load(openStore(t), nil, nil)

	_, err := s.SignIn(context.Background(), "a@b.c", "p")
	assert.ErrorIs(t, err, session.ErrNoAuth)
	assert.False(t, s.Authenticated())

	// Sign-out without auth only clears local state.
	s.SignOut(context.Background())
	assert.False(t, s.Authenticated())
}
