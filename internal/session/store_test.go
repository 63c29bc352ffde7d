package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mess-portal/internal/model"
)

type mockLogouter struct {
	mock.Mock
}

func (m *mockLogouter) Logout(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func newTestStore(backend Logouter) *Store {
	store := New(backend, slog.New(slog.NewTextHandler(io.Discard, nil)))
	store.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	return store
}

func studentLogin(token string) model.LoginResponse {
	return model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      42,
		Email:       "student@mess.test",
		Role:        model.RoleStudent,
	}
}

func TestNewStoreStartsLoadingAndUnauthenticated(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	snap := store.Snapshot()

	assert.True(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
	assert.Empty(t, snap.AccessToken)

	store.Restore(context.Background())
	store.Restore(context.Background())

	snap = store.Snapshot()
	assert.False(t, snap.IsLoading)
	assert.False(t, snap.IsAuthenticated)
}

func TestLoginDerivesUserWithPlaceholders(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	require.NoError(t, store.Login(studentLogin("opaque-token")))

	snap := store.Snapshot()
	require.True(t, snap.IsAuthenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "opaque-token", snap.AccessToken)
	assert.Equal(t, int64(42), snap.User.UserID)
	assert.Equal(t, model.RoleStudent, snap.User.Role)
	assert.Equal(t, "User", snap.User.Name)
	assert.Empty(t, snap.User.MobileNo)
	assert.Empty(t, snap.User.Address)
	assert.Equal(t, "2024-01-01T09:00:00Z", snap.User.CreatedAt)
	assert.Nil(t, snap.ExpiresAt)
}

func TestLoginWithoutTokenLeavesStoreUntouched(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	for _, token := range []string{"", "   "} {
		err := store.Login(studentLogin(token))
		require.ErrorIs(t, err, ErrMissingToken)

		snap := store.Snapshot()
		assert.False(t, snap.IsAuthenticated)
		assert.Empty(t, snap.AccessToken)
		assert.Nil(t, snap.User)
	}
}

func TestLoginReadsJWTExpiry(t *testing.T) {
	t.Parallel()

	exp := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "student@mess.test",
		"exp": exp.Unix(),
	}).SignedString([]byte("unknown-to-the-client"))
	require.NoError(t, err)

	store := newTestStore(nil)
	require.NoError(t, store.Login(studentLogin(token)))

	snap := store.Snapshot()
	require.NotNil(t, snap.ExpiresAt)
	assert.True(t, exp.Equal(*snap.ExpiresAt))
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	require.NoError(t, store.Login(studentLogin("t")))

	snap := store.Snapshot()
	snap.User.Role = model.RoleAdmin

	assert.Equal(t, model.RoleStudent, store.Snapshot().User.Role)
}

func TestSetProfileKeepsIssuedRole(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	assert.False(t, store.SetProfile(model.User{UserID: 42}), "ignored while unauthenticated")

	require.NoError(t, store.Login(studentLogin("t")))
	assert.False(t, store.SetProfile(model.User{UserID: 7, Name: "Someone else"}))

	ok := store.SetProfile(model.User{UserID: 42, Name: "Asha", MobileNo: "9999", Role: model.RoleAdmin})
	require.True(t, ok)

	user := store.Snapshot().User
	assert.Equal(t, "Asha", user.Name)
	assert.Equal(t, "9999", user.MobileNo)
	assert.Equal(t, model.RoleStudent, user.Role)
}

func TestLogoutClearsSessionRegardlessOfBackend(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		backendErr error
	}{
		{name: "backend succeeds"},
		{name: "backend unreachable", backendErr: errors.New("dial tcp: connection refused")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &mockLogouter{}
			backend.On("Logout", mock.Anything, "tok").Return("Logout successful", tc.backendErr).Once()

			store := newTestStore(backend)
			store.Restore(context.Background())
			require.NoError(t, store.Login(studentLogin("tok")))

			err := store.Logout(context.Background())
			if tc.backendErr != nil {
				require.ErrorIs(t, err, tc.backendErr)
			} else {
				require.NoError(t, err)
			}

			snap := store.Snapshot()
			assert.False(t, snap.IsAuthenticated)
			assert.Nil(t, snap.User)
			assert.Empty(t, snap.AccessToken)
			assert.Empty(t, store.AccessToken())
			backend.AssertExpectations(t)
		})
	}
}

func TestLogoutClearsSessionWhenBackendPanics(t *testing.T) {
	t.Parallel()

	backend := &mockLogouter{}
	backend.On("Logout", mock.Anything, "tok").Run(func(mock.Arguments) { panic("boom") })

	store := newTestStore(backend)
	require.NoError(t, store.Login(studentLogin("tok")))

	assert.Panics(t, func() { _ = store.Logout(context.Background()) })
	assert.False(t, store.Snapshot().IsAuthenticated)
	assert.Empty(t, store.AccessToken())
}

func TestLoginDuringLogoutKeepsNewSession(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &mockLogouter{}
	backend.On("Logout", mock.Anything, "old").Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return("Logout successful", nil).Once()

	store := newTestStore(backend)
	require.NoError(t, store.Login(studentLogin("old")))

	done := make(chan error, 1)
	go func() { done <- store.Logout(context.Background()) }()

	<-entered
	require.NoError(t, store.Login(studentLogin("new")))
	close(release)
	require.NoError(t, <-done)

	snap := store.Snapshot()
	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "new", snap.AccessToken)
	assert.Equal(t, "new", store.AccessToken())
	backend.AssertExpectations(t)

	// A later logout still ends the new session.
	backend.On("Logout", mock.Anything, "new").Return("Logout successful", nil).Once()
	require.NoError(t, store.Logout(context.Background()))
	assert.False(t, store.Snapshot().IsAuthenticated)
}

func TestResetHooksRunWhenSessionEnds(t *testing.T) {
	t.Parallel()

	store := newTestStore(nil)
	resets := 0
	store.OnReset(func() { resets++ })

	require.NoError(t, store.Login(studentLogin("a")))
	assert.Equal(t, 0, resets, "first login replaces nothing")

	require.NoError(t, store.Login(studentLogin("b")))
	assert.Equal(t, 1, resets, "login over an open session")

	require.NoError(t, store.Logout(context.Background()))
	assert.Equal(t, 2, resets)
}

func TestContextAccessor(t *testing.T) {
	t.Parallel()

	_, err := FromContext(context.Background())
	require.ErrorIs(t, err, ErrNoProvider)
	assert.PanicsWithError(t, ErrNoProvider.Error(), func() { MustFromContext(context.Background()) })

	store := newTestStore(nil)
	ctx := WithStore(context.Background(), store)
	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, store, got)
}
