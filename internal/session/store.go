// Package session holds the process-wide authentication state.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mess-portal/internal/model"
)

var (
	ErrMissingToken = errors.New("login payload has no access token")
	ErrNoProvider   = errors.New("session store accessed outside of its provider")
)

const placeholderName = "User"

// Logouter invalidates the server-side refresh credential.
type Logouter interface {
	Logout(ctx context.Context, token string) (string, error)
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	IsAuthenticated bool        `json:"isAuthenticated"`
	User            *model.User `json:"user"`
	AccessToken     string      `json:"-"`
	IsLoading       bool        `json:"isLoading"`
	ExpiresAt       *time.Time  `json:"expiresAt,omitempty"`
}

// Role returns the current user's role, or "" when there is no user.
func (s Snapshot) Role() model.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Store is constructed once at process start and reset only through Logout.
// The access token is kept in memory and never persisted.
type Store struct {
	mu      sync.RWMutex
	state   Snapshot
	backend Logouter
	logger  *slog.Logger
	now     func() time.Time

	// generation changes on every Login; a Logout only clears the session it
	// started from.
	generation uint64
	onReset    []func()
}

func New(backend Logouter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		state:   Snapshot{IsLoading: true},
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Restore runs the initial restoration check. Nothing is persisted between
// runs, so it always resolves to unauthenticated.
func (s *Store) Restore(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsLoading {
		return
	}
	s.state.IsLoading = false
	s.logger.Debug("session restoration finished", "authenticated", s.state.IsAuthenticated)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	if s.state.User != nil {
		user := *s.state.User
		out.User = &user
	}
	if s.state.ExpiresAt != nil {
		exp := *s.state.ExpiresAt
		out.ExpiresAt = &exp
	}

	return out
}

// AccessToken is read by feature services at call time.
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AccessToken
}

// Login records a successful login response. It makes no network call.
func (s *Store) Login(payload model.LoginResponse) error {
	token := strings.TrimSpace(payload.AccessToken)
	if token == "" {
		return ErrMissingToken
	}

	now := s.now().UTC().Format(time.RFC3339)
	user := &model.User{
		UserID:    payload.UserID,
		Email:     payload.Email,
		Role:      payload.Role,
		Name:      placeholderName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	replaced := s.state.IsAuthenticated
	s.generation++
	s.state.AccessToken = token
	s.state.IsAuthenticated = true
	s.state.User = user
	s.state.ExpiresAt = tokenExpiry(token)
	hooks := s.onReset
	s.mu.Unlock()

	if replaced {
		runHooks(hooks)
	}

	s.logger.Info("session started", "user_id", payload.UserID, "role", payload.Role)
	return nil
}

// OnReset registers fn to run whenever a session ends, either by Logout or by
// a Login that replaces it. Per-user view state hangs off these hooks.
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	s.onReset = append(s.onReset, fn)
	s.mu.Unlock()
}

// SetProfile replaces the placeholder profile with the server's copy. The role
// issued at login is kept.
func (s *Store) SetProfile(profile model.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.IsAuthenticated || s.state.User == nil || s.state.User.UserID != profile.UserID {
		return false
	}

	profile.Role = s.state.User.Role
	s.state.User = &profile
	return true
}

// Logout asks the server to drop the refresh credential and then clears the
// local session. Local teardown happens whatever the server call does; its
// error is returned for information only.
//
// A Login that completes while the server call is in flight starts a new
// session, which this Logout leaves alone.
func (s *Store) Logout(ctx context.Context) (err error) {
	s.mu.RLock()
	token := s.state.AccessToken
	generation := s.generation
	s.mu.RUnlock()

	defer s.clear(generation)

	if s.backend == nil {
		return nil
	}

	message, err := s.backend.Logout(ctx, token)
	if err != nil {
		s.logger.Warn("backend logout failed, clearing local session anyway", "error", err)
		return fmt.Errorf("backend logout: %w", err)
	}

	s.logger.Info("backend logout completed", "message", message)
	return nil
}

func (s *Store) clear(generation uint64) {
	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		s.logger.Info("newer session started during logout, keeping it")
		return
	}
	s.state.AccessToken = ""
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.state.ExpiresAt = nil
	hooks := s.onReset
	s.mu.Unlock()

	runHooks(hooks)
	s.logger.Info("client-side logout completed")
}

func runHooks(hooks []func()) {
	for _, fn := range hooks {
		fn()
	}
}

// tokenExpiry reads the exp claim without verifying the signature; the server
// is the only party that validates tokens. Opaque tokens have no expiry.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}

	t := exp.Time.UTC()
	return &t
}
