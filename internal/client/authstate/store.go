// Package authstate mirrors the server's session on the client: a
// small store the UI reads synchronously, refreshed by asking the API
// who is signed in.
package authstate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
)

const checkTimeout = 10 * time.Second

// Err records a failed auth check without losing it: the store keeps
// the last error alongside the cleared state so the UI can distinguish
// "signed out" from "could not reach the server".
type Err struct {
	Code      string
	Message   string
	Details   string
	Timestamp time.Time
}

// State is a point-in-time snapshot of the client's view of the
// session. Session is set when the server reported one; Loading is
// true while a CheckAuth round-trip is in flight.
type State struct {
	Authenticated bool
	User          *domain.User
	Session       *domain.Session
	Loading       bool
	CheckedAt     time.Time
	LastError     *Err
}

// Store holds the auth state behind a mutex; every transition is
// atomic so readers never observe a half-updated session.
type Store struct {
	mu      sync.Mutex
	state   State
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func NewStore(baseURL string) *Store {
	return &Store{
		client:  &http.Client{Timeout: checkTimeout},
		baseURL: baseURL,
		now:     time.Now,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Login records a successful sign-in.
func (s *Store) Login(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		Authenticated: true,
		User:          user,
		CheckedAt:     s.now(),
	}
}

// Logout clears the session.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{CheckedAt: s.now()}
}

type statusResponse struct {
	Authenticated bool      `json:"authenticated"`
	UserID        string    `json:"user_id"`
	Email         string    `json:"email"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// CheckAuth asks the API who is signed in and replaces the state with
// the answer. A non-2xx response means signed out; a transport failure
// clears the session but keeps the error in LastError so callers can
// show "check failed" instead of "signed out".
func (s *Store) CheckAuth(ctx context.Context) State {
	s.mu.Lock()
	s.state.Loading = true
	s.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/auth/status", nil)
	if err != nil {
		return s.fail("AUTH_CHECK_FAILED", "could not build status request", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return s.fail("AUTH_CHECK_FAILED", "auth status request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.state = State{CheckedAt: s.now()}
		return s.state
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return s.fail("AUTH_CHECK_FAILED", "could not decode status response", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		Authenticated: status.Authenticated,
		CheckedAt:     s.now(),
	}
	if status.Authenticated {
		s.state.User = &domain.User{ID: status.UserID, Email: status.Email}
		s.state.Session = &domain.Session{
			UserID:    status.UserID,
			Email:     status.Email,
			ExpiresAt: status.ExpiresAt,
		}
	}
	return s.state
}

func (s *Store) fail(code, message string, cause error) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{
		CheckedAt: s.now(),
		LastError: &Err{
			Code:      code,
			Message:   message,
			Details:   fmt.Sprint(cause),
			Timestamp: s.now(),
		},
	}
	return s.state
}
