// Package session holds the client's belief about the current authenticated
// identity: the bearer token, the user behind it, and whether the startup
// identity check is still in flight. It is constructed once and injected
// into everything that needs identity.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/store"
	"github.com/vedran77/ripple/pkg/validator"
)

// TokenKey is the fixed name the bearer token is persisted under.
const TokenKey = "token"

// Result is the outcome of a login or register attempt. Message is set on
// failure; Fields carries per-field validation messages when the attempt
// never reached the server.
type Result struct {
	Success bool
	Message string
	Fields  validator.ValidationErrors
}

type Session struct {
	store       *store.Store
	api         *api.Client
	notify      notify.Notifier
	authTimeout time.Duration

	sf singleflight.Group

	mu      sync.RWMutex
	token   string
	user    *domain.User
	loading bool
}

func New(st *store.Store, client *api.Client, n notify.Notifier, authTimeout time.Duration) *Session {
	return &Session{
		store:       st,
		api:         client,
		notify:      n,
		authTimeout: authTimeout,
		loading:     true,
	}
}

// Init resolves the persisted token into an identity. A persisted token is
// verified against the identity endpoint under a bounded wait; any failure
// (rejected token, network error, timeout) silently discards it — an expired
// session is the normal outcome, not an error. loading stays true until this
// resolves; with no persisted token it resolves immediately. Concurrent
// calls share one check.
func (s *Session) Init(ctx context.Context) {
	s.sf.Do("init", func() (any, error) {
		s.init(ctx)
		return nil, nil
	})
}

func (s *Session) init(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	token, err := s.store.Get(TokenKey)
	if err != nil {
		log.Printf("ERROR reading stored token: %v", err)
		return
	}
	if token == "" {
		return
	}

	// A JWT that is already past its exp cannot verify; skip the round-trip.
	if tokenExpired(token) {
		s.discardToken()
		return
	}

	s.api.SetToken(token)

	cctx, cancel := context.WithTimeout(ctx, s.authTimeout)
	defer cancel()

	user, err := s.api.Me(cctx)
	if err != nil {
		s.discardToken()
		return
	}

	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// tokenExpired inspects a JWT's exp claim without verifying the signature
// (verification is the server's job). Opaque or claim-less tokens are left
// for the server to judge.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func (s *Session) discardToken() {
	if err := s.store.Delete(TokenKey); err != nil {
		log.Printf("ERROR clearing stored token: %v", err)
	}
	s.api.ClearToken()

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}

// Login authenticates and, on success, persists the token and adopts the
// returned identity. On failure the prior session is left untouched.
func (s *Session) Login(ctx context.Context, email, password string) Result {
	if errs := validator.ValidateLogin(email, password); errs.HasErrors() {
		return Result{Message: errs.First(), Fields: errs}
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		msg := api.Message(err, "Login failed")
		s.notify.Error(msg)
		return Result{Message: msg}
	}

	s.adopt(resp)
	s.notify.Success("Login successful!")
	return Result{Success: true}
}

// Register creates an account; same contract as Login.
func (s *Session) Register(ctx context.Context, username, email, password string) Result {
	if errs := validator.ValidateRegister(username, email, password); errs.HasErrors() {
		return Result{Message: errs.First(), Fields: errs}
	}

	resp, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		msg := api.Message(err, "Registration failed")
		s.notify.Error(msg)
		return Result{Message: msg}
	}

	s.adopt(resp)
	s.notify.Success("Registration successful!")
	return Result{Success: true}
}

func (s *Session) adopt(resp *api.AuthResponse) {
	if err := s.store.Set(TokenKey, resp.Token); err != nil {
		log.Printf("ERROR persisting token: %v", err)
	}
	s.api.SetToken(resp.Token)

	user := resp.User
	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()
}

// Logout clears the persisted token and the in-memory identity. It always
// succeeds.
func (s *Session) Logout() {
	s.discardToken()
	s.notify.Success("Logged out successfully!")
}

// UpdateUser replaces the in-memory identity after a profile edit. The token
// is untouched.
func (s *Session) UpdateUser(user *domain.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}
