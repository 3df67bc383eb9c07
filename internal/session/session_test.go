package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vedran77/ripple/internal/api"
	"github.com/vedran77/ripple/internal/domain"
	"github.com/vedran77/ripple/internal/notify"
	"github.com/vedran77/ripple/internal/store"
)

type fixture struct {
	store    *store.Store
	client   *api.Client
	recorder *notify.Recorder
	sess     *Session
	meCalls  *atomic.Int64
}

func newFixture(t *testing.T, statePath string) *fixture {
	t.Helper()

	meCalls := &atomic.Int64{}

	r := chi.NewRouter()
	r.Get("/api/auth/me", func(w http.ResponseWriter, req *http.Request) {
		meCalls.Add(1)
		if req.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Invalid token"}`))
			return
		}
		w.Write([]byte(`{"user":{"_id":"u1","username":"alice"}}`))
	})
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"token":"good-token","user":{"_id":"u1","username":"alice"}}`))
	})
	r.Post("/api/auth/register", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"good-token","user":{"_id":"u2","username":"bob"}}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	st, err := store.Open(statePath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := api.New(srv.URL, 5*time.Second, 100)
	rec := &notify.Recorder{}

	return &fixture{
		store:    st,
		client:   client,
		recorder: rec,
		sess:     New(st, client, rec, time.Second),
		meCalls:  meCalls,
	}
}

func TestInitWithoutToken(t *testing.T) {
	f := newFixture(t, filepath.Join(t.TempDir(), "state.db"))

	assert.True(t, f.sess.Loading())
	f.sess.Init(context.Background())

	assert.False(t, f.sess.Loading())
	assert.False(t, f.sess.IsAuthenticated())
	assert.Equal(t, int64(0), f.meCalls.Load())
}

func TestInitWithValidToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	f := newFixture(t, path)
	require.NoError(t, f.store.Set(TokenKey, "good-token"))

	f.sess.Init(context.Background())

	assert.True(t, f.sess.IsAuthenticated())
	assert.Equal(t, "alice", f.sess.User().Username)
	assert.Equal(t, "good-token", f.sess.Token())
}

func TestInitWithRejectedTokenDemotesSilently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	f := newFixture(t, path)
	require.NoError(t, f.store.Set(TokenKey, "stale-token"))

	f.sess.Init(context.Background())

	assert.False(t, f.sess.Loading())
	assert.False(t, f.sess.IsAuthenticated())
	assert.Empty(t, f.recorder.Errors)

	// The rejected token must not survive the check.
	val, err := f.store.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "", val)
	assert.Equal(t, "", f.client.Token())
}

func TestInitWithExpiredJWTSkipsNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	f := newFixture(t, path)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	tok, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	require.NoError(t, f.store.Set(TokenKey, tok))

	f.sess.Init(context.Background())

	assert.False(t, f.sess.IsAuthenticated())
	assert.Equal(t, int64(0), f.meCalls.Load())

	val, err := f.store.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestLoginSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	f := newFixture(t, path)
	f.sess.Init(context.Background())

	res := f.sess.Login(context.Background(), "a@b.com", "secret")

	require.True(t, res.Success)
	assert.True(t, f.sess.IsAuthenticated())
	assert.Equal(t, "good-token", f.client.Token())
	assert.Contains(t, f.recorder.Successes, "Login successful!")

	val, err := f.store.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "good-token", val)
}

func TestLoginRejectionLeavesSessionUntouched(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	client := api.New(srv.URL, 5*time.Second, 100)
	rec := &notify.Recorder{}
	sess := New(st, client, rec, time.Second)
	sess.Init(context.Background())

	res := sess.Login(context.Background(), "a@b.com", "wrong")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid credentials", res.Message)
	assert.False(t, sess.IsAuthenticated())
	assert.Contains(t, rec.Errors, "Invalid credentials")

	val, err := st.Get(TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "", val)
}

func TestLoginValidationNeverSendsRequest(t *testing.T) {
	called := false
	r := chi.NewRouter()
	r.Post("/api/auth/login", func(w http.ResponseWriter, req *http.Request) {
		called = true
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	sess := New(st, api.New(srv.URL, time.Second, 100), notify.Nop{}, time.Second)
	res := sess.Login(context.Background(), "", "")

	assert.False(t, res.Success)
	assert.True(t, res.Fields.HasErrors())
	assert.False(t, called)
}

func TestRegisterSuccess(t *testing.T) {
	f := newFixture(t, filepath.Join(t.TempDir(), "state.db"))
	f.sess.Init(context.Background())

	res := f.sess.Register(context.Background(), "bob", "b@c.com", "secret")

	require.True(t, res.Success)
	assert.Equal(t, "bob", f.sess.User().Username)
	assert.Contains(t, f.recorder.Successes, "Registration successful!")
}

func TestLogoutClearsPersistedToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	f := newFixture(t, path)
	f.sess.Init(context.Background())
	require.True(t, f.sess.Login(context.Background(), "a@b.com", "secret").Success)

	f.sess.Logout()

	assert.False(t, f.sess.IsAuthenticated())
	assert.Equal(t, "", f.client.Token())

	// A subsequent reload with no other action yields an unauthenticated
	// session.
	sess2 := New(f.store, f.client, notify.Nop{}, time.Second)
	sess2.Init(context.Background())
	assert.False(t, sess2.IsAuthenticated())
	assert.Equal(t, int64(0), f.meCalls.Load())
}

func TestUpdateUserKeepsToken(t *testing.T) {
	f := newFixture(t, filepath.Join(t.TempDir(), "state.db"))
	f.sess.Init(context.Background())
	require.True(t, f.sess.Login(context.Background(), "a@b.com", "secret").Success)

	f.sess.UpdateUser(&domain.User{ID: "u1", Username: "alice_renamed"})

	assert.Equal(t, "alice_renamed", f.sess.User().Username)
	assert.Equal(t, "good-token", f.sess.Token())
}
