package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkovalev-net/vizlab/internal/client/session"
)

const testProfile = `{"id":1,"username":"ann","email":"ann@example.com","is_active":true,"created_at":"2025-01-02T03:04:05Z"}`

// authBackend fakes the backend auth endpoints with one known credential pair.
func authBackend(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("username") == "ann@example.com" && r.PostFormValue("password") == "s3cret" {
			fmt.Fprint(w, `{"access_token":"tok-live","token_type":"bearer"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"Incorrect email or password"}`)
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-live" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"detail":"Could not validate credentials"}`)
			return
		}
		fmt.Fprint(w, testProfile)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"detail":"Successfully logged out"}`)
	})
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testProfile)
	})
	return mux
}

func newAuth(t *testing.T, handler http.Handler, devMode bool) (*AuthService, *session.Store) {
	t.Helper()
	sessions := newSession(t)
	client := newAPI(t, sessions, handler)
	return NewAuthService(client, sessions, testLogger(), devMode), sessions
}

func TestLogin_ValidCredentials(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)

	res := auth.Login(context.Background(), "ann@example.com", []byte("s3cret"))

	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.Equal(t, session.StateAuthenticated, sessions.State())
	assert.Equal(t, "tok-live", sessions.Token())
	require.NotNil(t, sessions.User(), "user is refreshed when the token changes")
	assert.Equal(t, "ann", sessions.User().Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)

	res := auth.Login(context.Background(), "ann@example.com", []byte("wrong"))

	assert.False(t, res.Success)
	assert.Equal(t, "Incorrect email or password", res.Error)
	assert.Equal(t, session.StateAnonymous, sessions.State())
	assert.Empty(t, sessions.Token())
}

func TestLogin_FailedReloginKeepsExistingSession(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)
	require.True(t, auth.Login(context.Background(), "ann@example.com", []byte("s3cret")).Success)

	res := auth.Login(context.Background(), "ann@example.com", []byte("wrong"))

	assert.False(t, res.Success)
	assert.Equal(t, "Incorrect email or password", res.Error)
	assert.Equal(t, session.StateAuthenticated, sessions.State(), "the prior session survives a mistyped password")
	assert.Equal(t, "tok-live", sessions.Token())
	require.NotNil(t, sessions.User())
	assert.Equal(t, "ann", sessions.User().Username)
}

func TestLogin_ServerDown_NeverReturnsError(t *testing.T) {
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	auth := NewAuthService(client, sessions, testLogger(), false)

	res := auth.Login(context.Background(), "ann@example.com", []byte("s3cret"))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestLogout_ClearsSession(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)
	require.True(t, auth.Login(context.Background(), "ann@example.com", []byte("s3cret")).Success)

	require.NoError(t, auth.Logout(context.Background()))

	assert.Equal(t, session.StateAnonymous, sessions.State())
	assert.Empty(t, sessions.Token())
	assert.Nil(t, sessions.User())
}

func TestLogout_ProductionKeepsStateOnFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	auth, sessions := newAuth(t, mux, false)
	require.NoError(t, sessions.Set(nil, "tok-live"))

	err := auth.Logout(context.Background())

	require.Error(t, err)
	assert.Equal(t, "tok-live", sessions.Token(), "token may still be valid server-side")
}

func TestLogout_DevModeClearsDespiteFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	auth, sessions := newAuth(t, mux, true)
	require.NoError(t, sessions.Set(nil, "tok-live"))

	require.NoError(t, auth.Logout(context.Background()))
	assert.Empty(t, sessions.Token())
}

func TestRestore_RevalidatesLiveToken(t *testing.T) {
	handler := authBackend(t)

	firstSessions := newSession(t)
	require.NoError(t, firstSessions.Set(nil, "tok-live"))

	// Fresh store on the same file simulates a new process start.
	restored := session.NewStore(firstSessions.Path())
	client := newAPI(t, restored, handler)
	auth := NewAuthService(client, restored, testLogger(), false)

	require.NoError(t, auth.Restore(context.Background()))
	assert.Equal(t, session.StateAuthenticated, restored.State())
	require.NotNil(t, restored.User())
	assert.Equal(t, "ann@example.com", restored.User().Email)
}

func TestRestore_RejectedTokenCleared(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)
	require.NoError(t, sessions.Set(nil, "tok-stale"))

	require.NoError(t, auth.Restore(context.Background()))

	assert.Equal(t, session.StateAnonymous, sessions.State())
	assert.Empty(t, sessions.Token())
}

func TestRestore_NoTokenStaysAnonymous(t *testing.T) {
	auth, sessions := newAuth(t, authBackend(t), false)
	require.NoError(t, auth.Restore(context.Background()))
	assert.Equal(t, session.StateAnonymous, sessions.State())
}

func TestDevBypass_FabricatesLocalSession(t *testing.T) {
	// No usable backend: the bypass must not touch the network.
	sessions := newSession(t)
	client := newAPI(t, sessions, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("dev bypass must not issue requests")
	}))
	auth := NewAuthService(client, sessions, testLogger(), true)

	require.NoError(t, auth.ToggleDevBypass(true))
	require.NoError(t, auth.Restore(context.Background()))

	assert.Equal(t, session.StateAuthenticated, sessions.State())
	require.NotNil(t, sessions.User())
	assert.Equal(t, "developer", sessions.User().Username)
}

func TestToggleDevBypass_DisabledInProduction(t *testing.T) {
	auth, _ := newAuth(t, authBackend(t), false)
	assert.ErrorIs(t, auth.ToggleDevBypass(true), ErrDevModeDisabled)
}

func TestRegister_Succeeds(t *testing.T) {
	auth, _ := newAuth(t, authBackend(t), false)
	require.NoError(t, auth.Register(context.Background(), "ann@example.com", "ann", []byte("s3cret")))
}
