package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dkovalev-net/vizlab/internal/client/api"
	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/client/session"
	"github.com/dkovalev-net/vizlab/internal/common"
	"github.com/dkovalev-net/vizlab/internal/logging"
)

// ErrDevModeDisabled is returned when a development-only operation is
// invoked in a production build.
var ErrDevModeDisabled = errors.New("development mode is disabled")

// AuthService owns the login/logout/restore state machine on top of the
// session store. The backend contract is the OAuth2 form flow: credentials
// go form-encoded with the email under the "username" field, and a bearer
// access token comes back.
type AuthService struct {
	api      *api.Client
	sessions *session.Store
	log      logging.Logger
	devMode  bool
}

func NewAuthService(client *api.Client, sessions *session.Store, log logging.Logger, devMode bool) *AuthService {
	return &AuthService{api: client, sessions: sessions, log: log.With("service", "auth"), devMode: devMode}
}

// LoginResult signals the outcome of a login attempt. Login never returns a
// Go error: failures surface as Success=false with a user-presentable
// message, so the caller can render it inline.
type LoginResult struct {
	Success bool
	Error   string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login authenticates against the backend and persists the resulting
// session. In dev-bypass mode a synthetic local session is fabricated
// without any network traffic.
//
// A rejected attempt never destroys an existing session: the prior
// (user, token) pair is put back, so a mistyped password on a re-login
// leaves the user signed in as before.
func (a *AuthService) Login(ctx context.Context, email string, password []byte) LoginResult {
	prevUser := a.sessions.User()
	prevToken := a.sessions.Token()
	wasAuthenticated := a.sessions.State() == session.StateAuthenticated

	a.sessions.SetAuthenticating()

	if a.devMode && a.sessions.DevBypass() {
		if err := a.sessions.Set(devUser(), ""); err != nil {
			a.log.Error(ctx, "persist dev session", "error", err)
			return LoginResult{Error: "could not persist session"}
		}
		return LoginResult{Success: true}
	}

	form := url.Values{}
	form.Set("username", email) // backend expects the email under "username"
	form.Set("password", string(password))

	var tok tokenResponse
	if err := a.api.PostForm(ctx, "/api/auth/login", form, &tok); err != nil {
		a.log.Warn(ctx, "login rejected", "error", err)
		if wasAuthenticated {
			_ = a.sessions.Set(prevUser, prevToken)
		} else {
			_ = a.sessions.Clear()
		}
		return LoginResult{Error: loginMessage(err)}
	}

	if err := a.sessions.Set(nil, tok.AccessToken); err != nil {
		a.log.Error(ctx, "persist session", "error", err)
		return LoginResult{Error: "could not persist session"}
	}

	// Refresh the user record now that the token changed. A profile fetch
	// failure does not undo the login; the record stays empty until the next
	// restore.
	var user models.User
	if err := a.api.GetJSON(ctx, "/api/auth/profile", nil, &user); err != nil {
		a.log.Warn(ctx, "profile fetch after login failed", "error", err)
	} else if err := a.sessions.SetUser(&user); err != nil {
		a.log.Error(ctx, "persist user", "error", err)
	}

	return LoginResult{Success: true}
}

// Logout invalidates the session. The backend call is best-effort in dev
// mode only; in production a failed logout keeps local state, since the
// token may still be valid server-side.
func (a *AuthService) Logout(ctx context.Context) error {
	if err := a.api.PostJSON(ctx, "/api/auth/logout", nil, nil); err != nil {
		if !a.devMode {
			a.log.Error(ctx, "logout", "error", err)
			return fmt.Errorf("logout: %w", err)
		}
		a.log.Warn(ctx, "logout call failed, clearing local session anyway", "error", err)
	}
	return a.sessions.Clear()
}

// Register creates a new account. Supplementary to the login flow; the user
// still logs in explicitly afterwards.
func (a *AuthService) Register(ctx context.Context, email, username string, password []byte) error {
	payload := struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}{Email: email, Username: username, Password: string(password)}

	var user models.User
	if err := a.api.PostJSON(ctx, "/api/auth/register", payload, &user); err != nil {
		a.log.Error(ctx, "register", "error", err)
		return err
	}
	return nil
}

// Restore re-establishes a persisted session at startup: locally expired
// tokens are dropped without a round-trip, live ones are re-validated via
// the profile endpoint, and a 401 clears the stale session. Transport
// failures keep the session so the client still starts while the backend is
// down.
func (a *AuthService) Restore(ctx context.Context) error {
	if err := a.sessions.Load(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if a.devMode && a.sessions.DevBypass() {
		return a.sessions.Set(devUser(), "")
	}

	if a.sessions.Token() == "" {
		return nil
	}

	if a.sessions.TokenExpired() {
		a.log.Info(ctx, "stored token expired, clearing session")
		return a.sessions.Clear()
	}

	var user models.User
	err := a.api.GetJSON(ctx, "/api/auth/profile", nil, &user)
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		a.log.Info(ctx, "stored token rejected, clearing session")
		return a.sessions.Clear()
	case err != nil:
		a.log.Warn(ctx, "session re-validation skipped", "error", err)
		return nil
	}
	return a.sessions.SetUser(&user)
}

// ToggleDevBypass flips the development bypass flag. Only available in dev
// mode; the caller must re-initialize the application for the change to take
// effect (the reload analogue).
func (a *AuthService) ToggleDevBypass(enabled bool) error {
	if !a.devMode {
		return ErrDevModeDisabled
	}
	return a.sessions.SetDevBypass(enabled)
}

// devUser is the synthetic account used by the dev bypass.
func devUser() *models.User {
	return &models.User{
		ID:        0,
		Username:  "developer",
		Email:     "dev@example.com",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}

// loginMessage converts an API failure into a user-presentable string,
// preferring the backend's own error detail.
func loginMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, common.ErrUnavailable) {
		return "server unavailable"
	}
	return "login failed"
}
