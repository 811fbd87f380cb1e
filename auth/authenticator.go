// Package auth validates credentials against TMDB, keeps the resulting
// session in the keychain and raises session events.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/cloudmovies/keychain"
	"github.com/s0up4200/cloudmovies/session"
	"github.com/s0up4200/cloudmovies/tmdb"
)

// Links shown next to the login form
const (
	SignUpURL        = "https://www.themoviedb.org/signup"
	ResetPasswordURL = "https://www.themoviedb.org/reset-password"
)

var (
	// ErrBlankCredentials is returned when username or password is empty
	ErrBlankCredentials = errors.New("username / password cannot be blank")
	// ErrInvalidCredentials is returned when TMDB rejects the login
	ErrInvalidCredentials = errors.New("incorrect username / password")
)

// Keychain stores session secrets
type Keychain interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(keys ...string) error
}

// EventSink receives session events; normally the session bus
type EventSink interface {
	Publish(e session.Event) bool
}

// Identity describes the current session
type Identity struct {
	Username  string
	SessionID string
	AccountID int64
	Guest     bool
}

// HasAccount reports whether remote account operations are possible
func (i Identity) HasAccount() bool {
	return !i.Guest && i.SessionID != "" && i.AccountID != 0
}

// Authenticator logs users in and out. It never talks to the navigator
// directly: successful logins and logouts are published as events.
type Authenticator struct {
	api    tmdb.AuthAPI
	keys   Keychain
	events EventSink
	logger zerolog.Logger
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(api tmdb.AuthAPI, keys Keychain, events EventSink, logger zerolog.Logger) *Authenticator {
	return &Authenticator{
		api:    api,
		keys:   keys,
		events: events,
		logger: logger.With().Str("component", "auth").Logger(),
	}
}

// Login validates the credentials with TMDB and, on success, stores the
// session and raises LoginSucceeded. Failures never raise an event.
func (a *Authenticator) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrBlankCredentials
	}

	sess, err := a.api.Login(ctx, username, password)
	if err != nil {
		if tmdb.IsInvalidCredentials(err) {
			a.logger.Info().Str("username", username).Msg("Login rejected")
			return ErrInvalidCredentials
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := a.keys.Delete(keychain.KeyGuestSessionID, keychain.KeyGuestExpiresAt); err != nil {
		return fmt.Errorf("failed to clear guest session: %w", err)
	}
	if err := a.keys.Set(keychain.KeySessionID, sess.SessionID); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if err := a.keys.Set(keychain.KeyUsername, username); err != nil {
		return fmt.Errorf("failed to store username: %w", err)
	}

	// The account id is only needed to mirror the watchlist; a failure here
	// does not fail the login.
	if account, err := a.api.GetAccount(ctx, sess.SessionID); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to load account, watchlist will stay local")
	} else if err := a.keys.Set(keychain.KeyAccountID, strconv.FormatInt(account.ID, 10)); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to store account id")
	}

	a.logger.Info().Str("username", username).Msg("Login succeeded")
	a.events.Publish(session.LoginSucceeded)
	return nil
}

// ContinueAsGuest creates a TMDB guest session and raises LoginSucceeded
func (a *Authenticator) ContinueAsGuest(ctx context.Context) error {
	guest, err := a.api.CreateGuestSession(ctx)
	if err != nil {
		return fmt.Errorf("guest login failed: %w", err)
	}

	if err := a.keys.Delete(keychain.KeySessionID, keychain.KeyAccountID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := a.keys.Set(keychain.KeyGuestSessionID, guest.GuestSessionID); err != nil {
		return fmt.Errorf("failed to store guest session: %w", err)
	}
	if err := a.keys.Set(keychain.KeyGuestExpiresAt, guest.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store guest session expiry: %w", err)
	}

	a.logger.Info().Str("expires_at", guest.ExpiresAt).Msg("Guest session created")
	a.events.Publish(session.LoginSucceeded)
	return nil
}

// Logout forgets the current session and raises LogoutRequested. Remote
// session deletion is best effort. The event is raised even when clearing
// local secrets fails; that error is returned afterwards.
func (a *Authenticator) Logout(ctx context.Context) error {
	err := a.ClearSession(ctx)
	a.events.Publish(session.LogoutRequested)
	return err
}

// ClearSession removes stored session secrets without raising an event.
// The last username is kept to prefill the login form.
func (a *Authenticator) ClearSession(ctx context.Context) error {
	if sessionID, err := a.keys.Get(keychain.KeySessionID); err == nil && sessionID != "" {
		if err := a.api.DeleteSession(ctx, sessionID); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to delete remote session")
		}
	}

	if err := a.keys.Delete(keychain.KeySessionID, keychain.KeyAccountID, keychain.KeyGuestSessionID, keychain.KeyGuestExpiresAt); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.logger.Info().Msg("Session cleared")
	return nil
}

// Current returns the stored identity
func (a *Authenticator) Current() Identity {
	var id Identity
	id.Username, _ = a.keys.Get(keychain.KeyUsername)

	if sessionID, err := a.keys.Get(keychain.KeySessionID); err == nil {
		id.SessionID = sessionID
		if raw, err := a.keys.Get(keychain.KeyAccountID); err == nil {
			id.AccountID, _ = strconv.ParseInt(raw, 10, 64)
		}
		return id
	}

	if guestID, err := a.keys.Get(keychain.KeyGuestSessionID); err == nil && !a.guestExpired() {
		id.SessionID = guestID
		id.Guest = true
	}
	return id
}

// IsGuest reports whether the current session is a guest session
func (a *Authenticator) IsGuest() bool {
	return a.Current().Guest
}

// LastUsername returns the username of the last successful login
func (a *Authenticator) LastUsername() string {
	name, _ := a.keys.Get(keychain.KeyUsername)
	return name
}

func (a *Authenticator) guestExpired() bool {
	raw, err := a.keys.Get(keychain.KeyGuestExpiresAt)
	if err != nil || raw == "" {
		return false
	}
	expires, err := tmdb.GuestSession{ExpiresAt: raw}.Expires()
	if err != nil {
		return false
	}
	return time.Now().After(expires)
}
