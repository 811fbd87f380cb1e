package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/cloudmovies/keychain"
	"github.com/s0up4200/cloudmovies/session"
	"github.com/s0up4200/cloudmovies/tmdb"
)

// mockAuthAPI implements tmdb.AuthAPI for testing
type mockAuthAPI struct {
	loginErr   error
	guestErr   error
	accountErr error
	guestExp   string

	loginCalls   int
	deleteCalls  []string
	accountCalls int
}

func (m *mockAuthAPI) Login(ctx context.Context, username, password string) (*tmdb.Session, error) {
	m.loginCalls++
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &tmdb.Session{Success: true, SessionID: "sess-" + username}, nil
}

func (m *mockAuthAPI) CreateGuestSession(ctx context.Context) (*tmdb.GuestSession, error) {
	if m.guestErr != nil {
		return nil, m.guestErr
	}
	exp := m.guestExp
	if exp == "" {
		exp = time.Now().Add(24 * time.Hour).UTC().Format("2006-01-02 15:04:05 MST")
	}
	return &tmdb.GuestSession{Success: true, GuestSessionID: "guest-1", ExpiresAt: exp}, nil
}

func (m *mockAuthAPI) DeleteSession(ctx context.Context, sessionID string) error {
	m.deleteCalls = append(m.deleteCalls, sessionID)
	return nil
}

func (m *mockAuthAPI) GetAccount(ctx context.Context, sessionID string) (*tmdb.Account, error) {
	m.accountCalls++
	if m.accountErr != nil {
		return nil, m.accountErr
	}
	return &tmdb.Account{ID: 77, Username: "artem"}, nil
}

// recordingSink records published events
type recordingSink struct {
	events []session.Event
}

func (r *recordingSink) Publish(e session.Event) bool {
	r.events = append(r.events, e)
	return true
}

func newTestAuthenticator(t *testing.T) (*Authenticator, *mockAuthAPI, *recordingSink, *keychain.Store) {
	t.Helper()
	keys, err := keychain.Open(t.TempDir(), "install-test")
	require.NoError(t, err)

	api := &mockAuthAPI{}
	sink := &recordingSink{}
	return NewAuthenticator(api, keys, sink, zerolog.Nop()), api, sink, keys
}

func TestLogin_Blank(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "qwerty"},
		{"whitespace username", "   ", "qwerty"},
		{"empty password", "artem", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, api, sink, _ := newTestAuthenticator(t)
			err := a.Login(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, ErrBlankCredentials)
			assert.Zero(t, api.loginCalls)
			assert.Empty(t, sink.events)
		})
	}
}

func TestLogin_Success(t *testing.T) {
	a, _, sink, keys := newTestAuthenticator(t)

	require.NoError(t, a.Login(context.Background(), " artem ", "qwerty"))
	assert.Equal(t, []session.Event{session.LoginSucceeded}, sink.events)

	sessionID, err := keys.Get(keychain.KeySessionID)
	require.NoError(t, err)
	assert.Equal(t, "sess-artem", sessionID)

	id := a.Current()
	assert.Equal(t, "artem", id.Username)
	assert.Equal(t, int64(77), id.AccountID)
	assert.False(t, id.Guest)
	assert.True(t, id.HasAccount())
	assert.Equal(t, "artem", a.LastUsername())
}

func TestLogin_Rejected(t *testing.T) {
	a, api, sink, keys := newTestAuthenticator(t)
	api.loginErr = &tmdb.APIError{StatusCode: 401, Code: 30, Message: "Invalid username and/or password"}

	err := a.Login(context.Background(), "artem", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, sink.events)
	assert.False(t, keys.Has(keychain.KeySessionID))
}

func TestLogin_InvalidAPIKeyIsNotACredentialError(t *testing.T) {
	a, api, sink, _ := newTestAuthenticator(t)
	api.loginErr = &tmdb.APIError{StatusCode: 401, Code: tmdb.CodeInvalidAPIKey, Message: "Invalid API key: You must be granted a valid key."}

	err := a.Login(context.Background(), "artem", "qwerty")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "Invalid API key")
	assert.Empty(t, sink.events)
}

func TestLogin_NetworkError(t *testing.T) {
	a, api, sink, _ := newTestAuthenticator(t)
	api.loginErr = errors.New("connection refused")

	err := a.Login(context.Background(), "artem", "qwerty")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Empty(t, sink.events)
}

func TestLogin_AccountFailureStillLogsIn(t *testing.T) {
	a, api, sink, _ := newTestAuthenticator(t)
	api.accountErr = errors.New("boom")

	require.NoError(t, a.Login(context.Background(), "artem", "qwerty"))
	assert.Equal(t, []session.Event{session.LoginSucceeded}, sink.events)
	assert.False(t, a.Current().HasAccount())
}

func TestContinueAsGuest(t *testing.T) {
	a, _, sink, _ := newTestAuthenticator(t)

	require.NoError(t, a.ContinueAsGuest(context.Background()))
	assert.Equal(t, []session.Event{session.LoginSucceeded}, sink.events)
	assert.True(t, a.IsGuest())
	assert.False(t, a.Current().HasAccount())
}

func TestContinueAsGuest_Expired(t *testing.T) {
	a, api, _, _ := newTestAuthenticator(t)
	api.guestExp = "2016-08-27 16:26:40 UTC"

	require.NoError(t, a.ContinueAsGuest(context.Background()))
	assert.False(t, a.IsGuest())
	assert.Empty(t, a.Current().SessionID)
}

func TestContinueAsGuest_ReplacesUserSession(t *testing.T) {
	a, _, _, keys := newTestAuthenticator(t)
	require.NoError(t, a.Login(context.Background(), "artem", "qwerty"))

	require.NoError(t, a.ContinueAsGuest(context.Background()))
	assert.False(t, keys.Has(keychain.KeySessionID))
	assert.True(t, a.IsGuest())
}

func TestLogout(t *testing.T) {
	a, api, sink, keys := newTestAuthenticator(t)
	require.NoError(t, a.Login(context.Background(), "artem", "qwerty"))

	require.NoError(t, a.Logout(context.Background()))
	assert.Equal(t, []session.Event{session.LoginSucceeded, session.LogoutRequested}, sink.events)
	assert.Equal(t, []string{"sess-artem"}, api.deleteCalls)
	assert.False(t, keys.Has(keychain.KeySessionID))
	assert.Equal(t, "artem", a.LastUsername())

	// logging out again is harmless
	require.NoError(t, a.Logout(context.Background()))
	assert.Len(t, api.deleteCalls, 1)
	assert.Equal(t, session.LogoutRequested, sink.events[len(sink.events)-1])
}
