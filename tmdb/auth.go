package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateRequestToken starts the user login flow
func (c *Client) CreateRequestToken(ctx context.Context) (*RequestToken, error) {
	var token RequestToken
	if err := c.getJSON(ctx, "/authentication/token/new", nil, &token); err != nil {
		return nil, fmt.Errorf("failed to create request token: %w", err)
	}
	if !token.Success || token.RequestToken == "" {
		return nil, fmt.Errorf("failed to create request token: %w", ErrUnsuccessful)
	}
	return &token, nil
}

// ValidateWithLogin authorizes a request token with a username and password
func (c *Client) ValidateWithLogin(ctx context.Context, username, password, requestToken string) (*RequestToken, error) {
	body := map[string]string{
		"username":      username,
		"password":      password,
		"request_token": requestToken,
	}

	var token RequestToken
	if err := c.sendJSON(ctx, http.MethodPost, "/authentication/token/validate_with_login", nil, body, &token); err != nil {
		return nil, fmt.Errorf("failed to validate login: %w", err)
	}
	if !token.Success {
		return nil, fmt.Errorf("failed to validate login: %w", ErrUnsuccessful)
	}
	return &token, nil
}

// CreateSession exchanges an authorized request token for a session id
func (c *Client) CreateSession(ctx context.Context, requestToken string) (*Session, error) {
	var session Session
	body := map[string]string{"request_token": requestToken}
	if err := c.sendJSON(ctx, http.MethodPost, "/authentication/session/new", nil, body, &session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if !session.Success || session.SessionID == "" {
		return nil, fmt.Errorf("failed to create session: %w", ErrUnsuccessful)
	}
	return &session, nil
}

// Login runs the full token -> validate -> session flow
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	token, err := c.CreateRequestToken(ctx)
	if err != nil {
		return nil, err
	}
	validated, err := c.ValidateWithLogin(ctx, username, password, token.RequestToken)
	if err != nil {
		return nil, err
	}
	return c.CreateSession(ctx, validated.RequestToken)
}

// CreateGuestSession creates an anonymous session
func (c *Client) CreateGuestSession(ctx context.Context) (*GuestSession, error) {
	var guest GuestSession
	if err := c.getJSON(ctx, "/authentication/guest_session/new", nil, &guest); err != nil {
		return nil, fmt.Errorf("failed to create guest session: %w", err)
	}
	if !guest.Success || guest.GuestSessionID == "" {
		return nil, fmt.Errorf("failed to create guest session: %w", ErrUnsuccessful)
	}
	return &guest, nil
}

// DeleteSession invalidates a user session
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	var status statusResponse
	body := map[string]string{"session_id": sessionID}
	if err := c.sendJSON(ctx, http.MethodDelete, "/authentication/session", nil, body, &status); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// GetAccount returns the account owning sessionID
func (c *Client) GetAccount(ctx context.Context, sessionID string) (*Account, error) {
	params := url.Values{}
	params.Set("session_id", sessionID)

	var account Account
	if err := c.getJSON(ctx, "/account", params, &account); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// SetWatchlist adds (on=true) or removes a title from the account watchlist
func (c *Client) SetWatchlist(ctx context.Context, accountID int64, sessionID string, mediaType MediaType, mediaID int64, on bool) error {
	params := url.Values{}
	params.Set("session_id", sessionID)

	body := map[string]any{
		"media_type": string(mediaType),
		"media_id":   mediaID,
		"watchlist":  on,
	}

	endpoint := "/account/" + strconv.FormatInt(accountID, 10) + "/watchlist"
	var status statusResponse
	if err := c.sendJSON(ctx, http.MethodPost, endpoint, params, body, &status); err != nil {
		return fmt.Errorf("failed to update watchlist: %w", err)
	}
	if status.Success != nil && !*status.Success {
		return fmt.Errorf("failed to update watchlist: %w", ErrUnsuccessful)
	}
	return nil
}
