package gatesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Session is an authenticated client for the service's bearer-token
// endpoints. Sessions do not refresh; when the token expires the caller
// logs in again.
type Session struct {
	client *Client
	token  string
	user   UserIdentity
}

func newSession(client *Client, login *LoginResponse) *Session {
	return &Session{
		client: client,
		token:  login.SessionToken,
		user:   login.User,
	}
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// User returns the identity captured at login.
func (s *Session) User() UserIdentity { return s.user }

// Me fetches the current identity from the service, verifying the token.
func (s *Session) Me(ctx context.Context) (*UserIdentity, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/session/me", nil, "")
	if err != nil {
		return nil, err
	}

	var out UserIdentity
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// IssueKey mints a new invitation key. Admin sessions only.
func (s *Session) IssueKey(ctx context.Context, req IssueKeyRequest) (*KeyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/keys", bytes.NewReader(body), "application/json")
	if err != nil {
		return nil, err
	}

	var out KeyResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListKeys returns every key in the ledger, newest first. Admin sessions only.
func (s *Session) ListKeys(ctx context.Context) ([]KeyResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/keys", nil, "")
	if err != nil {
		return nil, err
	}

	var out ListKeysResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Keys, nil
}

// DeactivateKey permanently disables a key. Admin sessions only.
func (s *Session) DeactivateKey(ctx context.Context, keyID string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/v1/keys/"+keyID, nil, "")
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
