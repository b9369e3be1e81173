package gatesdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is an HTTP client for the KeyGate service. It provides the
// unauthenticated operations and creates authenticated Sessions via Login.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new service client.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates a new account gated on an invitation key.
func (c *Client) Register(ctx context.Context, name, email, password, inviteKey string) (*RegisterResponse, error) {
	form := url.Values{}
	form.Set("name", name)
	form.Set("email", email)
	form.Set("password", password)
	form.Set("invite_key", inviteKey)

	resp, err := c.doForm(ctx, http.MethodPost, "/v1/register", form)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates and returns an authenticated Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	resp, err := c.doForm(ctx, http.MethodPost, "/v1/login", form)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}
