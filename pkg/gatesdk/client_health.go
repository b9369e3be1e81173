package gatesdk

import (
	"context"
	"net/http"
)

// Livez checks the liveness endpoint.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doGet(ctx, "/livez")
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Readyz checks the readiness endpoint, including dependency checks.
func (c *Client) Readyz(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doGet(ctx, "/readyz")
	if err != nil {
		return nil, err
	}

	var out HealthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
