package gatesdk

// ErrorResponse represents the service's JSON error body. This is used
// internally for parsing HTTP error responses; client code should use the
// APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g. "invalid_request",
	// "key_exhausted")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// UserIdentity is the identity a caller places into its session state.
type UserIdentity struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// RegisterResponse is returned from POST /v1/register.
type RegisterResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// LoginResponse is returned from POST /v1/login.
type LoginResponse struct {
	// SessionToken is the signed bearer token for authenticated endpoints
	SessionToken string `json:"session_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	User UserIdentity `json:"user"`
}

// IssueKeyRequest describes an invitation key to issue via POST /v1/keys.
type IssueKeyRequest struct {
	// Key optionally pins the token value; leave empty to have the service
	// generate a high-entropy token
	Key string `json:"key,omitempty"`

	Label   string `json:"label,omitempty"`
	MaxUses int    `json:"max_uses"`

	// ExpiresAt is an optional RFC3339 expiry timestamp
	ExpiresAt string `json:"expires_at,omitempty"`
}

// KeyResponse is a single invitation-key ledger record.
type KeyResponse struct {
	ID        string `json:"id"`
	Key       string `json:"key"`
	Label     string `json:"label"`
	MaxUses   int    `json:"max_uses"`
	UsedCount int    `json:"used_count"`
	Active    bool   `json:"active"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ListKeysResponse is returned from GET /v1/keys.
type ListKeysResponse struct {
	Keys []KeyResponse `json:"keys"`
}

// HealthChecks reports the status of critical dependencies.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	Signer   string `json:"signer,omitempty"`
}

// HealthResponse is returned from the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
