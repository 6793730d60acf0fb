package rostersdk

import (
	"time"

	"github.com/aussiebroadwan/roster/pkg/httpx"
)

// ErrorResponse is the body of every error response.
type ErrorResponse = httpx.ErrorBody

// AccountResponse is the public view of an account. The secret is never sent.
type AccountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountListResponse is returned by GET /v1/accounts, newest account first.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// SessionResponse describes the directory's session. Account and StartedAt
// are only set while authenticated.
type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Account       *AccountResponse `json:"account,omitempty"`
	StartedAt     *time.Time       `json:"started_at,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Store string `json:"store"`
}
