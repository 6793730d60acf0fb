package rostersdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (*http.Response, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON reads resp into target when it carries expectedStatus and
// returns an *APIError otherwise.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, body)
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkStatusNoContent(resp *http.Response) error {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp, body)
	}
	return nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, secret string) (*AccountResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/accounts", url.Values{
		"name":   {name},
		"email":  {email},
		"secret": {secret},
	})
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusCreated); err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListAccounts returns every account, newest first. It fails with
// ErrLoginRequired when no session is active.
func (c *Client) ListAccounts(ctx context.Context) ([]AccountResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/accounts", nil)
	if err != nil {
		return nil, err
	}

	var list AccountListResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}
	return list.Accounts, nil
}

// Login starts the shared session for the account matching email and secret.
func (c *Client) Login(ctx context.Context, email, secret string) (*SessionResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/v1/session", url.Values{
		"email":  {email},
		"secret": {secret},
	})
	if err != nil {
		return nil, err
	}

	var s SessionResponse
	if err := decodeJSON(resp, &s, http.StatusOK); err != nil {
		return nil, err
	}
	return &s, nil
}

// Session returns the current session state.
func (c *Client) Session(ctx context.Context) (*SessionResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/v1/session", nil)
	if err != nil {
		return nil, err
	}

	var s SessionResponse
	if err := decodeJSON(resp, &s, http.StatusOK); err != nil {
		return nil, err
	}
	return &s, nil
}

// Logout ends the session. It succeeds even when nobody is logged in.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, "/v1/session", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service and its store are ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
