// ABOUTME: HTTP client for the ControlSystem defect-tracking API
// ABOUTME: Attaches the session bearer token and maps responses to domain types

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token for outbound requests. An empty
// string means the request goes out unauthenticated and the server decides
// whether to reject it.
type TokenSource func() string

// Client is the API client for the ControlSystem backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// Option configures a Client.
type Option func(*Client)

// WithTokenSource sets the source of the bearer token attached to requests.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

// WithHTTPClient replaces the underlying HTTP client (used in tests and
// when the caller needs custom transport settings).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new API client with the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		token: func() string { return "" },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request with the standard headers, decodes a 2xx JSON body
// into out (skipped when out is nil), and converts everything else into an
// error the caller can show to the user.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	slog.Debug("api request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from server: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to server at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return &APIError{StatusCode: resp.StatusCode}
	}
	msg := errResp.Error
	if msg == "" {
		msg = errResp.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

// Login calls POST /auth/login.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var auth AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &auth); err != nil {
		return nil, err
	}
	return &auth, nil
}

// ListDefects calls GET /defects.
func (c *Client) ListDefects(ctx context.Context) ([]Defect, error) {
	var defects []Defect
	if err := c.do(ctx, http.MethodGet, "/defects", nil, &defects); err != nil {
		return nil, err
	}
	return defects, nil
}

// GetDefect calls GET /defects/{id}.
func (c *Client) GetDefect(ctx context.Context, id string) (*Defect, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var defect Defect
	if err := c.do(ctx, http.MethodGet, "/defects/"+url.PathEscape(id), nil, &defect); err != nil {
		return nil, err
	}
	return &defect, nil
}

// CreateDefect calls POST /defects.
func (c *Client) CreateDefect(ctx context.Context, req CreateDefectRequest) (*Defect, error) {
	var defect Defect
	if err := c.do(ctx, http.MethodPost, "/defects", req, &defect); err != nil {
		return nil, err
	}
	return &defect, nil
}

// UpdateDefect calls PATCH /defects/{id} with the subset of fields set in req.
func (c *Client) UpdateDefect(ctx context.Context, id string, req UpdateDefectRequest) (*Defect, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var defect Defect
	if err := c.do(ctx, http.MethodPatch, "/defects/"+url.PathEscape(id), req, &defect); err != nil {
		return nil, err
	}
	return &defect, nil
}

// DeleteDefect calls DELETE /defects/{id}.
func (c *Client) DeleteDefect(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return c.do(ctx, http.MethodDelete, "/defects/"+url.PathEscape(id), nil, nil)
}

// AddComment calls POST /defects/{id}/comments and returns the updated defect.
func (c *Client) AddComment(ctx context.Context, id, content string) (*Defect, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	var defect Defect
	if err := c.do(ctx, http.MethodPost, "/defects/"+url.PathEscape(id)+"/comments", CommentRequest{Content: content}, &defect); err != nil {
		return nil, err
	}
	return &defect, nil
}

// GetStats calls GET /defects/stats.
func (c *Client) GetStats(ctx context.Context) (*DefectStats, error) {
	var stats DefectStats
	if err := c.do(ctx, http.MethodGet, "/defects/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListUsers calls GET /users.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}
