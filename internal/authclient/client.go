// Package authclient talks to the account service's register and login endpoints.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/smhrd/smartsearch/internal/models"
)

// TokenHeader is the response header carrying the session token.
const TokenHeader = "X-Auth-Token"

// MsgPasswordMismatch is shown when the confirmation does not match.
const MsgPasswordMismatch = "비밀번호가 일치하지 않습니다."

// Sentinel errors for common HTTP error classes.
var (
	ErrConflict         = errors.New("conflict")
	ErrBadRequest       = errors.New("bad request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrRateLimited      = errors.New("rate limited")
	ErrPasswordMismatch = errors.New(MsgPasswordMismatch)
)

// ServerError is a non-2xx response. It unwraps to one of the sentinels
// above when the status maps to one.
type ServerError struct {
	Status  int
	Message string
	kind    error
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

func (e *ServerError) Unwrap() error {
	return e.kind
}

// Message returns the server-provided message of err, or err's text.
func Message(err error) string {
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

// Client is an HTTP client for the account service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new auth client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// RegisterRequest is the body for POST /api/auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is the result of a successful login.
type Session struct {
	User  models.User
	Token string
}

// CheckPasswords fails with ErrPasswordMismatch when confirm differs.
func CheckPasswords(password, confirm string) error {
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// Register creates an account. It is not retried.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	_, err := c.post(ctx, "/api/auth/register", req, nil)
	return err
}

// RegisterConfirmed checks the password confirmation before calling Register.
func (c *Client) RegisterConfirmed(ctx context.Context, req RegisterRequest, confirm string) error {
	if err := CheckPasswords(req.Password, confirm); err != nil {
		return err
	}
	return c.Register(ctx, req)
}

// Login exchanges credentials for the account and a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var users []models.User
	hdr, err := c.post(ctx, "/api/auth/login", map[string]string{"email": email, "password": password}, &users)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, &ServerError{Status: http.StatusUnauthorized, kind: ErrUnauthorized}
	}
	return &Session{User: users[0], Token: hdr.Get(TokenHeader)}, nil
}

// Me returns the account behind token.
func (c *Client) Me(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	var u models.User
	if _, err := c.do(req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) (http.Header, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, result)
}

func (c *Client) do(req *http.Request, result any) (http.Header, error) {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, serverError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.Header, nil
}

// serverError reads either {"message": ...} or {"error": {"message": ...}}.
func serverError(status int, body []byte) error {
	var payload struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	se := &ServerError{Status: status}
	if json.Unmarshal(body, &payload) == nil {
		se.Message = payload.Message
		if se.Message == "" {
			se.Message = payload.Error.Message
		}
	}
	switch status {
	case http.StatusConflict:
		se.kind = ErrConflict
	case http.StatusBadRequest:
		se.kind = ErrBadRequest
	case http.StatusUnauthorized:
		se.kind = ErrUnauthorized
	case http.StatusTooManyRequests:
		se.kind = ErrRateLimited
	}
	return se
}
