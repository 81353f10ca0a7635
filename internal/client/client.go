// Package client talks to the lesson service over HTTP. It implements
// domain.LessonService for the lesson app.
package client

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

	"github.com/hammamikhairi/railroad/internal/api"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/logger"
)

// Compile-time interface check.
var _ domain.LessonService = (*Client)(nil)

// Option configures the Client.
type Option func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// Client is an HTTP client for the three lesson service endpoints.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New creates a client for the service at baseURL
// (e.g. "http://localhost:5000").
func New(baseURL string, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 2 * time.Minute},
		log:     log,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the service address.
func (c *Client) BaseURL() string { return c.baseURL }

// Login checks credentials and returns the account's role.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	const op = "login"

	var resp api.LoginResponse
	status, err := c.do(ctx, op, http.MethodPost, api.PathLogin, api.LoginRequest{
		Username: username,
		Password: password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || status != http.StatusOK {
		return nil, &ApplicationError{Op: op, Status: status, Message: orDefault(resp.Message, "Invalid credentials")}
	}
	return &domain.LoginResult{Role: domain.Role(resp.Role), Name: resp.Name}, nil
}

// GetLessons fetches every lesson, newest first.
func (c *Client) GetLessons(ctx context.Context) ([]domain.Lesson, error) {
	const op = "get lessons"

	var resp api.LessonsResponse
	status, err := c.do(ctx, op, http.MethodGet, api.PathGetLessons, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &ApplicationError{Op: op, Status: status}
	}
	c.log.Debug("client: fetched %d lessons", len(resp.Lessons))
	return resp.Lessons, nil
}

// CreateLesson asks the service to generate and store a lesson.
func (c *Client) CreateLesson(ctx context.Context, req domain.CreateLessonRequest) (*domain.Lesson, error) {
	const op = "create lesson"

	var resp api.CreateLessonResponse
	status, err := c.do(ctx, op, http.MethodPost, api.PathCreateLesson, req, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.Lesson == nil {
		return nil, &ApplicationError{Op: op, Status: status, Message: orDefault(resp.Message, "Lesson creation failed")}
	}
	return resp.Lesson, nil
}

// do sends one request and decodes the JSON answer into out. Any status
// with a JSON body is returned to the caller to interpret; a body that is
// not JSON is an application error for non-2xx answers and a transport
// error otherwise.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("%s: create request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("client: %s %s", method, req.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, err
		}
		return 0, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return resp.StatusCode, &ApplicationError{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		}
		return resp.StatusCode, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	c.log.Debug("client: %s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(data))
	return resp.StatusCode, nil
}

// Healthy reports whether the service answers its health check.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+api.PathHealth, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: "health", Err: err}
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &ApplicationError{Op: "health", Status: resp.StatusCode}
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
