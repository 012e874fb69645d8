// Package jira is a small client for the JIRA REST API: issue summaries,
// worklogs and a connection check.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/jtl/internal/core/retry"
)

var (
	// ErrIssueNotFound is returned when JIRA has no issue with the key.
	ErrIssueNotFound = errors.New("jira: issue not found")
	// ErrNotConfigured is returned by every call when no JIRA URL is set.
	ErrNotConfigured = errors.New("jira: not configured")
)

// startedLayout is the timestamp format the worklog endpoint accepts.
const startedLayout = "2006-01-02T15:04:05.000-0700"

// HTTPClient abstracts HTTP calls for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Authenticator applies authentication to requests.
type Authenticator interface {
	Apply(req *http.Request) error
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira API error (status %d): %s", e.StatusCode, e.Body)
}

// Retryable reports whether err is worth another attempt: rate limiting,
// gateway failures and transport errors. Context errors never are.
func Retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Client wraps the JIRA REST API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	auth       Authenticator
	retry      retry.Config
	logger     zerolog.Logger
}

// NewClient creates a JIRA API client. An empty baseURL yields a client
// whose every call fails with ErrNotConfigured.
func NewClient(baseURL string, auth Authenticator, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		auth:       auth,
		retry:      retry.DefaultConfig(),
		logger:     logger.With().Str("cmp", "jira").Logger(),
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

// SetRetry replaces the backoff configuration.
func (c *Client) SetRetry(cfg retry.Config) {
	c.retry = cfg
}

// BaseURL returns the base URL of the JIRA instance.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type issueResponse struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string `json:"summary"`
	} `json:"fields"`
}

// IssueSummary returns the summary of the issue with key.
func (c *Client) IssueSummary(ctx context.Context, key string) (string, error) {
	var out issueResponse
	path := "/rest/api/2/issue/" + url.PathEscape(key) + "?fields=summary"

	err := c.call(ctx, http.MethodGet, path, nil, &out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", key, ErrIssueNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get issue %s: %w", key, err)
	}

	return out.Fields.Summary, nil
}

// Worklog is a single time entry against an issue.
type Worklog struct {
	TimeSpent string
	Comment   string
	Started   time.Time
}

type worklogRequest struct {
	TimeSpent string `json:"timeSpent"`
	Comment   string `json:"comment,omitempty"`
	Started   string `json:"started"`
}

// AddWorklog posts w against key. adjustEstimate is passed through to
// JIRA ("auto", "leave"); empty leaves the server default.
func (c *Client) AddWorklog(ctx context.Context, key string, w Worklog, adjustEstimate string) error {
	body, err := json.Marshal(worklogRequest{
		TimeSpent: w.TimeSpent,
		Comment:   w.Comment,
		Started:   w.Started.Format(startedLayout),
	})
	if err != nil {
		return fmt.Errorf("encoding worklog: %w", err)
	}

	path := "/rest/api/2/issue/" + url.PathEscape(key) + "/worklog"
	if adjustEstimate != "" {
		path += "?adjustEstimate=" + url.QueryEscape(adjustEstimate)
	}

	// Posting a worklog is not idempotent, so only a single attempt is made.
	err = c.once(ctx, http.MethodPost, path, body, nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", key, ErrIssueNotFound)
	}
	if err != nil {
		return fmt.Errorf("add worklog to %s: %w", key, err)
	}
	return nil
}

// User is the account the client authenticates as.
type User struct {
	Name         string `json:"name"`
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Myself returns the authenticated user. It doubles as a connection test.
func (c *Client) Myself(ctx context.Context) (User, error) {
	var u User
	if err := c.call(ctx, http.MethodGet, "/rest/api/2/myself", nil, &u); err != nil {
		return User{}, fmt.Errorf("get current user: %w", err)
	}
	return u, nil
}

// call runs an idempotent request with retries.
func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	return retry.Do(ctx, c.retry, Retryable, func(ctx context.Context) error {
		err := c.once(ctx, method, path, body, out)
		if err != nil && Retryable(err) {
			c.logger.Debug().Err(err).Str("path", path).Msg("retrying jira request")
		}
		return err
	})
}

func (c *Client) once(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return nil
	}
	return decodeResponse(resp, out)
}

// do executes an authenticated API request.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.auth != nil {
		if err := c.auth.Apply(req); err != nil {
			return nil, fmt.Errorf("applying auth: %w", err)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("jira request")

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	return resp, nil
}

// decodeResponse reads and decodes a JSON response.
func decodeResponse(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
