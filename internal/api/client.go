package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"showdown-client/internal/logging"
	"showdown-client/internal/metrics"
)

// TokenSource yields the current session token; an empty string means no
// live session. The session context implements this.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Config controls how the client reaches the backend.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client issues JSON requests against the game server. Authorized calls
// carry a bearer credential from the token source and are refused locally
// before any network call when no token is present.
type Client struct {
	baseURL    string
	httpClient httpDoer
	tokens     TokenSource
	logger     *slog.Logger
	metrics    *metrics.Recorder
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger, recorder *metrics.Recorder) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		tokens:     tokens,
		logger:     logger,
		metrics:    recorder,
	}
}

// GetJSON issues an authorized GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out, true)
}

// PostJSON issues an authorized POST with a JSON body and decodes the
// response into out when out is non-nil.
func (c *Client) PostJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, true)
}

// PostPublic issues an unauthenticated POST; only the login and
// registration endpoints accept these.
func (c *Client) PostPublic(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out, false)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authorized bool) error {
	var token string
	if authorized {
		if c.tokens != nil {
			token = c.tokens.Token()
		}
		if token == "" {
			return ErrNoToken
		}
	}

	req, err := c.buildRequest(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordAPICall(opFromPath(method, path), time.Since(start), err)
	}
	if err != nil {
		logging.Warn(c.logger, "request failed",
			slog.String(logging.FieldMethod, method),
			slog.String(logging.FieldPath, path),
			slog.String(logging.FieldRequestID, requestID),
			"error", err,
		)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.rejectionError(resp, method, path, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logging.Warn(c.logger, "malformed response body",
			slog.String(logging.FieldMethod, method),
			slog.String(logging.FieldPath, path),
			slog.String(logging.FieldRequestID, requestID),
			"error", err,
		)
		return &DecodeError{Err: err}
	}
	return nil
}

func (c *Client) buildRequest(ctx context.Context, method, path string, body any, token string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// errorBody is the server's envelope for non-success responses.
type errorBody struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

func (c *Client) rejectionError(resp *http.Response, method, path, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		parsed.Message = strings.TrimSpace(string(raw))
	}

	logging.Warn(c.logger, "server rejected request",
		slog.String(logging.FieldMethod, method),
		slog.String(logging.FieldPath, path),
		slog.Int(logging.FieldStatusCode, resp.StatusCode),
		slog.String(logging.FieldRequestID, requestID),
	)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &AuthError{StatusCode: resp.StatusCode, Message: parsed.Message}
	}
	return &ServerRejection{
		StatusCode: resp.StatusCode,
		Message:    parsed.Message,
		Errors:     parsed.Errors,
	}
}

// opFromPath collapses a request path into a low-cardinality metric key by
// dropping numeric path segments.
func opFromPath(method, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	kept := segments[:0]
	for _, s := range segments {
		if s == "" || isNumeric(s) {
			continue
		}
		kept = append(kept, s)
	}
	return method + " /" + strings.Join(kept, "/")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
