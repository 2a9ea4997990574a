// Package apiclient is the HTTP client of the storefront API. It injects the
// bearer token, normalizes every failure into a *domain.Error and raises the
// unauthenticated signal on 401 responses.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aishop/storefront/internal/core/domain"
	"github.com/aishop/storefront/internal/core/ports"
	"github.com/aishop/storefront/internal/metrics"
)

const (
	// DefaultTimeout bounds every request end to end.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
	headerRequestID  = "X-Request-ID"
)

// Request describes one API call.
type Request struct {
	// Op names the logical operation for logs and metrics, e.g. "auth.login".
	Op     string
	Method string
	// Path is appended to the base URL and must start with "/".
	Path string
	// Body is JSON-encoded when non-nil.
	Body any
	// Token overrides the persisted token when non-empty.
	Token string
	// Anonymous sends no bearer token at all. Credential exchanges use it so a
	// 401 for bad credentials never reads as an expired session.
	Anonymous bool

	// unauthHandled is the retry flag: the 401 reaction runs at most once per request.
	unauthHandled bool
}

// Client sends requests to the storefront API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  ports.TokenStore
	log     zerolog.Logger

	mu       sync.RWMutex
	onUnauth []func(ctx context.Context)
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its Timeout is kept
// as provided.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New returns a Client for baseURL. A non-positive timeout falls back to
// DefaultTimeout.
func New(baseURL string, timeout time.Duration, tokens ports.TokenStore, log zerolog.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log.With().Str("component", "apiclient").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthenticated registers fn to run after a 401 purged the stored token.
func (c *Client) OnUnauthenticated(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onUnauth = append(c.onUnauth, fn)
	c.mu.Unlock()
}

// Do sends req and decodes a successful JSON response into out (when non-nil).
// Errors are *domain.Error of kind network or server.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.APIRequestsTotal.WithLabelValues(req.Op, outcome).Inc()
		metrics.APIRequestDuration.WithLabelValues(req.Op).Observe(time.Since(start).Seconds())
	}()

	token := req.Token
	if req.Anonymous {
		token = ""
	} else if token == "" && c.tokens != nil {
		token = c.tokens.Token(ctx)
	}

	httpReq, err := c.newHTTPRequest(ctx, req, token)
	if err != nil {
		outcome = "network_error"
		return domain.NewNetworkError(err)
	}
	requestID := httpReq.Header.Get(headerRequestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		outcome = "network_error"
		c.log.Error().Err(err).
			Str("op", req.Op).
			Str("request_id", requestID).
			Msg("network error")
		return domain.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		outcome = "network_error"
		return domain.NewNetworkError(fmt.Errorf("read response: %w", err))
	}

	c.log.Debug().
		Str("op", req.Op).
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		outcome = "server_error"
		if resp.StatusCode == http.StatusUnauthorized {
			outcome = "unauthenticated"
			c.handleUnauthenticated(ctx, req, token)
		}
		return domain.NewServerError(resp.StatusCode, serverMessage(body))
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		outcome = "server_error"
		return &domain.Error{
			Kind:    domain.KindServer,
			Message: "invalid response from server",
			Status:  resp.StatusCode,
			Err:     err,
		}
	}
	return nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request, token string) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// handleUnauthenticated purges the stored token and notifies subscribers,
// once per request. A 401 for a request that carried no token, or a token
// other than the one currently stored, says nothing about the live session.
func (c *Client) handleUnauthenticated(ctx context.Context, req *Request, sent string) {
	if req.unauthHandled || sent == "" {
		return
	}
	req.unauthHandled = true

	if c.tokens == nil || c.tokens.Token(ctx) != sent {
		c.log.Debug().Str("op", req.Op).Msg("401 for a token that is no longer current")
		return
	}
	c.tokens.ClearToken(ctx)
	metrics.UnauthenticatedTotal.Inc()
	c.log.Warn().Str("op", req.Op).Msg("token rejected, session expired")

	c.mu.RLock()
	handlers := slices.Clone(c.onUnauth)
	c.mu.RUnlock()
	for _, fn := range handlers {
		fn(ctx)
	}
}

// serverMessage extracts {"message": "..."} or {"error": "..."} from body.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

// IsUnauthenticated reports whether err came from a 401 response.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated)
}
