package availabilityclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/medconnect/scheduling/pkg/db"
)

// Client talks to the marketplace's availability and appointment endpoints.
// It owns no state beyond its connection settings.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger
}

var _ db.Store = (*Client)(nil)

// Options configures a Client
type Options struct {
	// HTTPClient is the base transport; the bearer credential is layered on top of it
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
}

// NewClient creates a client for the API rooted at baseURL. Every request carries
// a bearer token obtained from tokens.
func NewClient(ctx context.Context, baseURL string, tokens oauth2.TokenSource, opts Options) (*Client, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token source is required")
	}

	u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}

	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}
	httpClient := oauth2.NewClient(ctx, tokens)
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// StaticToken wraps a pre-issued access token as a token source
func StaticToken(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}

// do sends a JSON request and decodes a JSON response into out (if non-nil)
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	endpoint, err := c.baseURL.Parse(strings.TrimLeft(path, "/"))
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", op, path, err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Sending request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("url", endpoint.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("Received response",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(respBody)))

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, db.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectionError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Problems:   FlattenErrorBody(respBody),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", op, err)
	}
	return nil
}
