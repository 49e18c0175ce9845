// Package rest is the HTTP transport for the broker's unofficial API. It
// knows paths, headers and the error taxonomy; session state lives with the
// caller.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.cocos.capital/"

	// defaultUserAgent mirrors the web app; the API rejects unknown agents.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:91.0) Gecko/20100101 Firefox/91.0"

	maxResponseBytes = 4 << 20
)

// Auth carries the per-request authentication material. The zero value
// issues an unauthenticated request (the token endpoint itself).
type Auth struct {
	Token     string
	AccountID string
	APIKey    string
}

// Request describes one API call. Body, when non-nil, is JSON-encoded.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Auth   Auth
}

type Client struct {
	baseURL        string
	httpClient     *http.Client
	requestTimeout time.Duration
	userAgent      string
	logger         zerolog.Logger
}

type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	UserAgent      string
	Logger         zerolog.Logger
}

func NewClient(opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		baseURL:        baseURL,
		httpClient:     httpClient,
		requestTimeout: requestTimeout,
		userAgent:      userAgent,
		logger:         opts.Logger,
	}
}

// Do executes the request and returns the raw JSON body. Failures are
// classified: *TransportError for connectivity, *APIError for structured
// non-2xx responses, *ProtocolError for bodies that do not parse.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	endpoint, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(requestCtx, req.Method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.Auth.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Auth.Token)
	}
	if req.Auth.AccountID != "" {
		httpReq.Header.Set("x-account-id", req.Auth.AccountID)
	}
	if req.Auth.APIKey != "" {
		httpReq.Header.Set("recaptcha-token", req.Auth.APIKey)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return nil, &TransportError{Op: req.Method + " " + req.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: "read response body", Err: err}
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("api request")

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if len(raw) == 0 {
			return nil, nil
		}
		if !json.Valid(raw) {
			return nil, &ProtocolError{Status: resp.StatusCode, Err: errors.New("body is not valid JSON")}
		}
		return json.RawMessage(raw), nil
	}

	return nil, c.decodeError(resp.StatusCode, raw)
}

// decodeError maps a non-2xx body to an *APIError when it carries a
// structured reason, or a *ProtocolError when it does not parse.
func (c *Client) decodeError(status int, raw []byte) error {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             string `json:"code"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return &ProtocolError{Status: status, Err: err}
	}

	apiErr := &APIError{Status: status, Code: payload.Code, Message: payload.Message}
	if payload.Error != "" {
		apiErr.Code = payload.Error
	}
	if payload.ErrorDescription != "" {
		apiErr.Message = payload.ErrorDescription
	}

	return apiErr
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	parsed, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("base url host is required")
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	return endpoint.String(), nil
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, c.requestTimeout)
}
