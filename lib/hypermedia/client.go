// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package hypermedia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/shopfront/themesync/lib/netutil"
)

// MediaType is sent as Accept and, for requests with a body,
// Content-Type.
const MediaType = "application/hal+json"

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// RootURL is the API entry point, e.g. "https://api.example.com".
	RootURL string

	// Token is sent as a bearer credential when non-empty.
	Token string

	// UserAgent defaults to "themesync".
	UserAgent string

	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client issues requests against a hypermedia API.
type Client struct {
	rootURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the API rooted at config.RootURL.
func NewClient(config ClientConfig) (*Client, error) {
	if config.RootURL == "" {
		return nil, fmt.Errorf("hypermedia: RootURL is required")
	}
	parsed, err := url.Parse(config.RootURL)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: invalid RootURL %q: %w", config.RootURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("hypermedia: RootURL %q must be absolute", config.RootURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "themesync"
	}

	return &Client{
		rootURL:    config.RootURL,
		token:      config.Token,
		userAgent:  userAgent,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Root fetches the API entry point.
func (c *Client) Root(ctx context.Context) (*Entity, error) {
	return c.Get(ctx, c.rootURL)
}

// Get fetches the entity at an absolute URL.
func (c *Client) Get(ctx context.Context, href string) (*Entity, error) {
	return c.Do(ctx, http.MethodGet, href, nil)
}

// Do sends a request and parses the response as an entity. body, when
// non-nil, is encoded as JSON.
func (c *Client) Do(ctx context.Context, method, href string, body any) (*Entity, error) {
	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("hypermedia: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, href, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: creating request: %w", err)
	}
	requestID := uuid.NewString()
	request.Header.Set("Accept", MediaType)
	request.Header.Set("User-Agent", c.userAgent)
	request.Header.Set("X-Request-Id", requestID)
	if body != nil {
		request.Header.Set("Content-Type", MediaType)
	}
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: %s %s failed: %w", method, href, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("hypermedia: reading response of %s %s: %w", method, href, err)
	}

	c.logger.Debug("hypermedia request",
		"method", method,
		"url", href,
		"status", response.StatusCode,
		"request_id", requestID,
	)

	return c.parse(method, href, response.StatusCode, responseBody)
}

func (c *Client) parse(method, href string, status int, body []byte) (*Entity, error) {
	success := status >= 200 && status < 300

	if len(bytes.TrimSpace(body)) == 0 {
		if success {
			return &Entity{client: c, url: href, raw: gjson.Parse("{}")}, nil
		}
		return nil, &Error{Method: method, URL: href, StatusCode: status, Message: http.StatusText(status)}
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, &Error{
			Method:     method,
			URL:        href,
			StatusCode: status,
			Message:    "malformed response body: " + truncate(string(body), 200),
		}
	}

	raw := gjson.ParseBytes(body)
	fields := fieldErrors(raw)
	if !success || len(fields) > 0 {
		return nil, &Error{
			Method:     method,
			URL:        href,
			StatusCode: status,
			Message:    raw.Get("message").String(),
			Fields:     fields,
		}
	}
	return &Entity{client: c, url: href, raw: raw}, nil
}

func fieldErrors(raw gjson.Result) []FieldError {
	var fields []FieldError
	raw.Get("errors").ForEach(func(_, value gjson.Result) bool {
		field := FieldError{Field: value.Get("field").String()}
		messages := value.Get("messages")
		if messages.IsArray() {
			for _, message := range messages.Array() {
				field.Messages = append(field.Messages, message.String())
			}
		} else if message := value.Get("message"); message.Exists() {
			field.Messages = append(field.Messages, message.String())
		}
		fields = append(fields, field)
		return true
	})
	return fields
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "..."
}
