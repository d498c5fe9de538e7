// Package intake posts contact inquiries to the external form-ingestion endpoint.
package intake

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

	"github.com/boswecw/boswell/internal/contact"
)

// Encoding selects the request body format.
type Encoding string

const (
	// EncodingForm posts application/x-www-form-urlencoded bodies.
	EncodingForm Encoding = "form"

	// EncodingJSON posts application/json bodies.
	EncodingJSON Encoding = "json"
)

// ParseEncoding maps a configuration value to an Encoding.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(strings.ToLower(strings.TrimSpace(s))) {
	case EncodingForm, "":
		return EncodingForm, nil
	case EncodingJSON:
		return EncodingJSON, nil
	default:
		return "", fmt.Errorf("unknown intake encoding %q", s)
	}
}

const defaultUserAgent = "boswell-site/1.0"

// Client delivers payloads to one intake endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	encoding   Encoding
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithEncoding sets the request body format.
func WithEncoding(e Encoding) Option {
	return func(c *Client) {
		c.encoding = e
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client for endpoint.
func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("intake endpoint is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid intake endpoint: %w", err)
	}

	c := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		encoding:   EncodingForm,
		userAgent:  defaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Submit posts p once. Non-2xx responses return *contact.RequestError and
// failures to get a response return *contact.TransportError.
func (c *Client) Submit(ctx context.Context, p contact.Payload) error {
	body, contentType, err := c.encode(p)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("build intake request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &contact.TransportError{Err: err}
	}
	defer resp.Body.Close()

	// drain so the connection can be reused; no body schema is consumed
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &contact.RequestError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}

func (c *Client) encode(p contact.Payload) (io.Reader, string, error) {
	if c.encoding == EncodingJSON {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
	return strings.NewReader(p.Values().Encode()), "application/x-www-form-urlencoded", nil
}
