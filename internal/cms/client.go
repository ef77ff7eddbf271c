// Package cms is a read-only client for the headless CMS that feeds the
// public blog. Queries are GROQ strings sent over the HTTP query API.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no project id is set.
	ErrNotConfigured = errors.New("cms not configured")
	// ErrNotFound is returned when a single-document query yields nothing.
	ErrNotFound = errors.New("cms document not found")
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config identifies a CMS project.
type Config struct {
	ProjectID  string
	Dataset    string
	APIVersion string
	Token      string
}

// Client queries one dataset.
type Client struct {
	cfg     Config
	http    httpDoer
	baseURL string
}

// NewClient builds a client for cfg. Without a token the CDN host is used.
func NewClient(cfg Config) *Client {
	cfg.ProjectID = strings.TrimSpace(cfg.ProjectID)
	if cfg.Dataset == "" {
		cfg.Dataset = "production"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}

	host := "api.sanity.io"
	if cfg.Token == "" {
		host = "apicdn.sanity.io"
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: 10 * time.Second},
		baseURL: fmt.Sprintf("https://%s.%s", cfg.ProjectID, host),
	}
}

// SetHTTPClient swaps the transport; nil restores the default.
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 10 * time.Second}
		return
	}
	c.http = client
}

// SetBaseURL overrides the scheme and host, for tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(strings.TrimSpace(base), "/")
}

// Enabled reports whether a project is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.ProjectID != ""
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
	} `json:"error"`
}

// Query runs a GROQ query and decodes its result into out. Each params value
// is JSON encoded and passed as a $name URL parameter.
func (c *Client) Query(ctx context.Context, query string, params map[string]any, out any) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}

	values := url.Values{}
	values.Set("query", query)
	for name, value := range params {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode cms param %s: %w", name, err)
		}
		values.Set("$"+name, string(encoded))
	}

	endpoint := fmt.Sprintf("%s/v%s/data/query/%s?%s",
		c.baseURL, c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset), values.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build cms request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	client := c.http
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("cms request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read cms response: %w", err)
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("decode cms response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		msg := http.StatusText(resp.StatusCode)
		if decoded.Error != nil && decoded.Error.Description != "" {
			msg = decoded.Error.Description
		}
		return fmt.Errorf("cms query failed (status %d): %s", resp.StatusCode, msg)
	}

	if out == nil {
		return nil
	}
	if len(decoded.Result) == 0 || string(decoded.Result) == "null" {
		return ErrNotFound
	}
	if err := json.Unmarshal(decoded.Result, out); err != nil {
		return fmt.Errorf("decode cms result: %w", err)
	}
	return nil
}
