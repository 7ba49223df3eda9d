package client

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

	"matchdeck/internal/api"
	"matchdeck/internal/config"
)

const defaultHTTPTimeout = 30 * time.Second

// Client talks to the matchdeck daemon's REST API.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client
}

// Options describes client construction parameters. HTTPClient may be nil.
type Options struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// New creates a Client from the supplied options.
func New(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("client: base url is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("client: parse base url: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		token:   strings.TrimSpace(opts.Token),
		http:    httpClient,
	}, nil
}

// NewFromConfig builds a client from the loaded configuration.
func NewFromConfig(cfg *config.Config) (*Client, error) {
	return New(Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.Paths.APIToken,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

func (c *Client) endpoint(segments ...string) *url.URL {
	return c.baseURL.JoinPath(segments...)
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// get issues a read and decodes the JSON body into out. Failures are
// reported as *FetchError.
func (c *Client) get(ctx context.Context, endpoint *url.URL, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return &FetchError{Message: err.Error(), Err: err}
	}
	c.applyHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &FetchError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

// write issues a mutating request with a JSON body and decodes the JSON
// response into out. Failures are reported as *MutationError.
func (c *Client) write(ctx context.Context, method string, endpoint *url.URL, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &MutationError{Message: "encode request: " + err.Error(), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &MutationError{Message: err.Error(), Err: err}
	}
	c.applyHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &MutationError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &MutationError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &MutationError{StatusCode: resp.StatusCode, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload api.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if message := strings.TrimSpace(string(body)); message != "" {
		return message
	}
	return resp.Status
}
