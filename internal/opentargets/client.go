// Package opentargets queries the Open Targets platform association API.
//
// Each Filter call issues exactly one request; the result size is capped by
// the page size and no further pages are fetched.
package opentargets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/otscore/internal/association"
)

const (
	// DefaultBaseURL is the public Open Targets platform API host.
	DefaultBaseURL = "https://platform-api.opentargets.io"

	// DefaultPageSize is the largest page the association endpoint serves.
	DefaultPageSize = 10000

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second

	filterPath = "/v3/platform/public/association/filter"

	// maxErrorBody caps how much of a failed response is kept in APIError.
	maxErrorBody = 4096
)

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("open targets API returned %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("open targets API returned %s", e.Status)
}

// Client is an association API client.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithPageSize sets the size parameter of each request.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient creates a client for the public API unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		pageSize:   DefaultPageSize,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API host the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Filter fetches the associations for one target or disease.
func (c *Client) Filter(ctx context.Context, f association.Filter) (association.Tabler, error) {
	resp, err := c.FilterAssociations(ctx, f)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// FilterAssociations is Filter with the concrete response type.
func (c *Client) FilterAssociations(ctx context.Context, f association.Filter) (*Response, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	endpoint, err := c.filterURL(f)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", f, err)
	}
	req.Header.Set("Accept", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query associations for %s: %w", f, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode association response for %s: %w", f, err)
	}

	return &resp, nil
}

func (c *Client) filterURL(f association.Filter) (string, error) {
	u, err := url.Parse(c.baseURL + filterPath)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}

	q := u.Query()
	q.Set(string(f.Kind), f.ID)
	q.Set("size", strconv.Itoa(c.pageSize))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
