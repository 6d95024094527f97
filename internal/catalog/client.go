package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// DefaultBaseURL is the public Open Library host.
const DefaultBaseURL = "https://openlibrary.org"

const searchFields = "key,title,author_name,first_publish_year,isbn,subject,cover_i"

// Doc is one heterogeneous search hit. Every field may be absent.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	ISBN             []string `json:"isbn"`
	Subject          []string `json:"subject"`
	CoverID          int64    `json:"cover_i"`
}

// Response models the search.json payload.
type Response struct {
	Docs     []Doc `json:"docs"`
	NumFound int   `json:"numFound"`
}

// SearchRequest describes a single search call.
type SearchRequest struct {
	Query string
	Limit int
	Sort  string
}

// Searcher issues catalog searches.
type Searcher interface {
	Search(ctx context.Context, request SearchRequest) (*Response, error)
}

// Client talks to the Open Library search endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient creates an Open Library client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search performs a GET against /search.json.
func (c *Client) Search(ctx context.Context, request SearchRequest) (*Response, error) {
	query := strings.TrimSpace(request.Query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/search.json")
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	if request.Sort != "" {
		params.Set("sort", request.Sort)
	}
	if request.Limit > 0 {
		params.Set("limit", strconv.Itoa(request.Limit))
	}
	params.Set("fields", searchFields)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload Response
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return &payload, nil
}
