package newsapi

import (
	"net/http"
	"net/url"
)

const baseURL = "https://newsapi.org"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=newsapi_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the NewsAPI v2 endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient HTTPClient
	header     http.Header
	query      url.Values
}

// ClientOption is a configuration option for the NewsAPI client.
type ClientOption func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithLanguage restricts every search to one article language.
func WithLanguage(lang string) ClientOption {
	return func(c *Client) {
		if lang != "" {
			c.query.Set("language", lang)
		}
	}
}

// NewClient creates a new NewsAPI client. The key travels in the X-Api-Key header.
func NewClient(apiKey string, options ...ClientOption) *Client {
	var client = &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
	}
	for _, option := range options {
		option(client)
	}
	return client
}
