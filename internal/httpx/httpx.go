package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultUserAgent is sent when a request carries none. Yahoo rejects
// requests without a user agent.
const DefaultUserAgent = "marketbot/1.0"

// Client is a small wrapper around http.Client with sane defaults.
// It satisfies the HTTPClient interfaces of the upstream API clients.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
	Log       *logrus.Entry
}

func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	c := &Client{UserAgent: DefaultUserAgent}
	c.HTTP = &http.Client{Timeout: timeout, Transport: &headerTransport{base: transport, client: c}}
	return c
}

// Do sends req through the shared transport. Default headers are applied by
// the transport so SDKs given c.HTTP directly get them too.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.HTTP.Do(req)
}

type headerTransport struct {
	base   http.RoundTripper
	client *Client
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.client.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.client.UserAgent)
	}
	for k, v := range t.client.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if t.client.Log != nil {
		fields := logrus.Fields{"host": req.URL.Host, "path": req.URL.Path, "elapsed": time.Since(start)}
		if err != nil {
			t.client.Log.WithFields(fields).WithError(err).Debug("upstream request failed")
		} else {
			t.client.Log.WithFields(fields).WithField("status", resp.StatusCode).Debug("upstream request")
		}
	}
	return resp, err
}
