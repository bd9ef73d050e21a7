// Package client is the authenticated HTTP client for the OpenFire REST API plugin.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/globals"
)

// Options configures a Client. Zero retry waits keep the library defaults.
type Options struct {
	BaseURL      string
	AuthHeader   string
	Insecure     bool
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Logger       hclog.Logger
}

// Client issues one request at a time against the configured base URL. It is owned by a single invocation
// and must be closed when done.
type Client struct {
	baseURL    string
	authHeader string
	transport  *http.Transport
	http       *retryablehttp.Client
	logger     hclog.Logger
}

// New builds a client. Nothing is sent over the network until the first request.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: no API url", config.ErrConfiguration)
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid API url %q", config.ErrConfiguration, opts.BaseURL)
	}
	logger := opts.Logger
	if logger == nil {
		logger = globals.AppLogger
	}

	transport := cleanhttp.DefaultPooledTransport()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = &http.Client{Transport: transport, Timeout: opts.Timeout}
	rc.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	rc.Logger = logger.Named("http")
	// keep the last response so its status maps onto the error taxonomy
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		authHeader: opts.AuthHeader,
		transport:  transport,
		http:       rc,
		logger:     logger,
	}, nil
}

// NewFromConfig builds a client from the resolved configuration and Authorization header.
func NewFromConfig(cfg *config.APIConfig, authHeader string) (*Client, error) {
	return New(Options{
		BaseURL:    cfg.URL,
		AuthHeader: authHeader,
		Insecure:   cfg.Insecure,
		Timeout:    cfg.Timeout,
		RetryMax:   cfg.RetryMax,
	})
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, nil)
}

func (c *Client) Post(ctx context.Context, path string, body []byte, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, headers)
}

func (c *Client) Put(ctx context.Context, path string, body []byte, headers map[string]string) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, headers)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// Close releases the pooled connections.
func (c *Client) Close() error {
	c.transport.CloseIdleConnections()
	return nil
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, body []byte, headers map[string]string) ([]byte, error) {
	u := c.endpoint(path, params)
	var rawBody interface{}
	if body != nil {
		rawBody = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rawBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authHeader != "" {
		req.Header.Set("Authorization", c.authHeader)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("request", "method", method, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrConnection, method, path, err)
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: reading body: %v", ErrConnection, method, path, err)
	}
	c.logger.Debug("response", "method", method, "url", u, "status", resp.StatusCode, "bytes", len(data))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(method, path, resp.StatusCode, data)
	}
	return data, nil
}
