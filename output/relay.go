package output

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/tcriess/openfire-admin/config"
)

const (
	relayTimeout = 30 * time.Second
	userAgent    = "openfire-admin/1.0"
)

// ErrRelay is wrapped by every failed delivery to the output destination.
var ErrRelay = errors.New("could not send to output destination")

type relay struct {
	destination string
	username    string
	password    string
	headers     http.Header
	client      *http.Client
}

// ParseHeader splits a "name:value" header at the first colon.
func ParseHeader(s string) (string, string, error) {
	i := strings.Index(s, ":")
	if i <= 0 {
		return "", "", fmt.Errorf("%w: invalid header %q, expected name:value", config.ErrConfiguration, s)
	}
	return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+1:]), nil
}

func newRelay(cfg config.OutputConfig) (*relay, error) {
	if cfg.Destination == "" {
		return nil, fmt.Errorf("%w: --output-destination is required when --output-format is %q", config.ErrConfiguration, config.FormatHTTP)
	}
	if !strings.HasPrefix(cfg.Destination, "http://") && !strings.HasPrefix(cfg.Destination, "https://") {
		return nil, fmt.Errorf("%w: --output-destination must be a valid HTTP/HTTPS URL", config.ErrConfiguration)
	}
	headers := http.Header{}
	for _, h := range cfg.HTTPHeaders {
		name, value, err := ParseHeader(h)
		if err != nil {
			return nil, err
		}
		headers.Set(name, value)
	}
	client := cleanhttp.DefaultClient()
	client.Timeout = relayTimeout
	return &relay{
		destination: cfg.Destination,
		username:    cfg.HTTPUsername,
		password:    cfg.HTTPPassword,
		headers:     headers,
		client:      client,
	}, nil
}

func (r *relay) send(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.destination, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelay, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", uuid.New().String())
	for name, values := range r.headers {
		req.Header[name] = values
	}
	if r.username != "" && r.password != "" {
		req.SetBasicAuth(r.username, r.password)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRelay, err)
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %d", ErrRelay, r.destination, resp.StatusCode)
	}
	return nil
}
