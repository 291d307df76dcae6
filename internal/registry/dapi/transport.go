package dapi

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// URLLive is the production registry endpoint.
	URLLive = "https://huregxml.nic.hu/servlet/api"

	// URLTest is the registry's tryout endpoint.
	URLTest = "https://huregx.nic.hu:444/servlet/api"

	// DefaultTimeout bounds a single request-response round trip.
	DefaultTimeout = 30 * time.Second

	// FormField is the name of the form field carrying the request document.
	FormField = "command"

	userAgent = "DRR Go kliens"
)

// Transport delivers a serialised request document to endpoint and returns
// the raw response body.
type Transport interface {
	Send(ctx context.Context, endpoint string, document []byte) ([]byte, error)
}

// TransportConfig configures the HTTP transport.
type TransportConfig struct {
	// Timeout bounds the whole round trip. Zero means DefaultTimeout.
	Timeout time.Duration

	// ProxyURL routes requests through an HTTP proxy when non-empty.
	// A missing scheme defaults to http.
	ProxyURL string

	// ProxyAuth holds proxy credentials as "user:password".
	ProxyAuth string

	// VerifyPeer enables TLS certificate verification. The registry
	// endpoints are used with verification disabled by default.
	VerifyPeer bool
}

// HTTPTransport posts request documents as a single urlencoded form field.
type HTTPTransport struct {
	client    *http.Client
	transport *http.Transport
}

// NewHTTPTransport builds an HTTPTransport from cfg.
func NewHTTPTransport(cfg TransportConfig) (*HTTPTransport, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !cfg.VerifyPeer, // #nosec G402 -- registry endpoints are used without peer verification
		},
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 2,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}

	if cfg.ProxyURL != "" {
		proxy, err := parseProxyURL(cfg.ProxyURL, cfg.ProxyAuth)
		if err != nil {
			return nil, err
		}
		transport.Proxy = http.ProxyURL(proxy)
	} else {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &HTTPTransport{client: client, transport: transport}, nil
}

// Send posts document to endpoint and returns the full response body.
func (t *HTTPTransport) Send(ctx context.Context, endpoint string, document []byte) ([]byte, error) {
	form := url.Values{FormField: {string(document)}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	return body, nil
}

// Close releases idle connections held by the transport.
func (t *HTTPTransport) Close() error {
	t.transport.CloseIdleConnections()
	return nil
}

// HTTPStatusError reports a non-2xx HTTP response from the endpoint.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// Temporary reports whether the status indicates a server-side failure that
// may clear on its own.
func (e *HTTPStatusError) Temporary() bool {
	return e.StatusCode >= 500
}

func parseProxyURL(raw, auth string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %q: %w", raw, err)
	}
	if auth != "" {
		user, pass, hasPass := strings.Cut(auth, ":")
		if hasPass {
			u.User = url.UserPassword(user, pass)
		} else {
			u.User = url.User(user)
		}
	}
	return u, nil
}
