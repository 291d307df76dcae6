package dapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"syscall"
	"time"

	"nathanbeddoewebdev/hureg/internal/registry/domain"
)

// AckSignatureOK is the registry's default acknowledgement text. It is also
// the message of an otherwise empty lookup result.
const AckSignatureOK = "PGP aláírás helyes"

// Credentials authenticate the registrar. KeyID, Passphrase and KeyStore
// configure the signing key.
type Credentials struct {
	Username   string
	Password   string
	KeyID      string
	Passphrase string
	KeyStore   string
}

// Config configures a Client.
type Config struct {
	// URL is the registry endpoint. Empty means URLLive.
	URL string

	Credentials Credentials

	Transport TransportConfig
}

// Client executes signed commands against the registry. It owns its signer
// and transport and releases them on Close. Not safe for concurrent use.
type Client struct {
	url         string
	credentials Credentials

	signer        Signer
	signerFactory SignerFactory

	transport     Transport
	transportConf TransportConfig

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithSigner installs a ready signing capability.
func WithSigner(s Signer) Option {
	return func(c *Client) { c.signer = s }
}

// WithSignerFactory sets how the signing capability is built on first use.
func WithSignerFactory(f SignerFactory) Option {
	return func(c *Client) { c.signerFactory = f }
}

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a Client for cfg. The signer is built lazily on the first
// request, so construction never touches the key store.
func New(cfg Config, opts ...Option) *Client {
	url := cfg.URL
	if url == "" {
		url = URLLive
	}
	c := &Client{
		url:           url,
		credentials:   cfg.Credentials,
		transportConf: cfg.Transport,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client talks to.
func (c *Client) URL() string { return c.url }

// Execute sends a single command and classifies the reply as a single
// result.
func (c *Client) Execute(ctx context.Context, name string, payload string, domainName string) (*Result, error) {
	return c.ExecuteBlocks(ctx, name, []string{payload}, domainName)
}

// ExecuteBlocks sends a single command carrying several ATTRIBUTES blocks.
func (c *Client) ExecuteBlocks(ctx context.Context, name string, blocks []string, domainName string) (*Result, error) {
	raw, err := c.roundTrip(ctx, name, blocks, domainName)
	if err != nil {
		return nil, err
	}
	res, err := Classify(raw, domainName)
	c.logClassified(name, domainName, err)
	return res, err
}

// ExecuteMulti sends a command whose reply may contain several rows.
func (c *Client) ExecuteMulti(ctx context.Context, name string, payload string, domainName string) ([]*CommandNode, error) {
	raw, err := c.roundTrip(ctx, name, []string{payload}, domainName)
	if err != nil {
		return nil, err
	}
	nodes, err := ClassifyMulti(raw, domainName)
	c.logClassified(name, domainName, err)
	return nodes, err
}

// Acknowledged reports whether res carries exactly the expected
// acknowledgement text, ignoring surrounding whitespace.
func Acknowledged(res *Result, expected string) bool {
	msg, ok := res.Message()
	if !ok {
		return false
	}
	return msg == expected || strings.TrimSpace(msg) == expected
}

// VerifyBasic sends the command and checks the acknowledgement text. The
// registry message is returned alongside for diagnostics.
func (c *Client) VerifyBasic(ctx context.Context, name string, blocks []string, domainName, expected string) (bool, string, error) {
	if expected == "" {
		expected = AckSignatureOK
	}
	res, err := c.ExecuteBlocks(ctx, name, blocks, domainName)
	if err != nil {
		return false, "", err
	}
	msg, _ := res.Message()
	return Acknowledged(res, expected), NormalizeMessage(msg), nil
}

// Close disposes of the transport's idle connections and drops the signer.
func (c *Client) Close() error {
	if closer, ok := c.signer.(io.Closer); ok {
		_ = closer.Close()
	}
	c.signer = nil
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, name string, blocks []string, domainName string) ([]byte, error) {
	signer, err := c.getSigner()
	if err != nil {
		return nil, err
	}
	transport, err := c.getTransport()
	if err != nil {
		return nil, domain.RequestError("invalid transport configuration", domainName, err)
	}

	cmd, err := NewCommand(name, blocks...)
	if err != nil {
		return nil, domain.InvalidArgument(err.Error(), domainName)
	}
	if err := cmd.Sign(signer); err != nil {
		return nil, domain.InternalError("failed to sign command", err)
	}

	envelope := Envelope{
		Username: c.credentials.Username,
		Password: c.credentials.Password,
		Commands: []*Command{cmd},
	}

	start := c.now()
	raw, err := transport.Send(ctx, c.url, envelope.Marshal())
	c.logger.Debug("dapi request",
		slog.String("command", name),
		slog.String("id", cmd.ID),
		slog.String("domain", domainName),
		slog.Duration("duration", c.now().Sub(start)),
	)
	if err != nil {
		reqErr := domain.RequestError("transport failure", domainName, err)
		reqErr.Code = errorCode(err)
		return nil, reqErr
	}
	return raw, nil
}

func (c *Client) getSigner() (Signer, error) {
	if c.signer != nil {
		return c.signer, nil
	}
	if c.signerFactory == nil {
		return nil, domain.InternalError("no signing capability configured", nil)
	}
	s, err := c.signerFactory()
	if err != nil {
		var regErr *domain.Error
		if errors.As(err, &regErr) {
			return nil, err
		}
		return nil, domain.InternalError("cannot initialise signing key", err)
	}
	c.signer = s
	return s, nil
}

func (c *Client) getTransport() (Transport, error) {
	if c.transport != nil {
		return c.transport, nil
	}
	t, err := NewHTTPTransport(c.transportConf)
	if err != nil {
		return nil, err
	}
	c.transport = t
	return t, nil
}

func (c *Client) logClassified(name, domainName string, err error) {
	if err == nil {
		c.logger.Debug("dapi reply", slog.String("command", name), slog.String("domain", domainName), slog.Int("status", 0))
		return
	}
	c.logger.Debug("dapi reply",
		slog.String("command", name),
		slog.String("domain", domainName),
		slog.Int("status", domain.StatusCode(err)),
		slog.String("error", err.Error()),
	)
}

// errorCode extracts an OS-level error number from err when there is one.
func errorCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	var status *HTTPStatusError
	if errors.As(err, &status) {
		return status.StatusCode
	}
	return 0
}
