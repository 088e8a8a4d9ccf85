package pushover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// Endpoint is the Pushover message API.
const Endpoint = "http://api.pushover.net/1/messages.json"

// Client sends messages on behalf of one Pushover application token.
// It is safe for concurrent use.
type Client struct {
	token      string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. to set a timeout.
// A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithEndpoint points the client at a different URL. Used by tests.
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// WithLogger enables diagnostic logging on the send path.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "PushoverClient")
		}
	}
}

func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		token:      token,
		endpoint:   Endpoint,
		httpClient: &http.Client{},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts msg once. The message is taken by value, so the caller's copy
// keeps whatever Token it had; the client's own token is always used on the wire.
//
// A non-200 answer is reported as KindRejectedByServer, anything that stops
// the exchange (including ctx being done) as KindTransport. Both come back as
// *SendError; only a failure to encode msg is returned as a plain error.
func (c *Client) Send(ctx context.Context, msg Message) error {
	msg.Token = c.token

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal pushover message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return transport(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Pushover transport failed", "user", msg.User, "err", err)
		return transport(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Pushover rejected message", "user", msg.User, "status", resp.StatusCode)
		return rejected(resp.StatusCode)
	}

	c.logger.Debug("Pushover message sent", "user", msg.User)
	return nil
}
