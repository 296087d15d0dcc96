package at

import (
	"time"

	"go.uber.org/zap"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithTimeout sets the default duration Exec waits for a final result
// code, for commands that do not implement Timeouter. It applies in
// addition to any deadline the caller's context carries.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

// WithLogger attaches a structured logger. Without this option the Client
// logs nothing.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = l }
}

// WithUrcBuffer sets the per-subscriber buffer capacity used by
// Subscribe. The default is 4.
func WithUrcBuffer(n int) Option {
	return func(c *Client) { c.urcBuffer = n }
}
