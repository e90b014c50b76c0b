// SPDX-License-Identifier: MPL-2.0

// Package restconn builds the connection value object used for outbound
// HTTPS calls against the platform's services tier. It bundles validated
// credentials and the base URL; callers own their http.Client.
package restconn

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultMaxSockets caps concurrent connections per Connection unless
// overridden via WithMaxSockets.
const DefaultMaxSockets = 100

var (
	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrMissingAddress is returned when host or port is empty.
	ErrMissingAddress = errors.New("host and port are required")
)

type (
	// Connection holds validated connection material for the services tier.
	Connection struct {
		username   string
		password   string
		host       string
		port       string
		maxSockets int
	}

	// Option configures a Connection during New.
	Option func(*Connection)
)

// WithMaxSockets overrides the concurrent connection cap.
func WithMaxSockets(n int) Option {
	return func(c *Connection) {
		if n > 0 {
			c.maxSockets = n
		}
	}
}

// New validates and builds a Connection. Username/password and host/port
// must each be non-empty.
func New(username, password, host, port string, opts ...Option) (*Connection, error) {
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if host == "" || port == "" {
		return nil, ErrMissingAddress
	}

	c := &Connection{
		username:   username,
		password:   password,
		host:       host,
		port:       port,
		maxSockets: DefaultMaxSockets,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the HTTPS base URL of the services tier.
func (c *Connection) BaseURL() string {
	return fmt.Sprintf("https://%s:%s", c.host, c.port)
}

// BasicAuth returns the credential pair for basic authentication.
func (c *Connection) BasicAuth() (username, password string) {
	return c.username, c.password
}

// MaxSockets returns the concurrent connection cap.
func (c *Connection) MaxSockets() int {
	return c.maxSockets
}

// Apply sets basic-auth credentials on an outbound request.
func (c *Connection) Apply(req *http.Request) {
	req.SetBasicAuth(c.username, c.password)
}
