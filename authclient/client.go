package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Paths the upstream auth service serves, joined onto the backend base URL.
const (
	LoginPath    = "/auth/login"
	RegisterPath = "/auth/register"

	maxErrBody = 4 << 10
)

// A URLBuilder turns a path into a full URL.
// *endpoint.Resolver satisfies it.
type URLBuilder interface {
	BuildAPIURL(path string) string
}

// Credentials are what a visitor logs in with.
type Credentials struct {
	Email    string `json:"email" schema:"email" validate:"required,email"`
	Password string `json:"password" schema:"password" validate:"required"`
}

// A Registration is what a visitor signs up with.
type Registration struct {
	Name     string `json:"name,omitempty" schema:"name"`
	Email    string `json:"email" schema:"email" validate:"required,email"`
	Password string `json:"password" schema:"password" validate:"required"`
}

// A Session is what the auth service issues on login.
// Expire is kept as sent; a JSON number is kept as its literal text.
type Session struct {
	Token  string
	Expire string
}

// A Client talks to the auth routes.
type Client struct {
	urls URLBuilder
	http *http.Client
}

// An Option configures a *Client.
type Option func(*Client)

// WithHTTPClient sets the *http.Client requests go through.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

// New constructs a *Client resolving URLs with urls.
func New(urls URLBuilder, opts ...Option) *Client {
	c := &Client{urls: urls, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Login exchanges creds for a Session.
func (c *Client) Login(ctx context.Context, creds Credentials) (Session, error) {
	body, err := c.post(ctx, LoginPath, creds)
	if err != nil {
		return Session{}, err
	}

	var payload struct {
		Token  string          `json:"token"`
		Expire json.RawMessage `json:"expire"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return Session{}, fmt.Errorf("%w: %s", ErrMissingToken, err)
	}

	if payload.Token == "" {
		return Session{}, fmt.Errorf("%w", ErrMissingToken)
	}

	return Session{Token: payload.Token, Expire: rawString(payload.Expire)}, nil
}

// Register creates an account for reg.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	_, err := c.post(ctx, RegisterPath, reg)
	return err
}

func (c *Client) post(ctx context.Context, path string, in any) ([]byte, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.urls.BuildAPIURL(path), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrBody))
		return nil, &StatusError{Code: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}

	return body, nil
}

// rawString unquotes a JSON string or returns any other literal as is.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	if t := strings.TrimSpace(string(raw)); t != "null" {
		return t
	}

	return ""
}
