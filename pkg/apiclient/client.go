// Package apiclient provides an HTTP client that transparently refreshes
// an expired access token and retries the failed request once.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/saurabhtripathi7/mediqueue/pkg/session"
)

// ErrSessionExpired is returned when the refresh exchange fails for any
// reason. The session has been cleared and the user must log in again.
var ErrSessionExpired = errors.New("session expired, login required")

const refreshPath = "/api/v1/auth/refresh"

// refreshResponse mirrors the token pair returned by the refresh endpoint.
type refreshResponse struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}

// Client wraps an http.Client, attaching the session's access token to
// every request. A 401 response triggers one refresh exchange and one
// retry of the original request; concurrent 401s share a single refresh.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	refreshSF  singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client talking to baseURL with tokens from sess.
func New(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		session: sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session exposes the session backing this client.
func (c *Client) Session() *session.Session {
	return c.session
}

// Do sends the request, attaching the current access token. On a 401 it
// refreshes the token pair and replays the request exactly once; the
// response of the replay is returned as-is, even if it is another 401.
// Requests with a body must have GetBody set (http.NewRequest does this
// for the common body types) or the retry fails.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	accessUsed := c.session.AccessToken()
	if accessUsed != "" {
		req.Header.Set("Authorization", "Bearer "+accessUsed)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	refreshToken := c.session.RefreshToken()
	if refreshToken == "" {
		resp.Body.Close()
		c.session.Clear()
		return nil, ErrSessionExpired
	}

	if err := c.refreshTokens(req.Context(), accessUsed, refreshToken); err != nil {
		resp.Body.Close()
		return nil, err
	}

	retry, err := cloneRequest(req)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	resp.Body.Close()

	retry.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	return c.httpClient.Do(retry)
}

// Get issues a GET request against the API.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// PostJSON issues a POST request with a JSON body against the API.
func (c *Client) PostJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.Do(req)
}

// refreshTokens runs the refresh exchange. Concurrent callers holding the
// same refresh token join a single in-flight exchange; each caller that
// joined sees the same outcome. Any failure clears the session.
func (c *Client) refreshTokens(ctx context.Context, accessUsed, refreshToken string) error {
	_, err, _ := c.refreshSF.Do(refreshToken, func() (any, error) {
		// A concurrent caller may have already rotated the pair; the 401 was
		// earned by a token that is no longer the session's.
		if c.session.AccessToken() != accessUsed {
			return nil, nil
		}
		return nil, c.doRefresh(ctx, refreshToken)
	})
	if err != nil {
		c.session.Clear()
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	return nil
}

func (c *Client) doRefresh(ctx context.Context, refreshToken string) error {
	payload, err := json.Marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}

	var result refreshResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	c.session.SetTokens(result.AccessToken, result.AccessTokenExpiry, result.RefreshToken, result.RefreshTokenExpiry)
	return nil
}

// cloneRequest copies req for a retry, re-sending the body via GetBody.
func cloneRequest(req *http.Request) (*http.Request, error) {
	retry := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return retry, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("cannot retry request without GetBody")
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("rewind request body: %w", err)
	}
	retry.Body = body
	return retry, nil
}
