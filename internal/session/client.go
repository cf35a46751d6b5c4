package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"vcmd/internal/metrics"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultRequestTimeout bounds every API call.
	DefaultRequestTimeout = 10 * time.Second

	// DefaultRefreshInterval is how often the background refresher renews a held authkey.
	DefaultRefreshInterval = 50 * time.Second

	authPath = "/u/auth"

	// refreshKey deduplicates concurrent reauthenticate calls.
	refreshKey = "reauthenticate"
)

// Operation names used in errors and metrics.
const (
	OpAuthenticate   = "authenticate"
	OpReauthenticate = "reauthenticate"
	OpDeauthenticate = "deauthenticate"
)

// expiryLayout is the human-readable expiry format used in log lines.
const expiryLayout = "2006-01-02 15:04:05 MST"

// Logger is the console sink the client reports to. Debug carries request and
// response details, Info and Error carry operation outcomes.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type authRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authkeyRequest struct {
	Authkey string `json:"authkey"`
}

// Client holds the single authkey for one API endpoint and keeps it alive
// with a background refresher started by New.
//
// Credential transitions are serialized by mu; HTTP calls run without it.
// A refresh only writes its result if the slot still holds the credential it
// started from, so a concurrent Deauthenticate or Authenticate always wins.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     Logger
	metrics    *metrics.Recorder

	mu         sync.Mutex
	credential *Credential

	refreshGroup    singleflight.Group
	refreshInterval time.Duration
	refresher       *refresher
	closeOnce       sync.Once
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the console sink. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client. Its Timeout is overridden by the
// request timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestTimeout sets the per-call timeout.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRefreshInterval sets the background refresh interval.
func WithRefreshInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.refreshInterval = d
		}
	}
}

// WithMetrics records requests and operation outcomes on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = r
	}
}

// New creates a client for the API at baseURL (for example
// "http://localhost:8090") and starts its background refresher. Call Close to
// stop the refresher and revoke a held session.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:         strings.TrimSuffix(baseURL, "/"),
		httpClient:      &http.Client{},
		timeout:         DefaultRequestTimeout,
		logger:          nopLogger{},
		refreshInterval: DefaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Timeout = c.timeout

	c.refresher = newRefresher(c, c.refreshInterval)
	go c.refresher.run()

	return c, nil
}

// Endpoint returns the API base URL.
func (c *Client) Endpoint() string {
	return c.baseURL
}

// Credential returns the held authkey, or ErrNoSession.
func (c *Client) Credential() (Credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.credential == nil {
		return Credential{}, ErrNoSession
	}
	return *c.credential, nil
}

// Authenticated reports whether an authkey is currently held.
func (c *Client) Authenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.credential != nil
}

// Authenticate logs in with username and password. On success the returned
// credential replaces any held one. On failure the held credential is left
// untouched and nothing is logged.
func (c *Client) Authenticate(ctx context.Context, username, password string, verbose bool) (Credential, error) {
	res, err := c.send(ctx, http.MethodPost, authPath, authRequest{Username: username, Password: password}, verbose)
	if err != nil {
		c.metrics.ObserveOperation(OpAuthenticate, metrics.ResultError)
		return Credential{}, err
	}
	if res.StatusCode != http.StatusOK {
		c.metrics.ObserveOperation(OpAuthenticate, metrics.ResultRejected)
		return Credential{}, newAPIError(OpAuthenticate, res)
	}

	cred, err := credentialFromBody(res.Body)
	if err != nil {
		c.metrics.ObserveOperation(OpAuthenticate, metrics.ResultError)
		return Credential{}, fmt.Errorf("%s: %w", OpAuthenticate, err)
	}

	c.mu.Lock()
	c.setCredentialLocked(&cred)
	c.mu.Unlock()

	c.metrics.ObserveOperation(OpAuthenticate, metrics.ResultSuccess)
	if verbose {
		c.logger.Info("Authenticated with authkey %s, expires %s", cred.Token, cred.Expires.Local().Format(expiryLayout))
	}
	return cred, nil
}

// Reauthenticate exchanges the held authkey for a fresh one. Without a held
// authkey it returns ErrNoSession and makes no request. Any failure, whether a
// rejection, a network error or a malformed answer, drops the session.
//
// Concurrent calls share a single request. A caller that joins a refresh
// already in flight gets that refresh's result: the request and response
// lines follow the first caller's verbose flag, and the request runs under the
// first caller's context. The outcome line follows each caller's own flag.
func (c *Client) Reauthenticate(ctx context.Context, verbose bool) (Credential, error) {
	if !c.Authenticated() {
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultNoSession)
		if verbose {
			c.logger.Debug("No authkey held, nothing to reauthenticate")
		}
		return Credential{}, ErrNoSession
	}

	v, err, _ := c.refreshGroup.Do(refreshKey, func() (interface{}, error) {
		return c.reauthenticate(ctx, verbose)
	})
	if err != nil {
		return Credential{}, err
	}

	cred := v.(Credential)
	if verbose {
		c.logger.Info("Reauthenticated with authkey %s, expires %s", cred.Token, cred.Expires.Local().Format(expiryLayout))
	}
	return cred, nil
}

func (c *Client) reauthenticate(ctx context.Context, verbose bool) (Credential, error) {
	c.mu.Lock()
	held := c.credential
	c.mu.Unlock()

	if held == nil {
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultNoSession)
		return Credential{}, ErrNoSession
	}

	res, err := c.send(ctx, http.MethodPatch, authPath, authkeyRequest{Authkey: held.Token}, verbose)
	if err != nil {
		c.dropIfCurrent(held)
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultError)
		return Credential{}, err
	}
	if res.StatusCode != http.StatusOK {
		c.dropIfCurrent(held)
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultRejected)
		return Credential{}, newAPIError(OpReauthenticate, res)
	}

	cred, err := credentialFromBody(res.Body)
	if err != nil {
		c.dropIfCurrent(held)
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultError)
		return Credential{}, fmt.Errorf("%s: %w", OpReauthenticate, err)
	}

	c.mu.Lock()
	replaced := c.credential == held
	if replaced {
		c.setCredentialLocked(&cred)
	}
	c.mu.Unlock()

	if !replaced {
		// The session ended or was replaced while the refresh was in flight.
		// The freshly issued key belongs to nobody, so hand it back even if
		// ctx was cancelled meanwhile. The client timeout still bounds it.
		c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultNoSession)
		c.revoke(context.WithoutCancel(ctx), cred.Token, false)
		return Credential{}, fmt.Errorf("%w: session changed during refresh", ErrNoSession)
	}

	c.metrics.ObserveOperation(OpReauthenticate, metrics.ResultSuccess)
	return cred, nil
}

// Deauthenticate drops the held authkey and asks the server to revoke it. The
// local session is cleared before the request is sent and regardless of its
// outcome. Without a held authkey it is a no-op.
func (c *Client) Deauthenticate(ctx context.Context, verbose bool) {
	held := c.takeCredential()
	if held == nil {
		if verbose {
			c.logger.Debug("No authkey held, nothing to deauthenticate")
		}
		return
	}

	c.revoke(ctx, held.Token, verbose)
	c.metrics.ObserveOperation(OpDeauthenticate, metrics.ResultSuccess)
	if verbose {
		c.logger.Info("Deauthenticated")
	}
}

// Close stops the background refresher and revokes a held authkey. It is safe
// to call more than once.
func (c *Client) Close(ctx context.Context) {
	c.closeOnce.Do(func() {
		// Empty the slot first: stopping the refresher cancels an in-flight
		// refresh, and its failure must not discard the key before it is revoked.
		held := c.takeCredential()
		c.refresher.stop()
		if held == nil {
			return
		}
		c.revoke(ctx, held.Token, false)
		c.metrics.ObserveOperation(OpDeauthenticate, metrics.ResultSuccess)
	})
}

// takeCredential empties the slot and returns what it held.
func (c *Client) takeCredential() *Credential {
	c.mu.Lock()
	defer c.mu.Unlock()
	held := c.credential
	c.setCredentialLocked(nil)
	return held
}

// revoke sends a DELETE for token. The outcome only shows up in verbose logs.
func (c *Client) revoke(ctx context.Context, token string, verbose bool) {
	res, err := c.send(ctx, http.MethodDelete, authPath, authkeyRequest{Authkey: token}, verbose)
	if !verbose {
		return
	}
	switch {
	case err != nil:
		c.logger.Debug("Revoking authkey failed, dropped locally: %v", err)
	case res.StatusCode != http.StatusOK:
		c.logger.Debug("Revoking authkey failed, dropped locally: %v", newAPIError(OpDeauthenticate, res))
	}
}

// dropIfCurrent clears the slot if it still holds held.
func (c *Client) dropIfCurrent(held *Credential) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.credential == held {
		c.setCredentialLocked(nil)
	}
}

// setCredentialLocked replaces the slot. c.mu must be held.
func (c *Client) setCredentialLocked(cred *Credential) {
	c.credential = cred
	c.metrics.SetAuthenticated(cred != nil)
}
