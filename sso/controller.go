// Package sso delegates authentication to an external identity provider via
// redirect and completes the flow when the provider returns an authorization
// code.
package sso

import (
	"context"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/logger"
)

// State is the flow's lifecycle state.
type State int

const (
	StateIdle State = iota
	StateRedirecting
	StateCallbackReceived
	StateAuthenticated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRedirecting:
		return "redirecting"
	case StateCallbackReceived:
		return "callback_received"
	case StateAuthenticated:
		return "authenticated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAuthorizationCodeNotFound is returned for a callback carrying neither a
// code nor a provider error.
var ErrAuthorizationCodeNotFound = errors.New("authorization code not found")

// ErrExchangeInFlight is returned when a second, different callback arrives
// while an exchange is still running.
var ErrExchangeInFlight = errors.New("an authorization exchange is already in flight")

// Navigator performs the external redirect. The web app navigates the
// browser; the CLI opens the system browser.
type Navigator interface {
	Navigate(url string) error
}

type backend interface {
	SSOAuthorizeURL(ctx context.Context, req api.SSORequest) (*api.SSOAuthorization, error)
	ExchangeSSOCode(ctx context.Context, code, state string) (*api.Session, error)
}

type sessionAcceptor interface {
	AcceptExternal(ctx context.Context, user *api.User)
}

// Options select which SSO connection handles the login.
type Options struct {
	OrganizationID string
	ConnectionID   string
	LoginHint      string
	RedirectURI    string
}

// Controller drives the SSO flow: Idle → Redirecting → CallbackReceived →
// Authenticated | Failed.
type Controller struct {
	backend  backend
	nav      Navigator
	sessions sessionAcceptor
	log      zerolog.Logger

	mu            sync.Mutex
	state         State
	lastErr       error
	expectedState string
	inFlight      bool
	results       map[string]error
}

// NewController creates an idle controller. Completed exchanges update the
// session store via the acceptor.
func NewController(backend backend, nav Navigator, sessions sessionAcceptor) *Controller {
	return &Controller{
		backend:  backend,
		nav:      nav,
		sessions: sessions,
		log:      logger.Get().With().Str("component", "sso").Logger(),
		state:    StateIdle,
		results:  map[string]error{},
	}
}

// Initiate requests an authorization URL and navigates to it. On failure the
// error is returned and no navigation happens.
func (c *Controller) Initiate(ctx context.Context, opts Options) error {
	auth, err := c.backend.SSOAuthorizeURL(ctx, api.SSORequest{
		OrganizationID: opts.OrganizationID,
		ConnectionID:   opts.ConnectionID,
		LoginHint:      opts.LoginHint,
		State:          uuid.NewString(),
		RedirectURI:    opts.RedirectURI,
	})
	if err != nil {
		return errors.WithMessage(err, "failed to get authorization URL")
	}

	c.mu.Lock()
	c.state = StateRedirecting
	c.expectedState = auth.State
	c.mu.Unlock()

	return c.nav.Navigate(auth.URL)
}

// HandleCallback completes the flow from the provider's redirect-back query
// parameters. A provider-reported error or a missing code fails the flow
// without a code exchange. The exchange runs at most once per distinct
// callback: re-invocation with the same query returns the first outcome.
func (c *Controller) HandleCallback(ctx context.Context, query url.Values) error {
	key := query.Encode()

	c.mu.Lock()
	if result, seen := c.results[key]; seen {
		c.mu.Unlock()
		return result
	}
	if c.inFlight {
		c.mu.Unlock()
		return ErrExchangeInFlight
	}
	c.inFlight = true
	c.state = StateCallbackReceived
	expected := c.expectedState
	c.mu.Unlock()

	result := c.complete(ctx, query, expected)

	c.mu.Lock()
	c.inFlight = false
	c.results[key] = result
	c.lastErr = result
	if result == nil {
		c.state = StateAuthenticated
	} else {
		c.state = StateFailed
	}
	c.mu.Unlock()

	return result
}

func (c *Controller) complete(ctx context.Context, query url.Values, expectedState string) error {
	// Provider-reported failure, e.g. the user denied consent. Never attempt
	// an exchange for these.
	if providerErr := query.Get("error"); providerErr != "" {
		message := query.Get("error_description")
		if message == "" {
			message = providerErr
		}
		c.log.Warn().Str("error", providerErr).Msg("identity provider reported an SSO failure")
		return errors.New(message)
	}

	code := query.Get("code")
	if code == "" {
		return ErrAuthorizationCodeNotFound
	}

	state := query.Get("state")
	if expectedState != "" && state != expectedState {
		return errors.New("state parameter mismatch")
	}

	sess, err := c.backend.ExchangeSSOCode(ctx, code, state)
	if err != nil {
		return errors.WithMessage(err, "authorization code exchange failed")
	}

	c.sessions.AcceptExternal(ctx, &sess.User)
	return nil
}

// State returns the flow's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure of the last completed callback, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
