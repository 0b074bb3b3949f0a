package sso

import (
	"context"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaygate/relay/api"
)

type fakeBackend struct {
	authorizeErr  error
	authorization *api.SSOAuthorization
	exchangeErr   error
	exchanges     int
	lastCode      string
}

func (b *fakeBackend) SSOAuthorizeURL(ctx context.Context, req api.SSORequest) (*api.SSOAuthorization, error) {
	if b.authorizeErr != nil {
		return nil, b.authorizeErr
	}
	if b.authorization != nil {
		return b.authorization, nil
	}
	return &api.SSOAuthorization{URL: "https://idp.example.com/authorize", State: req.State}, nil
}

func (b *fakeBackend) ExchangeSSOCode(ctx context.Context, code, state string) (*api.Session, error) {
	b.exchanges++
	b.lastCode = code
	if b.exchangeErr != nil {
		return nil, b.exchangeErr
	}
	return &api.Session{Token: "tok", User: api.User{ID: "usr-1"}}, nil
}

type fakeNavigator struct {
	visited []string
	err     error
}

func (n *fakeNavigator) Navigate(u string) error {
	if n.err != nil {
		return n.err
	}
	n.visited = append(n.visited, u)
	return nil
}

type fakeAcceptor struct {
	users []*api.User
}

func (a *fakeAcceptor) AcceptExternal(ctx context.Context, user *api.User) {
	a.users = append(a.users, user)
}

func TestInitiateNavigates(t *testing.T) {
	nav := &fakeNavigator{}
	c := NewController(&fakeBackend{}, nav, &fakeAcceptor{})

	require.NoError(t, c.Initiate(context.Background(), Options{OrganizationID: "org-1"}))
	assert.Equal(t, StateRedirecting, c.State())
	assert.Equal(t, []string{"https://idp.example.com/authorize"}, nav.visited)
}

func TestInitiateFailureDoesNotNavigate(t *testing.T) {
	nav := &fakeNavigator{}
	c := NewController(&fakeBackend{authorizeErr: errors.New("no connection")}, nav, &fakeAcceptor{})

	err := c.Initiate(context.Background(), Options{})
	require.Error(t, err)
	assert.Empty(t, nav.visited)
	assert.Equal(t, StateIdle, c.State())
}

func TestCallbackSuccess(t *testing.T) {
	backend := &fakeBackend{}
	acceptor := &fakeAcceptor{}
	c := NewController(backend, &fakeNavigator{}, acceptor)

	query := url.Values{"code": {"abc123"}}
	require.NoError(t, c.HandleCallback(context.Background(), query))

	assert.Equal(t, StateAuthenticated, c.State())
	assert.Equal(t, 1, backend.exchanges)
	assert.Equal(t, "abc123", backend.lastCode)
	require.Len(t, acceptor.users, 1)
	assert.Equal(t, "usr-1", acceptor.users[0].ID)
}

func TestCallbackProviderErrorSkipsExchange(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend, &fakeNavigator{}, &fakeAcceptor{})

	query := url.Values{
		"error":             {"access_denied"},
		"error_description": {"User denied consent"},
	}
	err := c.HandleCallback(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, "User denied consent", err.Error())
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, 0, backend.exchanges, "provider error must short-circuit the exchange")
}

func TestCallbackMissingCode(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend, &fakeNavigator{}, &fakeAcceptor{})

	err := c.HandleCallback(context.Background(), url.Values{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthorizationCodeNotFound)
	assert.Equal(t, StateFailed, c.State())
	assert.Equal(t, 0, backend.exchanges)
}

func TestCallbackStateMismatch(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend, &fakeNavigator{}, &fakeAcceptor{})

	require.NoError(t, c.Initiate(context.Background(), Options{}))

	query := url.Values{"code": {"abc"}, "state": {"forged"}}
	err := c.HandleCallback(context.Background(), query)
	require.Error(t, err)
	assert.Equal(t, 0, backend.exchanges)
}

// A remount re-delivering the same callback query must not re-run the
// exchange.
func TestCallbackIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	c := NewController(backend, &fakeNavigator{}, &fakeAcceptor{})

	query := url.Values{"code": {"abc123"}}
	require.NoError(t, c.HandleCallback(context.Background(), query))
	require.NoError(t, c.HandleCallback(context.Background(), query))

	assert.Equal(t, 1, backend.exchanges)
}

func TestCallbackExchangeFailure(t *testing.T) {
	backend := &fakeBackend{exchangeErr: errors.New("code expired")}
	acceptor := &fakeAcceptor{}
	c := NewController(backend, &fakeNavigator{}, acceptor)

	err := c.HandleCallback(context.Background(), url.Values{"code": {"old"}})
	require.Error(t, err)
	assert.Equal(t, StateFailed, c.State())
	assert.Empty(t, acceptor.users, "identity must not change on a failed exchange")

	// The failure is replayed, not retried, for the same callback.
	again := c.HandleCallback(context.Background(), url.Values{"code": {"old"}})
	assert.Equal(t, err, again)
	assert.Equal(t, 1, backend.exchanges)
}
