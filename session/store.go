// Package session holds the authenticated identity and its lifecycle. The
// Store mirrors the identity provider's view of the current user, fans state
// changes out to subscribers synchronously, and owns the durable-state
// clearing that must accompany a sign-out.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/relaygate/relay/api"
	"github.com/relaygate/relay/logger"
	"github.com/relaygate/relay/storage"
)

// State is the session lifecycle state. Identity must be treated as unknown
// only while StateInitializing.
type State int

const (
	StateInitializing State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// EventType classifies an identity-provider session event.
type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventTokenRefreshed EventType = "TOKEN_REFRESHED"
)

// Event is a session-change notification pushed by the identity provider.
type Event struct {
	Type EventType
	User *api.User
}

// Provider is the identity-provider collaborator. *client.Client satisfies it.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*api.Session, error)
	SignUp(ctx context.Context, email, password string) (*api.Session, error)
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, spec api.UserPatchSpec) (*api.User, error)
	WhoAmI(ctx context.Context) (*api.User, error)
}

// EventSource is implemented by providers that push session-change events.
type EventSource interface {
	SubscribeSessionEvents(handler func(Event)) (unsubscribe func())
}

// Handler observes session state changes.
type Handler func(State, *api.User)

// Store exposes the current authenticated identity and identity-lifecycle
// operations. Handlers are invoked synchronously, in registration order, on
// every state change.
type Store struct {
	provider Provider
	store    *storage.Store
	log      zerolog.Logger

	mu          sync.Mutex
	state       State
	user        *api.User
	subs        map[int]Handler
	order       []int
	nextSub     int
	onSignedIn  func(context.Context)
	onSignedOut func()
	unsubscribe func()
}

// NewStore creates a session store backed by the given identity provider and
// durable storage.
func NewStore(provider Provider, store *storage.Store) *Store {
	return &Store{
		provider: provider,
		store:    store,
		log:      logger.Get().With().Str("component", "session").Logger(),
		state:    StateInitializing,
		subs:     map[int]Handler{},
	}
}

// OnSignedIn registers the hook run after every transition to authenticated,
// e.g. the organization directory load.
func (s *Store) OnSignedIn(hook func(context.Context)) {
	s.mu.Lock()
	s.onSignedIn = hook
	s.mu.Unlock()
}

// OnSignedOut registers the hook run after every transition to anonymous,
// e.g. resetting the organization directory and selection.
func (s *Store) OnSignedOut(hook func()) {
	s.mu.Lock()
	s.onSignedOut = hook
	s.mu.Unlock()
}

// Subscribe registers a handler for state changes and returns its
// unsubscribe function.
func (s *Store) Subscribe(handler Handler) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = handler
	s.order = append(s.order, id)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// User returns the current identity, or nil when anonymous or initializing.
func (s *Store) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Start resolves the initial session. The identity-provider event listener is
// established before the initial fetch is awaited, so no event occurring
// during startup is missed; the fetch result is discarded if an event has
// already settled the state.
func (s *Store) Start(ctx context.Context) {
	if src, ok := s.provider.(EventSource); ok {
		unsub := src.SubscribeSessionEvents(s.handleEvent)
		s.mu.Lock()
		s.unsubscribe = unsub
		s.mu.Unlock()
	}

	user, err := s.provider.WhoAmI(ctx)

	s.mu.Lock()
	if s.state != StateInitializing {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if err != nil || user == nil {
		s.transition(StateAnonymous, nil)
		return
	}
	s.transition(StateAuthenticated, user)
	s.runSignedInHook(ctx)
}

// Close drops the provider event subscription, if any.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// SignIn authenticates with email and password.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return errors.WithMessage(err, "sign-in failed")
	}
	s.transition(StateAuthenticated, &sess.User)
	s.runSignedInHook(ctx)
	return nil
}

// SignUp registers a new account and signs it in.
func (s *Store) SignUp(ctx context.Context, email, password string) error {
	sess, err := s.provider.SignUp(ctx, email, password)
	if err != nil {
		return errors.WithMessage(err, "sign-up failed")
	}
	s.transition(StateAuthenticated, &sess.User)
	s.runSignedInHook(ctx)
	return nil
}

// SignOut ends the session. Local session-scoped state is cleared even when
// the provider call fails.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.provider.SignOut(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("provider sign-out failed; clearing local session anyway")
	}
	s.clearSession()
	return err
}

// ResetPassword requests a password-reset email.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	return s.provider.ResetPassword(ctx, email)
}

// UpdateProfile patches the current user's editable fields.
func (s *Store) UpdateProfile(ctx context.Context, spec api.UserPatchSpec) error {
	user, err := s.provider.UpdateProfile(ctx, spec)
	if err != nil {
		return err
	}
	s.transition(StateAuthenticated, user)
	return nil
}

// AcceptExternal records an identity established outside the password flow,
// e.g. a completed SSO exchange.
func (s *Store) AcceptExternal(ctx context.Context, user *api.User) {
	s.transition(StateAuthenticated, user)
	s.runSignedInHook(ctx)
}

func (s *Store) handleEvent(evt Event) {
	switch evt.Type {
	case EventSignedIn, EventTokenRefreshed:
		s.transition(StateAuthenticated, evt.User)
	case EventSignedOut:
		s.clearSession()
	}
}

// clearSession clears every durable entry keyed to the session and resets the
// in-memory identity.
func (s *Store) clearSession() {
	if err := s.store.Delete(storage.SessionKeys...); err != nil {
		s.log.Error().Err(err).Msg("failed to clear session state")
	}

	s.transition(StateAnonymous, nil)

	s.mu.Lock()
	hook := s.onSignedOut
	s.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (s *Store) runSignedInHook(ctx context.Context) {
	s.mu.Lock()
	hook := s.onSignedIn
	s.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
}

func (s *Store) transition(state State, user *api.User) {
	s.mu.Lock()
	s.state = state
	s.user = user
	handlers := make([]Handler, 0, len(s.order))
	for _, id := range s.order {
		if h, ok := s.subs[id]; ok {
			handlers = append(handlers, h)
		}
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(state, user)
	}
}
