package auth

import (
	"context"
	"sync"
)

// SessionStore is an in-process SessionSource holding at most one session.
// Sessions enter it by signing in with an access token.
type SessionStore struct {
	verifier *Verifier

	mu        sync.Mutex
	session   *Session
	listeners map[int]func(Event, *Session)
	nextID    int
}

func NewSessionStore(verifier *Verifier) *SessionStore {
	return &SessionStore{
		verifier:  verifier,
		listeners: map[int]func(Event, *Session){},
	}
}

func (s *SessionStore) GetSession(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil && s.session.Expired(s.verifier.now()) {
		s.session = nil
	}
	return s.session, nil
}

// SignIn verifies token and makes it the current session.
func (s *SessionStore) SignIn(token string) (*Session, error) {
	session, _, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	s.publish(EventSignedIn, session)
	return session, nil
}

// Refresh replaces the current session's token with a newer one for the
// same user; a token for another user is treated as a new sign in.
func (s *SessionStore) Refresh(token string) (*Session, error) {
	session, _, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}

	event := EventTokenRefreshed
	s.mu.Lock()
	if s.session == nil || s.session.User.ID != session.User.ID {
		event = EventSignedIn
	}
	s.mu.Unlock()

	s.publish(event, session)
	return session, nil
}

// UpdateUser replaces the user metadata of the current session.
func (s *SessionStore) UpdateUser(metadata map[string]any) {
	s.mu.Lock()
	if s.session == nil {
		s.mu.Unlock()
		return
	}
	updated := *s.session
	updated.User.UserMetadata = metadata
	s.mu.Unlock()

	s.publish(EventUserUpdated, &updated)
}

func (s *SessionStore) SignOut() {
	s.publish(EventSignedOut, nil)
}

// OnAuthStateChange registers fn for every later change. Like the hosted
// client, it first reports the current session as INITIAL_SESSION.
func (s *SessionStore) OnAuthStateChange(fn func(Event, *Session)) Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.session
	s.mu.Unlock()

	fn(EventInitialSession, current)
	return &storeSubscription{store: s, id: id}
}

// publish stores session and calls listeners outside the lock, so they may
// call back into the store.
func (s *SessionStore) publish(event Event, session *Session) {
	s.mu.Lock()
	s.session = session
	listeners := make([]func(Event, *Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(event, session)
	}
}

type storeSubscription struct {
	store *SessionStore
	id    int
	once  sync.Once
}

func (s *storeSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.store.mu.Lock()
		delete(s.store.listeners, s.id)
		s.store.mu.Unlock()
	})
}
