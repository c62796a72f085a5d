package auth

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is what consumers of the provider see.
type State struct {
	User    *Profile `json:"user"`
	Loading bool     `json:"loading"`
}

// Provider keeps the current user's profile in step with a SessionSource
// for as long as it runs. Loading is true until Start has resolved the
// initial session.
type Provider struct {
	source SessionSource
	roles  RoleSource
	logger zerolog.Logger

	// serializes resolutions so states publish in event order
	resolveMu sync.Mutex

	mu          sync.RWMutex
	state       State
	subscribers map[int]func(State)
	nextID      int
	sub         Subscription
	ctx         context.Context
	cancel      context.CancelFunc
	closed      bool
}

func NewProvider(source SessionSource, roles RoleSource) *Provider {
	return &Provider{
		source:      source,
		roles:       roles,
		logger:      log.With().Str("component", "authProvider").Logger(),
		state:       State{Loading: true},
		subscribers: map[int]func(State){},
	}
}

// Start resolves the current session and subscribes to session changes.
// Initialization failures leave the provider signed out; they are logged,
// never returned.
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	p.ctx, p.cancel = context.WithCancel(context.WithoutCancel(ctx))
	p.mu.Unlock()

	p.resolveMu.Lock()
	var profile *Profile
	session, err := p.source.GetSession(ctx)
	if err != nil {
		p.logger.Error().Err(err).Msg("Auth initialization error")
	} else {
		profile = ResolveProfile(ctx, p.roles, session, p.logger)
	}
	p.publish(State{User: profile})
	p.resolveMu.Unlock()

	sub := p.source.OnAuthStateChange(p.onAuthStateChange)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	p.sub = sub
	p.mu.Unlock()
}

func (p *Provider) onAuthStateChange(event Event, session *Session) {
	p.resolveMu.Lock()
	defer p.resolveMu.Unlock()

	p.mu.RLock()
	ctx, closed := p.ctx, p.closed
	p.mu.RUnlock()
	if closed {
		return
	}

	p.logger.Debug().Str("event", string(event)).Bool("signedIn", session != nil).Msg("Auth state changed")
	p.publish(State{User: ResolveProfile(ctx, p.roles, session, p.logger)})
}

func (p *Provider) publish(state State) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.state = state
	subscribers := make([]func(State), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		subscribers = append(subscribers, fn)
	}
	p.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe calls fn on every published state. The returned func stops it.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subscribers[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.subscribers, id)
			p.mu.Unlock()
		})
	}
}

// Close unsubscribes from the session source. No state is published afterwards.
func (p *Provider) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	sub, cancel := p.sub, p.cancel
	p.sub = nil
	p.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
}
