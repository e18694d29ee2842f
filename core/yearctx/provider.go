package yearctx

import (
	"context"
	"sync"
	"time"
)

type (
	// ChangeHook observes the selection changes of every store opened by a Provider.
	ChangeHook func(sessionID string, change Change)

	ProviderOption func(*Provider)

	// Provider owns exactly one Store per session.
	Provider struct {
		mu       sync.Mutex
		sessions map[string]*session
		clock    func() time.Time
		hooks    []ChangeHook
		idleTTL  time.Duration
	}

	session struct {
		store    *Store
		lastSeen time.Time
	}
)

// WithStoreClock sets the clock of the stores and of idle tracking.
func WithStoreClock(now func() time.Time) ProviderOption {
	return func(p *Provider) { p.clock = now }
}

// WithChangeHook subscribes hook to every store the provider opens.
func WithChangeHook(hook ChangeHook) ProviderOption {
	return func(p *Provider) {
		if hook != nil {
			p.hooks = append(p.hooks, hook)
		}
	}
}

// WithIdleTTL makes Sweep drop sessions unused for longer than ttl. Zero disables expiry.
func WithIdleTTL(ttl time.Duration) ProviderOption {
	return func(p *Provider) { p.idleTTL = ttl }
}

func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{sessions: make(map[string]*session)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) now() time.Time {
	if p.clock != nil {
		return p.clock()
	}
	return time.Now()
}

// Open returns the session's store, creating and initializing it on first use.
func (p *Provider) Open(sessionID string) *Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sess, ok := p.sessions[sessionID]; ok {
		sess.lastSeen = p.now()
		return sess.store
	}

	var opts []Option
	if p.clock != nil {
		opts = append(opts, WithClock(p.clock))
	}
	store := NewStore(opts...)
	store.Initialize()
	for _, hook := range p.hooks {
		hook := hook
		store.Subscribe(func(c Change) { hook(sessionID, c) })
	}

	p.sessions[sessionID] = &session{store: store, lastSeen: p.now()}
	return store
}

// Store returns the store of an opened session.
func (p *Provider) Store(sessionID string) (*Store, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.sessions[sessionID]
	if !ok {
		return nil, ErrOutsideProvider
	}
	sess.lastSeen = p.now()
	return sess.store, nil
}

// Close ends a session; its store is dropped with all of its subscribers.
func (p *Provider) Close(sessionID string) {
	p.mu.Lock()
	sess, ok := p.sessions[sessionID]
	delete(p.sessions, sessionID)
	p.mu.Unlock()

	if ok {
		sess.store.unsubscribeAll()
	}
}

func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sessions)
}

// Sweep closes the sessions idle since before now-ttl and returns how many were closed.
func (p *Provider) Sweep(now time.Time) int {
	if p.idleTTL <= 0 {
		return 0
	}

	p.mu.Lock()
	var expired []*session
	for id, sess := range p.sessions {
		if now.Sub(sess.lastSeen) > p.idleTTL {
			expired = append(expired, sess)
			delete(p.sessions, id)
		}
	}
	p.mu.Unlock()

	for _, sess := range expired {
		sess.store.unsubscribeAll()
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || p.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Sweep(p.now())
		}
	}
}
