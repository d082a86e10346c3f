// Package guard re-checks the admin role where admin content is rendered,
// independently of the request gate.
package guard

import (
	"context"
	"sync"

	"speakup/pkg/claims"
	"speakup/pkg/route"
)

type State int

const (
	Loading State = iota
	Denied
	Authorized
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Denied:
		return "denied"
	case Authorized:
		return "authorized"
	default:
		return "unknown"
	}
}

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

// Guard holds the outcome of the latest role check. Every SetIdentity starts
// over from Loading; completions of older checks are discarded.
type Guard struct {
	roles RoleResolver

	mu      sync.Mutex
	seq     uint64
	state   State
	changed chan struct{}
	pending sync.WaitGroup
}

func New(roles RoleResolver) *Guard {
	return &Guard{
		roles:   roles,
		state:   Loading,
		changed: make(chan struct{}),
	}
}

// SetIdentity starts a check for identity. A nil identity is denied.
func (g *Guard) SetIdentity(ctx context.Context, identity *claims.Identity) {
	g.mu.Lock()
	g.seq++
	seq := g.seq
	g.setState(Loading)
	g.mu.Unlock()

	g.pending.Add(1)
	go func() {
		defer g.pending.Done()
		g.complete(seq, g.check(ctx, identity))
	}()
}

func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Wait blocks until the current check settles or ctx is done. On ctx expiry
// the state is still Loading.
func (g *Guard) Wait(ctx context.Context) (State, error) {
	for {
		g.mu.Lock()
		state, changed := g.state, g.changed
		g.mu.Unlock()

		if state != Loading {
			return state, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return Loading, ctx.Err()
		}
	}
}

// Drain waits for every started check, current or stale, to finish.
func (g *Guard) Drain() {
	g.pending.Wait()
}

func (g *Guard) check(ctx context.Context, identity *claims.Identity) State {
	if identity == nil || identity.ID == "" {
		return Denied
	}
	role, err := g.roles.Role(ctx, identity.ID)
	if err != nil {
		return Denied
	}
	if route.Decide(true, role, route.AdminPath) == route.Allow {
		return Authorized
	}
	return Denied
}

// complete applies a finished check unless a newer one has started.
func (g *Guard) complete(seq uint64, state State) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq != g.seq {
		return false
	}
	g.setState(state)
	return true
}

// setState must be called with mu held.
func (g *Guard) setState(state State) {
	if g.state == state {
		return
	}
	g.state = state
	close(g.changed)
	g.changed = make(chan struct{})
}
