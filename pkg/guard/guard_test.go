package guard

import (
	"context"
	"errors"
	"testing"
	"time"

	"speakup/pkg/claims"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roleFunc func(ctx context.Context, userID string) (string, error)

func (f roleFunc) Role(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

func staticRoles(roles map[string]string) roleFunc {
	return func(_ context.Context, userID string) (string, error) {
		role, ok := roles[userID]
		if !ok {
			return "", errors.New("profile not found")
		}
		return role, nil
	}
}

func waitState(t *testing.T, g *Guard) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	state, err := g.Wait(ctx)
	require.NoError(t, err)
	return state
}

func TestGuardTransitions(t *testing.T) {
	roles := staticRoles(map[string]string{"admin-1": "admin", "user-1": "user", "blank": ""})

	tests := []struct {
		name     string
		identity *claims.Identity
		want     State
	}{
		{name: "admin", identity: &claims.Identity{ID: "admin-1"}, want: Authorized},
		{name: "plain user", identity: &claims.Identity{ID: "user-1"}, want: Denied},
		{name: "missing role", identity: &claims.Identity{ID: "blank"}, want: Denied},
		{name: "profile error", identity: &claims.Identity{ID: "ghost"}, want: Denied},
		{name: "no identity", identity: nil, want: Denied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(roles)
			assert.Equal(t, Loading, g.State())

			g.SetIdentity(context.Background(), tt.identity)

			assert.Equal(t, tt.want, waitState(t, g))
		})
	}
}

func TestGuardRestartsOnIdentityChange(t *testing.T) {
	release := make(chan struct{})
	roles := roleFunc(func(_ context.Context, userID string) (string, error) {
		if userID == "slow-admin" {
			<-release
			return "admin", nil
		}
		return "admin", nil
	})

	g := New(roles)
	g.SetIdentity(context.Background(), &claims.Identity{ID: "admin-1"})
	require.Equal(t, Authorized, waitState(t, g))

	g.SetIdentity(context.Background(), &claims.Identity{ID: "slow-admin"})
	assert.Equal(t, Loading, g.State())

	close(release)
	assert.Equal(t, Authorized, waitState(t, g))
	g.Drain()
}

func TestGuardSuppressesStaleCompletion(t *testing.T) {
	release := make(chan struct{})
	roles := roleFunc(func(_ context.Context, userID string) (string, error) {
		switch userID {
		case "old-admin":
			<-release
			return "admin", nil
		default:
			return "user", nil
		}
	})

	g := New(roles)
	g.SetIdentity(context.Background(), &claims.Identity{ID: "old-admin"})
	g.SetIdentity(context.Background(), &claims.Identity{ID: "new-user"})
	require.Equal(t, Denied, waitState(t, g))

	close(release)
	g.Drain()

	assert.Equal(t, Denied, g.State())
}

func TestCompleteIgnoresOlderSequence(t *testing.T) {
	g := New(staticRoles(nil))
	g.seq = 3

	assert.False(t, g.complete(2, Authorized))
	assert.Equal(t, Loading, g.State())
	assert.True(t, g.complete(3, Denied))
	assert.Equal(t, Denied, g.State())
}

func TestWaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	g := New(roleFunc(func(context.Context, string) (string, error) {
		<-block
		return "admin", nil
	}))
	g.SetIdentity(context.Background(), &claims.Identity{ID: "admin-1"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	state, err := g.Wait(ctx)

	assert.Equal(t, Loading, state)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "denied", Denied.String())
	assert.Equal(t, "authorized", Authorized.String())
}
