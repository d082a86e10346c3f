package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"speakup/pkg/claims"
	"speakup/pkg/metrics"
	"speakup/pkg/profile"
	"speakup/pkg/route"
	"speakup/pkg/session"
)

type RoleResolver interface {
	Role(ctx context.Context, userID string) (string, error)
}

type GateConfig struct {
	// MaxCookieBytes is the cookie set size above which the session is evicted.
	MaxCookieBytes int
	// EvictValueBytes marks any cookie with a longer value for eviction.
	EvictValueBytes int
	// MaxWriteBytes drops session cookie writes with values this long or longer.
	MaxWriteBytes int
	// SkipPrefixes bypass session resolution and the route decision, e.g.
	// static assets. The cookie size guard still applies to them.
	SkipPrefixes []string
}

func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxCookieBytes:  4000,
		EvictValueBytes: 1000,
		MaxWriteBytes:   2000,
	}
}

// Gate runs in front of every route. It evicts oversized cookie sets,
// resolves the session user (forwarding refreshed cookies) and redirects
// requests that route.Decide does not allow.
func Gate(store session.Store, roles RoleResolver, cfg GateConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if route.IsExempt(path) {
				next.ServeHTTP(w, r)
				return
			}

			log := logger.With("request_id", RequestIDFromContext(r.Context()), "path", path)
			cookies := r.Cookies()

			if size := session.Size(cookies); size > cfg.MaxCookieBytes {
				evicted := session.Evictable(cookies, cfg.EvictValueBytes)
				names := make([]string, 0, len(evicted))
				for _, c := range evicted {
					http.SetCookie(w, session.Expired(c.Name))
					names = append(names, c.Name)
				}
				log.Warn("oversized cookie set evicted", "size", size, "cookies", names)
				metrics.SessionEvictions.Inc()
				metrics.RecordGateDecision("evict")
				http.Redirect(w, r, route.ClearPagePath, http.StatusTemporaryRedirect)
				return
			}
			if hasPrefix(path, cfg.SkipPrefixes) {
				next.ServeHTTP(w, r)
				return
			}

			jar := session.NewJar(cfg.MaxWriteBytes)
			identity := resolveUser(r.Context(), store, cookies, jar, log)
			if dropped := jar.Dropped(); len(dropped) > 0 {
				log.Warn("dropped oversized session cookie writes", "cookies", dropped)
				metrics.DroppedCookieWrites.Add(float64(len(dropped)))
			}

			ctx := r.Context()
			role := ""
			if identity != nil {
				ctx = claims.WithIdentity(ctx, identity)
				if route.IsAdmin(path) {
					role = lookupRole(ctx, roles, identity.ID, log)
					ctx = claims.WithRole(ctx, role)
				}
			}

			decision := route.Decide(identity != nil, role, path)
			metrics.RecordGateDecision(decision.String())
			jar.Apply(w.Header())

			if decision != route.Allow {
				log.Debug("gate redirect", "decision", decision.String(), "authenticated", identity != nil)
				http.Redirect(w, r, decision.Target(), http.StatusTemporaryRedirect)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolveUser treats every store failure, panics included, as anonymous.
func resolveUser(ctx context.Context, store session.Store, cookies []*http.Cookie, jar *session.Jar, log *slog.Logger) (identity *claims.Identity) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("session store panic", "panic", fmt.Sprint(rec))
			identity = nil
		}
	}()

	identity, err := store.GetUser(ctx, cookies, jar.SetCookie)
	switch {
	case err == nil:
		return identity
	case errors.Is(err, session.ErrNoSession), errors.Is(err, session.ErrSessionExpired):
		log.Debug("no session", "reason", err.Error())
	default:
		log.Warn("session resolution failed", "error", err)
	}
	return nil
}

// lookupRole fails closed: any error or panic yields the empty, non-admin role.
func lookupRole(ctx context.Context, roles RoleResolver, userID string, log *slog.Logger) (role string) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("profile role lookup panic", "user_id", userID, "panic", fmt.Sprint(rec))
			role = ""
		}
	}()

	role, err := roles.Role(ctx, userID)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			log.Error("profile role lookup failed", "user_id", userID, "error", err)
		}
		return ""
	}
	return role
}

func hasPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
