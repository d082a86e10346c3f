package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"speakup/pkg/handlers"
	"speakup/pkg/middleware"
	"speakup/pkg/practice"
	"speakup/pkg/profile"
	"speakup/pkg/session"
	"speakup/pkg/theme"
)

const shutdownTimeout = 10 * time.Second

// SessionStore is the session backend: the gate resolves users with it and
// the auth endpoints sign users in and out through it.
type SessionStore interface {
	session.Store
	handlers.AuthService
}

type Deps struct {
	Sessions      SessionStore
	Profiles      profile.ServiceInterface
	History       practice.ServiceInterface
	Tutor         handlers.Tutor
	Avatars       handlers.AvatarTokens
	Limiter       *middleware.RateLimiter
	Gate          middleware.GateConfig
	SecureCookies bool
	Logger        *slog.Logger
}

// NewHandler builds the router and wraps it in the request gate. The gate
// sits outside mux so unmatched paths are gated too.
func NewHandler(d Deps) (http.Handler, error) {
	pages, err := handlers.NewRenderer(d.Logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := mux.NewRouter()
	InitRoutes(r, d, pages)

	gate := d.Gate
	gate.SkipPrefixes = append(gate.SkipPrefixes, "/static/", "/healthz", "/metrics")

	var h http.Handler = r
	h = middleware.Gate(d.Sessions, d.Profiles, gate, d.Logger)(h)
	h = theme.Middleware(h)
	h = middleware.Panic(d.Logger)(h)
	h = middleware.RequestID(h)
	return h, nil
}

func InitRoutes(r *mux.Router, d Deps, pages *handlers.Renderer) {
	authHandler := handlers.NewAuthHandler(d.Sessions, d.Profiles, d.Logger)
	practiceHandler := handlers.NewPracticeHandler(d.Tutor, d.Avatars, d.History, d.Logger)
	adminHandler := handlers.NewAdminHandler(d.Profiles, d.Logger)
	clearHandler := handlers.NewClearHandler(pages, d.Gate.EvictValueBytes, d.Logger)
	themeHandler := handlers.NewThemeHandler(d.SecureCookies, d.Logger)
	pageHandler := handlers.NewPageHandler(pages, d.Profiles, d.Logger)

	/* -+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+ */

	api := r.PathPrefix("/api").Subrouter()
	authRouter := api.PathPrefix("/auth").Subrouter()
	adminRouter := api.PathPrefix("/admin").Subrouter()
	proxyRouter := api.NewRoute().Subrouter()

	adminRouter.Use(middleware.RequireAdmin(d.Profiles, d.Logger))
	if d.Limiter != nil {
		proxyRouter.Use(d.Limiter.Middleware)
	}

	/* auth routers */
	authRouter.HandleFunc("/login", authHandler.Login).Methods("POST").Name("login")
	authRouter.HandleFunc("/register", authHandler.Register).Methods("POST").Name("register")
	authRouter.HandleFunc("/logout", authHandler.Logout).Methods("POST").Name("logout")
	api.HandleFunc("/profile", authHandler.Profile).Methods("GET")
	api.HandleFunc("/theme", themeHandler.Set).Methods("POST")
	api.HandleFunc("/clear-cookies", clearHandler.API).Methods("POST")

	/* admin routers */
	adminRouter.HandleFunc("/profiles", adminHandler.ListProfiles).Methods("GET")
	adminRouter.HandleFunc("/profiles/{id}", adminHandler.UpdateRole).Methods("PATCH")

	/* vendor proxy routers */
	proxyRouter.HandleFunc("/chat", practiceHandler.Chat).Methods("POST")
	proxyRouter.HandleFunc("/transcribe", practiceHandler.Transcribe).Methods("POST")
	proxyRouter.HandleFunc("/speech", practiceHandler.Speech).Methods("POST")
	proxyRouter.HandleFunc("/avatar/token", practiceHandler.AvatarToken).Methods("POST")

	/* practice history routers */
	api.HandleFunc("/practice/history", practiceHandler.GetHistory).Methods("GET")
	api.HandleFunc("/practice/history", practiceHandler.ClearHistory).Methods("DELETE")

	/* pages */
	r.HandleFunc("/clear-cookies", clearHandler.Page).Methods("GET")
	r.HandleFunc("/login", pageHandler.Page("login", "Log in")).Methods("GET")
	r.HandleFunc("/dashboard", pageHandler.Page("dashboard", "Dashboard")).Methods("GET")
	r.HandleFunc("/settings", pageHandler.Page("settings", "Settings")).Methods("GET")
	r.HandleFunc("/profile", pageHandler.Page("profile", "Profile")).Methods("GET")
	r.HandleFunc("/voice", pageHandler.Page("voice", "Voice chat")).Methods("GET")
	r.HandleFunc("/voice-avatar", pageHandler.Page("voice-avatar", "Avatar conversation")).Methods("GET")
	r.HandleFunc("/video", pageHandler.Page("video", "Video lessons")).Methods("GET")
	r.HandleFunc("/admin", pageHandler.Admin("admin", "Admin")).Methods("GET")
	r.HandleFunc("/admin/users", pageHandler.Admin("admin-users", "Users")).Methods("GET")
	r.Handle("/", http.RedirectHandler("/dashboard", http.StatusFound)).Methods("GET")

	/* ops */
	r.HandleFunc("/healthz", handlers.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	ServeStaticFiles(r)
	r.NotFoundHandler = http.HandlerFunc(pageHandler.NotFound)
}

func ServeStaticFiles(r *mux.Router) {
	fs := http.FileServer(http.FS(handlers.StaticFS()))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fs))
}

// StartServer serves h on addr until ctx is cancelled, then drains
// in-flight requests.
func StartServer(ctx context.Context, addr string, h http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
