package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"speakup/pkg/claims"
	"speakup/pkg/guard"
	"speakup/pkg/profile"
	"speakup/pkg/theme"
)

const (
	layoutTemplate      = "templates/layout.html"
	defaultGuardTimeout = 3 * time.Second
)

var (
	//go:embed templates/*.html
	templateFS embed.FS

	//go:embed static
	staticFS embed.FS
)

// StaticFS holds the stylesheet and client script served under /static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type PageData struct {
	Title    string
	Theme    theme.Theme
	User     *claims.Identity
	Path     string
	Profiles []*profile.Profile
	Cleared  []string
}

// Renderer executes one layout+page template set per page.
type Renderer struct {
	pages  map[string]*template.Template
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(files))
	for _, file := range files {
		if file == layoutTemplate {
			continue
		}
		t, err := template.ParseFS(templateFS, layoutTemplate, file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return &Renderer{pages: pages, logger: logger}, nil
}

func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data PageData) {
	t, ok := rd.pages[name]
	if !ok {
		rd.logger.Error("unknown page template", "page", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data.Theme = theme.FromContext(r.Context())
	data.Path = r.URL.Path
	if data.User == nil {
		data.User, _ = claims.IdentityFromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		rd.logger.Error("render page", "page", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		rd.logger.Error("write page", "page", name, "error", err)
	}
}

type PageHandler struct {
	Pages        *Renderer
	Profiles     profile.ServiceInterface
	GuardTimeout time.Duration
	Logger       *slog.Logger
}

func NewPageHandler(pages *Renderer, profiles profile.ServiceInterface, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		Pages:        pages,
		Profiles:     profiles,
		GuardTimeout: defaultGuardTimeout,
		Logger:       logger,
	}
}

func (h *PageHandler) Page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.Pages.Render(w, r, http.StatusOK, name, PageData{Title: title})
	}
}

// Admin renders an admin page only after its own role check. A denied
// visitor gets a page linking back to the dashboard, never a redirect.
func (h *PageHandler) Admin(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.checkAdmin(r) != guard.Authorized {
			h.Pages.Render(w, r, http.StatusOK, "denied", PageData{Title: "Access denied"})
			return
		}

		data := PageData{Title: title}
		if name == "admin-users" {
			profiles, err := h.Profiles.List(r.Context())
			if err != nil {
				h.Logger.Error("admin page: list profiles", "error", err)
			}
			data.Profiles = profiles
		}
		h.Pages.Render(w, r, http.StatusOK, name, data)
	}
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeError(w, http.StatusNotFound, typeMessage, "not found")
		return
	}
	h.Pages.Render(w, r, http.StatusNotFound, "notfound", PageData{Title: "Not found"})
}

// checkAdmin fails closed when the check does not settle in time.
func (h *PageHandler) checkAdmin(r *http.Request) guard.State {
	ctx, cancel := context.WithTimeout(r.Context(), h.GuardTimeout)
	defer cancel()

	identity, _ := claims.IdentityFromContext(ctx)
	g := guard.New(h.Profiles)
	g.SetIdentity(ctx, identity)

	state, err := g.Wait(ctx)
	if err != nil {
		h.Logger.Warn("admin role check did not settle", "path", r.URL.Path, "error", err)
		return guard.Denied
	}
	return state
}
