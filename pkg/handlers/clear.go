package handlers

import (
	"log/slog"
	"net/http"

	"speakup/pkg/session"
)

// ClearHandler serves the session recovery routes. They run outside the
// request gate, so they work even when the cookie set is too large for it.
type ClearHandler struct {
	Pages           *Renderer
	EvictValueBytes int
	Logger          *slog.Logger
}

func NewClearHandler(pages *Renderer, evictValueBytes int, logger *slog.Logger) *ClearHandler {
	return &ClearHandler{
		Pages:           pages,
		EvictValueBytes: evictValueBytes,
		Logger:          logger,
	}
}

func (h *ClearHandler) Page(w http.ResponseWriter, r *http.Request) {
	cleared := h.clear(w, r)
	h.Pages.Render(w, r, http.StatusOK, "clear", PageData{
		Title:   "Session reset",
		Cleared: cleared,
	})
}

func (h *ClearHandler) API(w http.ResponseWriter, r *http.Request) {
	cleared := h.clear(w, r)
	writeJSON(w, h.Logger, map[string][]string{"cleared": cleared})
}

func (h *ClearHandler) clear(w http.ResponseWriter, r *http.Request) []string {
	cleared := make([]string, 0)
	for _, c := range session.Evictable(r.Cookies(), h.EvictValueBytes) {
		http.SetCookie(w, session.Expired(c.Name))
		cleared = append(cleared, c.Name)
	}
	if len(cleared) > 0 {
		h.Logger.Info("session cookies cleared", "cookies", cleared)
	}
	return cleared
}
