package handlers

import (
	"log/slog"
	"net/http"

	"speakup/pkg/theme"
)

type ThemeForm struct {
	Theme string `json:"theme"`
}

type ThemeHandler struct {
	SecureCookies bool
	Logger        *slog.Logger
}

func NewThemeHandler(secure bool, logger *slog.Logger) *ThemeHandler {
	return &ThemeHandler{SecureCookies: secure, Logger: logger}
}

func (h *ThemeHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req ThemeForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	t, ok := theme.Parse(req.Theme)
	if !ok {
		writeError(w, http.StatusBadRequest, typeMessage, "theme must be light or dark")
		return
	}

	http.SetCookie(w, theme.Cookie(t, h.SecureCookies))
	writeJSON(w, h.Logger, map[string]string{"theme": string(t)})
}
