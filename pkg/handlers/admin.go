package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"speakup/pkg/claims"
	"speakup/pkg/profile"

	"github.com/gorilla/mux"
)

const muxVarProfileID string = "id"

type RoleForm struct {
	Role string `json:"role"`
}

type AdminHandler struct {
	Profiles profile.ServiceInterface
	Logger   *slog.Logger
}

func NewAdminHandler(profiles profile.ServiceInterface, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		Profiles: profiles,
		Logger:   logger,
	}
}

func (h *AdminHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.Profiles.List(r.Context())
	if err != nil {
		h.Logger.Error("list profiles", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return
	}

	writeJSON(w, h.Logger, map[string]any{"profiles": profiles})
}

func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	profileID, ok := mux.Vars(r)[muxVarProfileID]
	if !ok || profileID == "" {
		writeError(w, http.StatusBadRequest, typeMessage, "invalid profile id")
		return
	}

	var req RoleForm
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	p, err := h.Profiles.SetRole(r.Context(), profileID, req.Role)
	switch {
	case errors.Is(err, profile.ErrInvalidRole):
		writeError(w, http.StatusBadRequest, typeMessage, "invalid role")
		return
	case errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, typeMessage, "profile not found")
		return
	case err != nil:
		h.Logger.Error("update role", "profile", profileID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return
	}

	if ok := writeJSON(w, h.Logger, p); ok {
		actor, _ := claims.IdentityFromContext(r.Context())
		h.Logger.Info("role changed", "profile", profileID, "role", p.Role, "by", actorID(actor))
	}
}

func actorID(id *claims.Identity) string {
	if id == nil {
		return ""
	}
	return id.ID
}
