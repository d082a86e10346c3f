package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"speakup/pkg/claims"
	"speakup/pkg/vendor"
)

const (
	typeError   string = "error"
	typeMessage string = "message"
)

type FieldError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Value    string `json:"value"`
	Msg      string `json:"msg"`
}

func WriteResp(w http.ResponseWriter, logger *slog.Logger, body map[string]any, status int) bool {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to write JSON response", slog.Any("err", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, data any) bool {
	resp, err := json.Marshal(data)
	if err != nil {
		logger.Error("failed to serialize JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return false
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(resp); err != nil {
		logger.Error("failed to write response to client", "error", err)
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, field, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{field: msg}); err != nil {
		return
	}
}

// DecodeJSONBody rejects anything but a JSON body.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, req any) bool {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		writeError(w, http.StatusBadRequest, typeError, "invalid Content-Type")
		return false
	}

	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, typeError, "bad json")
		return false
	}

	return true
}

func identityFromRequest(w http.ResponseWriter, r *http.Request) (*claims.Identity, bool) {
	id, ok := claims.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, typeMessage, "unauthorized")
		return nil, false
	}
	return id, true
}

// writeUpstreamError translates a vendor failure. The upstream status is
// forwarded for client and server errors; a missing key or an open breaker
// is reported as 503.
func writeUpstreamError(w http.ResponseWriter, logger *slog.Logger, action string, err error) {
	var upstream *vendor.UpstreamError
	switch {
	case errors.Is(err, vendor.ErrMissingCredential):
		logger.Error(action, "error", err)
		writeError(w, http.StatusServiceUnavailable, typeError, "service not configured")
	case errors.Is(err, vendor.ErrCircuitOpen):
		logger.Warn(action, "error", err)
		writeError(w, http.StatusServiceUnavailable, typeError, err.Error())
	case errors.As(err, &upstream):
		logger.Warn(action, "vendor", upstream.Vendor, "status", upstream.Status, "error", upstream.Message)
		writeError(w, upstream.HTTPStatus(), typeError, upstream.Message)
	default:
		logger.Error(action, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
	}
}
