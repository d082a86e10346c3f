package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"speakup/pkg/claims"
	"speakup/pkg/practice"
	"speakup/pkg/vendor"
)

const (
	maxChatMessage   = 1000
	maxChatHistory   = 20
	maxHistoryEntry  = 4000
	maxSpeechText    = 4096
	maxAudioBytes    = 25 << 20
	multipartSlack   = 1 << 20
	defaultVoice     = "alloy"
	formFieldAudio   = "file"
	queryParamLimit  = "limit"
	contentTypeAudio = "audio/mpeg"
)

var voices = map[string]bool{
	"alloy":   true,
	"echo":    true,
	"fable":   true,
	"onyx":    true,
	"nova":    true,
	"shimmer": true,
}

type Tutor interface {
	Chat(ctx context.Context, history []vendor.Message, message string) (string, error)
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
	Speech(ctx context.Context, text, voice string) (io.ReadCloser, string, error)
}

type AvatarTokens interface {
	CreateToken(ctx context.Context) (string, error)
}

type ChatRequest struct {
	Message string           `json:"message"`
	History []vendor.Message `json:"history"`
	Mode    string           `json:"mode"`
}

type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// PracticeHandler proxies the conversation practice vendors. Vendor keys stay
// on the server.
type PracticeHandler struct {
	Tutor         Tutor
	Avatars       AvatarTokens
	History       practice.ServiceInterface
	Logger        *slog.Logger
	MaxAudioBytes int64
}

func NewPracticeHandler(tutor Tutor, avatars AvatarTokens, history practice.ServiceInterface, logger *slog.Logger) *PracticeHandler {
	return &PracticeHandler{
		Tutor:         tutor,
		Avatars:       avatars,
		History:       history,
		Logger:        logger,
		MaxAudioBytes: maxAudioBytes,
	}
}

func (h *PracticeHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}
	if msg := validateChat(&req); msg != "" {
		writeError(w, http.StatusBadRequest, typeError, msg)
		return
	}

	reply, err := h.Tutor.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		writeUpstreamError(w, h.Logger, "chat", err)
		return
	}

	if id, ok := claims.IdentityFromContext(r.Context()); ok {
		if _, err := h.History.Record(r.Context(), id.ID, req.Mode, req.Message, reply); err != nil {
			h.Logger.Error("chat: record exchange", "user", id.ID, "error", err)
		}
	}

	writeJSON(w, h.Logger, map[string]string{"reply": reply})
}

func (h *PracticeHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, http.StatusBadRequest, typeError, "invalid Content-Type")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxAudioBytes+multipartSlack)
	defer r.Body.Close()

	file, hdr, err := r.FormFile(formFieldAudio)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, typeError, "audio file too large")
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, typeError, "audio file is required")
		default:
			writeError(w, http.StatusBadRequest, typeError, "invalid multipart form")
		}
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	if hdr.Size > h.MaxAudioBytes {
		writeError(w, http.StatusRequestEntityTooLarge, typeError, "audio file too large")
		return
	}
	if hdr.Size == 0 {
		writeError(w, http.StatusBadRequest, typeError, "audio file is empty")
		return
	}

	text, err := h.Tutor.Transcribe(r.Context(), hdr.Filename, file)
	if err != nil {
		writeUpstreamError(w, h.Logger, "transcribe", err)
		return
	}

	writeJSON(w, h.Logger, map[string]string{"text": text})
}

func (h *PracticeHandler) Speech(w http.ResponseWriter, r *http.Request) {
	var req SpeechRequest
	if ok := DecodeJSONBody(w, r, &req); !ok {
		return
	}

	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" || utf8.RuneCountInString(req.Text) > maxSpeechText {
		writeError(w, http.StatusBadRequest, typeError, "text must be 1-"+strconv.Itoa(maxSpeechText)+" characters")
		return
	}
	if req.Voice == "" {
		req.Voice = defaultVoice
	}
	if !voices[req.Voice] {
		writeError(w, http.StatusBadRequest, typeError, "unknown voice")
		return
	}

	audio, contentType, err := h.Tutor.Speech(r.Context(), req.Text, req.Voice)
	if err != nil {
		writeUpstreamError(w, h.Logger, "speech", err)
		return
	}
	defer audio.Close()

	if contentType == "" {
		contentType = contentTypeAudio
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	if _, err := io.Copy(w, audio); err != nil {
		h.Logger.Warn("speech: stream audio", "error", err)
	}
}

func (h *PracticeHandler) AvatarToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.Avatars.CreateToken(r.Context())
	if err != nil {
		writeUpstreamError(w, h.Logger, "avatar token", err)
		return
	}

	writeJSON(w, h.Logger, map[string]string{"token": token})
}

func (h *PracticeHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get(queryParamLimit); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, typeMessage, "invalid limit")
			return
		}
		limit = n
	}

	exchanges, err := h.History.History(r.Context(), id.ID, limit)
	if err != nil {
		h.Logger.Error("history", "user", id.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return
	}

	writeJSON(w, h.Logger, map[string]any{"exchanges": exchanges})
}

func (h *PracticeHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	n, err := h.History.Clear(r.Context(), id.ID)
	if err != nil {
		h.Logger.Error("clear history", "user", id.ID, "error", err)
		writeError(w, http.StatusInternalServerError, typeError, "internal server error")
		return
	}

	if ok := writeJSON(w, h.Logger, map[string]int64{"deleted": n}); ok {
		h.Logger.Info("history cleared", "user", id.ID, "deleted", n)
	}
}

func validateChat(req *ChatRequest) string {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" || utf8.RuneCountInString(req.Message) > maxChatMessage {
		return "message must be 1-" + strconv.Itoa(maxChatMessage) + " characters"
	}
	if len(req.History) > maxChatHistory {
		return "history is limited to " + strconv.Itoa(maxChatHistory) + " messages"
	}
	for _, m := range req.History {
		if m.Role != "user" && m.Role != "assistant" {
			return "history role must be user or assistant"
		}
		if m.Content == "" || utf8.RuneCountInString(m.Content) > maxHistoryEntry {
			return "history content must be 1-" + strconv.Itoa(maxHistoryEntry) + " characters"
		}
	}
	switch req.Mode {
	case "":
		req.Mode = practice.ModeChat
	case practice.ModeChat, practice.ModeVoice, practice.ModeAvatar:
	default:
		return "unknown mode"
	}
	return ""
}
