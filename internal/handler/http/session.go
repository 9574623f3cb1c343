package http

import (
	"log/slog"
	"net/http"

	"github.com/RechkalovAA/weblarek/internal/domain"
	"github.com/RechkalovAA/weblarek/internal/service"
	"github.com/RechkalovAA/weblarek/pkg/httputil"
	"github.com/RechkalovAA/weblarek/pkg/logger"
	"github.com/RechkalovAA/weblarek/pkg/validator"
)

// SessionHandler exposes storefront sessions over HTTP. Clients drive a
// session by posting intents and read back the rendered screen.
type SessionHandler struct {
	sessions *service.Sessions
	logger   *slog.Logger
}

// NewSessionHandler creates a new session HTTP handler.
func NewSessionHandler(sessions *service.Sessions, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession handles POST /api/v1/sessions. The response is sent once the
// initial catalog has been rendered.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Create(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	sess.Wait()

	w.Header().Set("Location", "/api/v1/sessions/"+sess.ID)
	httputil.WriteData(w, http.StatusCreated, sess.State())
}

// GetSession handles GET /api/v1/sessions/{sessionId}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, sess.State())
}

// DeleteSession handles DELETE /api/v1/sessions/{sessionId}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(r.Context(), sessionIDFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// EmitEvent handles POST /api/v1/sessions/{sessionId}/events
func (h *SessionHandler) EmitEvent(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(sessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	var req EventRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	ev, err := req.ToEvent()
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	if err := sess.Emit(r.Context(), ev); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	logger.FromContext(r.Context()).DebugContext(r.Context(), "intent applied",
		slog.String("event", ev.EventName()),
	)
	httputil.WriteData(w, http.StatusOK, sess.State())
}

// ListIntents handles GET /api/v1/intents
func (h *SessionHandler) ListIntents(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteData(w, http.StatusOK, domain.IntentNames())
}
