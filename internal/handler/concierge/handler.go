package concierge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edallison777/vitracka-sub001/internal/service/concierge"
	sessionsvc "github.com/edallison777/vitracka-sub001/internal/service/session"
	"github.com/edallison777/vitracka-sub001/pkg/utils"
)

// Handler exposes the concierge's single operation over HTTP.
type Handler struct {
	orchestrator *concierge.Orchestrator
	logger       *zap.Logger
}

// New creates the concierge handler.
func New(orchestrator *concierge.Orchestrator, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{orchestrator: orchestrator, logger: logger}
}

// RegisterRoutes mounts the concierge routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/concierge", h.handleProcessRequest)
}

func (h *Handler) handleProcessRequest(w http.ResponseWriter, r *http.Request) {
	var req concierge.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.orchestrator.ProcessRequest(r.Context(), req)
	if err != nil {
		if errors.Is(err, concierge.ErrMissingUserID) || errors.Is(err, concierge.ErrEmptyMessage) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, sessionsvc.ErrSessionOwnership) {
			utils.RespondError(w, http.StatusForbidden, "session belongs to another user")
			return
		}
		// Safety-path failures are alert-worthy; the client gets an
		// opaque error, monitoring gets the details.
		h.logger.Error("concierge request failed",
			zap.String("user_id", req.UserID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "request could not be processed")
		return
	}

	utils.RespondJSON(w, http.StatusOK, resp)
}
