package profile

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	profilemodel "github.com/edallison777/vitracka-sub001/internal/model/profile"
	"github.com/edallison777/vitracka-sub001/internal/store"
	"github.com/edallison777/vitracka-sub001/pkg/utils"
)

// Handler exposes the profile and logging endpoints over the repository.
// These are thin: validation, UUID stamping, timestamping, nothing else.
type Handler struct {
	repo   store.Repository
	logger *zap.Logger
	now    func() time.Time
}

// New creates the profile handler.
func New(repo store.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger, now: time.Now}
}

// RegisterRoutes mounts the profile and logging routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/profile/{userID}", h.handleGetProfile)
	r.Put("/profile/{userID}", h.handleUpsertProfile)
	r.Post("/weights", h.handleAppendWeight)
	r.Post("/breaches", h.handleAppendBreach)
	r.Put("/plans/{userID}", h.handleSavePlan)
	r.Get("/plans/{userID}", h.handleGetPlan)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	p, err := h.repo.GetProfile(r.Context(), userID)
	if err != nil {
		h.logger.Error("get profile failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if p == nil {
		utils.RespondError(w, http.StatusNotFound, "profile not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var p profilemodel.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p.UserID = userID
	p.UpdatedAt = h.now().UTC()

	if err := h.repo.UpsertProfile(r.Context(), &p); err != nil {
		h.logger.Error("upsert profile failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

func (h *Handler) handleAppendWeight(w http.ResponseWriter, r *http.Request) {
	var entry profilemodel.WeightEntry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if entry.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if entry.WeightKg <= 0 {
		utils.RespondError(w, http.StatusBadRequest, "weightKg must be positive")
		return
	}
	entry.ID = uuid.New().String()
	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = h.now().UTC()
	}

	if err := h.repo.AppendWeight(r.Context(), entry); err != nil {
		h.logger.Error("append weight failed", zap.String("user_id", entry.UserID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to record weight")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, entry)
}

func (h *Handler) handleAppendBreach(w http.ResponseWriter, r *http.Request) {
	var rec profilemodel.BreachRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if rec.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if strings.TrimSpace(rec.Description) == "" {
		utils.RespondError(w, http.StatusBadRequest, "description is required")
		return
	}
	rec.ID = uuid.New().String()
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = h.now().UTC()
	}

	if err := h.repo.AppendBreach(r.Context(), rec); err != nil {
		h.logger.Error("append breach failed", zap.String("user_id", rec.UserID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to record breach")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleSavePlan(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	var plan profilemodel.EatingPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(plan.PlanText) == "" {
		utils.RespondError(w, http.StatusBadRequest, "planText is required")
		return
	}
	plan.UserID = userID
	plan.UpdatedAt = h.now().UTC()

	if err := h.repo.SaveEatingPlan(r.Context(), plan); err != nil {
		h.logger.Error("save plan failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to save plan")
		return
	}
	utils.RespondJSON(w, http.StatusOK, plan)
}

func (h *Handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	plan, err := h.repo.GetEatingPlan(r.Context(), userID)
	if err != nil {
		h.logger.Error("get plan failed", zap.String("user_id", userID), zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "failed to load plan")
		return
	}
	if plan == nil {
		utils.RespondError(w, http.StatusNotFound, "no plan on file")
		return
	}
	utils.RespondJSON(w, http.StatusOK, plan)
}
