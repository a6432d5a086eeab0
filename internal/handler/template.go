package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/lifecycle"
	"github.com/juniperhq/chorequest/internal/model"
)

type TemplateHandler struct {
	engine *lifecycle.Engine
	logger *slog.Logger
}

func NewTemplateHandler(engine *lifecycle.Engine, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{engine: engine, logger: logger}
}

type templateCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=100"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req templateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.Validation("invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	template, err := h.engine.CreateTemplate(r.Context(), actor, req.Title, req.Description, req.ImageURL)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, template)
}

// Get allows any authenticated actor to read a template; cross-creator read
// access is permitted even where modification is not.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	template, err := h.engine.Templates().GetByID(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if template == nil {
		writeJSON(w, http.StatusNotFound, map[string]errorBody{
			"error": {Kind: "not_found", Message: "template not found"},
		})
		return
	}
	writeJSON(w, http.StatusOK, template)
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.engine.Templates().List()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if templates == nil {
		templates = []model.TaskTemplate{}
	}
	writeJSON(w, http.StatusOK, templates)
}

type templateUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=100"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`

	ChildID  string   `json:"child_id"`
	NewDates []string `json:"new_dates" validate:"omitempty,dive,required"`

	DueTime             *string `json:"due_time"`
	Recurrence          *string `json:"recurrence" validate:"omitempty,oneof=ONCE DAILY WEEKLY MONTHLY"`
	Difficulty          *string `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	RewardCoins         *int    `json:"reward_coins" validate:"omitempty,gte=0"`
	NotificationEnabled *bool   `json:"notification_enabled"`
}

// Update applies template-field edits and, when a child and date list are
// supplied, reconciles that child's future task instances against the list.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req templateUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.Validation("invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	taskEdits := lifecycle.TaskEdits{
		DueTime:             req.DueTime,
		RewardCoins:         req.RewardCoins,
		NotificationEnabled: req.NotificationEnabled,
	}
	if req.Recurrence != nil {
		rec := model.Recurrence(*req.Recurrence)
		taskEdits.Recurrence = &rec
	}
	if req.Difficulty != nil {
		d := model.Difficulty(*req.Difficulty)
		taskEdits.Difficulty = &d
	}

	result, err := h.engine.ReconcileTemplate(
		r.Context(),
		r.PathValue("id"),
		actor,
		lifecycle.TemplateEdits{Title: req.Title, Description: req.Description, ImageURL: req.ImageURL},
		req.ChildID,
		req.NewDates,
		taskEdits,
	)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
