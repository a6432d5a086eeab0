package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/lifecycle"
	"github.com/juniperhq/chorequest/internal/model"
)

type TaskHandler struct {
	engine *lifecycle.Engine
	logger *slog.Logger
}

func NewTaskHandler(engine *lifecycle.Engine, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{engine: engine, logger: logger}
}

type materializeRequest struct {
	TemplateID          string   `json:"template_id" validate:"required"`
	ChildID             string   `json:"child_id" validate:"required"`
	Recurrence          string   `json:"recurrence" validate:"required,oneof=ONCE DAILY WEEKLY MONTHLY"`
	Dates               []string `json:"dates" validate:"required,min=1,dive,required"`
	DueTime             string   `json:"due_time"`
	RewardCoins         *int     `json:"reward_coins" validate:"omitempty,gte=0"`
	Difficulty          string   `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	NotificationEnabled bool     `json:"notification_enabled"`
}

// Create materializes task instances for a child from a template schedule.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if actor.Role != model.RoleParent {
		writeError(w, h.logger, apperror.Forbidden("only parents can assign tasks"))
		return
	}

	var req materializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.Validation("invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	rec, _ := model.ParseRecurrence(req.Recurrence)
	tasks, err := h.engine.Materialize(r.Context(), req.TemplateID, actor.ID, req.ChildID, lifecycle.Schedule{
		Recurrence:          rec,
		Dates:               req.Dates,
		DueTime:             req.DueTime,
		RewardCoins:         req.RewardCoins,
		Difficulty:          model.Difficulty(req.Difficulty),
		NotificationEnabled: req.NotificationEnabled,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, tasks)
}

type transitionRequest struct {
	Status string `json:"status" validate:"required,oneof=UPCOMING PENDING COMPLETED APPROVED REJECTED OVERDUE"`
	Reason string `json:"reason"`
}

// UpdateStatus applies one state-machine transition to a task.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, apperror.Validation("invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	status, _ := model.ParseStatus(req.Status)
	task, err := h.engine.Transition(r.Context(), r.PathValue("id"), status, actor, req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// ListByChild returns all of a child's tasks ordered by due date.
func (h *TaskHandler) ListByChild(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.engine.Tasks().ListByChild(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

type balanceResponse struct {
	ChildID     string `json:"child_id"`
	CoinBalance int    `json:"coin_balance"`
	TotalEarned int    `json:"total_earned"`
}

// Balance returns the child's current coin balance and cumulative earnings,
// read off the latest ledger row.
func (h *TaskHandler) Balance(w http.ResponseWriter, r *http.Request) {
	childID := r.PathValue("id")
	latest, err := h.engine.Ledger().Latest(childID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := balanceResponse{ChildID: childID}
	if latest != nil {
		resp.CoinBalance = latest.CoinBalance
		resp.TotalEarned = latest.TotalEarned
	}
	writeJSON(w, http.StatusOK, resp)
}

// Transactions returns the child's full ledger history, oldest first.
func (h *TaskHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.engine.Ledger().ListByChild(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if transactions == nil {
		transactions = []model.CoinTransaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}
