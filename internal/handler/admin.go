package handler

import (
	"log/slog"
	"net/http"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/lifecycle"
	"github.com/juniperhq/chorequest/internal/model"
)

type AdminHandler struct {
	engine *lifecycle.Engine
	logger *slog.Logger
}

func NewAdminHandler(engine *lifecycle.Engine, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{engine: engine, logger: logger}
}

// Reconcile triggers a reconciliation run on demand, outside the schedule.
// The run is idempotent, so an extra invocation is safe. Counts are returned
// for observability.
func (h *AdminHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if actor.Role != model.RoleAdmin {
		writeError(w, h.logger, apperror.Forbidden("only admins can trigger reconciliation"))
		return
	}

	result, err := h.engine.RunDailyReconciliation(r.Context())
	if err != nil {
		// Partial results are still meaningful; phase errors were logged.
		h.logger.Warn("manual reconciliation completed with errors", "error", err)
	}

	writeJSON(w, http.StatusOK, result)
}
