package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/juniperhq/chorequest/internal/handler"
	"github.com/juniperhq/chorequest/internal/lifecycle"
	"github.com/juniperhq/chorequest/internal/middleware"
)

type Server struct {
	db        *sql.DB
	engine    *lifecycle.Engine
	taskH     *handler.TaskHandler
	templateH *handler.TemplateHandler
	adminH    *handler.AdminHandler
	logger    *slog.Logger
}

func New(db *sql.DB, engine *lifecycle.Engine, logger *slog.Logger) *Server {
	return &Server{
		db:        db,
		engine:    engine,
		taskH:     handler.NewTaskHandler(engine, logger.With("component", "tasks")),
		templateH: handler.NewTemplateHandler(engine, logger.With("component", "templates")),
		adminH:    handler.NewAdminHandler(engine, logger.With("component", "admin")),
		logger:    logger,
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("POST /api/templates", s.templateH.Create)
	mux.HandleFunc("GET /api/templates", s.templateH.List)
	mux.HandleFunc("GET /api/templates/{id}", s.templateH.Get)
	mux.HandleFunc("PUT /api/templates/{id}", s.templateH.Update)

	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("POST /api/tasks/{id}/status", s.taskH.UpdateStatus)

	mux.HandleFunc("GET /api/children/{id}/tasks", s.taskH.ListByChild)
	mux.HandleFunc("GET /api/children/{id}/balance", s.taskH.Balance)
	mux.HandleFunc("GET /api/children/{id}/transactions", s.taskH.Transactions)

	mux.HandleFunc("POST /api/admin/reconcile", s.adminH.Reconcile)

	return middleware.RequestLogger(s.logger)(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
