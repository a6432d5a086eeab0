package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// validate checks the request structs' `validate` tags.
var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// writeError maps domain errors to their severity code and body; anything
// else is reported as a generic 500 without leaking internals.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if e := apperror.As(err); e != nil {
		writeJSON(w, e.Code, map[string]errorBody{"error": {Kind: string(e.Kind), Message: e.Message}})
		return
	}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]errorBody{
			"error": {Kind: string(apperror.KindValidation), Message: verr.Error()},
		})
		return
	}

	logger.Error("internal error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]errorBody{
		"error": {Kind: "internal", Message: "internal server error"},
	})
}

// actorFromRequest reads the caller's identity from the headers set by the
// authentication layer in front of this service.
func actorFromRequest(r *http.Request) (model.Actor, error) {
	role, ok := model.ParseRole(r.Header.Get("X-Actor-Role"))
	if !ok {
		return model.Actor{}, apperror.Forbidden("missing or unknown actor role")
	}
	id := r.Header.Get("X-Actor-Id")
	if id == "" && role != model.RoleSystem {
		return model.Actor{}, apperror.Forbidden("missing actor id")
	}
	return model.Actor{ID: id, Role: role}, nil
}
