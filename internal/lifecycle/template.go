package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// CreateTemplate creates a reusable chore definition owned by the requesting
// parent or admin. Exactly one creator column is set, derived from the actor
// role.
func (e *Engine) CreateTemplate(ctx context.Context, actor model.Actor, title, description, imageURL string) (*model.TaskTemplate, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	t := &model.TaskTemplate{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(title),
		Description: description,
		ImageURL:    imageURL,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	switch actor.Role {
	case model.RoleParent:
		id := actor.ID
		t.ParentID = &id
	case model.RoleAdmin:
		id := actor.ID
		t.AdminID = &id
	default:
		return nil, apperror.Forbidden("only parents and admins can create templates")
	}

	if err := e.templates.Create(t); err != nil {
		return nil, err
	}
	return t, nil
}
