package model

import "time"

// TaskTemplate is a reusable chore definition independent of any date or
// child. Exactly one of ParentID or AdminID is set; it identifies the creator
// and only the creator may modify the template.
type TaskTemplate struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ParentID    *string   `json:"parent_id"`
	AdminID     *string   `json:"admin_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreatedBy reports whether the given actor created this template.
func (t TaskTemplate) CreatedBy(a Actor) bool {
	switch a.Role {
	case RoleParent:
		return t.ParentID != nil && *t.ParentID == a.ID
	case RoleAdmin:
		return t.AdminID != nil && *t.AdminID == a.ID
	}
	return false
}
