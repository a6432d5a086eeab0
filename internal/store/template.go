package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/juniperhq/chorequest/internal/model"
)

type TemplateStore struct {
	db DBTX
}

func NewTemplateStore(db DBTX) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) WithTx(tx *sql.Tx) *TemplateStore {
	return &TemplateStore{db: tx}
}

const templateCols = `id, title, description, image_url, parent_id, admin_id, created_at, updated_at`

func scanTemplate(sc scanner) (*model.TaskTemplate, error) {
	var t model.TaskTemplate
	var parentID, adminID sql.NullString

	err := sc.Scan(&t.ID, &t.Title, &t.Description, &t.ImageURL, &parentID, &adminID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		t.ParentID = &parentID.String
	}
	if adminID.Valid {
		t.AdminID = &adminID.String
	}
	return &t, nil
}

func (s *TemplateStore) Create(t *model.TaskTemplate) error {
	var parentID, adminID sql.NullString
	if t.ParentID != nil {
		parentID = sql.NullString{String: *t.ParentID, Valid: true}
	}
	if t.AdminID != nil {
		adminID = sql.NullString{String: *t.AdminID, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO task_templates (id, title, description, image_url, parent_id, admin_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, t.ImageURL, parentID, adminID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

func (s *TemplateStore) GetByID(id string) (*model.TaskTemplate, error) {
	row := s.db.QueryRow(`SELECT `+templateCols+` FROM task_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *TemplateStore) List() ([]model.TaskTemplate, error) {
	rows, err := s.db.Query(`SELECT ` + templateCols + ` FROM task_templates ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []model.TaskTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Update rewrites the mutable template fields. Creator columns never change.
func (s *TemplateStore) Update(id, title, description, imageURL string) (*model.TaskTemplate, error) {
	_, err := s.db.Exec(
		`UPDATE task_templates SET title = ?, description = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		title, description, imageURL, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return s.GetByID(id)
}
