package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/juniperhq/chorequest/internal/model"
)

type TaskStore struct {
	db DBTX
}

func NewTaskStore(db DBTX) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) WithTx(tx *sql.Tx) *TaskStore {
	return &TaskStore{db: tx}
}

const taskCols = `id, template_id, parent_id, child_id, due_date, due_time, recurrence, status,
	reward_coins, difficulty, notification_enabled, completed_at, approved_at, rejected_at,
	rejection_reason, created_at, updated_at`

func scanTask(sc scanner) (*model.Task, error) {
	var t model.Task
	var recurrence, status, difficulty string
	var notifEnabled int
	var completedAt, approvedAt, rejectedAt sql.NullTime
	var rejectionReason sql.NullString

	err := sc.Scan(
		&t.ID, &t.TemplateID, &t.ParentID, &t.ChildID, &t.DueDate, &t.DueTime,
		&recurrence, &status, &t.RewardCoins, &difficulty, &notifEnabled,
		&completedAt, &approvedAt, &rejectedAt, &rejectionReason,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Recurrence = model.Recurrence(recurrence)
	t.Status = model.Status(status)
	t.Difficulty = model.Difficulty(difficulty)
	t.NotificationEnabled = notifEnabled != 0
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	if approvedAt.Valid {
		t.ApprovedAt = &approvedAt.Time
	}
	if rejectedAt.Valid {
		t.RejectedAt = &rejectedAt.Time
	}
	if rejectionReason.Valid {
		t.RejectionReason = &rejectionReason.String
	}
	return &t, nil
}

// Create inserts the task. A task already occupying (template_id, child_id,
// due_date) makes the insert a no-op: it returns false with no error, so a
// materialization attempt that loses a race simply skips the date.
func (s *TaskStore) Create(t *model.Task) (bool, error) {
	var notifEnabled int
	if t.NotificationEnabled {
		notifEnabled = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO tasks (id, template_id, parent_id, child_id, due_date, due_time, recurrence,
			status, reward_coins, difficulty, notification_enabled, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (template_id, child_id, due_date) DO NOTHING`,
		t.ID, t.TemplateID, t.ParentID, t.ChildID, t.DueDate, t.DueTime, string(t.Recurrence),
		string(t.Status), t.RewardCoins, string(t.Difficulty), notifEnabled, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *TaskStore) GetByID(id string) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// Update rewrites every mutable column from the given task.
func (s *TaskStore) Update(t *model.Task) error {
	var notifEnabled int
	if t.NotificationEnabled {
		notifEnabled = 1
	}
	var completedAt, approvedAt, rejectedAt sql.NullTime
	if t.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *t.CompletedAt, Valid: true}
	}
	if t.ApprovedAt != nil {
		approvedAt = sql.NullTime{Time: *t.ApprovedAt, Valid: true}
	}
	if t.RejectedAt != nil {
		rejectedAt = sql.NullTime{Time: *t.RejectedAt, Valid: true}
	}
	var rejectionReason sql.NullString
	if t.RejectionReason != nil {
		rejectionReason = sql.NullString{String: *t.RejectionReason, Valid: true}
	}

	_, err := s.db.Exec(
		`UPDATE tasks SET due_time = ?, recurrence = ?, status = ?, reward_coins = ?,
			difficulty = ?, notification_enabled = ?, completed_at = ?, approved_at = ?,
			rejected_at = ?, rejection_reason = ?, updated_at = ?
		 WHERE id = ?`,
		t.DueTime, string(t.Recurrence), string(t.Status), t.RewardCoins,
		string(t.Difficulty), notifEnabled, completedAt, approvedAt,
		rejectedAt, rejectionReason, time.Now().UTC(), t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

func (s *TaskStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

func (s *TaskStore) ListByChild(childID string) ([]model.Task, error) {
	return s.list(`SELECT `+taskCols+` FROM tasks WHERE child_id = ? ORDER BY due_date ASC, due_time ASC`, childID)
}

func (s *TaskStore) ListByTemplateAndChild(templateID, childID string) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks WHERE template_id = ? AND child_id = ? ORDER BY due_date ASC`,
		templateID, childID,
	)
}

// ListUpcomingDueOn returns UPCOMING tasks due on the given calendar date,
// the Promote phase's input.
func (s *TaskStore) ListUpcomingDueOn(dueDate string) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks WHERE status = ? AND due_date = ? ORDER BY due_date ASC`,
		string(model.StatusUpcoming), dueDate,
	)
}

// ListPendingExpired returns PENDING tasks whose due date is before today, or
// due today with a due time strictly before now. Both arguments are in the
// lexically-comparable forms "2006-01-02" and "15:04".
func (s *TaskStore) ListPendingExpired(today, now string) ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks
		 WHERE status = ? AND (due_date < ? OR (due_date = ? AND due_time < ?))
		 ORDER BY due_date ASC`,
		string(model.StatusPending), today, today, now,
	)
}

// ListDailyRecurring returns DAILY-recurring tasks that have been
// materialized and processed, the Respawn phase's input.
func (s *TaskStore) ListDailyRecurring() ([]model.Task, error) {
	return s.list(
		`SELECT `+taskCols+` FROM tasks
		 WHERE recurrence = ? AND status IN (?, ?, ?, ?)
		 ORDER BY due_date ASC`,
		string(model.RecurrenceDaily),
		string(model.StatusPending), string(model.StatusCompleted),
		string(model.StatusApproved), string(model.StatusRejected),
	)
}

func (s *TaskStore) list(query string, args ...any) ([]model.Task, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}
