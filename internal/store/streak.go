package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/juniperhq/chorequest/internal/model"
)

type StreakStore struct {
	db DBTX
}

func NewStreakStore(db DBTX) *StreakStore {
	return &StreakStore{db: db}
}

func (s *StreakStore) WithTx(tx *sql.Tx) *StreakStore {
	return &StreakStore{db: tx}
}

func (s *StreakStore) GetByChild(childID string) (*model.Streak, error) {
	row := s.db.QueryRow(
		`SELECT child_id, streak_count, last_task_date, updated_at FROM streaks WHERE child_id = ?`,
		childID,
	)
	var st model.Streak
	err := row.Scan(&st.ChildID, &st.StreakCount, &st.LastTaskDate, &st.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}
	return &st, nil
}

// Upsert writes the child's streak row, creating it on first approval.
func (s *StreakStore) Upsert(childID string, count int, lastTaskDate string) error {
	_, err := s.db.Exec(
		`INSERT INTO streaks (child_id, streak_count, last_task_date, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (child_id) DO UPDATE SET
			streak_count = excluded.streak_count,
			last_task_date = excluded.last_task_date,
			updated_at = excluded.updated_at`,
		childID, count, lastTaskDate, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert streak: %w", err)
	}
	return nil
}
