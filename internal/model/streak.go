package model

import "time"

// Streak tracks consecutive-day approved completions per child. One row per
// child. LastTaskDate is a calendar date in "2006-01-02" form, empty until
// the first approval.
type Streak struct {
	ChildID      string    `json:"child_id"`
	StreakCount  int       `json:"streak_count"`
	LastTaskDate string    `json:"last_task_date"`
	UpdatedAt    time.Time `json:"updated_at"`
}
