package model

import "time"

type Recurrence string

const (
	RecurrenceOnce    Recurrence = "ONCE"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
)

var recurrenceFromName = map[string]Recurrence{
	"ONCE":    RecurrenceOnce,
	"DAILY":   RecurrenceDaily,
	"WEEKLY":  RecurrenceWeekly,
	"MONTHLY": RecurrenceMonthly,
}

// ParseRecurrence maps a recurrence name to its constant. The second return
// is false for unknown names.
func ParseRecurrence(s string) (Recurrence, bool) {
	r, ok := recurrenceFromName[s]
	return r, ok
}

type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusOverdue   Status = "OVERDUE"
)

var statusFromName = map[string]Status{
	"UPCOMING":  StatusUpcoming,
	"PENDING":   StatusPending,
	"COMPLETED": StatusCompleted,
	"APPROVED":  StatusApproved,
	"REJECTED":  StatusRejected,
	"OVERDUE":   StatusOverdue,
}

func ParseStatus(s string) (Status, bool) {
	st, ok := statusFromName[s]
	return st, ok
}

// Terminal reports whether no further transitions are allowed from this status.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

var difficultyFromName = map[string]Difficulty{
	"EASY":   DifficultyEasy,
	"MEDIUM": DifficultyMedium,
	"HARD":   DifficultyHard,
}

func ParseDifficulty(s string) (Difficulty, bool) {
	d, ok := difficultyFromName[s]
	return d, ok
}

// Task is one dated occurrence of a template assigned to one child.
// DueDate is a calendar date in "2006-01-02" form; DueTime is "15:04" in the
// configured local timezone.
type Task struct {
	ID                  string     `json:"id"`
	TemplateID          string     `json:"template_id"`
	ParentID            string     `json:"parent_id"`
	ChildID             string     `json:"child_id"`
	DueDate             string     `json:"due_date"`
	DueTime             string     `json:"due_time"`
	Recurrence          Recurrence `json:"recurrence"`
	Status              Status     `json:"status"`
	RewardCoins         int        `json:"reward_coins"`
	Difficulty          Difficulty `json:"difficulty"`
	NotificationEnabled bool       `json:"notification_enabled"`
	CompletedAt         *time.Time `json:"completed_at"`
	ApprovedAt          *time.Time `json:"approved_at"`
	RejectedAt          *time.Time `json:"rejected_at"`
	RejectionReason     *string    `json:"rejection_reason"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsRecurring is derived: anything other than ONCE repeats.
func (t Task) IsRecurring() bool {
	return t.Recurrence != RecurrenceOnce
}
