package model

import "time"

// Notification type constants
const (
	NotifTypeTaskAssigned  = "task_assigned"
	NotifTypeTaskDue       = "task_due"
	NotifTypeTaskOverdue   = "task_overdue"
	NotifTypeTaskCompleted = "task_completed"
	NotifTypeTaskApproved  = "task_approved"
	NotifTypeTaskRejected  = "task_rejected"
	NotifTypeStreakBonus   = "streak_bonus"
)

// Recipient type constants
const (
	RecipientChild  = "child"
	RecipientParent = "parent"
)

// Notification is a fire-and-forget message created as a side effect of a
// state transition or a reconciliation event. The engine writes it and never
// reads it back.
type Notification struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Message         string    `json:"message"`
	RecipientType   string    `json:"recipient_type"`
	RecipientID     string    `json:"recipient_id"`
	RelatedItemType string    `json:"related_item_type"`
	RelatedItemID   string    `json:"related_item_id"`
	IsRead          bool      `json:"is_read"`
	CreatedAt       time.Time `json:"created_at"`
}
