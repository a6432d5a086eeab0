package store

import (
	"database/sql"
	"fmt"

	"github.com/juniperhq/chorequest/internal/model"
)

type NotificationStore struct {
	db DBTX
}

func NewNotificationStore(db DBTX) *NotificationStore {
	return &NotificationStore{db: db}
}

func (s *NotificationStore) WithTx(tx *sql.Tx) *NotificationStore {
	return &NotificationStore{db: tx}
}

const notificationCols = `id, type, message, recipient_type, recipient_id, related_item_type, related_item_id, is_read, created_at`

func scanNotification(sc scanner) (*model.Notification, error) {
	var n model.Notification
	var isRead int

	err := sc.Scan(&n.ID, &n.Type, &n.Message, &n.RecipientType, &n.RecipientID,
		&n.RelatedItemType, &n.RelatedItemID, &isRead, &n.CreatedAt)
	if err != nil {
		return nil, err
	}

	n.IsRead = isRead != 0
	return &n, nil
}

func (s *NotificationStore) Create(n *model.Notification) error {
	var isRead int
	if n.IsRead {
		isRead = 1
	}

	_, err := s.db.Exec(
		`INSERT INTO notifications (id, type, message, recipient_type, recipient_id, related_item_type, related_item_id, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Type, n.Message, n.RecipientType, n.RecipientID,
		n.RelatedItemType, n.RelatedItemID, isRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (s *NotificationStore) ListByRecipient(recipientType, recipientID string) ([]model.Notification, error) {
	rows, err := s.db.Query(
		`SELECT `+notificationCols+` FROM notifications
		 WHERE recipient_type = ? AND recipient_id = ? ORDER BY created_at DESC, rowid DESC`,
		recipientType, recipientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

func (s *NotificationStore) MarkRead(id string) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}
