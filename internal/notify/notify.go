// Package notify is the dispatch seam for notifications. Notification rows
// are persisted inside the transaction that produced them; Enqueue runs after
// commit and hands the notification to whatever delivery channel is wired in.
// Delivery failure never affects the committed business effect.
package notify

import (
	"log/slog"

	"github.com/juniperhq/chorequest/internal/model"
)

type Notifier interface {
	Enqueue(n model.Notification)
}

// LogNotifier is the default sink: it logs the notification and does nothing
// else. Real delivery channels live outside this service.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Enqueue(n model.Notification) {
	l.logger.Info("notification enqueued",
		"type", n.Type,
		"recipient_type", n.RecipientType,
		"recipient_id", n.RecipientID,
		"message", n.Message,
	)
}
