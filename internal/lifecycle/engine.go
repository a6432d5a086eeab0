// Package lifecycle implements the recurring task engine: idempotent
// materialization of task instances, the actor-gated status state machine
// with its reward/streak/notification side effects, the daily reconciliation
// sweep, and template-driven task reconciliation.
package lifecycle

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/model"
	"github.com/juniperhq/chorequest/internal/notify"
	"github.com/juniperhq/chorequest/internal/recurrence"
	"github.com/juniperhq/chorequest/internal/store"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"

	streakLength     = 7
	streakBonusCoins = 50
)

type Engine struct {
	db            *sql.DB
	templates     *store.TemplateStore
	tasks         *store.TaskStore
	streaks       *store.StreakStore
	ledger        *store.LedgerStore
	notifications *store.NotificationStore
	notifier      notify.Notifier
	clock         Clock
	loc           *time.Location
	policy        recurrence.Policy
	logger        *slog.Logger
}

func New(db *sql.DB, notifier notify.Notifier, clock Clock, loc *time.Location, policy recurrence.Policy, logger *slog.Logger) *Engine {
	return &Engine{
		db:            db,
		templates:     store.NewTemplateStore(db),
		tasks:         store.NewTaskStore(db),
		streaks:       store.NewStreakStore(db),
		ledger:        store.NewLedgerStore(db),
		notifications: store.NewNotificationStore(db),
		notifier:      notifier,
		clock:         clock,
		loc:           loc,
		policy:        policy,
		logger:        logger,
	}
}

// Ledger returns the coin ledger store bound to the engine's database, for
// read paths and manual credit/spend operations outside a transition.
func (e *Engine) Ledger() *store.LedgerStore {
	return e.ledger
}

// Tasks returns the task store bound to the engine's database.
func (e *Engine) Tasks() *store.TaskStore {
	return e.tasks
}

// Templates returns the template store bound to the engine's database.
func (e *Engine) Templates() *store.TemplateStore {
	return e.templates
}

// txStores is the full store set rebound to one transaction.
type txStores struct {
	templates     *store.TemplateStore
	tasks         *store.TaskStore
	streaks       *store.StreakStore
	ledger        *store.LedgerStore
	notifications *store.NotificationStore
}

func (e *Engine) withTx(tx *sql.Tx) txStores {
	return txStores{
		templates:     e.templates.WithTx(tx),
		tasks:         e.tasks.WithTx(tx),
		streaks:       e.streaks.WithTx(tx),
		ledger:        e.ledger.WithTx(tx),
		notifications: e.notifications.WithTx(tx),
	}
}

func (e *Engine) begin(ctx context.Context) (*sql.Tx, txStores, error) {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, txStores{}, err
	}
	return tx, e.withTx(tx), nil
}

// now returns the current instant in the engine's local timezone.
func (e *Engine) now() time.Time {
	return e.clock.Now().In(e.loc)
}

func dateOf(t time.Time) string {
	return t.Format(dateLayout)
}

func timeOf(t time.Time) string {
	return t.Format(timeLayout)
}

func newNotification(typ, message, recipientType, recipientID, relatedType, relatedID string) model.Notification {
	return model.Notification{
		ID:              uuid.NewString(),
		Type:            typ,
		Message:         message,
		RecipientType:   recipientType,
		RecipientID:     recipientID,
		RelatedItemType: relatedType,
		RelatedItemID:   relatedID,
		CreatedAt:       time.Now().UTC(),
	}
}

// enqueue hands committed notifications to the dispatch sink. Called only
// after the owning transaction commits.
func (e *Engine) enqueue(notifications []model.Notification) {
	for _, n := range notifications {
		e.notifier.Enqueue(n)
	}
}
