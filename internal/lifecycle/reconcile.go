package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/juniperhq/chorequest/internal/model"
)

// ReconcileResult reports how many tasks each reconciliation phase touched.
type ReconcileResult struct {
	Promoted  int `json:"promoted"`
	Demoted   int `json:"demoted"`
	Respawned int `json:"respawned"`
}

// RunDailyReconciliation advances task state against wall-clock time in three
// phases, strictly ordered Promote → Demote → Respawn. Each phase commits its
// own transaction; a failed phase rolls back alone, is logged, and does not
// stop the later phases. The returned error joins any phase errors for
// observability.
func (e *Engine) RunDailyReconciliation(ctx context.Context) (ReconcileResult, error) {
	now := e.now()
	var res ReconcileResult
	var errs []error

	promoted, err := e.promoteDue(ctx)
	if err != nil {
		e.logger.Error("reconciliation promote phase failed", "error", err)
		errs = append(errs, fmt.Errorf("promote: %w", err))
	}
	res.Promoted = promoted

	demoted, err := e.demoteExpired(ctx)
	if err != nil {
		e.logger.Error("reconciliation demote phase failed", "error", err)
		errs = append(errs, fmt.Errorf("demote: %w", err))
	}
	res.Demoted = demoted

	respawned, err := e.respawnDaily(ctx)
	if err != nil {
		e.logger.Error("reconciliation respawn phase failed", "error", err)
		errs = append(errs, fmt.Errorf("respawn: %w", err))
	}
	res.Respawned = respawned

	e.logger.Info("daily reconciliation finished",
		"date", dateOf(now),
		"promoted", res.Promoted,
		"demoted", res.Demoted,
		"respawned", res.Respawned,
	)
	return res, errors.Join(errs...)
}

// promoteDue moves every UPCOMING task due today to PENDING.
func (e *Engine) promoteDue(ctx context.Context) (int, error) {
	tx, ts, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	today := dateOf(e.now())
	tasks, err := ts.tasks.ListUpcomingDueOn(today)
	if err != nil {
		return 0, err
	}

	var pending []model.Notification
	for i := range tasks {
		t := &tasks[i]
		t.Status = model.StatusPending
		if err := ts.tasks.Update(t); err != nil {
			return 0, err
		}
		if t.NotificationEnabled {
			n := newNotification(
				model.NotifTypeTaskDue,
				fmt.Sprintf("Task is due today at %s", t.DueTime),
				model.RecipientChild, t.ChildID,
				"task", t.ID,
			)
			if err := ts.notifications.Create(&n); err != nil {
				return 0, err
			}
			pending = append(pending, n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	e.enqueue(pending)
	return len(tasks), nil
}

// demoteExpired moves every PENDING task whose due moment has passed to
// OVERDUE. A task promoted earlier in this same run is only demoted here if
// its due time today has already gone by; otherwise it waits for a later run.
func (e *Engine) demoteExpired(ctx context.Context) (int, error) {
	tx, ts, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := e.now()
	tasks, err := ts.tasks.ListPendingExpired(dateOf(now), timeOf(now))
	if err != nil {
		return 0, err
	}

	var pending []model.Notification
	for i := range tasks {
		t := &tasks[i]
		t.Status = model.StatusOverdue
		if err := ts.tasks.Update(t); err != nil {
			return 0, err
		}
		if t.NotificationEnabled {
			n := newNotification(
				model.NotifTypeTaskOverdue,
				fmt.Sprintf("Task due %s at %s is overdue", t.DueDate, t.DueTime),
				model.RecipientChild, t.ChildID,
				"task", t.ID,
			)
			if err := ts.notifications.Create(&n); err != nil {
				return 0, err
			}
			pending = append(pending, n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	e.enqueue(pending)
	return len(tasks), nil
}

// respawnDaily spawns the next day's instance for every materialized DAILY
// task. The uniqueness constraint on (template, child, date) makes a rerun,
// or a race with an approval-triggered respawn, a silent skip.
func (e *Engine) respawnDaily(ctx context.Context) (int, error) {
	tx, ts, err := e.begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := e.now()
	tasks, err := ts.tasks.ListDailyRecurring()
	if err != nil {
		return 0, err
	}

	created := 0
	var pending []model.Notification
	for i := range tasks {
		inserted, notifs, err := e.respawnNext(ts, &tasks[i], now)
		if err != nil {
			return 0, err
		}
		if inserted {
			created++
		}
		pending = append(pending, notifs...)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	e.enqueue(pending)
	return created, nil
}
