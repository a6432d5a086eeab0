package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

// transitionActors maps each reachable target status to the only role allowed
// to request it. Authorization is checked before legality, so a child asking
// for APPROVED is forbidden no matter what state the task is in.
var transitionActors = map[model.Status]model.Role{
	model.StatusCompleted: model.RoleChild,
	model.StatusApproved:  model.RoleParent,
	model.StatusRejected:  model.RoleParent,
	model.StatusPending:   model.RoleSystem,
	model.StatusOverdue:   model.RoleSystem,
}

// transitionSources maps each target status to the statuses it may be entered
// from. APPROVED and REJECTED are terminal: they appear in no source list.
var transitionSources = map[model.Status][]model.Status{
	model.StatusCompleted: {model.StatusPending, model.StatusOverdue},
	model.StatusApproved:  {model.StatusCompleted},
	model.StatusRejected:  {model.StatusCompleted},
	model.StatusPending:   {model.StatusUpcoming},
	model.StatusOverdue:   {model.StatusPending},
}

// Transition moves a task to a new status on behalf of an actor, running the
// transition's side effects (reward transaction, streak update, next-instance
// respawn, notifications) in one transaction with the status change.
func (e *Engine) Transition(ctx context.Context, taskID string, to model.Status, actor model.Actor, reason string) (*model.Task, error) {
	task, err := e.tasks.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperror.Validation("task %s not found", taskID)
	}

	requiredRole, reachable := transitionActors[to]
	if !reachable {
		return nil, apperror.InvalidTransition(string(task.Status), string(to))
	}
	if actor.Role != requiredRole {
		return nil, apperror.Forbidden("%s actors cannot set a task to %s", actor.Role, to)
	}

	legal := false
	for _, from := range transitionSources[to] {
		if task.Status == from {
			legal = true
			break
		}
	}
	if !legal {
		return nil, apperror.InvalidTransition(string(task.Status), string(to))
	}

	if to == model.StatusRejected && strings.TrimSpace(reason) == "" {
		return nil, apperror.Validation("a rejection reason is required")
	}

	tx, ts, err := e.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := e.now()
	var pending []model.Notification

	task.Status = to
	switch to {
	case model.StatusCompleted:
		at := now
		task.CompletedAt = &at
		pending = append(pending, newNotification(
			model.NotifTypeTaskCompleted,
			fmt.Sprintf("Task due %s was completed and is waiting for approval", task.DueDate),
			model.RecipientParent, task.ParentID,
			"task", task.ID,
		))

	case model.StatusApproved:
		at := now
		task.ApprovedAt = &at

		title := e.templateTitle(ts, task.TemplateID)
		if _, err := ts.ledger.Append(task.ChildID, &task.ID, task.RewardCoins, model.TxTaskReward,
			fmt.Sprintf("Reward for %q", title)); err != nil {
			return nil, err
		}

		streakNotifs, err := e.applyStreak(ts, task.ChildID, now)
		if err != nil {
			return nil, err
		}
		pending = append(pending, streakNotifs...)

		if task.Recurrence == model.RecurrenceDaily {
			_, respawnNotifs, err := e.respawnNext(ts, task, now)
			if err != nil {
				return nil, err
			}
			pending = append(pending, respawnNotifs...)
		}

		pending = append(pending, newNotification(
			model.NotifTypeTaskApproved,
			fmt.Sprintf("%q approved: you earned %d coins", title, task.RewardCoins),
			model.RecipientChild, task.ChildID,
			"task", task.ID,
		))

	case model.StatusRejected:
		at := now
		task.RejectedAt = &at
		r := strings.TrimSpace(reason)
		task.RejectionReason = &r

		if err := e.resetStreak(ts, task.ChildID); err != nil {
			return nil, err
		}

		pending = append(pending, newNotification(
			model.NotifTypeTaskRejected,
			fmt.Sprintf("Task due %s was rejected: %s", task.DueDate, r),
			model.RecipientChild, task.ChildID,
			"task", task.ID,
		))

	case model.StatusPending:
		if task.NotificationEnabled {
			pending = append(pending, newNotification(
				model.NotifTypeTaskDue,
				fmt.Sprintf("Task is due today at %s", task.DueTime),
				model.RecipientChild, task.ChildID,
				"task", task.ID,
			))
		}

	case model.StatusOverdue:
		if task.NotificationEnabled {
			pending = append(pending, newNotification(
				model.NotifTypeTaskOverdue,
				fmt.Sprintf("Task due %s at %s is overdue", task.DueDate, task.DueTime),
				model.RecipientChild, task.ChildID,
				"task", task.ID,
			))
		}
	}

	if err := ts.tasks.Update(task); err != nil {
		return nil, err
	}
	for i := range pending {
		if err := ts.notifications.Create(&pending[i]); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	e.enqueue(pending)
	return task, nil
}

func (e *Engine) templateTitle(ts txStores, templateID string) string {
	template, err := ts.templates.GetByID(templateID)
	if err != nil || template == nil {
		return "task"
	}
	return template.Title
}

// applyStreak advances the child's consecutive-day streak on approval. A
// last-task date of exactly yesterday increments; anything else restarts at
// one. Reaching the streak length pays the bonus and resets the counter.
func (e *Engine) applyStreak(ts txStores, childID string, now time.Time) ([]model.Notification, error) {
	today := dateOf(now)
	yesterday := dateOf(now.AddDate(0, 0, -1))

	streak, err := ts.streaks.GetByChild(childID)
	if err != nil {
		return nil, err
	}

	count := 1
	if streak != nil && streak.LastTaskDate == yesterday {
		count = streak.StreakCount + 1
	}

	var notifs []model.Notification
	if count >= streakLength {
		if _, err := ts.ledger.Append(childID, nil, streakBonusCoins, model.TxStreakBonus,
			fmt.Sprintf("%d-day streak bonus", streakLength)); err != nil {
			return nil, err
		}
		notifs = append(notifs, newNotification(
			model.NotifTypeStreakBonus,
			fmt.Sprintf("Amazing! %d days in a row earned you a %d coin bonus", streakLength, streakBonusCoins),
			model.RecipientChild, childID,
			"streak", childID,
		))
		count = 0
	}

	if err := ts.streaks.Upsert(childID, count, today); err != nil {
		return nil, err
	}
	return notifs, nil
}

func (e *Engine) resetStreak(ts txStores, childID string) error {
	streak, err := ts.streaks.GetByChild(childID)
	if err != nil {
		return err
	}
	if streak == nil {
		return nil
	}
	return ts.streaks.Upsert(childID, 0, streak.LastTaskDate)
}

// respawnNext materializes the next day's instance of a DAILY task at the
// same due time. The uniqueness constraint makes this idempotent against the
// reconciliation job doing the same thing; the first return reports whether a
// new instance was actually inserted.
func (e *Engine) respawnNext(ts txStores, t *model.Task, now time.Time) (bool, []model.Notification, error) {
	due, err := time.ParseInLocation(dateLayout, t.DueDate, e.loc)
	if err != nil {
		return false, nil, apperror.Validation("task %s has malformed due date %q", t.ID, t.DueDate)
	}

	nextDate := dateOf(due.AddDate(0, 0, 1))
	status := model.StatusUpcoming
	if nextDate == dateOf(now) {
		status = model.StatusPending
	}

	next := model.Task{
		ID:                  uuid.NewString(),
		TemplateID:          t.TemplateID,
		ParentID:            t.ParentID,
		ChildID:             t.ChildID,
		DueDate:             nextDate,
		DueTime:             t.DueTime,
		Recurrence:          t.Recurrence,
		Status:              status,
		RewardCoins:         t.RewardCoins,
		Difficulty:          t.Difficulty,
		NotificationEnabled: t.NotificationEnabled,
		CreatedAt:           time.Now().UTC(),
		UpdatedAt:           time.Now().UTC(),
	}

	inserted, err := ts.tasks.Create(&next)
	if err != nil {
		return false, nil, err
	}
	if !inserted || !next.NotificationEnabled {
		return inserted, nil, nil
	}

	n := newNotification(
		model.NotifTypeTaskAssigned,
		fmt.Sprintf("New task due %s at %s", nextDate, next.DueTime),
		model.RecipientChild, next.ChildID,
		"task", next.ID,
	)
	if err := ts.notifications.Create(&n); err != nil {
		return false, nil, err
	}
	return true, []model.Notification{n}, nil
}
