package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
	"github.com/juniperhq/chorequest/internal/recurrence"
)

// Schedule describes the task instances to materialize from a template.
type Schedule struct {
	Recurrence          model.Recurrence
	Dates               []string // DD-MM-YYYY
	DueTime             string   // HH:MM, empty means midnight
	RewardCoins         *int     // nil means compute the default
	Difficulty          model.Difficulty
	NotificationEnabled bool
}

// Materialize creates one task per scheduled date for the child. Dates that
// already have a task for (template, child, date) are skipped without error;
// if every date is skipped the call fails with a no-op error. Created rows
// and their notifications commit in a single transaction.
func (e *Engine) Materialize(ctx context.Context, templateID, parentID, childID string, sched Schedule) ([]model.Task, error) {
	template, err := e.templates.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.Validation("template %s not found", templateID)
	}
	if childID == "" {
		return nil, apperror.Validation("child id is required")
	}

	dueTime, err := normalizeDueTime(sched.DueTime)
	if err != nil {
		return nil, err
	}
	difficulty, err := normalizeDifficulty(sched.Difficulty)
	if err != nil {
		return nil, err
	}

	reward := DefaultReward(template.Title, difficulty)
	if sched.RewardCoins != nil {
		if *sched.RewardCoins < 0 {
			return nil, apperror.Validation("reward coins must not be negative")
		}
		reward = *sched.RewardCoins
	}

	now := e.now()
	dates, err := recurrence.Expand(sched.Recurrence, sched.Dates, e.loc, now, e.policy)
	if err != nil {
		return nil, err
	}

	tx, ts, err := e.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	today := dateOf(now)
	var created []model.Task
	var pending []model.Notification

	for _, d := range dates {
		dueDate := dateOf(d)
		status := model.StatusUpcoming
		if dueDate == today {
			status = model.StatusPending
		}

		task := model.Task{
			ID:                  uuid.NewString(),
			TemplateID:          template.ID,
			ParentID:            parentID,
			ChildID:             childID,
			DueDate:             dueDate,
			DueTime:             dueTime,
			Recurrence:          sched.Recurrence,
			Status:              status,
			RewardCoins:         reward,
			Difficulty:          difficulty,
			NotificationEnabled: sched.NotificationEnabled,
			CreatedAt:           time.Now().UTC(),
			UpdatedAt:           time.Now().UTC(),
		}

		inserted, err := ts.tasks.Create(&task)
		if err != nil {
			return nil, err
		}
		if !inserted {
			// Date already materialized, possibly by a concurrent request
			// or the scheduler. The loser's attempt is a no-op.
			continue
		}

		created = append(created, task)

		if sched.NotificationEnabled {
			n := newNotification(
				model.NotifTypeTaskAssigned,
				fmt.Sprintf("New task %q due %s at %s", template.Title, dueDate, dueTime),
				model.RecipientChild, childID,
				"task", task.ID,
			)
			if err := ts.notifications.Create(&n); err != nil {
				return nil, err
			}
			pending = append(pending, n)
		}
	}

	if len(created) == 0 {
		return nil, apperror.NoOp("nothing new to create: all dates already have tasks")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	e.enqueue(pending)
	return created, nil
}
