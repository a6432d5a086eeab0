package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
	"github.com/juniperhq/chorequest/internal/recurrence"
)

// TemplateEdits are optional template-field changes; nil fields are left
// alone. Only the template's creator may apply them.
type TemplateEdits struct {
	Title       *string
	Description *string
	ImageURL    *string
}

func (e TemplateEdits) empty() bool {
	return e.Title == nil && e.Description == nil && e.ImageURL == nil
}

// TaskEdits are optional per-task field changes applied to matching UPCOMING
// tasks and used as defaults for newly created ones.
type TaskEdits struct {
	DueTime             *string
	Recurrence          *model.Recurrence
	Difficulty          *model.Difficulty
	RewardCoins         *int
	NotificationEnabled *bool
}

// TemplateReconcileResult reports what the reconciliation changed.
type TemplateReconcileResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
}

// ReconcileTemplate applies template-field edits and reconciles the child's
// future task instances against a new date list. Tasks that have progressed
// past UPCOMING are never touched: dates they occupy are skipped, and they
// are never deleted. Matching UPCOMING tasks get the field edits, missing
// dates get new UPCOMING tasks, and UPCOMING tasks on unlisted dates are
// deleted. Everything commits in one transaction.
func (e *Engine) ReconcileTemplate(ctx context.Context, templateID string, actor model.Actor, edits TemplateEdits, childID string, newDates []string, taskEdits TaskEdits) (*TemplateReconcileResult, error) {
	template, err := e.templates.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.Validation("template %s not found", templateID)
	}

	if !edits.empty() && !template.CreatedBy(actor) {
		return nil, apperror.Forbidden("only the template creator can modify template fields")
	}

	title := template.Title
	if edits.Title != nil {
		if err := ValidateTitle(*edits.Title); err != nil {
			return nil, err
		}
		title = strings.TrimSpace(*edits.Title)
	}
	description := template.Description
	if edits.Description != nil {
		description = *edits.Description
	}
	imageURL := template.ImageURL
	if edits.ImageURL != nil {
		imageURL = *edits.ImageURL
	}

	if taskEdits.DueTime != nil {
		normalized, err := normalizeDueTime(*taskEdits.DueTime)
		if err != nil {
			return nil, err
		}
		taskEdits.DueTime = &normalized
	}
	if taskEdits.Difficulty != nil {
		if _, ok := model.ParseDifficulty(string(*taskEdits.Difficulty)); !ok {
			return nil, apperror.Validation("unknown difficulty %q", *taskEdits.Difficulty)
		}
	}
	if taskEdits.RewardCoins != nil && *taskEdits.RewardCoins < 0 {
		return nil, apperror.Validation("reward coins must not be negative")
	}

	tx, ts, err := e.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if !edits.empty() {
		if _, err := ts.templates.Update(template.ID, title, description, imageURL); err != nil {
			return nil, err
		}
	}

	result := &TemplateReconcileResult{}

	if childID != "" && len(newDates) > 0 {
		if actor.Role != model.RoleParent && actor.Role != model.RoleAdmin {
			return nil, apperror.Forbidden("only parents and admins can reschedule tasks")
		}

		existing, err := ts.tasks.ListByTemplateAndChild(template.ID, childID)
		if err != nil {
			return nil, err
		}

		rec := model.RecurrenceOnce
		if len(existing) > 0 {
			rec = existing[0].Recurrence
		}
		if taskEdits.Recurrence != nil {
			if _, ok := model.ParseRecurrence(string(*taskEdits.Recurrence)); !ok {
				return nil, apperror.Validation("unknown recurrence %q", *taskEdits.Recurrence)
			}
			rec = *taskEdits.Recurrence
		}

		dates, err := recurrence.Expand(rec, newDates, e.loc, e.now(), e.policy)
		if err != nil {
			return nil, err
		}

		wanted := make(map[string]bool, len(dates))
		for _, d := range dates {
			wanted[dateOf(d)] = true
		}

		upcomingByDate := make(map[string]*model.Task)
		occupiedByDate := make(map[string]bool)
		for i := range existing {
			t := &existing[i]
			if t.Status == model.StatusUpcoming {
				upcomingByDate[t.DueDate] = t
			} else {
				occupiedByDate[t.DueDate] = true
			}
		}

		parentID := actor.ID
		if actor.Role != model.RoleParent && len(existing) > 0 {
			parentID = existing[0].ParentID
		}

		for _, d := range dates {
			date := dateOf(d)
			if occupiedByDate[date] {
				// The task on this date has already progressed; leave it.
				continue
			}
			if t, ok := upcomingByDate[date]; ok {
				applyTaskEdits(t, taskEdits, rec)
				if err := ts.tasks.Update(t); err != nil {
					return nil, err
				}
				result.Updated++
				continue
			}

			created := model.Task{
				ID:         uuid.NewString(),
				TemplateID: template.ID,
				ParentID:   parentID,
				ChildID:    childID,
				DueDate:    date,
				DueTime:    "00:00",
				Recurrence: rec,
				Status:     model.StatusUpcoming,
				Difficulty: model.DifficultyEasy,
				CreatedAt:  time.Now().UTC(),
				UpdatedAt:  time.Now().UTC(),
			}
			applyTaskEdits(&created, taskEdits, rec)
			if taskEdits.RewardCoins == nil {
				created.RewardCoins = DefaultReward(title, created.Difficulty)
			}

			inserted, err := ts.tasks.Create(&created)
			if err != nil {
				return nil, err
			}
			if inserted {
				result.Created++
			}
		}

		for date, t := range upcomingByDate {
			if !wanted[date] {
				if err := ts.tasks.Delete(t.ID); err != nil {
					return nil, err
				}
				result.Deleted++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func applyTaskEdits(t *model.Task, edits TaskEdits, rec model.Recurrence) {
	t.Recurrence = rec
	if edits.DueTime != nil {
		t.DueTime = *edits.DueTime
	}
	if edits.Difficulty != nil {
		t.Difficulty = *edits.Difficulty
	}
	if edits.RewardCoins != nil {
		t.RewardCoins = *edits.RewardCoins
	}
	if edits.NotificationEnabled != nil {
		t.NotificationEnabled = *edits.NotificationEnabled
	}
}
