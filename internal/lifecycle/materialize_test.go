package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juniperhq/chorequest/internal/apperror"
	"github.com/juniperhq/chorequest/internal/model"
)

var testNow = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func TestMaterializeCreatesPendingForToday(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	task := env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(testNow), Schedule{})

	assert.Equal(t, model.StatusPending, task.Status)
	assert.Equal(t, storeDate(testNow), task.DueDate)
	assert.Equal(t, "00:00", task.DueTime)
}

func TestMaterializeCreatesUpcomingForFutureDate(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	tomorrow := testNow.AddDate(0, 0, 1)
	task := env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(tomorrow), Schedule{DueTime: "16:30"})

	assert.Equal(t, model.StatusUpcoming, task.Status)
	assert.Equal(t, storeDate(tomorrow), task.DueDate)
	assert.Equal(t, "16:30", task.DueTime)
}

func TestMaterializeDefaultReward(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Do Homework")

	task := env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(testNow), Schedule{
		Difficulty: model.DifficultyHard,
	})

	// Base 15 for this title, doubled for HARD.
	assert.Equal(t, 30, task.RewardCoins)
	assert.Equal(t, model.DifficultyHard, task.Difficulty)
}

func TestMaterializeExplicitRewardWins(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Do Homework")

	reward := 3
	task := env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(testNow), Schedule{
		RewardCoins: &reward,
	})

	assert.Equal(t, 3, task.RewardCoins)
}

func TestMaterializeSecondCallIsNoOp(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")
	sched := Schedule{Recurrence: model.RecurrenceOnce, Dates: []string{inputDate(testNow)}}

	_, err := env.engine.Materialize(context.Background(), template.ID, env.parent.ID, env.child.ID, sched)
	require.NoError(t, err)

	_, err = env.engine.Materialize(context.Background(), template.ID, env.parent.ID, env.child.ID, sched)
	assert.True(t, apperror.IsKind(err, apperror.KindNoOp), "expected no-op error, got %v", err)
}

func TestMaterializeOverlapCreatesOnlyNewDates(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	day2 := testNow.AddDate(0, 0, 1)
	day3 := testNow.AddDate(0, 0, 2)

	first, err := env.engine.Materialize(context.Background(), template.ID, env.parent.ID, env.child.ID, Schedule{
		Recurrence: model.RecurrenceWeekly,
		Dates:      []string{inputDate(testNow), inputDate(day2)},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := env.engine.Materialize(context.Background(), template.ID, env.parent.ID, env.child.ID, Schedule{
		Recurrence: model.RecurrenceWeekly,
		Dates:      []string{inputDate(day2), inputDate(day3)},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, storeDate(day3), second[0].DueDate)
}

func TestMaterializeNotifications(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(testNow), Schedule{
		NotificationEnabled: true,
	})

	assigned := env.notifier.byType(model.NotifTypeTaskAssigned)
	require.Len(t, assigned, 1)
	assert.Equal(t, model.RecipientChild, assigned[0].RecipientType)
	assert.Equal(t, env.child.ID, assigned[0].RecipientID)
}

func TestMaterializeNoNotificationsWhenDisabled(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	env.materializeOne(t, template.ID, model.RecurrenceOnce, inputDate(testNow), Schedule{})

	assert.Empty(t, env.notifier.sent)
}

func TestMaterializeUnknownTemplate(t *testing.T) {
	env := newTestEnv(t, testNow)

	_, err := env.engine.Materialize(context.Background(), "missing", env.parent.ID, env.child.ID, Schedule{
		Recurrence: model.RecurrenceOnce,
		Dates:      []string{inputDate(testNow)},
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestMaterializeRequiresChild(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	_, err := env.engine.Materialize(context.Background(), template.ID, env.parent.ID, "", Schedule{
		Recurrence: model.RecurrenceOnce,
		Dates:      []string{inputDate(testNow)},
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestMaterializeRejectsBadDueTime(t *testing.T) {
	env := newTestEnv(t, testNow)
	template := env.createTemplate(t, "Clean Room")

	_, err := env.engine.Materialize(context.Background(), template.ID, env.parent.ID, env.child.ID, Schedule{
		Recurrence: model.RecurrenceOnce,
		Dates:      []string{inputDate(testNow)},
		DueTime:    "25:00",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
