package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juniperhq/chorequest/internal/database"
	"github.com/juniperhq/chorequest/internal/model"
)

func setupTestDB(t *testing.T) DBTX {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedTemplate(t *testing.T, db DBTX, title string) *model.TaskTemplate {
	t.Helper()
	parentID := uuid.NewString()
	template := &model.TaskTemplate{
		ID:        uuid.NewString(),
		Title:     title,
		ParentID:  &parentID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := NewTemplateStore(db).Create(template); err != nil {
		t.Fatalf("create template: %v", err)
	}
	return template
}

func newTask(template *model.TaskTemplate, childID, dueDate string) *model.Task {
	return &model.Task{
		ID:         uuid.NewString(),
		TemplateID: template.ID,
		ParentID:   *template.ParentID,
		ChildID:    childID,
		DueDate:    dueDate,
		DueTime:    "00:00",
		Recurrence: model.RecurrenceOnce,
		Status:     model.StatusUpcoming,
		Difficulty: model.DifficultyEasy,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func TestTaskCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Wash Dishes")

	task := newTask(template, "child-1", "2025-03-01")
	task.RewardCoins = 10

	inserted, err := ts.Create(task)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if !inserted {
		t.Fatal("expected insert to report true")
	}

	got, err := ts.GetByID(task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != model.StatusUpcoming {
		t.Errorf("status = %q, want %q", got.Status, model.StatusUpcoming)
	}
	if got.RewardCoins != 10 {
		t.Errorf("reward_coins = %d, want 10", got.RewardCoins)
	}
	if got.CompletedAt != nil {
		t.Errorf("completed_at should be nil, got %v", got.CompletedAt)
	}
}

func TestTaskGetByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)

	got, err := ts.GetByID(uuid.NewString())
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got != nil {
		t.Error("expected nil for nonexistent task")
	}
}

func TestTaskDuplicateDateIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Clean Room")

	first := newTask(template, "child-1", "2025-03-01")
	if inserted, err := ts.Create(first); err != nil || !inserted {
		t.Fatalf("first create: inserted=%v err=%v", inserted, err)
	}

	second := newTask(template, "child-1", "2025-03-01")
	inserted, err := ts.Create(second)
	if err != nil {
		t.Fatalf("second create should not error: %v", err)
	}
	if inserted {
		t.Error("duplicate (template, child, date) should not insert")
	}

	// A different child on the same date is a different slot.
	third := newTask(template, "child-2", "2025-03-01")
	inserted, err = ts.Create(third)
	if err != nil {
		t.Fatalf("third create: %v", err)
	}
	if !inserted {
		t.Error("different child should insert")
	}
}

func TestTaskUpdate(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Do Homework")

	task := newTask(template, "child-1", "2025-03-01")
	ts.Create(task)

	now := time.Now().UTC().Truncate(time.Second)
	reason := "not actually done"
	task.Status = model.StatusRejected
	task.RejectedAt = &now
	task.RejectionReason = &reason
	if err := ts.Update(task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	got, _ := ts.GetByID(task.ID)
	if got.Status != model.StatusRejected {
		t.Errorf("status = %q, want %q", got.Status, model.StatusRejected)
	}
	if got.RejectionReason == nil || *got.RejectionReason != reason {
		t.Errorf("rejection_reason = %v, want %q", got.RejectionReason, reason)
	}
	if got.RejectedAt == nil {
		t.Error("rejected_at should be set")
	}
}

func TestListUpcomingDueOn(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Make Bed")

	today := newTask(template, "child-1", "2025-03-05")
	tomorrow := newTask(template, "child-1", "2025-03-06")
	pendingToday := newTask(template, "child-2", "2025-03-05")
	pendingToday.Status = model.StatusPending

	ts.Create(today)
	ts.Create(tomorrow)
	ts.Create(pendingToday)

	got, err := ts.ListUpcomingDueOn("2025-03-05")
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].ID != today.ID {
		t.Errorf("got task %s, want %s", got[0].ID, today.ID)
	}
}

func TestListPendingExpired(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Walk The Dog")

	yesterdayTask := newTask(template, "child-1", "2025-03-04")
	yesterdayTask.Status = model.StatusPending

	dueEarlier := newTask(template, "child-2", "2025-03-05")
	dueEarlier.Status = model.StatusPending
	dueEarlier.DueTime = "09:00"

	dueLater := newTask(template, "child-3", "2025-03-05")
	dueLater.Status = model.StatusPending
	dueLater.DueTime = "23:59"

	upcomingOld := newTask(template, "child-4", "2025-03-01")

	ts.Create(yesterdayTask)
	ts.Create(dueEarlier)
	ts.Create(dueLater)
	ts.Create(upcomingOld)

	got, err := ts.ListPendingExpired("2025-03-05", "12:30")
	if err != nil {
		t.Fatalf("list pending expired: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	for _, task := range got {
		if task.ID == dueLater.ID {
			t.Error("task due 23:59 should not be expired at 12:30")
		}
		if task.ID == upcomingOld.ID {
			t.Error("UPCOMING tasks are never demoted")
		}
	}
}

func TestListDailyRecurring(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Brush Teeth")

	daily := newTask(template, "child-1", "2025-03-05")
	daily.Recurrence = model.RecurrenceDaily
	daily.Status = model.StatusPending

	dailyUpcoming := newTask(template, "child-2", "2025-03-06")
	dailyUpcoming.Recurrence = model.RecurrenceDaily // still UPCOMING: not respawn input

	weekly := newTask(template, "child-3", "2025-03-05")
	weekly.Recurrence = model.RecurrenceWeekly
	weekly.Status = model.StatusApproved

	ts.Create(daily)
	ts.Create(dailyUpcoming)
	ts.Create(weekly)

	got, err := ts.ListDailyRecurring()
	if err != nil {
		t.Fatalf("list daily recurring: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].ID != daily.ID {
		t.Errorf("got task %s, want %s", got[0].ID, daily.ID)
	}
}

func TestTaskDelete(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	template := seedTemplate(t, db, "Set The Table")

	task := newTask(template, "child-1", "2025-03-01")
	ts.Create(task)

	if err := ts.Delete(task.ID); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	got, _ := ts.GetByID(task.ID)
	if got != nil {
		t.Error("expected nil for deleted task")
	}
}

func TestListByTemplateAndChild(t *testing.T) {
	db := setupTestDB(t)
	ts := NewTaskStore(db)
	templateA := seedTemplate(t, db, "Feed The Pet")
	templateB := seedTemplate(t, db, "Water The Plants")

	ts.Create(newTask(templateA, "child-1", "2025-03-01"))
	ts.Create(newTask(templateA, "child-1", "2025-03-02"))
	ts.Create(newTask(templateA, "child-2", "2025-03-01"))
	ts.Create(newTask(templateB, "child-1", "2025-03-01"))

	got, err := ts.ListByTemplateAndChild(templateA.ID, "child-1")
	if err != nil {
		t.Fatalf("list by template and child: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].DueDate != "2025-03-01" || got[1].DueDate != "2025-03-02" {
		t.Errorf("tasks not ordered by due date: %v, %v", got[0].DueDate, got[1].DueDate)
	}
}
