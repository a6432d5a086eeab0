package lifecycle

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/juniperhq/chorequest/internal/database"
	"github.com/juniperhq/chorequest/internal/model"
	"github.com/juniperhq/chorequest/internal/recurrence"
	"github.com/juniperhq/chorequest/internal/store"
)

// captureNotifier records everything enqueued after commit.
type captureNotifier struct {
	sent []model.Notification
}

func (c *captureNotifier) Enqueue(n model.Notification) {
	c.sent = append(c.sent, n)
}

func (c *captureNotifier) byType(typ string) []model.Notification {
	var out []model.Notification
	for _, n := range c.sent {
		if n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

type testEnv struct {
	engine   *Engine
	db       *sql.DB
	clock    *FixedClock
	notifier *captureNotifier
	parent   model.Actor
	child    model.Actor
}

// newTestEnv builds an engine over an in-memory database with the clock pinned
// to the given instant.
func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()

	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := &FixedClock{T: now}
	notifier := &captureNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return &testEnv{
		engine:   New(db, notifier, clock, time.UTC, recurrence.Policy{}, logger),
		db:       db,
		clock:    clock,
		notifier: notifier,
		parent:   model.Actor{ID: "parent-1", Role: model.RoleParent},
		child:    model.Actor{ID: "child-1", Role: model.RoleChild},
	}
}

func (env *testEnv) createTemplate(t *testing.T, title string) *model.TaskTemplate {
	t.Helper()
	template, err := env.engine.CreateTemplate(context.Background(), env.parent, title, "", "")
	require.NoError(t, err)
	return template
}

// materializeOne creates a single task for env.child and returns it.
func (env *testEnv) materializeOne(t *testing.T, templateID string, rec model.Recurrence, date string, sched Schedule) *model.Task {
	t.Helper()
	sched.Recurrence = rec
	sched.Dates = []string{date}
	created, err := env.engine.Materialize(context.Background(), templateID, env.parent.ID, env.child.ID, sched)
	require.NoError(t, err)
	require.Len(t, created, 1)
	return &created[0]
}

func (env *testEnv) task(t *testing.T, id string) *model.Task {
	t.Helper()
	task, err := env.engine.Tasks().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, task)
	return task
}

func (env *testEnv) setStatus(t *testing.T, task *model.Task, status model.Status) {
	t.Helper()
	task.Status = status
	require.NoError(t, env.engine.Tasks().Update(task))
}

func (env *testEnv) streak(t *testing.T, childID string) *model.Streak {
	t.Helper()
	st, err := store.NewStreakStore(env.db).GetByChild(childID)
	require.NoError(t, err)
	return st
}

// date helpers: the engine stores YYYY-MM-DD, schedule input is DD-MM-YYYY.

func storeDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func inputDate(t time.Time) string {
	return t.Format("02-01-2006")
}
