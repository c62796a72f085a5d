package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/backend"
	"github.com/ProNexus-Startup/ProjectHub/backend/backend/backendtest"
	"github.com/ProNexus-Startup/ProjectHub/backend/database"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
	"github.com/google/uuid"
)

type fixture struct {
	fake      *backendtest.Fake
	repo      *database.TaskRepo
	cache     *querycache.Cache
	recorder  *notify.Recorder
	updater   *TaskUpdater
	projectID uuid.UUID
	taskID    uuid.UUID
	userID    uuid.UUID
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fake:      backendtest.New(),
		cache:     querycache.New(querycache.NewMemoryStore()),
		recorder:  notify.NewRecorder(10),
		projectID: uuid.New(),
		taskID:    uuid.New(),
		userID:    uuid.New(),
	}
	t.Cleanup(f.cache.Close)
	f.repo = database.NewTaskRepo(f.fake)
	f.updater = NewTaskUpdater(f.cache, f.repo, f.recorder)
	f.ctx = auth.WithSession(context.Background(), &auth.Session{User: auth.User{ID: f.userID}})

	f.fake.Seed("tasks", models.Task{
		ID:        f.taskID,
		ProjectID: f.projectID,
		Name:      "Write report",
		Status:    models.TaskNotStarted,
		Priority:  models.PriorityMedium,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	return f
}

func (f *fixture) load(t *testing.T) []models.Task {
	t.Helper()
	tasks, err := querycache.QueryJSON(f.ctx, f.cache, querycache.TasksKey(f.userID, f.projectID), func(ctx context.Context) ([]models.Task, error) {
		return f.repo.ListForProject(ctx, f.projectID)
	})
	if err != nil {
		t.Fatal(err)
	}
	return tasks
}

func (f *fixture) cached(t *testing.T) querycache.Entry {
	t.Helper()
	entry, ok, err := f.cache.Peek(context.Background(), querycache.TasksKey(f.userID, f.projectID))
	if err != nil || !ok {
		t.Fatalf("task list not cached: %v", err)
	}
	return entry
}

func (f *fixture) cachedTasks(t *testing.T) []models.Task {
	t.Helper()
	var tasks []models.Task
	if err := json.Unmarshal(f.cached(t).Data, &tasks); err != nil {
		t.Fatal(err)
	}
	return tasks
}

func TestUpdateCommits(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	var duringWrite models.TaskStatus
	f.fake.OnCall("update", "tasks", func() {
		duringWrite = f.cachedTasks(t)[0].Status
	})

	m, err := f.updater.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"status": "completed"}})
	if err != nil {
		t.Fatal(err)
	}
	if duringWrite != models.TaskCompleted {
		t.Errorf("cache during write shows %q, want the optimistic status", duringWrite)
	}

	want := []State{StateIdle, StatePending, StateCommitted, StateSettled}
	if !equalStates(m.History, want) {
		t.Errorf("history = %v, want %v", m.History, want)
	}
	if m.Task == nil || m.Task.Status != models.TaskCompleted || m.Err != nil {
		t.Errorf("mutation = %+v", m)
	}

	f.cache.Wait()
	entry := f.cached(t)
	if entry.Stale {
		t.Error("task list still stale after settlement")
	}
	remote, err := f.repo.ListForProject(context.Background(), f.projectID)
	if err != nil {
		t.Fatal(err)
	}
	wantData, _ := json.Marshal(remote)
	if !bytes.Equal(entry.Data, wantData) {
		t.Errorf("cache = %s\nbackend = %s", entry.Data, wantData)
	}

	notes := f.recorder.Recent(f.userID)
	if len(notes) != 1 || notes[0].Title != "Task Updated" || notes[0].Variant != notify.VariantDefault {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestUpdateRollsBack(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	before := f.cached(t)

	denied := &backend.Error{Code: "42501", Message: "new row violates row-level security policy"}
	f.fake.FailOn("update", "tasks", denied)

	var optimistic models.TaskStatus
	f.fake.OnCall("update", "tasks", func() {
		optimistic = f.cachedTasks(t)[0].Status
	})

	var atRollback querycache.Entry
	f.updater.SetObserver(func(m *Mutation, state State) {
		if state == StateRolledBack {
			atRollback = f.cached(t)
		}
	})

	m, err := f.updater.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"status": "completed"}})
	if !errors.Is(err, denied) || !errors.Is(m.Err, denied) {
		t.Fatalf("err = %v", err)
	}
	if optimistic != models.TaskCompleted {
		t.Errorf("optimistic status = %q", optimistic)
	}

	if !bytes.Equal(atRollback.Data, before.Data) || atRollback.Stale != before.Stale || !atRollback.UpdatedAt.Equal(before.UpdatedAt) {
		t.Errorf("rolled back to %+v, want %+v", atRollback, before)
	}
	want := []State{StateIdle, StatePending, StateRolledBack, StateSettled}
	if !equalStates(m.History, want) {
		t.Errorf("history = %v, want %v", m.History, want)
	}

	f.cache.Wait()
	if got := f.cachedTasks(t)[0].Status; got != models.TaskNotStarted {
		t.Errorf("status after settlement = %q", got)
	}

	notes := f.recorder.Recent(f.userID)
	if len(notes) != 1 || notes[0].Variant != notify.VariantDestructive || notes[0].Description != "Failed to update task." {
		t.Errorf("notifications = %+v", notes)
	}
}

func TestUpdateWithoutCachedList(t *testing.T) {
	f := newFixture(t)

	m, err := f.updater.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"progress": 40}})
	if err != nil {
		t.Fatal(err)
	}
	if m.State() != StateSettled || m.Task.Progress != 40 {
		t.Errorf("mutation = %+v", m)
	}
	f.cache.Wait()
	if _, ok, _ := f.cache.Peek(context.Background(), querycache.TasksKey(f.userID, f.projectID)); ok {
		t.Error("update created a cache entry")
	}
}

func TestUpdateFailureWithoutCachedList(t *testing.T) {
	f := newFixture(t)
	f.fake.FailOn("update", "tasks", errors.New("timeout"))

	m, err := f.updater.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"progress": 40}})
	if err == nil || m.State() != StateSettled {
		t.Fatalf("got %+v, %v", m, err)
	}
	if _, ok, _ := f.cache.Peek(context.Background(), querycache.TasksKey(f.userID, f.projectID)); ok {
		t.Error("rollback created a cache entry")
	}
}

func TestUpdateDuringFirstLoad(t *testing.T) {
	f := newFixture(t)

	var selects int32
	started := make(chan struct{})
	release := make(chan struct{})
	f.fake.OnCall("select", "tasks", func() {
		if atomic.AddInt32(&selects, 1) == 1 {
			close(started)
			<-release
		}
	})

	type result struct {
		tasks []models.Task
		err   error
	}
	done := make(chan result)
	go func() {
		tasks, err := querycache.QueryJSON(f.ctx, f.cache, querycache.TasksKey(f.userID, f.projectID), func(ctx context.Context) ([]models.Task, error) {
			return f.repo.ListForProject(ctx, f.projectID)
		})
		done <- result{tasks, err}
	}()
	<-started

	if _, err := f.updater.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"status": "completed"}}); err != nil {
		t.Fatal(err)
	}
	f.cache.Wait()
	close(release)

	got := <-done
	if got.err != nil {
		t.Fatalf("first load failed: %v", got.err)
	}
	if len(got.tasks) != 1 || got.tasks[0].Status != models.TaskCompleted {
		t.Errorf("first load = %+v", got.tasks)
	}
}

func TestConcurrentRollbacksLastApplied(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	f.fake.FailOn("update", "tasks", errors.New("timeout"))

	entered := make(chan chan struct{})
	f.fake.OnCall("update", "tasks", func() {
		release := make(chan struct{})
		entered <- release
		<-release
	})

	// each mutation records the cached task at its own rollback
	var atRollbackA, atRollbackB models.Task
	updaterA := NewTaskUpdater(f.cache, f.repo, f.recorder)
	updaterA.SetObserver(func(m *Mutation, state State) {
		if state == StateRolledBack {
			atRollbackA = f.cachedTasks(t)[0]
		}
	})
	updaterB := NewTaskUpdater(f.cache, f.repo, f.recorder)
	updaterB.SetObserver(func(m *Mutation, state State) {
		if state == StateRolledBack {
			atRollbackB = f.cachedTasks(t)[0]
		}
	})

	doneA := make(chan error)
	go func() {
		_, err := updaterA.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"status": "completed"}})
		doneA <- err
	}()
	releaseA := <-entered

	doneB := make(chan error)
	go func() {
		_, err := updaterB.Update(f.ctx, f.projectID, TaskPatch{ID: f.taskID, Data: map[string]any{"priority": "High"}})
		doneB <- err
	}()
	releaseB := <-entered

	if task := f.cachedTasks(t)[0]; task.Status != models.TaskCompleted || task.Priority != models.PriorityHigh {
		t.Fatalf("both optimistic patches not visible: %+v", task)
	}

	close(releaseA)
	if err := <-doneA; err == nil {
		t.Fatal("first update succeeded")
	}
	f.cache.Wait()
	close(releaseB)
	if err := <-doneB; err == nil {
		t.Fatal("second update succeeded")
	}

	if atRollbackA.Status != models.TaskNotStarted || atRollbackA.Priority != models.PriorityMedium {
		t.Errorf("first rollback restored %q/%q", atRollbackA.Status, atRollbackA.Priority)
	}
	// the second snapshot was taken over the first optimistic patch
	if atRollbackB.Status != models.TaskCompleted || atRollbackB.Priority != models.PriorityMedium {
		t.Errorf("second rollback restored %q/%q", atRollbackB.Status, atRollbackB.Priority)
	}

	f.cache.Wait()
	if task := f.cachedTasks(t)[0]; task.Status != models.TaskNotStarted || task.Priority != models.PriorityMedium {
		t.Errorf("after settlement = %q/%q", task.Status, task.Priority)
	}
}

func TestMergeTaskTouchesOnlyMatchingTask(t *testing.T) {
	id := uuid.New()
	data := []byte(`[{"id":"` + id.String() + `","status":"not-started","progress":12.5},{"id":"other","status":"on-hold","progress":3}]`)

	merged, err := mergeTask(data, TaskPatch{ID: id, Data: map[string]any{"status": "in-progress"}})
	if err != nil {
		t.Fatal(err)
	}
	var tasks []map[string]any
	if err := json.Unmarshal(merged, &tasks); err != nil {
		t.Fatal(err)
	}
	if tasks[0]["status"] != "in-progress" || tasks[0]["progress"] != 12.5 {
		t.Errorf("patched task = %v", tasks[0])
	}
	if tasks[1]["status"] != "on-hold" {
		t.Errorf("other task = %v", tasks[1])
	}

	if _, err := mergeTask([]byte(`{"not":"a list"}`), TaskPatch{ID: id}); err == nil {
		t.Error("expected an error for a non-list entry")
	}
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
