// Package mutation applies task updates optimistically: the cached task
// list shows the change before the backend confirms it, and is put back
// exactly as it was when the backend refuses.
package mutation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ProNexus-Startup/ProjectHub/backend/auth"
	"github.com/ProNexus-Startup/ProjectHub/backend/metrics"
	"github.com/ProNexus-Startup/ProjectHub/backend/models"
	"github.com/ProNexus-Startup/ProjectHub/backend/notify"
	"github.com/ProNexus-Startup/ProjectHub/backend/querycache"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type State string

const (
	StateIdle       State = "idle"
	StatePending    State = "pending"
	StateCommitted  State = "committed"
	StateRolledBack State = "rolled_back"
	StateSettled    State = "settled"
)

var errNotCached = errors.New("task list not cached")

// TaskPatch is what a caller dispatches: the task id and the fields to change.
type TaskPatch struct {
	ID   uuid.UUID      `json:"id"`
	Data map[string]any `json:"data"`
}

// TaskStore writes task changes to the backend. *database.TaskRepo implements it.
type TaskStore interface {
	Update(ctx context.Context, projectID, id uuid.UUID, data map[string]any) (*models.Task, error)
}

// Mutation is the record of one dispatched update.
type Mutation struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"project_id"`
	TaskID    uuid.UUID    `json:"task_id"`
	History   []State      `json:"history"`
	Task      *models.Task `json:"task,omitempty"`
	Err       error        `json:"-"`
}

func (m *Mutation) State() State {
	if len(m.History) == 0 {
		return StateIdle
	}
	return m.History[len(m.History)-1]
}

// Observer is called synchronously on every state a mutation enters.
type Observer func(m *Mutation, state State)

type TaskUpdater struct {
	cache    *querycache.Cache
	tasks    TaskStore
	notifier notify.Notifier
	observer Observer
	logger   zerolog.Logger
}

func NewTaskUpdater(cache *querycache.Cache, tasks TaskStore, notifier notify.Notifier) *TaskUpdater {
	if notifier == nil {
		notifier = notify.Discard
	}
	return &TaskUpdater{
		cache:    cache,
		tasks:    tasks,
		notifier: notifier,
		logger:   log.With().Str("component", "taskUpdater").Logger(),
	}
}

func (u *TaskUpdater) SetObserver(observer Observer) {
	u.observer = observer
}

// Update dispatches patch against the tasks of projectID and runs it to
// settlement: idle, pending, committed or rolled_back, settled. The
// returned error is the backend's, unchanged.
//
// Every concurrent mutation keeps its own snapshot, so when two of them
// fail on the same project the rollback applied last wins.
func (u *TaskUpdater) Update(ctx context.Context, projectID uuid.UUID, patch TaskPatch) (*Mutation, error) {
	m := &Mutation{ID: uuid.New(), ProjectID: projectID, TaskID: patch.ID}
	logger := u.logger.With().
		Str("mutationID", m.ID.String()).
		Str("projectID", projectID.String()).
		Str("taskID", patch.ID.String()).
		Logger()
	userID := callerID(ctx)
	key := querycache.TasksKey(userID, projectID)
	u.enter(m, StateIdle)

	// a refetch landing after the patch would overwrite it
	u.cache.Cancel(key)
	snapshot, err := u.cache.Patch(ctx, key, func(data []byte, ok bool) ([]byte, error) {
		if !ok {
			return nil, errNotCached
		}
		return mergeTask(data, patch)
	})
	patched := err == nil
	if err != nil && !errors.Is(err, errNotCached) {
		logger.Warn().Err(err).Msg("Could not apply optimistic task patch")
	}
	u.enter(m, StatePending)

	// the write is never cancelled once issued
	task, updateErr := u.tasks.Update(context.WithoutCancel(ctx), projectID, patch.ID, patch.Data)
	if updateErr == nil {
		m.Task = task
		u.enter(m, StateCommitted)
		metrics.IncrementTaskMutation(string(StateCommitted))
		u.notifier.Notify(ctx, notify.Notification{UserID: userID, Title: "Task Updated"})
	} else {
		m.Err = updateErr
		if patched {
			if err := u.cache.Restore(context.WithoutCancel(ctx), key, snapshot); err != nil {
				logger.Error().Err(err).Msg("Error restoring task list snapshot")
			}
		}
		logger.Error().Err(updateErr).Msg("Error updating task")
		u.enter(m, StateRolledBack)
		metrics.IncrementTaskMutation(string(StateRolledBack))
		u.notifier.Notify(ctx, notify.Notification{
			UserID:      userID,
			Title:       "Error",
			Description: "Failed to update task.",
			Variant:     notify.VariantDestructive,
		})
	}

	if err := u.cache.Invalidate(context.WithoutCancel(ctx), key); err != nil {
		logger.Error().Err(err).Msg("Error invalidating task list")
	}
	u.enter(m, StateSettled)
	return m, updateErr
}

func (u *TaskUpdater) enter(m *Mutation, state State) {
	m.History = append(m.History, state)
	if u.observer != nil {
		u.observer(m, state)
	}
}

// mergeTask copies patch.Data into the task of the JSON list data whose id
// matches. Other tasks keep their values; numbers are not reformatted.
func mergeTask(data []byte, patch TaskPatch) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tasks []map[string]any
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("decode cached tasks: %w", err)
	}

	id := patch.ID.String()
	for _, task := range tasks {
		if taskID, _ := task["id"].(string); taskID != id {
			continue
		}
		for field, value := range patch.Data {
			task[field] = value
		}
	}
	return json.Marshal(tasks)
}

func callerID(ctx context.Context) uuid.UUID {
	if session, ok := auth.SessionFromContext(ctx); ok {
		return session.User.ID
	}
	return uuid.Nil
}
