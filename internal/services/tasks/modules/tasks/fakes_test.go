package tasks

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	module "github.com/louisbranch/taskboard/internal/services/tasks/module"
	"github.com/louisbranch/taskboard/internal/services/tasks/storage"
	"github.com/louisbranch/taskboard/internal/services/tasks/task"
)

// fakeTaskStore keeps tasks in memory with the same owner scoping and list
// ordering as the SQL stores.
type fakeTaskStore struct {
	tasks   map[string]task.Task
	listErr error
	updates int
	deletes int
}

func newFakeTaskStore(seed ...task.Task) *fakeTaskStore {
	store := &fakeTaskStore{tasks: map[string]task.Task{}}
	for _, item := range seed {
		store.tasks[item.ID] = item
	}
	return store
}

func (f *fakeTaskStore) InsertTask(_ context.Context, t task.Task) error {
	if _, ok := f.tasks[t.ID]; ok {
		return errors.New("duplicate task id")
	}
	f.tasks[t.ID] = t
	return nil
}

func (f *fakeTaskStore) FindTask(_ context.Context, ownerID string, taskID string) (task.Task, error) {
	item, ok := f.tasks[taskID]
	if !ok || item.OwnerID != ownerID {
		return task.Task{}, storage.ErrNotFound
	}
	return item, nil
}

func (f *fakeTaskStore) FindTasksByOwner(_ context.Context, ownerID string, filter storage.TaskFilter) ([]task.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var items []task.Task
	for _, item := range f.tasks {
		if item.OwnerID != ownerID {
			continue
		}
		switch filter {
		case storage.TaskFilterPending:
			if item.Completed() {
				continue
			}
		case storage.TaskFilterCompleted:
			if !item.Completed() {
				continue
			}
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if filter == storage.TaskFilterCompleted && !items[i].DoDate.Equal(*items[j].DoDate) {
			return items[i].DoDate.After(*items[j].DoDate)
		}
		if filter != storage.TaskFilterCompleted && !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (f *fakeTaskStore) UpdateTask(_ context.Context, t task.Task) error {
	current, ok := f.tasks[t.ID]
	if !ok || current.OwnerID != t.OwnerID {
		return storage.ErrNotFound
	}
	f.tasks[t.ID] = t
	f.updates++
	return nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, ownerID string, taskID string) error {
	current, ok := f.tasks[taskID]
	if !ok || current.OwnerID != ownerID {
		return storage.ErrNotFound
	}
	delete(f.tasks, taskID)
	f.deletes++
	return nil
}

// fakeClock advances one minute per call.
type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.current = c.current.Add(time.Minute)
	return c.current
}

func testDependencies(store *fakeTaskStore, clock *fakeClock, userID string) module.Dependencies {
	next := 0
	return module.Dependencies{
		Tasks: store,
		Now:   clock.Now,
		NewID: func() (string, error) {
			next++
			return "task-" + strconv.Itoa(next), nil
		},
		ResolveUserID: func(*http.Request) string { return userID },
		ResolveViewer: func(*http.Request) module.Viewer {
			return module.Viewer{UserID: userID, Username: "alice"}
		},
	}
}

func seededTask(id, ownerID, title string, createdAt time.Time, doDate *time.Time) task.Task {
	return task.Task{ID: id, OwnerID: ownerID, Title: title, CreatedAt: createdAt, DoDate: doDate}
}

func timePtr(value time.Time) *time.Time {
	return &value
}
