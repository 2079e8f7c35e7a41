// Package task defines the to-do item domain model and its input validation.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/louisbranch/taskboard/internal/platform/id"
)

// MaxTitleLength bounds task titles, counted in runes after trimming.
const MaxTitleLength = 100

var (
	// ErrTitleRequired indicates a blank title.
	ErrTitleRequired = errors.New("title is required")
	// ErrTitleTooLong indicates a title over MaxTitleLength runes.
	ErrTitleTooLong = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	// ErrOwnerRequired indicates a task without an owner.
	ErrOwnerRequired = errors.New("owner is required")
)

// Task is one to-do item owned by exactly one user.
//
// DoDate is nil while the task is pending; once completed it holds the
// completion time.
type Task struct {
	ID        string
	OwnerID   string
	Title     string
	Memo      string
	Important bool
	DoDate    *time.Time
	CreatedAt time.Time
}

// Completed reports whether the task has a completion time.
func (t Task) Completed() bool {
	return t.DoDate != nil
}

// Fields holds the user-editable task fields submitted by create and edit forms.
type Fields struct {
	Title     string
	Memo      string
	Important bool
}

// NormalizeFields trims and validates submitted fields.
func NormalizeFields(input Fields) (Fields, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Memo = strings.TrimSpace(input.Memo)
	if input.Title == "" {
		return Fields{}, ErrTitleRequired
	}
	if utf8.RuneCountInString(input.Title) > MaxTitleLength {
		return Fields{}, ErrTitleTooLong
	}
	return input, nil
}

// New builds a pending task for ownerID from validated fields.
func New(ownerID string, input Fields, now func() time.Time, idGenerator func() (string, error)) (Task, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Task{}, ErrOwnerRequired
	}
	normalized, err := NormalizeFields(input)
	if err != nil {
		return Task{}, err
	}
	taskID, err := idGenerator()
	if err != nil {
		return Task{}, fmt.Errorf("generate task id: %w", err)
	}
	return Task{
		ID:        taskID,
		OwnerID:   ownerID,
		Title:     normalized.Title,
		Memo:      normalized.Memo,
		Important: normalized.Important,
		CreatedAt: now().UTC(),
	}, nil
}

// Apply returns t with its editable fields replaced. Owner, id, completion and
// creation time are never touched.
func (t Task) Apply(input Fields) (Task, error) {
	normalized, err := NormalizeFields(input)
	if err != nil {
		return Task{}, err
	}
	t.Title = normalized.Title
	t.Memo = normalized.Memo
	t.Important = normalized.Important
	return t, nil
}

// Complete stamps the completion time. Completing an already completed task
// overwrites the previous time.
func (t Task) Complete(at time.Time) Task {
	completedAt := at.UTC()
	t.DoDate = &completedAt
	return t
}
