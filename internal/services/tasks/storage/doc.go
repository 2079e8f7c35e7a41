// Package storage declares persistence contracts for the task service.
//
// Every task operation is scoped by owner id: a task that exists but belongs
// to someone else is reported as ErrNotFound, exactly like a missing one.
package storage
