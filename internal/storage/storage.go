// Package storage persists named records, each holding one serialized
// document. The task collection lives in a single record, mirroring the
// browser-profile storage model the app replaces.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// TasksRecord is the record holding the whole task collection.
const TasksRecord = "tasks"

type Store interface {
	// GetRecord returns the value stored under name, or ErrNotFound.
	GetRecord(ctx context.Context, name string) (string, error)
	// PutRecord writes value under name, replacing any previous value.
	PutRecord(ctx context.Context, name string, value string) error
	// DeleteRecord removes the record; deleting a missing record is not an error.
	DeleteRecord(ctx context.Context, name string) error
}
