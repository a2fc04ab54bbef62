// Package storage defines the persistence boundary the engine writes through.
// Implementations live outside the engine; memory.Store is the reference
// adapter used by tests, examples and the CLI.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/CodeSapiens-in/formengine/pkg/schema"
)

var (
	// ErrNotFound reports a missing form or answer set. Callers treat it as a
	// local no-op, not a failure.
	ErrNotFound = errors.New("storage: not found")

	// ErrVersionConflict reports a stale form version stamp on upsert. The
	// caller must reload before retrying.
	ErrVersionConflict = errors.New("storage: version conflict")
)

// AdapterError wraps a failure inside an adapter round trip. It is retryable
// only by explicit user action; the engine never retries on its own.
type AdapterError struct {
	Op  string
	Err error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// Adapter is the persistence contract for forms and answer sets. All calls
// are synchronous single round trips; implementations own their retries and
// serialization.
type Adapter interface {
	// GetForm returns the persisted form or ErrNotFound.
	GetForm(ctx context.Context, id string) (schema.Form, error)

	// UpsertForm inserts (empty id) or updates (existing id) a form and
	// returns the persisted id. Updates check the version stamp and return
	// ErrVersionConflict when it is stale; the stored version advances on
	// every successful write.
	UpsertForm(ctx context.Context, form schema.Form) (string, error)

	// GetAnswerSet returns the answer set owned by ownerID for the form, or
	// ErrNotFound.
	GetAnswerSet(ctx context.Context, formID, ownerID string) (schema.AnswerSet, error)

	// UpsertAnswerSet inserts or updates the owner's answer set for a form.
	// There is at most one per (form, owner).
	UpsertAnswerSet(ctx context.Context, set schema.AnswerSet) error
}
