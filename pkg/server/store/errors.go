package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested row doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write violates a unique constraint
	ErrDuplicate = errors.New("duplicate")

	// ErrReferenced is returned when a write violates a foreign key
	ErrReferenced = errors.New("still referenced")
)

// NotFoundError names the entity that was not found.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFound returns a *NotFoundError for entity and id.
func NewNotFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// DuplicateError carries the violated constraint.
type DuplicateError struct {
	Entity     string
	Constraint string
}

func (e *DuplicateError) Error() string {
	if e.Constraint == "" {
		return e.Entity + " already exists"
	}
	return fmt.Sprintf("%s already exists (%s)", e.Entity, e.Constraint)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// ReferencedError carries the violated foreign key.
type ReferencedError struct {
	Entity     string
	Constraint string
	Detail     string
}

func (e *ReferencedError) Error() string {
	msg := e.Entity + " is still referenced"
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *ReferencedError) Unwrap() error { return ErrReferenced }
