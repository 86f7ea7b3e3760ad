package service

import (
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// ErrValidation is the kind of every input validation failure
var ErrValidation = errors.New("validation failed")

// Error is returned by every service operation that fails for a reason the
// caller can act on. errors.Is(err, Kind) holds for the kind sentinel:
// ErrValidation, store.ErrNotFound, store.ErrDuplicate or store.ErrReferenced.
type Error struct {
	Kind    error
	Message string

	// Field names the offending input field, when there is exactly one
	Field string

	// Details maps field names to problems
	Details map[string]string

	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func notFound(entity string, id interface{}) error {
	return &Error{
		Kind:    store.ErrNotFound,
		Message: fmt.Sprintf("%s with ID %v not found.", entity, id),
	}
}

func duplicate(field, message string) error {
	return &Error{
		Kind:    store.ErrDuplicate,
		Message: message,
		Field:   field,
	}
}

func invalid(field, message string) error {
	return &Error{
		Kind:    ErrValidation,
		Message: message,
		Field:   field,
		Details: map[string]string{field: message},
	}
}

// translate turns store errors into service errors. Lookup misses become
// NotFound naming entity and id; constraint violations that got past the
// pre-checks become Duplicate or Conflict. Anything else is returned as is.
func translate(err error, entity string, id interface{}) error {
	if err == nil {
		return nil
	}

	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}

	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		e := notFound(entity, id).(*Error)
		e.Err = err
		return e
	}

	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		return &Error{
			Kind:    store.ErrDuplicate,
			Message: fmt.Sprintf("A %s with these values already exists.", entity),
			Err:     err,
		}
	}

	var ref *store.ReferencedError
	if errors.As(err, &ref) {
		return &Error{
			Kind:    store.ErrReferenced,
			Message: fmt.Sprintf("Cannot change %s: it is still referenced.", entity),
			Err:     err,
		}
	}

	return err
}

// exists reports whether a lookup found its row. Errors other than
// NotFound are returned.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
