package services

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Match them with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrInternal  = errors.New("internal error")
)

// Error describes a failed operation on a single entity.
type Error struct {
	Kind   error
	Entity string
	ID     int
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Entity
	if e.ID != 0 {
		msg = fmt.Sprintf("%s %d", e.Entity, e.ID)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }

func notFound(entity string, id int) error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id, Reason: "not found"}
}

func forbidden(entity string, id int, reason string) error {
	return &Error{Kind: ErrForbidden, Entity: entity, ID: id, Reason: reason}
}

func conflict(entity string, id int, reason string, err error) error {
	return &Error{Kind: ErrConflict, Entity: entity, ID: id, Reason: reason, Err: err}
}

func internal(entity string, id int, err error) error {
	return &Error{Kind: ErrInternal, Entity: entity, ID: id, Reason: "internal error", Err: err}
}
