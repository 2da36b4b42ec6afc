package repositories

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already registered")
	ErrMediaNotFound      = errors.New("media not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrDiscussionNotFound = errors.New("discussion not found")
	ErrAlreadyMember      = errors.New("user is already a member")
	ErrNotMember          = errors.New("user is not a member")
	// ErrIntegrity reports a violated database constraint.
	ErrIntegrity = errors.New("integrity constraint violated")
)

// isIntegrityViolation reports whether err carries a class 23 SQLSTATE.
func isIntegrityViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name() == "unique_violation"
	}
	return false
}

// classifyInsert wraps constraint violations in ErrIntegrity.
func classifyInsert(err error) error {
	if isIntegrityViolation(err) {
		return fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return err
}
