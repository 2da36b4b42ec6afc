package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// CascadeResult counts the rows removed by a cascading delete.
type CascadeResult struct {
	Reviews     int64 `json:"reviews"`
	Comments    int64 `json:"comments"`
	Discussions int64 `json:"discussions"`
	Media       int64 `json:"media"`
	Members     int64 `json:"members"`
}

// CascadeRepository removes an aggregate root together with every row that
// depends on it. Each method runs in one transaction: either every row is
// gone or nothing changed.
type CascadeRepository interface {
	DeleteGroup(ctx context.Context, groupID int) (CascadeResult, error)
	DeleteGroupMedia(ctx context.Context, groupID int, mediaID int) (CascadeResult, error)
	DeleteDiscussion(ctx context.Context, discussionID int) (CascadeResult, error)
}

// CascadeRepo is a sqlx implementation of CascadeRepository.
type CascadeRepo struct {
	db *sqlx.DB
}

// NewCascadeRepo constructs a CascadeRepo.
func NewCascadeRepo(db *sqlx.DB) *CascadeRepo {
	return &CascadeRepo{db: db}
}

// DeleteGroup removes reviews, comments, discussions, media, memberships
// and finally the group row itself.
func (r *CascadeRepo) DeleteGroup(ctx context.Context, groupID int) (CascadeResult, error) {
	var result CascadeResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockGroup(ctx, tx, groupID); err != nil {
			return err
		}

		var err error
		if result.Reviews, err = execCount(ctx, tx, `DELETE FROM group_reviews WHERE media_id IN (SELECT id FROM group_media WHERE group_id=$1)`, groupID); err != nil {
			return err
		}
		if result.Comments, err = execCount(ctx, tx, `DELETE FROM comments WHERE discussion_id IN (SELECT id FROM discussions WHERE group_id=$1)`, groupID); err != nil {
			return err
		}
		if result.Discussions, err = execCount(ctx, tx, `DELETE FROM discussions WHERE group_id=$1`, groupID); err != nil {
			return err
		}
		if result.Media, err = execCount(ctx, tx, `DELETE FROM group_media WHERE group_id=$1`, groupID); err != nil {
			return err
		}
		if result.Members, err = execCount(ctx, tx, `DELETE FROM group_members WHERE group_id=$1`, groupID); err != nil {
			return err
		}
		_, err = execCount(ctx, tx, `DELETE FROM groups WHERE id=$1`, groupID)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return result, nil
}

// DeleteGroupMedia removes a media item of the group with its reviews,
// its discussions and their comments.
func (r *CascadeRepo) DeleteGroupMedia(ctx context.Context, groupID int, mediaID int) (CascadeResult, error) {
	var result CascadeResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		var id int
		err := tx.GetContext(ctx, &id, `SELECT id FROM group_media WHERE id=$1 AND group_id=$2 FOR UPDATE`, mediaID, groupID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMediaNotFound
		}
		if err != nil {
			return err
		}

		if result.Reviews, err = execCount(ctx, tx, `DELETE FROM group_reviews WHERE media_id=$1`, mediaID); err != nil {
			return err
		}
		if result.Comments, err = execCount(ctx, tx, `DELETE FROM comments WHERE discussion_id IN (SELECT id FROM discussions WHERE media_id=$1)`, mediaID); err != nil {
			return err
		}
		if result.Discussions, err = execCount(ctx, tx, `DELETE FROM discussions WHERE media_id=$1`, mediaID); err != nil {
			return err
		}
		result.Media, err = execCount(ctx, tx, `DELETE FROM group_media WHERE id=$1`, mediaID)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return result, nil
}

// DeleteDiscussion removes a discussion and its comments.
func (r *CascadeRepo) DeleteDiscussion(ctx context.Context, discussionID int) (CascadeResult, error) {
	var result CascadeResult
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var id int
		err := tx.GetContext(ctx, &id, `SELECT id FROM discussions WHERE id=$1 FOR UPDATE`, discussionID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDiscussionNotFound
		}
		if err != nil {
			return err
		}

		if result.Comments, err = execCount(ctx, tx, `DELETE FROM comments WHERE discussion_id=$1`, discussionID); err != nil {
			return err
		}
		result.Discussions, err = execCount(ctx, tx, `DELETE FROM discussions WHERE id=$1`, discussionID)
		return err
	})
	if err != nil {
		return CascadeResult{}, err
	}
	return result, nil
}

// inTx runs fn in a transaction, rolling back on any error. Constraint
// violations are reported as ErrIntegrity.
func (r *CascadeRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	// READ COMMITTED; writers serialize on the locked parent row and the
	// deletes become visible together at commit
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		if isIntegrityViolation(err) {
			return fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if isIntegrityViolation(err) {
			return fmt.Errorf("%w: %v", ErrIntegrity, err)
		}
		return err
	}
	return nil
}

func execCount(ctx context.Context, tx *sqlx.Tx, query string, args ...any) (int64, error) {
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
