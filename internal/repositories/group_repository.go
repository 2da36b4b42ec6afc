package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"review-service/internal/models"
)

var ErrGroupNotFound = errors.New("group not found")

// GroupRepository abstracts group and membership persistence.
type GroupRepository interface {
	CreateGroup(ctx context.Context, ownerID int, name, description string) (models.Group, error)
	ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error)
	IsMember(ctx context.Context, groupID int, userID int) (bool, error)
	GetGroup(ctx context.Context, groupID int) (models.Group, error)
	AddMember(ctx context.Context, groupID int, userID int) error
	RemoveMember(ctx context.Context, groupID int, userID int) error
	ListMembers(ctx context.Context, groupID int) ([]models.User, error)
}

// GroupRepo is a sqlx implementation of GroupRepository.
type GroupRepo struct {
	db *sqlx.DB
}

// NewGroupRepo constructs a GroupRepo.
func NewGroupRepo(db *sqlx.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

const groupSelect = `SELECT g.id, g.name, g.description, g.owner_id, u.username AS owner_name, g.created_at
    FROM groups g INNER JOIN users u ON u.id = g.owner_id`

// CreateGroup creates a group with its owner as the first member atomically.
func (r *GroupRepo) CreateGroup(ctx context.Context, ownerID int, name, description string) (group models.Group, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Group{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var id int
	if err = tx.QueryRowxContext(ctx, `INSERT INTO groups (name, description, owner_id) VALUES ($1, $2, $3) RETURNING id`, name, description, ownerID).
		Scan(&id); err != nil {
		return models.Group{}, classifyInsert(err)
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2)`, id, ownerID); err != nil {
		return models.Group{}, classifyInsert(err)
	}
	if err = tx.GetContext(ctx, &group, groupSelect+` WHERE g.id=$1`, id); err != nil {
		return models.Group{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.Group{}, err
	}
	return group, nil
}

// ListGroupsForUser returns groups that include the user.
func (r *GroupRepo) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	groups := []models.Group{}
	err := r.db.SelectContext(ctx, &groups, groupSelect+` INNER JOIN group_members gm ON gm.group_id = g.id WHERE gm.user_id=$1 ORDER BY g.created_at DESC`, userID)
	return groups, err
}

// IsMember checks membership.
func (r *GroupRepo) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM group_members WHERE group_id=$1 AND user_id=$2)`, groupID, userID)
	return exists, err
}

// GetGroup fetches a single group.
func (r *GroupRepo) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	var group models.Group
	err := r.db.GetContext(ctx, &group, groupSelect+` WHERE g.id=$1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, ErrGroupNotFound
	}
	return group, err
}

// AddMember inserts a membership while holding the group row lock so
// concurrent membership changes on the same group serialize.
func (r *GroupRepo) AddMember(ctx context.Context, groupID int, userID int) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = lockGroup(ctx, tx, groupID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO group_members (group_id, user_id) VALUES ($1, $2) ON CONFLICT (group_id, user_id) DO NOTHING`, groupID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		err = ErrAlreadyMember
		return err
	}
	return tx.Commit()
}

// RemoveMember deletes a membership under the group row lock.
func (r *GroupRepo) RemoveMember(ctx context.Context, groupID int, userID int) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = lockGroup(ctx, tx, groupID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM group_members WHERE group_id=$1 AND user_id=$2`, groupID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		err = ErrNotMember
		return err
	}
	return tx.Commit()
}

// ListMembers returns the members of a group other than its owner.
func (r *GroupRepo) ListMembers(ctx context.Context, groupID int) ([]models.User, error) {
	users := []models.User{}
	err := r.db.SelectContext(ctx, &users, `SELECT u.id, u.username, u.email, u.hashed_password FROM users u
        INNER JOIN group_members gm ON gm.user_id = u.id
        INNER JOIN groups g ON g.id = gm.group_id
        WHERE gm.group_id=$1 AND u.id <> g.owner_id ORDER BY u.username`, groupID)
	return users, err
}

func lockGroup(ctx context.Context, tx *sqlx.Tx, groupID int) error {
	var id int
	err := tx.GetContext(ctx, &id, `SELECT id FROM groups WHERE id=$1 FOR UPDATE`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGroupNotFound
	}
	return err
}
