package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"review-service/internal/models"
)

// DiscussionRepository defines persistence for discussions and their comments.
type DiscussionRepository interface {
	CreateDiscussion(ctx context.Context, groupID int, mediaID int, userID int, username, title, content string) (models.Discussion, error)
	GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error)
	ListDiscussions(ctx context.Context, groupID int, mediaID int, offset, limit int) ([]models.Discussion, error)
	AddComment(ctx context.Context, discussionID int, userID int, username, content string) (models.Comment, error)
	ListComments(ctx context.Context, discussionID int, offset, limit int) ([]models.Comment, error)
}

// DiscussionRepo is a sqlx-backed implementation.
type DiscussionRepo struct {
	db *sqlx.DB
}

// NewDiscussionRepo constructs a DiscussionRepo.
func NewDiscussionRepo(db *sqlx.DB) *DiscussionRepo {
	return &DiscussionRepo{db: db}
}

const discussionColumns = `id, title, content, user_id, group_id, media_id, username, created_at`
const commentColumns = `id, content, user_id, discussion_id, username, created_at`

// CreateDiscussion opens a discussion on a group media item.
func (r *DiscussionRepo) CreateDiscussion(ctx context.Context, groupID int, mediaID int, userID int, username, title, content string) (models.Discussion, error) {
	var d models.Discussion
	err := r.db.QueryRowxContext(ctx, `INSERT INTO discussions (title, content, user_id, group_id, media_id, username) VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+discussionColumns,
		title, content, userID, groupID, mediaID, username).StructScan(&d)
	if isIntegrityViolation(err) {
		return models.Discussion{}, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return d, err
}

// GetDiscussion fetches a discussion by id.
func (r *DiscussionRepo) GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error) {
	var d models.Discussion
	err := r.db.GetContext(ctx, &d, `SELECT `+discussionColumns+` FROM discussions WHERE id=$1`, discussionID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Discussion{}, ErrDiscussionNotFound
	}
	return d, err
}

// ListDiscussions pages through the discussions of a group media item.
func (r *DiscussionRepo) ListDiscussions(ctx context.Context, groupID int, mediaID int, offset, limit int) ([]models.Discussion, error) {
	ds := []models.Discussion{}
	err := r.db.SelectContext(ctx, &ds, `SELECT `+discussionColumns+` FROM discussions WHERE group_id=$1 AND media_id=$2 ORDER BY created_at DESC OFFSET $3 LIMIT $4`,
		groupID, mediaID, offset, limit)
	return ds, err
}

// AddComment stores a comment with the author's username as of now.
func (r *DiscussionRepo) AddComment(ctx context.Context, discussionID int, userID int, username, content string) (models.Comment, error) {
	var c models.Comment
	err := r.db.QueryRowxContext(ctx, `INSERT INTO comments (content, user_id, discussion_id, username) VALUES ($1, $2, $3, $4) RETURNING `+commentColumns,
		content, userID, discussionID, username).StructScan(&c)
	if isIntegrityViolation(err) {
		return models.Comment{}, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return c, err
}

// ListComments pages through a discussion's comments, oldest first.
func (r *DiscussionRepo) ListComments(ctx context.Context, discussionID int, offset, limit int) ([]models.Comment, error) {
	cs := []models.Comment{}
	err := r.db.SelectContext(ctx, &cs, `SELECT `+commentColumns+` FROM comments WHERE discussion_id=$1 ORDER BY created_at ASC OFFSET $2 LIMIT $3`,
		discussionID, offset, limit)
	return cs, err
}
