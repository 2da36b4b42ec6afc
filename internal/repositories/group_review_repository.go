package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"review-service/internal/models"
)

// GroupReviewRepository defines persistence for reviews on group media.
type GroupReviewRepository interface {
	CreateReview(ctx context.Context, mediaID int, userID int, username, text string, rating float64) (models.GroupReview, error)
	GetReview(ctx context.Context, groupID int, reviewID int) (models.GroupReview, error)
	UpdateReview(ctx context.Context, groupID int, reviewID int, authorID int, patch models.ReviewPatch) (models.GroupReview, error)
	DeleteReview(ctx context.Context, groupID int, reviewID int, authorID int) (bool, error)
	ListReviews(ctx context.Context, groupID int, mediaID int) ([]models.GroupReview, error)
}

// GroupReviewRepo is a sqlx-backed implementation.
type GroupReviewRepo struct {
	db *sqlx.DB
}

// NewGroupReviewRepo constructs a GroupReviewRepo.
func NewGroupReviewRepo(db *sqlx.DB) *GroupReviewRepo {
	return &GroupReviewRepo{db: db}
}

const groupReviewColumns = `id, text, rating, user_id, media_id, username, created_at`

// reviews are scoped to a group through their media
const reviewInGroup = `media_id IN (SELECT id FROM group_media WHERE group_id=$2)`

// CreateReview stores a review with the author's username as of now.
func (r *GroupReviewRepo) CreateReview(ctx context.Context, mediaID int, userID int, username, text string, rating float64) (models.GroupReview, error) {
	var review models.GroupReview
	err := r.db.QueryRowxContext(ctx, `INSERT INTO group_reviews (text, rating, user_id, media_id, username) VALUES ($1, $2, $3, $4, $5) RETURNING `+groupReviewColumns,
		text, rating, userID, mediaID, username).StructScan(&review)
	if isIntegrityViolation(err) {
		return models.GroupReview{}, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return review, err
}

// GetReview fetches a review whose media belongs to the group.
func (r *GroupReviewRepo) GetReview(ctx context.Context, groupID int, reviewID int) (models.GroupReview, error) {
	var review models.GroupReview
	err := r.db.GetContext(ctx, &review, `SELECT `+groupReviewColumns+` FROM group_reviews WHERE id=$1 AND `+reviewInGroup, reviewID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupReview{}, ErrReviewNotFound
	}
	return review, err
}

// UpdateReview applies the non-nil patch fields to the author's review.
func (r *GroupReviewRepo) UpdateReview(ctx context.Context, groupID int, reviewID int, authorID int, patch models.ReviewPatch) (models.GroupReview, error) {
	var review models.GroupReview
	err := r.db.QueryRowxContext(ctx, `UPDATE group_reviews SET text = COALESCE($3, text), rating = COALESCE($4, rating)
        WHERE id=$1 AND `+reviewInGroup+` AND user_id=$5 RETURNING `+groupReviewColumns,
		reviewID, groupID, patch.Text, patch.Rating, authorID).StructScan(&review)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupReview{}, ErrReviewNotFound
	}
	return review, err
}

// DeleteReview removes the author's review and reports whether a row matched.
func (r *GroupReviewRepo) DeleteReview(ctx context.Context, groupID int, reviewID int, authorID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM group_reviews WHERE id=$1 AND `+reviewInGroup+` AND user_id=$3`, reviewID, groupID, authorID)
	if err != nil {
		return false, err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListReviews returns the reviews of a group media item, newest first.
func (r *GroupReviewRepo) ListReviews(ctx context.Context, groupID int, mediaID int) ([]models.GroupReview, error) {
	reviews := []models.GroupReview{}
	err := r.db.SelectContext(ctx, &reviews, `SELECT `+groupReviewColumns+` FROM group_reviews WHERE media_id=$1 AND `+reviewInGroup+` ORDER BY created_at DESC`, mediaID, groupID)
	return reviews, err
}
