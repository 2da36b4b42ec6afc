package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"review-service/internal/models"
)

// CatalogRepository covers the personal media catalog and personal reviews.
// Every query is scoped by the owning user.
type CatalogRepository interface {
	AddUserMedia(ctx context.Context, userID int, in models.MediaInput) (models.UserMedia, error)
	ListUserMedia(ctx context.Context, userID int) ([]models.UserMedia, error)
	GetUserMediaByID(ctx context.Context, userID int, mediaID int) (models.UserMedia, error)
	GetUserMediaByIDs(ctx context.Context, userID int, mediaIDs []int) ([]models.UserMedia, error)
	DeleteUserMedia(ctx context.Context, userID int, mediaID int) error
	CreateReview(ctx context.Context, userID int, mediaID int, text string, rating float64) (models.Review, error)
	UpdateReview(ctx context.Context, userID int, reviewID int, patch models.ReviewPatch) (models.Review, error)
	DeleteReview(ctx context.Context, userID int, reviewID int) error
	ListReviewsForMedia(ctx context.Context, userID int, mediaID int) ([]models.Review, error)
	ListReviewsForUser(ctx context.Context, userID int) ([]models.Review, error)
}

// CatalogRepo is a sqlx implementation of CatalogRepository.
type CatalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo constructs a CatalogRepo.
func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const userMediaColumns = `id, user_id, bangumi_id, title, media_type, image, summary`
const reviewColumns = `id, text, rating, user_id, media_id, created_at`

// AddUserMedia stores a catalog entry for the user.
func (r *CatalogRepo) AddUserMedia(ctx context.Context, userID int, in models.MediaInput) (models.UserMedia, error) {
	var media models.UserMedia
	err := r.db.QueryRowxContext(ctx, `INSERT INTO user_media (user_id, bangumi_id, title, media_type, image, summary) VALUES ($1, $2, $3, $4, $5, $6) RETURNING `+userMediaColumns,
		userID, in.ExternalID, in.Title, in.MediaType, in.Image, in.Summary).StructScan(&media)
	return media, err
}

// ListUserMedia returns the user's catalog.
func (r *CatalogRepo) ListUserMedia(ctx context.Context, userID int) ([]models.UserMedia, error) {
	media := []models.UserMedia{}
	err := r.db.SelectContext(ctx, &media, `SELECT `+userMediaColumns+` FROM user_media WHERE user_id=$1 ORDER BY id`, userID)
	return media, err
}

// GetUserMediaByID fetches one entry of the user's own catalog.
func (r *CatalogRepo) GetUserMediaByID(ctx context.Context, userID int, mediaID int) (models.UserMedia, error) {
	var media models.UserMedia
	err := r.db.GetContext(ctx, &media, `SELECT `+userMediaColumns+` FROM user_media WHERE id=$1 AND user_id=$2`, mediaID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserMedia{}, ErrMediaNotFound
	}
	return media, err
}

// GetUserMediaByIDs fetches the entries of the user's catalog whose ids are
// listed. Ids owned by other users or absent are silently left out.
func (r *CatalogRepo) GetUserMediaByIDs(ctx context.Context, userID int, mediaIDs []int) ([]models.UserMedia, error) {
	media := []models.UserMedia{}
	if len(mediaIDs) == 0 {
		return media, nil
	}
	ids := make([]int64, len(mediaIDs))
	for i, id := range mediaIDs {
		ids[i] = int64(id)
	}
	err := r.db.SelectContext(ctx, &media, `SELECT `+userMediaColumns+` FROM user_media WHERE user_id=$1 AND id = ANY($2) ORDER BY id`, userID, pq.Array(ids))
	return media, err
}

// DeleteUserMedia removes an entry together with its personal reviews.
func (r *CatalogRepo) DeleteUserMedia(ctx context.Context, userID int, mediaID int) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM reviews WHERE media_id=$1 AND media_id IN (SELECT id FROM user_media WHERE user_id=$2)`, mediaID, userID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM user_media WHERE id=$1 AND user_id=$2`, mediaID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		err = ErrMediaNotFound
		return err
	}
	return tx.Commit()
}

// CreateReview stores a personal review on one of the user's entries.
func (r *CatalogRepo) CreateReview(ctx context.Context, userID int, mediaID int, text string, rating float64) (models.Review, error) {
	var review models.Review
	err := r.db.QueryRowxContext(ctx, `INSERT INTO reviews (text, rating, user_id, media_id)
        SELECT $1, $2, $3, id FROM user_media WHERE id=$4 AND user_id=$3
        RETURNING `+reviewColumns, text, rating, userID, mediaID).StructScan(&review)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrMediaNotFound
	}
	return review, err
}

// UpdateReview applies the non-nil fields of patch to the user's review.
func (r *CatalogRepo) UpdateReview(ctx context.Context, userID int, reviewID int, patch models.ReviewPatch) (models.Review, error) {
	var review models.Review
	err := r.db.QueryRowxContext(ctx, `UPDATE reviews SET text = COALESCE($1, text), rating = COALESCE($2, rating)
        WHERE id=$3 AND user_id=$4 RETURNING `+reviewColumns, patch.Text, patch.Rating, reviewID, userID).StructScan(&review)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Review{}, ErrReviewNotFound
	}
	return review, err
}

// DeleteReview removes the user's review.
func (r *CatalogRepo) DeleteReview(ctx context.Context, userID int, reviewID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id=$1 AND user_id=$2`, reviewID, userID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// ListReviewsForMedia returns the user's reviews of one entry.
func (r *CatalogRepo) ListReviewsForMedia(ctx context.Context, userID int, mediaID int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `SELECT `+reviewColumns+` FROM reviews WHERE media_id=$1 AND user_id=$2 ORDER BY created_at DESC`, mediaID, userID)
	return reviews, err
}

// ListReviewsForUser returns every personal review of the user.
func (r *CatalogRepo) ListReviewsForUser(ctx context.Context, userID int) ([]models.Review, error) {
	reviews := []models.Review{}
	err := r.db.SelectContext(ctx, &reviews, `SELECT `+reviewColumns+` FROM reviews WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	return reviews, err
}
