package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"review-service/internal/models"
)

// GroupMediaRepository defines persistence for a group's media list.
type GroupMediaRepository interface {
	AddMedia(ctx context.Context, groupID int, addedBy int, in models.MediaInput) (models.GroupMedia, error)
	AddMediaBatch(ctx context.Context, groupID int, addedBy int, inputs []models.MediaInput) ([]models.GroupMedia, error)
	GetMedia(ctx context.Context, groupID int, mediaID int) (models.GroupMedia, error)
	ListMedia(ctx context.Context, groupID int) ([]models.GroupMedia, error)
}

// GroupMediaRepo is a sqlx-backed implementation.
type GroupMediaRepo struct {
	db *sqlx.DB
}

// NewGroupMediaRepo constructs a GroupMediaRepo.
func NewGroupMediaRepo(db *sqlx.DB) *GroupMediaRepo {
	return &GroupMediaRepo{db: db}
}

const groupMediaColumns = `id, group_id, added_by_id, bangumi_id, title, media_type, image, summary`

const insertGroupMedia = `INSERT INTO group_media (group_id, added_by_id, bangumi_id, title, media_type, image, summary)
    VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING ` + groupMediaColumns

// AddMedia stores one media item on the group's list.
func (r *GroupMediaRepo) AddMedia(ctx context.Context, groupID int, addedBy int, in models.MediaInput) (models.GroupMedia, error) {
	var media models.GroupMedia
	err := r.db.QueryRowxContext(ctx, insertGroupMedia, groupID, addedBy, in.ExternalID, in.Title, in.MediaType, in.Image, in.Summary).
		StructScan(&media)
	if isIntegrityViolation(err) {
		return models.GroupMedia{}, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return media, err
}

// AddMediaBatch stores several media items in a single transaction.
func (r *GroupMediaRepo) AddMediaBatch(ctx context.Context, groupID int, addedBy int, inputs []models.MediaInput) (created []models.GroupMedia, err error) {
	created = make([]models.GroupMedia, 0, len(inputs))
	if len(inputs) == 0 {
		return created, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, in := range inputs {
		var media models.GroupMedia
		if err = tx.QueryRowxContext(ctx, insertGroupMedia, groupID, addedBy, in.ExternalID, in.Title, in.MediaType, in.Image, in.Summary).
			StructScan(&media); err != nil {
			if isIntegrityViolation(err) {
				err = fmt.Errorf("%w: %v", ErrIntegrity, err)
			}
			return nil, err
		}
		created = append(created, media)
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

// GetMedia fetches a media item only if it belongs to the group.
func (r *GroupMediaRepo) GetMedia(ctx context.Context, groupID int, mediaID int) (models.GroupMedia, error) {
	var media models.GroupMedia
	err := r.db.GetContext(ctx, &media, `SELECT `+groupMediaColumns+` FROM group_media WHERE id=$1 AND group_id=$2`, mediaID, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GroupMedia{}, ErrMediaNotFound
	}
	return media, err
}

// ListMedia returns the group's media list.
func (r *GroupMediaRepo) ListMedia(ctx context.Context, groupID int) ([]models.GroupMedia, error) {
	media := []models.GroupMedia{}
	err := r.db.SelectContext(ctx, &media, `SELECT `+groupMediaColumns+` FROM group_media WHERE group_id=$1 ORDER BY id`, groupID)
	return media, err
}
