package services

import (
	"context"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

// CatalogService manages a user's personal media catalog and reviews.
type CatalogService struct {
	catalog   repositories.CatalogRepository
	sanitizer *Sanitizer
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog repositories.CatalogRepository, sanitizer *Sanitizer) *CatalogService {
	return &CatalogService{catalog: catalog, sanitizer: sanitizer}
}

func (s *CatalogService) AddMedia(ctx context.Context, userID int, in models.MediaInput) (models.UserMedia, error) {
	in.Title = s.sanitizer.Text(in.Title)
	in.Summary = s.sanitizer.Text(in.Summary)
	media, err := s.catalog.AddUserMedia(ctx, userID, in)
	if err != nil {
		return models.UserMedia{}, storeError("user", userID, err)
	}
	return media, nil
}

func (s *CatalogService) ListMedia(ctx context.Context, userID int) ([]models.UserMedia, error) {
	media, err := s.catalog.ListUserMedia(ctx, userID)
	if err != nil {
		return nil, storeError("user", userID, err)
	}
	return media, nil
}

func (s *CatalogService) GetMedia(ctx context.Context, userID, mediaID int) (models.UserMedia, error) {
	media, err := s.catalog.GetUserMediaByID(ctx, userID, mediaID)
	if err != nil {
		return models.UserMedia{}, storeError("media", mediaID, err)
	}
	return media, nil
}

// DeleteMedia removes a catalog entry together with its reviews.
func (s *CatalogService) DeleteMedia(ctx context.Context, userID, mediaID int) error {
	if err := s.catalog.DeleteUserMedia(ctx, userID, mediaID); err != nil {
		return storeError("media", mediaID, err)
	}
	return nil
}

// AddReview reviews one of the user's own catalog entries.
func (s *CatalogService) AddReview(ctx context.Context, userID, mediaID int, text string, rating float64) (models.Review, error) {
	review, err := s.catalog.CreateReview(ctx, userID, mediaID, s.sanitizer.Text(text), rating)
	if err != nil {
		return models.Review{}, storeError("media", mediaID, err)
	}
	return review, nil
}

func (s *CatalogService) UpdateReview(ctx context.Context, userID, reviewID int, patch models.ReviewPatch) (models.Review, error) {
	if patch.Text != nil {
		text := s.sanitizer.Text(*patch.Text)
		patch.Text = &text
	}
	review, err := s.catalog.UpdateReview(ctx, userID, reviewID, patch)
	if err != nil {
		return models.Review{}, storeError("review", reviewID, err)
	}
	return review, nil
}

func (s *CatalogService) DeleteReview(ctx context.Context, userID, reviewID int) error {
	if err := s.catalog.DeleteReview(ctx, userID, reviewID); err != nil {
		return storeError("review", reviewID, err)
	}
	return nil
}

// ListReviews returns the user's reviews of one catalog entry.
func (s *CatalogService) ListReviews(ctx context.Context, userID, mediaID int) ([]models.Review, error) {
	if _, err := s.GetMedia(ctx, userID, mediaID); err != nil {
		return nil, err
	}
	reviews, err := s.catalog.ListReviewsForMedia(ctx, userID, mediaID)
	if err != nil {
		return nil, storeError("media", mediaID, err)
	}
	return reviews, nil
}

func (s *CatalogService) ListUserReviews(ctx context.Context, userID int) ([]models.Review, error) {
	reviews, err := s.catalog.ListReviewsForUser(ctx, userID)
	if err != nil {
		return nil, storeError("user", userID, err)
	}
	return reviews, nil
}
