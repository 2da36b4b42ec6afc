package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

// DefaultPageLimit bounds list queries when the caller gives no limit.
const DefaultPageLimit = 100

// MembershipGate authorizes group-scoped operations.
type MembershipGate interface {
	RequireMember(ctx context.Context, groupID, userID int) (models.Group, error)
	RequireOwner(ctx context.Context, groupID, userID int, action string) (models.Group, error)
}

// ContentService manages the media list, reviews, discussions and comments
// of groups. Every operation passes through the membership gate first.
type ContentService struct {
	gate        MembershipGate
	users       repositories.UserRepository
	catalog     repositories.CatalogRepository
	media       repositories.GroupMediaRepository
	reviews     repositories.GroupReviewRepository
	discussions repositories.DiscussionRepository
	cascade     repositories.CascadeRepository
	sanitizer   *Sanitizer
}

// ContentDeps groups the collaborators of ContentService.
type ContentDeps struct {
	Gate        MembershipGate
	Users       repositories.UserRepository
	Catalog     repositories.CatalogRepository
	Media       repositories.GroupMediaRepository
	Reviews     repositories.GroupReviewRepository
	Discussions repositories.DiscussionRepository
	Cascade     repositories.CascadeRepository
	Sanitizer   *Sanitizer
}

// NewContentService constructs a ContentService.
func NewContentService(deps ContentDeps) *ContentService {
	return &ContentService{
		gate:        deps.Gate,
		users:       deps.Users,
		catalog:     deps.Catalog,
		media:       deps.Media,
		reviews:     deps.Reviews,
		discussions: deps.Discussions,
		cascade:     deps.Cascade,
		sanitizer:   deps.Sanitizer,
	}
}

// AddMedia puts a media item on the group's list. in.ExternalID is nil for
// manually entered media.
func (s *ContentService) AddMedia(ctx context.Context, groupID, actorID int, in models.MediaInput) (models.GroupMedia, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return models.GroupMedia{}, err
	}
	in.Title = s.sanitizer.Text(in.Title)
	in.Summary = s.sanitizer.Text(in.Summary)
	media, err := s.media.AddMedia(ctx, groupID, actorID, in)
	if err != nil {
		return models.GroupMedia{}, storeError("group", groupID, err)
	}
	return media, nil
}

// SyncPersonalMedia copies entries of the actor's personal catalog onto the
// group's list. Ids that are not in the actor's catalog are skipped, and
// the copies are written in one transaction.
func (s *ContentService) SyncPersonalMedia(ctx context.Context, groupID, actorID int, mediaIDs []int) (_ []models.GroupMedia, err error) {
	ctx, span := startSpan(ctx, "groups.sync_media", attribute.Int("group.id", groupID), attribute.Int("media.requested", len(mediaIDs)))
	defer func() { endSpan(span, err) }()

	if _, err = s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}

	owned, err := s.catalog.GetUserMediaByIDs(ctx, actorID, mediaIDs)
	if err != nil {
		return nil, internal("user", actorID, err)
	}
	byID := make(map[int]models.UserMedia, len(owned))
	for _, m := range owned {
		byID[m.ID] = m
	}

	// keep the caller's order; duplicates and foreign ids are dropped
	inputs := make([]models.MediaInput, 0, len(owned))
	for _, id := range mediaIDs {
		personal, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		inputs = append(inputs, personal.Input())
	}

	created, err := s.media.AddMediaBatch(ctx, groupID, actorID, inputs)
	if err != nil {
		return nil, storeError("group", groupID, err)
	}
	span.SetAttributes(attribute.Int("media.synced", len(created)))
	return created, nil
}

// ListMedia returns the group's media list.
func (s *ContentService) ListMedia(ctx context.Context, groupID, actorID int) ([]models.GroupMedia, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	media, err := s.media.ListMedia(ctx, groupID)
	if err != nil {
		return nil, storeError("group", groupID, err)
	}
	return media, nil
}

// GetMedia returns one media item of the group.
func (s *ContentService) GetMedia(ctx context.Context, groupID, mediaID, actorID int) (models.GroupMedia, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return models.GroupMedia{}, err
	}
	return s.groupMedia(ctx, groupID, mediaID)
}

// AddReview reviews a media item of the group. The actor's current
// username is stored with the review and is not updated later.
func (s *ContentService) AddReview(ctx context.Context, groupID, mediaID, actorID int, text string, rating float64) (models.GroupReview, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return models.GroupReview{}, err
	}
	if _, err := s.groupMedia(ctx, groupID, mediaID); err != nil {
		return models.GroupReview{}, err
	}
	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return models.GroupReview{}, storeError("user", actorID, err)
	}

	review, err := s.reviews.CreateReview(ctx, mediaID, actorID, author.Username, s.sanitizer.Text(text), rating)
	if err != nil {
		return models.GroupReview{}, storeError("media", mediaID, err)
	}
	return review, nil
}

// UpdateReview changes the actor's own review. Nil patch fields keep their
// stored values.
func (s *ContentService) UpdateReview(ctx context.Context, groupID, reviewID, actorID int, patch models.ReviewPatch) (models.GroupReview, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return models.GroupReview{}, err
	}
	if err := s.requireReviewAuthor(ctx, groupID, reviewID, actorID, "update"); err != nil {
		return models.GroupReview{}, err
	}
	if patch.Text != nil {
		text := s.sanitizer.Text(*patch.Text)
		patch.Text = &text
	}

	review, err := s.reviews.UpdateReview(ctx, groupID, reviewID, actorID, patch)
	if err != nil {
		return models.GroupReview{}, storeError("review", reviewID, err)
	}
	return review, nil
}

// DeleteReview deletes the actor's own review. It reports false when no
// review matched.
func (s *ContentService) DeleteReview(ctx context.Context, groupID, reviewID, actorID int) (bool, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return false, err
	}
	err := s.requireReviewAuthor(ctx, groupID, reviewID, actorID, "delete")
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	deleted, err := s.reviews.DeleteReview(ctx, groupID, reviewID, actorID)
	if err != nil {
		return false, storeError("review", reviewID, err)
	}
	return deleted, nil
}

// ListReviews returns the reviews of a group media item.
func (s *ContentService) ListReviews(ctx context.Context, groupID, mediaID, actorID int) ([]models.GroupReview, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.groupMedia(ctx, groupID, mediaID); err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListReviews(ctx, groupID, mediaID)
	if err != nil {
		return nil, storeError("media", mediaID, err)
	}
	return reviews, nil
}

// CreateDiscussion opens a discussion about a media item of the group.
func (s *ContentService) CreateDiscussion(ctx context.Context, groupID, mediaID, actorID int, title, content string) (models.Discussion, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return models.Discussion{}, err
	}
	if _, err := s.groupMedia(ctx, groupID, mediaID); err != nil {
		return models.Discussion{}, err
	}
	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return models.Discussion{}, storeError("user", actorID, err)
	}

	d, err := s.discussions.CreateDiscussion(ctx, groupID, mediaID, actorID, author.Username, s.sanitizer.Text(title), s.sanitizer.Text(content))
	if err != nil {
		return models.Discussion{}, storeError("media", mediaID, err)
	}
	return d, nil
}

// ListDiscussions pages through the discussions of a group media item.
func (s *ContentService) ListDiscussions(ctx context.Context, groupID, mediaID, actorID, offset, limit int) ([]models.Discussion, error) {
	if _, err := s.gate.RequireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	if _, err := s.groupMedia(ctx, groupID, mediaID); err != nil {
		return nil, err
	}
	offset, limit = page(offset, limit)
	ds, err := s.discussions.ListDiscussions(ctx, groupID, mediaID, offset, limit)
	if err != nil {
		return nil, storeError("media", mediaID, err)
	}
	return ds, nil
}

// GetDiscussion returns a discussion with its first page of comments.
func (s *ContentService) GetDiscussion(ctx context.Context, discussionID, actorID int) (models.DiscussionWithComments, error) {
	d, err := s.memberDiscussion(ctx, discussionID, actorID)
	if err != nil {
		return models.DiscussionWithComments{}, err
	}
	comments, err := s.discussions.ListComments(ctx, discussionID, 0, DefaultPageLimit)
	if err != nil {
		return models.DiscussionWithComments{}, storeError("discussion", discussionID, err)
	}
	return models.DiscussionWithComments{Discussion: d, Comments: comments}, nil
}

// AddComment replies to a discussion. The actor must be a member of the
// discussion's group, which is returned alongside the comment.
func (s *ContentService) AddComment(ctx context.Context, discussionID, actorID int, content string) (models.Comment, models.Discussion, error) {
	d, err := s.memberDiscussion(ctx, discussionID, actorID)
	if err != nil {
		return models.Comment{}, models.Discussion{}, err
	}
	author, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return models.Comment{}, models.Discussion{}, storeError("user", actorID, err)
	}

	c, err := s.discussions.AddComment(ctx, discussionID, actorID, author.Username, s.sanitizer.Text(content))
	if err != nil {
		return models.Comment{}, models.Discussion{}, storeError("discussion", discussionID, err)
	}
	return c, d, nil
}

// ListComments pages through a discussion's comments.
func (s *ContentService) ListComments(ctx context.Context, discussionID, actorID, offset, limit int) ([]models.Comment, error) {
	if _, err := s.memberDiscussion(ctx, discussionID, actorID); err != nil {
		return nil, err
	}
	offset, limit = page(offset, limit)
	cs, err := s.discussions.ListComments(ctx, discussionID, offset, limit)
	if err != nil {
		return nil, storeError("discussion", discussionID, err)
	}
	return cs, nil
}

// DeleteDiscussion removes the actor's own discussion with its comments.
func (s *ContentService) DeleteDiscussion(ctx context.Context, discussionID, actorID int) (_ models.Discussion, err error) {
	ctx, span := startSpan(ctx, "discussions.delete", attribute.Int("discussion.id", discussionID))
	defer func() { endSpan(span, err) }()

	d, err := s.memberDiscussion(ctx, discussionID, actorID)
	if err != nil {
		return models.Discussion{}, err
	}
	if d.UserID != actorID {
		return models.Discussion{}, forbidden("discussion", discussionID, "only the author can delete this discussion")
	}

	result, err := s.cascade.DeleteDiscussion(ctx, discussionID)
	recordCascade("discussion", result, err)
	if err != nil {
		return models.Discussion{}, storeError("discussion", discussionID, err)
	}
	return d, nil
}

// DeleteGroupMedia removes a media item with its reviews, discussions and
// comments. Only the group owner may do this, whoever added the item.
func (s *ContentService) DeleteGroupMedia(ctx context.Context, groupID, mediaID, actorID int) (_ repositories.CascadeResult, err error) {
	ctx, span := startSpan(ctx, "groups.delete_media", attribute.Int("group.id", groupID), attribute.Int("media.id", mediaID))
	defer func() { endSpan(span, err) }()

	if _, err = s.gate.RequireOwner(ctx, groupID, actorID, "delete media"); err != nil {
		return repositories.CascadeResult{}, err
	}
	result, err := s.cascade.DeleteGroupMedia(ctx, groupID, mediaID)
	recordCascade("group_media", result, err)
	if err != nil {
		return repositories.CascadeResult{}, storeError("media", mediaID, err)
	}
	return result, nil
}

func (s *ContentService) groupMedia(ctx context.Context, groupID, mediaID int) (models.GroupMedia, error) {
	media, err := s.media.GetMedia(ctx, groupID, mediaID)
	if err != nil {
		return models.GroupMedia{}, storeError("media", mediaID, err)
	}
	return media, nil
}

func (s *ContentService) requireReviewAuthor(ctx context.Context, groupID, reviewID, actorID int, action string) error {
	review, err := s.reviews.GetReview(ctx, groupID, reviewID)
	if err != nil {
		return storeError("review", reviewID, err)
	}
	if review.UserID != actorID {
		return forbidden("review", reviewID, "only the author can "+action+" this review")
	}
	return nil
}

// memberDiscussion loads a discussion and checks the actor belongs to its group.
func (s *ContentService) memberDiscussion(ctx context.Context, discussionID, actorID int) (models.Discussion, error) {
	d, err := s.discussions.GetDiscussion(ctx, discussionID)
	if err != nil {
		return models.Discussion{}, storeError("discussion", discussionID, err)
	}
	if _, err := s.gate.RequireMember(ctx, d.GroupID, actorID); err != nil {
		return models.Discussion{}, err
	}
	return d, nil
}

func page(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > DefaultPageLimit {
		limit = DefaultPageLimit
	}
	return offset, limit
}
