package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, username, email, passwordHash string) (models.User, error) {
	args := m.Called(ctx, username, email, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	args := m.Called(ctx, username)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type CatalogRepositoryMock struct {
	mock.Mock
}

func (m *CatalogRepositoryMock) AddUserMedia(ctx context.Context, userID int, in models.MediaInput) (models.UserMedia, error) {
	args := m.Called(ctx, userID, in)
	var media models.UserMedia
	if val := args.Get(0); val != nil {
		media = val.(models.UserMedia)
	}
	return media, args.Error(1)
}

func (m *CatalogRepositoryMock) ListUserMedia(ctx context.Context, userID int) ([]models.UserMedia, error) {
	args := m.Called(ctx, userID)
	var list []models.UserMedia
	if val := args.Get(0); val != nil {
		list = val.([]models.UserMedia)
	}
	return list, args.Error(1)
}

func (m *CatalogRepositoryMock) GetUserMediaByID(ctx context.Context, userID int, mediaID int) (models.UserMedia, error) {
	args := m.Called(ctx, userID, mediaID)
	var media models.UserMedia
	if val := args.Get(0); val != nil {
		media = val.(models.UserMedia)
	}
	return media, args.Error(1)
}

func (m *CatalogRepositoryMock) GetUserMediaByIDs(ctx context.Context, userID int, mediaIDs []int) ([]models.UserMedia, error) {
	args := m.Called(ctx, userID, mediaIDs)
	var list []models.UserMedia
	if val := args.Get(0); val != nil {
		list = val.([]models.UserMedia)
	}
	return list, args.Error(1)
}

func (m *CatalogRepositoryMock) DeleteUserMedia(ctx context.Context, userID int, mediaID int) error {
	args := m.Called(ctx, userID, mediaID)
	return args.Error(0)
}

func (m *CatalogRepositoryMock) CreateReview(ctx context.Context, userID int, mediaID int, text string, rating float64) (models.Review, error) {
	args := m.Called(ctx, userID, mediaID, text, rating)
	var review models.Review
	if val := args.Get(0); val != nil {
		review = val.(models.Review)
	}
	return review, args.Error(1)
}

func (m *CatalogRepositoryMock) UpdateReview(ctx context.Context, userID int, reviewID int, patch models.ReviewPatch) (models.Review, error) {
	args := m.Called(ctx, userID, reviewID, patch)
	var review models.Review
	if val := args.Get(0); val != nil {
		review = val.(models.Review)
	}
	return review, args.Error(1)
}

func (m *CatalogRepositoryMock) DeleteReview(ctx context.Context, userID int, reviewID int) error {
	args := m.Called(ctx, userID, reviewID)
	return args.Error(0)
}

func (m *CatalogRepositoryMock) ListReviewsForMedia(ctx context.Context, userID int, mediaID int) ([]models.Review, error) {
	args := m.Called(ctx, userID, mediaID)
	var list []models.Review
	if val := args.Get(0); val != nil {
		list = val.([]models.Review)
	}
	return list, args.Error(1)
}

func (m *CatalogRepositoryMock) ListReviewsForUser(ctx context.Context, userID int) ([]models.Review, error) {
	args := m.Called(ctx, userID)
	var list []models.Review
	if val := args.Get(0); val != nil {
		list = val.([]models.Review)
	}
	return list, args.Error(1)
}

type GroupRepositoryMock struct {
	mock.Mock
}

func (m *GroupRepositoryMock) CreateGroup(ctx context.Context, ownerID int, name, description string) (models.Group, error) {
	args := m.Called(ctx, ownerID, name, description)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	args := m.Called(ctx, userID)
	var groups []models.Group
	if val := args.Get(0); val != nil {
		groups = val.([]models.Group)
	}
	return groups, args.Error(1)
}

func (m *GroupRepositoryMock) IsMember(ctx context.Context, groupID int, userID int) (bool, error) {
	args := m.Called(ctx, groupID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupRepositoryMock) GetGroup(ctx context.Context, groupID int) (models.Group, error) {
	args := m.Called(ctx, groupID)
	var group models.Group
	if val := args.Get(0); val != nil {
		group = val.(models.Group)
	}
	return group, args.Error(1)
}

func (m *GroupRepositoryMock) AddMember(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) RemoveMember(ctx context.Context, groupID int, userID int) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

func (m *GroupRepositoryMock) ListMembers(ctx context.Context, groupID int) ([]models.User, error) {
	args := m.Called(ctx, groupID)
	var users []models.User
	if val := args.Get(0); val != nil {
		users = val.([]models.User)
	}
	return users, args.Error(1)
}

type GroupMediaRepositoryMock struct {
	mock.Mock
}

func (m *GroupMediaRepositoryMock) AddMedia(ctx context.Context, groupID int, addedBy int, in models.MediaInput) (models.GroupMedia, error) {
	args := m.Called(ctx, groupID, addedBy, in)
	var media models.GroupMedia
	if val := args.Get(0); val != nil {
		media = val.(models.GroupMedia)
	}
	return media, args.Error(1)
}

func (m *GroupMediaRepositoryMock) AddMediaBatch(ctx context.Context, groupID int, addedBy int, inputs []models.MediaInput) ([]models.GroupMedia, error) {
	args := m.Called(ctx, groupID, addedBy, inputs)
	var list []models.GroupMedia
	if val := args.Get(0); val != nil {
		list = val.([]models.GroupMedia)
	}
	return list, args.Error(1)
}

func (m *GroupMediaRepositoryMock) GetMedia(ctx context.Context, groupID int, mediaID int) (models.GroupMedia, error) {
	args := m.Called(ctx, groupID, mediaID)
	var media models.GroupMedia
	if val := args.Get(0); val != nil {
		media = val.(models.GroupMedia)
	}
	return media, args.Error(1)
}

func (m *GroupMediaRepositoryMock) ListMedia(ctx context.Context, groupID int) ([]models.GroupMedia, error) {
	args := m.Called(ctx, groupID)
	var list []models.GroupMedia
	if val := args.Get(0); val != nil {
		list = val.([]models.GroupMedia)
	}
	return list, args.Error(1)
}

type GroupReviewRepositoryMock struct {
	mock.Mock
}

func (m *GroupReviewRepositoryMock) CreateReview(ctx context.Context, mediaID int, userID int, username, text string, rating float64) (models.GroupReview, error) {
	args := m.Called(ctx, mediaID, userID, username, text, rating)
	var review models.GroupReview
	if val := args.Get(0); val != nil {
		review = val.(models.GroupReview)
	}
	return review, args.Error(1)
}

func (m *GroupReviewRepositoryMock) GetReview(ctx context.Context, groupID int, reviewID int) (models.GroupReview, error) {
	args := m.Called(ctx, groupID, reviewID)
	var review models.GroupReview
	if val := args.Get(0); val != nil {
		review = val.(models.GroupReview)
	}
	return review, args.Error(1)
}

func (m *GroupReviewRepositoryMock) UpdateReview(ctx context.Context, groupID int, reviewID int, authorID int, patch models.ReviewPatch) (models.GroupReview, error) {
	args := m.Called(ctx, groupID, reviewID, authorID, patch)
	var review models.GroupReview
	if val := args.Get(0); val != nil {
		review = val.(models.GroupReview)
	}
	return review, args.Error(1)
}

func (m *GroupReviewRepositoryMock) DeleteReview(ctx context.Context, groupID int, reviewID int, authorID int) (bool, error) {
	args := m.Called(ctx, groupID, reviewID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *GroupReviewRepositoryMock) ListReviews(ctx context.Context, groupID int, mediaID int) ([]models.GroupReview, error) {
	args := m.Called(ctx, groupID, mediaID)
	var list []models.GroupReview
	if val := args.Get(0); val != nil {
		list = val.([]models.GroupReview)
	}
	return list, args.Error(1)
}

type DiscussionRepositoryMock struct {
	mock.Mock
}

func (m *DiscussionRepositoryMock) CreateDiscussion(ctx context.Context, groupID int, mediaID int, userID int, username, title, content string) (models.Discussion, error) {
	args := m.Called(ctx, groupID, mediaID, userID, username, title, content)
	var d models.Discussion
	if val := args.Get(0); val != nil {
		d = val.(models.Discussion)
	}
	return d, args.Error(1)
}

func (m *DiscussionRepositoryMock) GetDiscussion(ctx context.Context, discussionID int) (models.Discussion, error) {
	args := m.Called(ctx, discussionID)
	var d models.Discussion
	if val := args.Get(0); val != nil {
		d = val.(models.Discussion)
	}
	return d, args.Error(1)
}

func (m *DiscussionRepositoryMock) ListDiscussions(ctx context.Context, groupID int, mediaID int, offset, limit int) ([]models.Discussion, error) {
	args := m.Called(ctx, groupID, mediaID, offset, limit)
	var list []models.Discussion
	if val := args.Get(0); val != nil {
		list = val.([]models.Discussion)
	}
	return list, args.Error(1)
}

func (m *DiscussionRepositoryMock) AddComment(ctx context.Context, discussionID int, userID int, username, content string) (models.Comment, error) {
	args := m.Called(ctx, discussionID, userID, username, content)
	var c models.Comment
	if val := args.Get(0); val != nil {
		c = val.(models.Comment)
	}
	return c, args.Error(1)
}

func (m *DiscussionRepositoryMock) ListComments(ctx context.Context, discussionID int, offset, limit int) ([]models.Comment, error) {
	args := m.Called(ctx, discussionID, offset, limit)
	var list []models.Comment
	if val := args.Get(0); val != nil {
		list = val.([]models.Comment)
	}
	return list, args.Error(1)
}

type CascadeRepositoryMock struct {
	mock.Mock
}

func (m *CascadeRepositoryMock) DeleteGroup(ctx context.Context, groupID int) (repositories.CascadeResult, error) {
	args := m.Called(ctx, groupID)
	var result repositories.CascadeResult
	if val := args.Get(0); val != nil {
		result = val.(repositories.CascadeResult)
	}
	return result, args.Error(1)
}

func (m *CascadeRepositoryMock) DeleteGroupMedia(ctx context.Context, groupID int, mediaID int) (repositories.CascadeResult, error) {
	args := m.Called(ctx, groupID, mediaID)
	var result repositories.CascadeResult
	if val := args.Get(0); val != nil {
		result = val.(repositories.CascadeResult)
	}
	return result, args.Error(1)
}

func (m *CascadeRepositoryMock) DeleteDiscussion(ctx context.Context, discussionID int) (repositories.CascadeResult, error) {
	args := m.Called(ctx, discussionID)
	var result repositories.CascadeResult
	if val := args.Get(0); val != nil {
		result = val.(repositories.CascadeResult)
	}
	return result, args.Error(1)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.CatalogRepository = (*CatalogRepositoryMock)(nil)
var _ repositories.GroupRepository = (*GroupRepositoryMock)(nil)
var _ repositories.GroupMediaRepository = (*GroupMediaRepositoryMock)(nil)
var _ repositories.GroupReviewRepository = (*GroupReviewRepositoryMock)(nil)
var _ repositories.DiscussionRepository = (*DiscussionRepositoryMock)(nil)
var _ repositories.CascadeRepository = (*CascadeRepositoryMock)(nil)
