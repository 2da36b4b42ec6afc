package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

func TestMemberAddsMediaAndOwnerDeletesIt(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)

	in := models.MediaInput{Title: "Cowboy Bebop", MediaType: models.MediaTypeAnime}
	f.media.On("AddMedia", mock.Anything, 1, 2, in).Return(models.GroupMedia{ID: 30, GroupID: 1, AddedByID: 2, Title: "Cowboy Bebop"}, nil).Once()
	f.cascade.On("DeleteGroupMedia", mock.Anything, 1, 30).
		Return(repositories.CascadeResult{Reviews: 2, Comments: 3, Discussions: 1, Media: 1}, nil).Once()

	media, err := f.content.AddMedia(context.Background(), 1, 2, in)
	require.NoError(t, err)
	assert.Equal(t, 2, media.AddedByID)

	// the owner may delete media another member added
	result, err := f.content.DeleteGroupMedia(context.Background(), 1, media.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Media)
	f.media.AssertExpectations(t)
	f.cascade.AssertExpectations(t)
}

func TestDeleteGroupMediaByMemberIsForbidden(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)

	_, err := f.content.DeleteGroupMedia(context.Background(), 1, 30, 2)
	require.ErrorIs(t, err, ErrForbidden)
	f.cascade.AssertNotCalled(t, "DeleteGroupMedia", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteGroupMediaMissing(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.cascade.On("DeleteGroupMedia", mock.Anything, 1, 99).Return(nil, repositories.ErrMediaNotFound).Once()

	_, err := f.content.DeleteGroupMedia(context.Background(), 1, 99, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddMediaByOutsiderIsForbidden(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)

	_, err := f.content.AddMedia(context.Background(), 1, 3, models.MediaInput{Title: "Akira"})
	require.ErrorIs(t, err, ErrForbidden)
	f.media.AssertNotCalled(t, "AddMedia", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSyncPersonalMediaSkipsForeignIDs(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)

	bangumiID := 253
	owned := models.UserMedia{ID: 5, UserID: 1, ExternalID: &bangumiID, Title: "Monster", MediaType: models.MediaTypeAnime}
	f.catalog.On("GetUserMediaByIDs", mock.Anything, 1, []int{5, 999}).Return([]models.UserMedia{owned}, nil).Once()
	f.media.On("AddMediaBatch", mock.Anything, 1, 1, []models.MediaInput{owned.Input()}).
		Return([]models.GroupMedia{{ID: 40, GroupID: 1, AddedByID: 1, ExternalID: &bangumiID, Title: "Monster"}}, nil).Once()

	synced, err := f.content.SyncPersonalMedia(context.Background(), 1, 1, []int{5, 999})
	require.NoError(t, err)
	require.Len(t, synced, 1)
	assert.Equal(t, "Monster", synced[0].Title)
	f.catalog.AssertExpectations(t)
	f.media.AssertExpectations(t)
}

func TestSyncPersonalMediaDropsDuplicates(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)

	owned := []models.UserMedia{{ID: 5, UserID: 1, Title: "Monster"}, {ID: 6, UserID: 1, Title: "Pluto"}}
	f.catalog.On("GetUserMediaByIDs", mock.Anything, 1, []int{6, 5, 6}).Return(owned, nil).Once()
	f.media.On("AddMediaBatch", mock.Anything, 1, 1, []models.MediaInput{owned[1].Input(), owned[0].Input()}).
		Return([]models.GroupMedia{{ID: 41}, {ID: 42}}, nil).Once()

	synced, err := f.content.SyncPersonalMedia(context.Background(), 1, 1, []int{6, 5, 6})
	require.NoError(t, err)
	assert.Len(t, synced, 2)
	f.media.AssertExpectations(t)
}

func TestAddCommentByOutsiderIsForbidden(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1, UserID: 2}, nil).Once()

	_, _, err := f.content.AddComment(context.Background(), 7, 3, "hello")
	require.ErrorIs(t, err, ErrForbidden)
	f.discussions.AssertNotCalled(t, "AddComment", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddCommentMissingDiscussion(t *testing.T) {
	f := newFixture()
	f.discussions.On("GetDiscussion", mock.Anything, 8).Return(nil, repositories.ErrDiscussionNotFound).Once()

	_, _, err := f.content.AddComment(context.Background(), 8, 1, "hello")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddCommentSnapshotsUsername(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	f.withUser(2, "spike")
	f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1}, nil).Once()
	f.discussions.On("AddComment", mock.Anything, 7, 2, "spike", "see you space cowboy").
		Return(models.Comment{ID: 1, DiscussionID: 7, UserID: 2, Username: "spike"}, nil).Once()

	c, d, err := f.content.AddComment(context.Background(), 7, 2, "<i>see you space cowboy</i>")
	require.NoError(t, err)
	assert.Equal(t, "spike", c.Username)
	assert.Equal(t, 1, d.GroupID)
	f.discussions.AssertExpectations(t)
}

func TestAddReviewRequiresMediaInGroup(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.media.On("GetMedia", mock.Anything, 1, 55).Return(nil, repositories.ErrMediaNotFound).Once()

	_, err := f.content.AddReview(context.Background(), 1, 55, 1, "great", 9)
	require.ErrorIs(t, err, ErrNotFound)
	f.reviews.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAddReviewSnapshotsUsername(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.withUser(1, "faye")
	f.media.On("GetMedia", mock.Anything, 1, 30).Return(models.GroupMedia{ID: 30, GroupID: 1}, nil).Once()
	f.reviews.On("CreateReview", mock.Anything, 30, 1, "faye", "great", 9.5).
		Return(models.GroupReview{ID: 3, MediaID: 30, UserID: 1, Username: "faye", Rating: 9.5}, nil).Once()

	review, err := f.content.AddReview(context.Background(), 1, 30, 1, "great", 9.5)
	require.NoError(t, err)
	assert.Equal(t, "faye", review.Username)
	f.reviews.AssertExpectations(t)
}

func TestAddReviewStoresPlainText(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.withUser(1, "faye")
	f.media.On("GetMedia", mock.Anything, 1, 30).Return(models.GroupMedia{ID: 30, GroupID: 1}, nil).Once()
	f.reviews.On("CreateReview", mock.Anything, 30, 1, "faye", "It's great & fun", 8.0).
		Return(models.GroupReview{ID: 4, MediaID: 30, UserID: 1, Username: "faye", Text: "It's great & fun", Rating: 8}, nil).Once()

	review, err := f.content.AddReview(context.Background(), 1, 30, 1, "It's great & fun", 8)
	require.NoError(t, err)
	assert.Equal(t, "It's great & fun", review.Text)
	f.reviews.AssertExpectations(t)
}

func TestUpdateReview(t *testing.T) {
	text := "<b>better</b> now"

	t.Run("author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(models.GroupReview{ID: 3, UserID: 2}, nil).Once()
		f.reviews.On("UpdateReview", mock.Anything, 1, 3, 2, mock.MatchedBy(func(p models.ReviewPatch) bool {
			return p.Text != nil && *p.Text == "better now" && p.Rating == nil
		})).Return(models.GroupReview{ID: 3, UserID: 2, Text: "better now", Rating: 7}, nil).Once()

		review, err := f.content.UpdateReview(context.Background(), 1, 3, 2, models.ReviewPatch{Text: &text})
		require.NoError(t, err)
		assert.Equal(t, 7.0, review.Rating)
		f.reviews.AssertExpectations(t)
	})

	t.Run("not the author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(models.GroupReview{ID: 3, UserID: 2}, nil).Once()

		_, err := f.content.UpdateReview(context.Background(), 1, 3, 1, models.ReviewPatch{Text: &text})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing review", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(nil, repositories.ErrReviewNotFound).Once()

		_, err := f.content.UpdateReview(context.Background(), 1, 3, 1, models.ReviewPatch{})
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteReview(t *testing.T) {
	t.Run("nothing matched", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(nil, repositories.ErrReviewNotFound).Once()

		deleted, err := f.content.DeleteReview(context.Background(), 1, 3, 1)
		require.NoError(t, err)
		assert.False(t, deleted)
	})

	t.Run("not the author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(models.GroupReview{ID: 3, UserID: 2}, nil).Once()

		_, err := f.content.DeleteReview(context.Background(), 1, 3, 1)
		require.ErrorIs(t, err, ErrForbidden)
		f.reviews.AssertNotCalled(t, "DeleteReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.reviews.On("GetReview", mock.Anything, 1, 3).Return(models.GroupReview{ID: 3, UserID: 2}, nil).Once()
		f.reviews.On("DeleteReview", mock.Anything, 1, 3, 2).Return(true, nil).Once()

		deleted, err := f.content.DeleteReview(context.Background(), 1, 3, 2)
		require.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestDeleteDiscussion(t *testing.T) {
	t.Run("not the author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1, UserID: 2}, nil).Once()

		_, err := f.content.DeleteDiscussion(context.Background(), 7, 1)
		require.ErrorIs(t, err, ErrForbidden)
		f.cascade.AssertNotCalled(t, "DeleteDiscussion", mock.Anything, mock.Anything)
	})

	t.Run("author", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1, UserID: 2}, nil).Once()
		f.cascade.On("DeleteDiscussion", mock.Anything, 7).Return(repositories.CascadeResult{Comments: 5, Discussions: 1}, nil).Once()

		d, err := f.content.DeleteDiscussion(context.Background(), 7, 2)
		require.NoError(t, err)
		assert.Equal(t, 1, d.GroupID)
		f.cascade.AssertExpectations(t)
	})

	t.Run("rollback surfaces as internal", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1, UserID: 1}, nil).Once()
		f.cascade.On("DeleteDiscussion", mock.Anything, 7).Return(nil, errors.New("deadlock detected")).Once()

		_, err := f.content.DeleteDiscussion(context.Background(), 7, 1)
		require.ErrorIs(t, err, ErrInternal)
	})
}

func TestListDiscussionsDefaultsPage(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.media.On("GetMedia", mock.Anything, 1, 30).Return(models.GroupMedia{ID: 30, GroupID: 1}, nil)
	f.discussions.On("ListDiscussions", mock.Anything, 1, 30, 0, DefaultPageLimit).Return([]models.Discussion{}, nil).Once()
	f.discussions.On("ListDiscussions", mock.Anything, 1, 30, 20, 10).Return([]models.Discussion{}, nil).Once()

	_, err := f.content.ListDiscussions(context.Background(), 1, 30, 1, -5, 0)
	require.NoError(t, err)
	_, err = f.content.ListDiscussions(context.Background(), 1, 30, 1, 20, 10)
	require.NoError(t, err)
	f.discussions.AssertExpectations(t)
}

func TestGetDiscussionIncludesComments(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.discussions.On("GetDiscussion", mock.Anything, 7).Return(models.Discussion{ID: 7, GroupID: 1, Title: "ending"}, nil).Once()
	f.discussions.On("ListComments", mock.Anything, 7, 0, DefaultPageLimit).
		Return([]models.Comment{{ID: 1, DiscussionID: 7}, {ID: 2, DiscussionID: 7}}, nil).Once()

	got, err := f.content.GetDiscussion(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, "ending", got.Title)
	assert.Len(t, got.Comments, 2)
}

func TestReadsRequireMembership(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)

	_, err := f.content.ListMedia(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.content.GetMedia(context.Background(), 1, 30, 3)
	require.ErrorIs(t, err, ErrForbidden)
	_, err = f.content.ListReviews(context.Background(), 1, 30, 3)
	require.ErrorIs(t, err, ErrForbidden)
	f.media.AssertNotCalled(t, "ListMedia", mock.Anything, mock.Anything)
}
