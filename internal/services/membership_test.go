package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

func TestCreateGroupSanitizesInput(t *testing.T) {
	f := newFixture()
	f.groups.On("CreateGroup", mock.Anything, 1, "Anime Club", "weekly picks").
		Return(models.Group{ID: 10, Name: "Anime Club", OwnerID: 1}, nil).Once()

	group, err := f.groupSvc.CreateGroup(context.Background(), 1, "<b>Anime Club</b>", " weekly picks ")
	require.NoError(t, err)
	assert.Equal(t, 1, group.OwnerID)
	f.groups.AssertExpectations(t)
}

func TestCreateGroupKeepsPlainText(t *testing.T) {
	f := newFixture()
	f.groups.On("CreateGroup", mock.Anything, 1, "Tom & Jerry's", `"x" fans`).
		Return(models.Group{ID: 11, Name: "Tom & Jerry's", OwnerID: 1}, nil).Once()

	group, err := f.groupSvc.CreateGroup(context.Background(), 1, "Tom & Jerry's", `<b>"x"</b> fans`)
	require.NoError(t, err)
	assert.Equal(t, "Tom & Jerry's", group.Name)
	f.groups.AssertExpectations(t)
}

func TestCreateGroupUnknownOwnerIsConflict(t *testing.T) {
	f := newFixture()
	f.groups.On("CreateGroup", mock.Anything, 42, "Anime Club", "").
		Return(nil, fmt.Errorf("%w: fk", repositories.ErrIntegrity)).Once()

	_, err := f.groupSvc.CreateGroup(context.Background(), 42, "Anime Club", "")
	require.ErrorIs(t, err, ErrConflict)
	require.NotErrorIs(t, err, ErrInternal)
}

func TestCreateGroupRequiresName(t *testing.T) {
	f := newFixture()

	_, err := f.groupSvc.CreateGroup(context.Background(), 1, "   ", "")
	require.ErrorIs(t, err, ErrConflict)
	f.groups.AssertNotCalled(t, "CreateGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequireMemberReportsMissingGroupFirst(t *testing.T) {
	f := newFixture()
	f.groups.On("GetGroup", mock.Anything, 404).Return(nil, repositories.ErrGroupNotFound).Once()

	_, err := f.groupSvc.RequireMember(context.Background(), 404, 1)
	require.ErrorIs(t, err, ErrNotFound)
	f.groups.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequireMemberRejectsOutsider(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)

	_, err := f.groupSvc.RequireMember(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrForbidden)

	group, err := f.groupSvc.RequireMember(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, group.ID)
}

func TestInviteMemberAddsTarget(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.users.On("GetUserByUsername", mock.Anything, "u2").Return(models.User{ID: 2, Username: "u2"}, nil).Once()
	f.groups.On("AddMember", mock.Anything, 1, 2).Return(nil).Once()

	group, user, err := f.groupSvc.InviteMember(context.Background(), 1, 1, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, group.ID)
	assert.Equal(t, 2, user.ID)
	f.groups.AssertExpectations(t)
}

func TestInviteMemberTwiceConflicts(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.users.On("GetUserByUsername", mock.Anything, "u2").Return(models.User{ID: 2, Username: "u2"}, nil)
	f.groups.On("AddMember", mock.Anything, 1, 2).Return(nil).Once()
	f.groups.On("AddMember", mock.Anything, 1, 2).Return(repositories.ErrAlreadyMember).Once()

	_, _, err := f.groupSvc.InviteMember(context.Background(), 1, 1, "u2")
	require.NoError(t, err)

	_, _, err = f.groupSvc.InviteMember(context.Background(), 1, 1, "u2")
	require.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "already a member")
}

func TestInviteMemberErrors(t *testing.T) {
	t.Run("missing group", func(t *testing.T) {
		f := newFixture()
		f.groups.On("GetGroup", mock.Anything, 9).Return(nil, repositories.ErrGroupNotFound)

		_, _, err := f.groupSvc.InviteMember(context.Background(), 9, 1, "u2")
		require.ErrorIs(t, err, ErrNotFound)
		f.users.AssertNotCalled(t, "GetUserByUsername", mock.Anything, mock.Anything)
	})

	t.Run("missing target", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)

		_, _, err := f.groupSvc.InviteMember(context.Background(), 1, 1, "ghost")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("inviter is not owner", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2)
		f.users.On("GetUserByUsername", mock.Anything, "u3").Return(models.User{ID: 3, Username: "u3"}, nil)

		_, _, err := f.groupSvc.InviteMember(context.Background(), 1, 2, "u3")
		require.ErrorIs(t, err, ErrForbidden)
		f.groups.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.users.On("GetUserByUsername", mock.Anything, "u2").Return(models.User{ID: 2}, nil)
		f.groups.On("AddMember", mock.Anything, 1, 2).Return(errors.New("connection reset"))

		_, _, err := f.groupSvc.InviteMember(context.Background(), 1, 1, "u2")
		require.ErrorIs(t, err, ErrInternal)
	})
}

func TestRemoveMemberCannotRemoveOwner(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	f.withUser(1, "u1")

	_, err := f.groupSvc.RemoveMember(context.Background(), 1, 1, 1)
	require.ErrorIs(t, err, ErrConflict)
	f.groups.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMemberTwice(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	f.withUser(2, "u2")
	f.groups.On("RemoveMember", mock.Anything, 1, 2).Return(nil).Once()
	f.groups.On("RemoveMember", mock.Anything, 1, 2).Return(repositories.ErrNotMember).Once()

	_, err := f.groupSvc.RemoveMember(context.Background(), 1, 1, 2)
	require.NoError(t, err)

	_, err = f.groupSvc.RemoveMember(context.Background(), 1, 1, 2)
	require.ErrorIs(t, err, ErrConflict)
	f.groups.AssertExpectations(t)
}

func TestRemoveMemberErrors(t *testing.T) {
	t.Run("requester is not owner", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1, 2, 3)

		_, err := f.groupSvc.RemoveMember(context.Background(), 1, 2, 3)
		require.ErrorIs(t, err, ErrForbidden)
		f.users.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown target", func(t *testing.T) {
		f := newFixture()
		f.withGroup(1, 1)
		f.users.On("GetUserByID", mock.Anything, 77).Return(nil, repositories.ErrUserNotFound)

		_, err := f.groupSvc.RemoveMember(context.Background(), 1, 1, 77)
		require.ErrorIs(t, err, ErrNotFound)
		var svcErr *Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "user", svcErr.Entity)
		assert.Equal(t, 77, svcErr.ID)
	})
}

func TestDeleteGroupByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)

	_, err := f.groupSvc.DeleteGroup(context.Background(), 1, 2)
	require.ErrorIs(t, err, ErrForbidden)
	f.cascade.AssertNotCalled(t, "DeleteGroup", mock.Anything, mock.Anything)
}

func TestDeleteGroupCascades(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	want := repositories.CascadeResult{Reviews: 3, Comments: 4, Discussions: 2, Media: 1, Members: 2}
	f.cascade.On("DeleteGroup", mock.Anything, 1).Return(want, nil).Once()

	got, err := f.groupSvc.DeleteGroup(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeleteGroupIntegrityViolationIsConflict(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1)
	f.cascade.On("DeleteGroup", mock.Anything, 1).
		Return(nil, fmt.Errorf("%w: fk violation", repositories.ErrIntegrity)).Once()

	_, err := f.groupSvc.DeleteGroup(context.Background(), 1, 1)
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, repositories.ErrIntegrity)
}

func TestListMembersRequiresMembership(t *testing.T) {
	f := newFixture()
	f.withGroup(1, 1, 2)
	f.groups.On("ListMembers", mock.Anything, 1).Return([]models.User{{ID: 2, Username: "u2"}}, nil).Once()

	members, err := f.groupSvc.ListMembers(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, members, 1)

	_, err = f.groupSvc.ListMembers(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrForbidden)
}
