package services

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

// GroupService owns group lifecycle and membership. Its RequireMember and
// RequireOwner checks gate every group-scoped operation.
type GroupService struct {
	groups    repositories.GroupRepository
	users     repositories.UserRepository
	cascade   repositories.CascadeRepository
	sanitizer *Sanitizer
}

// NewGroupService constructs a GroupService.
func NewGroupService(groups repositories.GroupRepository, users repositories.UserRepository, cascade repositories.CascadeRepository, sanitizer *Sanitizer) *GroupService {
	return &GroupService{groups: groups, users: users, cascade: cascade, sanitizer: sanitizer}
}

// CreateGroup creates a group owned by ownerID, who becomes its first member.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID int, name, description string) (models.Group, error) {
	name = s.sanitizer.Text(name)
	if name == "" {
		return models.Group{}, &Error{Kind: ErrConflict, Entity: "group", Reason: "name is required"}
	}
	group, err := s.groups.CreateGroup(ctx, ownerID, name, s.sanitizer.Text(description))
	if err != nil {
		return models.Group{}, storeError("group", 0, err)
	}
	return group, nil
}

// ListGroupsForUser returns every group the user belongs to.
func (s *GroupService) ListGroupsForUser(ctx context.Context, userID int) ([]models.Group, error) {
	groups, err := s.groups.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, storeError("user", userID, err)
	}
	return groups, nil
}

// IsMember reports whether userID belongs to the group.
func (s *GroupService) IsMember(ctx context.Context, groupID, userID int) (bool, error) {
	member, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, storeError("group", groupID, err)
	}
	return member, nil
}

// RequireMember loads the group and checks that userID is a member.
// A missing group is reported before a missing membership.
func (s *GroupService) RequireMember(ctx context.Context, groupID, userID int) (models.Group, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, storeError("group", groupID, err)
	}
	member, err := s.IsMember(ctx, groupID, userID)
	if err != nil {
		return models.Group{}, err
	}
	if !member {
		return models.Group{}, forbidden("group", groupID, "not a member of this group")
	}
	return group, nil
}

// RequireOwner loads the group and checks that userID owns it.
func (s *GroupService) RequireOwner(ctx context.Context, groupID, userID int, action string) (models.Group, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, storeError("group", groupID, err)
	}
	if group.OwnerID != userID {
		return models.Group{}, forbidden("group", groupID, "only the group owner can "+action)
	}
	return group, nil
}

// GetGroup returns the group to one of its members.
func (s *GroupService) GetGroup(ctx context.Context, groupID, actorID int) (models.Group, error) {
	return s.RequireMember(ctx, groupID, actorID)
}

// ListMembers returns the members other than the owner.
func (s *GroupService) ListMembers(ctx context.Context, groupID, actorID int) ([]models.User, error) {
	if _, err := s.RequireMember(ctx, groupID, actorID); err != nil {
		return nil, err
	}
	members, err := s.groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, storeError("group", groupID, err)
	}
	return members, nil
}

// InviteMember adds the user named username to the group. Only the owner
// may invite.
func (s *GroupService) InviteMember(ctx context.Context, groupID, inviterID int, username string) (_ models.Group, _ models.User, err error) {
	ctx, span := startSpan(ctx, "groups.invite", attribute.Int("group.id", groupID))
	defer func() { endSpan(span, err) }()

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return models.Group{}, models.User{}, storeError("group", groupID, err)
	}
	target, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Group{}, models.User{}, &Error{Kind: ErrNotFound, Entity: "user " + username, Reason: "not found"}
		}
		return models.Group{}, models.User{}, internal("user", 0, err)
	}
	if group.OwnerID != inviterID {
		return models.Group{}, models.User{}, forbidden("group", groupID, "only the group owner can invite members")
	}

	if err = s.groups.AddMember(ctx, groupID, target.ID); err != nil {
		if errors.Is(err, repositories.ErrAlreadyMember) {
			return models.Group{}, models.User{}, conflict("user", target.ID, "user is already a member of this group", err)
		}
		return models.Group{}, models.User{}, storeError("group", groupID, err)
	}
	return group, target, nil
}

// RemoveMember removes targetID from the group. Only the owner may remove
// members and the owner cannot be removed.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, requesterID, targetID int) (_ models.Group, err error) {
	ctx, span := startSpan(ctx, "groups.remove_member", attribute.Int("group.id", groupID), attribute.Int("user.id", targetID))
	defer func() { endSpan(span, err) }()

	group, err := s.RequireOwner(ctx, groupID, requesterID, "remove members")
	if err != nil {
		return models.Group{}, err
	}
	if _, err = s.users.GetUserByID(ctx, targetID); err != nil {
		return models.Group{}, storeError("user", targetID, err)
	}
	if targetID == group.OwnerID {
		return models.Group{}, conflict("user", targetID, "the group owner cannot be removed", nil)
	}

	if err = s.groups.RemoveMember(ctx, groupID, targetID); err != nil {
		if errors.Is(err, repositories.ErrNotMember) {
			return models.Group{}, conflict("user", targetID, "user is not a member of this group", err)
		}
		return models.Group{}, storeError("group", groupID, err)
	}
	return group, nil
}

// DeleteGroup removes the group and everything it owns. Only the owner may
// delete it.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, actorID int) (_ repositories.CascadeResult, err error) {
	ctx, span := startSpan(ctx, "groups.delete", attribute.Int("group.id", groupID))
	defer func() { endSpan(span, err) }()

	if _, err = s.RequireOwner(ctx, groupID, actorID, "delete the group"); err != nil {
		return repositories.CascadeResult{}, err
	}
	result, err := s.cascade.DeleteGroup(ctx, groupID)
	recordCascade("group", result, err)
	if err != nil {
		return repositories.CascadeResult{}, storeError("group", groupID, err)
	}
	return result, nil
}

var notFoundErrors = []struct {
	entity string
	err    error
}{
	{"group", repositories.ErrGroupNotFound},
	{"user", repositories.ErrUserNotFound},
	{"media", repositories.ErrMediaNotFound},
	{"review", repositories.ErrReviewNotFound},
	{"discussion", repositories.ErrDiscussionNotFound},
}

// storeError translates repository errors into service errors. The id is
// only reported when the missing entity is the one the caller named.
func storeError(entity string, id int, err error) error {
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf.err) {
			if nf.entity != entity {
				id = 0
			}
			return notFound(nf.entity, id)
		}
	}
	if errors.Is(err, repositories.ErrIntegrity) {
		return conflict(entity, id, "integrity constraint violated", err)
	}
	return internal(entity, id, err)
}
