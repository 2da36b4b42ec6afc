package services

import (
	"github.com/stretchr/testify/mock"

	"review-service/internal/mocks"
	"review-service/internal/models"
)

type fixture struct {
	users       *mocks.UserRepositoryMock
	groups      *mocks.GroupRepositoryMock
	catalog     *mocks.CatalogRepositoryMock
	media       *mocks.GroupMediaRepositoryMock
	reviews     *mocks.GroupReviewRepositoryMock
	discussions *mocks.DiscussionRepositoryMock
	cascade     *mocks.CascadeRepositoryMock

	groupSvc *GroupService
	content  *ContentService
}

func newFixture() *fixture {
	f := &fixture{
		users:       new(mocks.UserRepositoryMock),
		groups:      new(mocks.GroupRepositoryMock),
		catalog:     new(mocks.CatalogRepositoryMock),
		media:       new(mocks.GroupMediaRepositoryMock),
		reviews:     new(mocks.GroupReviewRepositoryMock),
		discussions: new(mocks.DiscussionRepositoryMock),
		cascade:     new(mocks.CascadeRepositoryMock),
	}
	sanitizer := NewSanitizer()
	f.groupSvc = NewGroupService(f.groups, f.users, f.cascade, sanitizer)
	f.content = NewContentService(ContentDeps{
		Gate:        f.groupSvc,
		Users:       f.users,
		Catalog:     f.catalog,
		Media:       f.media,
		Reviews:     f.reviews,
		Discussions: f.discussions,
		Cascade:     f.cascade,
		Sanitizer:   sanitizer,
	})
	return f
}

// withGroup stubs group groupID owned by ownerID with the given members.
func (f *fixture) withGroup(groupID, ownerID int, members ...int) {
	f.groups.On("GetGroup", mock.Anything, groupID).Return(models.Group{ID: groupID, Name: "Anime Club", OwnerID: ownerID}, nil)
	isMember := map[int]bool{ownerID: true}
	for _, id := range members {
		isMember[id] = true
	}
	for id := range isMember {
		f.groups.On("IsMember", mock.Anything, groupID, id).Return(true, nil)
	}
	f.groups.On("IsMember", mock.Anything, groupID, mock.Anything).Return(false, nil)
}

func (f *fixture) withUser(id int, username string) {
	f.users.On("GetUserByID", mock.Anything, id).Return(models.User{ID: id, Username: username}, nil)
}
