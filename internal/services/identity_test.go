package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"review-service/internal/auth"
	"review-service/internal/mocks"
	"review-service/internal/models"
	"review-service/internal/repositories"
)

func newIdentity(users *mocks.UserRepositoryMock) (*IdentityService, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", time.Minute, "review-service")
	return NewIdentityService(users, auth.NewHasher(bcrypt.MinCost), tokens), tokens
}

func TestRegisterStoresHash(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	svc, _ := newIdentity(users)

	users.On("CreateUser", mock.Anything, "jet", "jet@bebop.io", mock.MatchedBy(func(hash string) bool {
		return hash != "hunter2" && bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")) == nil
	})).Return(models.User{ID: 4, Username: "jet"}, nil).Once()

	user, err := svc.Register(context.Background(), "jet", "jet@bebop.io", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 4, user.ID)
	users.AssertExpectations(t)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	svc, _ := newIdentity(users)
	users.On("CreateUser", mock.Anything, "jet", "jet@bebop.io", mock.Anything).Return(nil, repositories.ErrUserExists).Once()

	_, err := svc.Register(context.Background(), "jet", "jet@bebop.io", "hunter2")
	require.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRequiresFields(t *testing.T) {
	svc, _ := newIdentity(new(mocks.UserRepositoryMock))

	_, err := svc.Register(context.Background(), "jet", "", "hunter2")
	require.ErrorIs(t, err, ErrConflict)
}

func TestLoginIssuesValidToken(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	svc, tokens := newIdentity(users)
	hash, err := auth.NewHasher(bcrypt.MinCost).Hash("hunter2")
	require.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "jet").Return(models.User{ID: 4, Username: "jet", PasswordHash: hash}, nil)

	token, user, err := svc.Login(context.Background(), "jet", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, 4, user.ID)

	userID, err := tokens.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 4, userID)

	_, _, err = svc.Login(context.Background(), "jet", "wrong")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLoginUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	svc, _ := newIdentity(users)
	users.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound)

	_, _, err := svc.Login(context.Background(), "ghost", "x")
	require.ErrorIs(t, err, ErrForbidden)
}
