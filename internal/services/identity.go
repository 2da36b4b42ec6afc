package services

import (
	"context"
	"errors"

	"review-service/internal/models"
	"review-service/internal/repositories"
)

// PasswordHasher hashes and checks account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int, username string) (string, error)
}

// IdentityService registers accounts and exchanges credentials for tokens.
type IdentityService struct {
	users  repositories.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(users repositories.UserRepository, hasher PasswordHasher, tokens TokenIssuer) *IdentityService {
	return &IdentityService{users: users, hasher: hasher, tokens: tokens}
}

// Register creates an account.
func (s *IdentityService) Register(ctx context.Context, username, email, password string) (models.User, error) {
	if username == "" || email == "" || password == "" {
		return models.User{}, &Error{Kind: ErrConflict, Entity: "user", Reason: "username, email and password are required"}
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, internal("user", 0, err)
	}
	user, err := s.users.CreateUser(ctx, username, email, hash)
	if errors.Is(err, repositories.ErrUserExists) {
		return models.User{}, conflict("user", 0, "username or email already registered", err)
	}
	if err != nil {
		return models.User{}, storeError("user", 0, err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed access token. Unknown
// usernames and wrong passwords fail the same way.
func (s *IdentityService) Login(ctx context.Context, username, password string) (string, models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return "", models.User{}, forbidden("user", 0, "incorrect username or password")
	}
	if err != nil {
		return "", models.User{}, internal("user", 0, err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", models.User{}, forbidden("user", 0, "incorrect username or password")
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", models.User{}, internal("user", user.ID, err)
	}
	return token, user, nil
}

// GetUser returns an account by id.
func (s *IdentityService) GetUser(ctx context.Context, userID int) (models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, storeError("user", userID, err)
	}
	return user, nil
}
