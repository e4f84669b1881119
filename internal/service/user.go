package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"picstream/internal/model"
	"picstream/internal/repository"
)

// SuggestionLimit caps the number of autocomplete matches returned.
const SuggestionLimit = 10

// UserService handles registration, login and the user directory.
type UserService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user account. Field validation happens at the
// handler boundary; this enforces username/email uniqueness and hashing.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, model.ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates by username or email plus password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.repo.GetByUsername(ctx, req.UsernameOrEmail)
	if err != nil {
		if strings.Contains(req.UsernameOrEmail, "@") {
			user, err = s.repo.GetByEmail(ctx, req.UsernameOrEmail)
		}
		if err != nil {
			// Don't reveal whether the account exists
			return nil, model.ErrInvalidCredentials
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a full user document. Used by the auth middleware to
// resolve token subjects.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns users with sensitive fields projected out, optionally
// filtered by exact username.
func (s *UserService) List(ctx context.Context, username string) ([]model.User, error) {
	return s.repo.List(ctx, username)
}

// Suggest returns up to SuggestionLimit username-only autocomplete matches.
func (s *UserService) Suggest(ctx context.Context, username string) ([]model.UsernameSuggestion, error) {
	return s.repo.SearchUsernames(ctx, username, SuggestionLimit)
}

// GetProfile retrieves a user by id with sensitive fields projected out.
func (s *UserService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	return s.repo.GetProjectedByID(ctx, id)
}
