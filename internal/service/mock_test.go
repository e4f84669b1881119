package service

import (
	"context"
	"time"

	"picstream/internal/model"
	"picstream/internal/queue"
)

// =============================================================================
// MOCK REPOSITORY
// =============================================================================
//
// Unit tests never hit a real database. Because the services depend on the
// repository INTERFACES, we can swap in mocks whose behavior each test
// defines through function fields.

type mockUserRepository struct {
	createFn           func(ctx context.Context, user *model.User) error
	getByIDFn          func(ctx context.Context, id string) (*model.User, error)
	getByUsernameFn    func(ctx context.Context, username string) (*model.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	existsByUsernameFn func(ctx context.Context, username string) (bool, error)
	existsByEmailFn    func(ctx context.Context, email string) (bool, error)
	listFn             func(ctx context.Context, username string) ([]model.User, error)
	getProjectedByIDFn func(ctx context.Context, id string) (*model.User, error)
	searchUsernamesFn  func(ctx context.Context, query string, limit int) ([]model.UsernameSuggestion, error)
	pushFollowerFn     func(ctx context.Context, userID string, edge model.FollowEdge) error
	pullFollowerFn     func(ctx context.Context, userID string, edge model.FollowEdge) error
	pushFollowingFn    func(ctx context.Context, userID string, edge model.FollowEdge) error
	pullFollowingFn    func(ctx context.Context, userID string, edge model.FollowEdge) error
	setResetTokenFn    func(ctx context.Context, userID string, tokenHash string, expire time.Time) error
	findByResetTokenFn func(ctx context.Context, tokenHash string) (*model.User, error)
	updatePasswordFn   func(ctx context.Context, userID string, hashedPassword string) error

	// Track calls for assertions
	createCalls        []*model.User
	pushFollowerCalls  []edgeCall
	pullFollowerCalls  []edgeCall
	pushFollowingCalls []edgeCall
	pullFollowingCalls []edgeCall
	passwordUpdates    []string
}

type edgeCall struct {
	UserID string
	Edge   model.FollowEdge
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	m.createCalls = append(m.createCalls, user)
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.existsByUsernameFn != nil {
		return m.existsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsByEmailFn != nil {
		return m.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepository) List(ctx context.Context, username string) ([]model.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx, username)
	}
	return []model.User{}, nil
}

func (m *mockUserRepository) GetProjectedByID(ctx context.Context, id string) (*model.User, error) {
	if m.getProjectedByIDFn != nil {
		return m.getProjectedByIDFn(ctx, id)
	}
	return nil, model.ErrUserNotFound
}

func (m *mockUserRepository) SearchUsernames(ctx context.Context, query string, limit int) ([]model.UsernameSuggestion, error) {
	if m.searchUsernamesFn != nil {
		return m.searchUsernamesFn(ctx, query, limit)
	}
	return []model.UsernameSuggestion{}, nil
}

func (m *mockUserRepository) PushFollower(ctx context.Context, userID string, edge model.FollowEdge) error {
	m.pushFollowerCalls = append(m.pushFollowerCalls, edgeCall{UserID: userID, Edge: edge})
	if m.pushFollowerFn != nil {
		return m.pushFollowerFn(ctx, userID, edge)
	}
	return nil
}

func (m *mockUserRepository) PullFollower(ctx context.Context, userID string, edge model.FollowEdge) error {
	m.pullFollowerCalls = append(m.pullFollowerCalls, edgeCall{UserID: userID, Edge: edge})
	if m.pullFollowerFn != nil {
		return m.pullFollowerFn(ctx, userID, edge)
	}
	return nil
}

func (m *mockUserRepository) PushFollowing(ctx context.Context, userID string, edge model.FollowEdge) error {
	m.pushFollowingCalls = append(m.pushFollowingCalls, edgeCall{UserID: userID, Edge: edge})
	if m.pushFollowingFn != nil {
		return m.pushFollowingFn(ctx, userID, edge)
	}
	return nil
}

func (m *mockUserRepository) PullFollowing(ctx context.Context, userID string, edge model.FollowEdge) error {
	m.pullFollowingCalls = append(m.pullFollowingCalls, edgeCall{UserID: userID, Edge: edge})
	if m.pullFollowingFn != nil {
		return m.pullFollowingFn(ctx, userID, edge)
	}
	return nil
}

func (m *mockUserRepository) SetResetToken(ctx context.Context, userID string, tokenHash string, expire time.Time) error {
	if m.setResetTokenFn != nil {
		return m.setResetTokenFn(ctx, userID, tokenHash, expire)
	}
	return nil
}

func (m *mockUserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*model.User, error) {
	if m.findByResetTokenFn != nil {
		return m.findByResetTokenFn(ctx, tokenHash)
	}
	return nil, model.ErrResetTokenInvalid
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	m.passwordUpdates = append(m.passwordUpdates, hashedPassword)
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, userID, hashedPassword)
	}
	return nil
}

// =============================================================================
// MOCK PUBLISHER
// =============================================================================

type mockPublisher struct {
	publishFn func(ctx context.Context, stream string, event queue.SocialEvent) (string, error)

	published []queue.SocialEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.SocialEvent) (string, error) {
	m.published = append(m.published, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, stream, event)
	}
	return "1-0", nil
}
