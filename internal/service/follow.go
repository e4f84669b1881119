package service

import (
	"context"
	"log"

	"picstream/internal/model"
	"picstream/internal/queue"
	"picstream/internal/repository"
)

// FollowService maintains the follow graph. An edge lives in two places: the
// target's followers list and the actor's followings list. Both writes happen
// in the same request, sequentially and without a multi-document transaction;
// if the second write fails the edge is left one-sided. That matches the
// store's per-document atomicity model and is accepted here.
type FollowService struct {
	userRepo  repository.UserRepository
	publisher queue.Publisher
}

func NewFollowService(userRepo repository.UserRepository, publisher queue.Publisher) *FollowService {
	return &FollowService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// Follow records that actor follows target. Fails on self-follow and on a
// duplicate follow; the membership check scans the target's denormalized
// followers list by id.
func (s *FollowService) Follow(ctx context.Context, targetID, actorID string) error {
	if targetID == actorID {
		return model.ErrCannotFollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	for _, edge := range target.Followers {
		if edge.ID == actorID {
			return model.ErrAlreadyFollowing
		}
	}

	if err := s.userRepo.PushFollower(ctx, targetID, model.FollowEdge{ID: actorID, Username: actor.Username}); err != nil {
		return err
	}

	if err := s.userRepo.PushFollowing(ctx, actorID, model.FollowEdge{ID: targetID, Username: target.Username}); err != nil {
		return err
	}

	// Notify after both writes; a publish failure never fails the follow.
	if s.publisher != nil {
		event := queue.NewUserFollowedEvent(actorID, actor.Username, targetID)
		if _, err := s.publisher.Publish(ctx, queue.StreamSocial, event); err != nil {
			log.Printf("[FollowService] Failed to publish UserFollowed event: follower=%s followee=%s err=%v",
				actorID, targetID, err)
		}
	}

	return nil
}

// Unfollow removes the edge from both sides. Fails on self-unfollow and when
// the actor is not among the target's followers.
func (s *FollowService) Unfollow(ctx context.Context, targetID, actorID string) error {
	if targetID == actorID {
		return model.ErrCannotUnfollowSelf
	}

	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}

	following := false
	for _, edge := range target.Followers {
		if edge.ID == actorID {
			following = true
			break
		}
	}
	if !following {
		return model.ErrNotFollowing
	}

	if err := s.userRepo.PullFollower(ctx, targetID, model.FollowEdge{ID: actorID, Username: actor.Username}); err != nil {
		return err
	}

	if err := s.userRepo.PullFollowing(ctx, actorID, model.FollowEdge{ID: targetID, Username: target.Username}); err != nil {
		return err
	}

	if s.publisher != nil {
		event := queue.NewUserUnfollowedEvent(actorID, actor.Username, targetID)
		if _, err := s.publisher.Publish(ctx, queue.StreamSocial, event); err != nil {
			log.Printf("[FollowService] Failed to publish UserUnfollowed event: follower=%s followee=%s err=%v",
				actorID, targetID, err)
		}
	}

	return nil
}
