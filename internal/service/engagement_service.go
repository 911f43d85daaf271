package service

import (
	"context"

	"studydeck/internal/models"
	"studydeck/internal/observability"
	"studydeck/internal/repository"
)

// EngagementService fronts the like ledger. Target existence is checked
// before toggling so a like can never point at a missing row.
type EngagementService struct {
	likeRepo   repository.LikeRepository
	threadRepo repository.ThreadRepository
	replyRepo  repository.ReplyRepository
}

// ToggleResult is the outcome of a like toggle.
type ToggleResult struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(
	likeRepo repository.LikeRepository,
	threadRepo repository.ThreadRepository,
	replyRepo repository.ReplyRepository,
) *EngagementService {
	return &EngagementService{
		likeRepo:   likeRepo,
		threadRepo: threadRepo,
		replyRepo:  replyRepo,
	}
}

// ToggleLike likes the target if the actor has not liked it, unlikes it
// otherwise, and returns the resulting state and counter.
func (s *EngagementService) ToggleLike(ctx context.Context, actor Actor, target models.Target) (*ToggleResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := s.targetExists(ctx, target); err != nil {
		return nil, err
	}

	liked, count, err := s.likeRepo.Toggle(ctx, actor.ID, target)
	if err != nil {
		return nil, err
	}

	state := "unliked"
	if liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(string(target.Kind), state).Inc()

	return &ToggleResult{Liked: liked, LikeCount: count}, nil
}

// HasLiked reports the viewer's like state for a target. Anonymous
// viewers (zero ID) always get false.
func (s *EngagementService) HasLiked(ctx context.Context, viewerID uint, target models.Target) (bool, error) {
	if viewerID == 0 {
		return false, nil
	}
	if err := target.Validate(); err != nil {
		return false, err
	}
	return s.likeRepo.HasLiked(ctx, viewerID, target)
}

func (s *EngagementService) targetExists(ctx context.Context, target models.Target) error {
	switch target.Kind {
	case models.TargetThread:
		_, err := s.threadRepo.GetByID(ctx, target.ID)
		return err
	case models.TargetReply:
		reply, err := s.replyRepo.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		if reply.IsDeleted {
			return models.NewNotFoundError("Reply", target.ID)
		}
		return nil
	}
	return models.NewValidationError("Unknown target kind")
}
