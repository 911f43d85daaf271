package service

import (
	"context"
	"strings"

	"studydeck/internal/models"
	"studydeck/internal/repository"
)

// ReplyService owns the reply lifecycle: creation under the
// locked-thread guard, soft-delete/restore with reply_count
// propagation, hard delete and answer marking.
type ReplyService struct {
	replyRepo  repository.ReplyRepository
	threadRepo repository.ThreadRepository
	likeRepo   repository.LikeRepository
	notifier   notifier
}

// NewReplyService creates a ReplyService.
func NewReplyService(
	replyRepo repository.ReplyRepository,
	threadRepo repository.ThreadRepository,
	likeRepo repository.LikeRepository,
	n notifier,
) *ReplyService {
	return &ReplyService{
		replyRepo:  replyRepo,
		threadRepo: threadRepo,
		likeRepo:   likeRepo,
		notifier:   n,
	}
}

// CreateReply posts a reply on an unlocked thread. The insert and the
// parent reply_count increment are one transaction; the author
// notification and mention scan run after commit.
func (s *ReplyService) CreateReply(ctx context.Context, actor Actor, threadID uint, content string) (*models.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 20000 characters)")
	}

	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, models.NewThreadLockedError()
	}

	reply := &models.Reply{
		ThreadID: threadID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	created, err := s.replyRepo.GetByID(ctx, reply.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyThreadReply(ctx, thread, actor.ID, actor.Username, content)
		s.notifier.NotifyMentions(ctx, content, actor.ID, actor.Username, thread)
	}
	return created, nil
}

// ListReplies returns a thread's visible replies in creation order with
// the viewer's liked state filled in. Moderators also see soft-deleted
// replies.
func (s *ReplyService) ListReplies(ctx context.Context, actor Actor, threadID uint) ([]*models.Reply, error) {
	if _, err := s.threadRepo.GetByID(ctx, threadID); err != nil {
		return nil, err
	}

	replies, err := s.replyRepo.ListByThread(ctx, threadID, actor.IsModerator())
	if err != nil {
		return nil, err
	}

	if actor.ID != 0 && len(replies) > 0 {
		ids := make([]uint, len(replies))
		for i, r := range replies {
			ids[i] = r.ID
		}
		likedIDs, err := s.likeRepo.LikedTargetIDs(ctx, actor.ID, models.TargetReply, ids)
		if err == nil {
			liked := make(map[uint]struct{}, len(likedIDs))
			for _, id := range likedIDs {
				liked[id] = struct{}{}
			}
			for _, r := range replies {
				_, r.Liked = liked[r.ID]
			}
		}
	}
	return replies, nil
}

// UpdateReply edits reply content. Author or moderator only; edits on
// soft-deleted replies are rejected.
func (s *ReplyService) UpdateReply(ctx context.Context, actor Actor, replyID uint, content string) (*models.Reply, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AuthorID != actor.ID && !actor.IsModerator() {
		return nil, models.NewForbiddenError("You can only edit your own replies")
	}
	if reply.IsDeleted {
		return nil, models.NewConflictError("Cannot edit a deleted reply")
	}

	reply.Content = content
	if err := s.replyRepo.Update(ctx, reply); err != nil {
		return nil, err
	}
	return s.replyRepo.GetByID(ctx, reply.ID)
}

// SoftDeleteReply hides a reply and decrements the parent reply_count.
// Idempotent: deleting an already-deleted reply is a no-op.
func (s *ReplyService) SoftDeleteReply(ctx context.Context, actor Actor, replyID uint) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	if reply.AuthorID != actor.ID && !actor.IsModerator() {
		return nil, models.NewForbiddenError("You can only delete your own replies")
	}

	changed, err := s.replyRepo.SoftDelete(ctx, reply)
	if err != nil {
		return nil, err
	}
	if changed {
		reply.IsDeleted = true
	}
	return reply, nil
}

// RestoreReply undoes a soft delete, re-incrementing the parent
// reply_count. Idempotent. Moderator only.
func (s *ReplyService) RestoreReply(ctx context.Context, actor Actor, replyID uint) (*models.Reply, error) {
	if !actor.IsModerator() {
		return nil, models.NewForbiddenError("Only moderators can restore replies")
	}

	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}

	changed, err := s.replyRepo.Restore(ctx, reply)
	if err != nil {
		return nil, err
	}
	if changed {
		reply.IsDeleted = false
	}
	return reply, nil
}

// HardDeleteReply removes the reply row plus its likes and reports.
// The parent reply_count is decremented only if the reply was still
// visible, so either delete path leaves the counter consistent.
func (s *ReplyService) HardDeleteReply(ctx context.Context, actor Actor, replyID uint) error {
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return err
	}
	if reply.AuthorID != actor.ID && !actor.IsModerator() {
		return models.NewForbiddenError("You can only delete your own replies")
	}
	return s.replyRepo.HardDelete(ctx, reply)
}

// MarkAnswer toggles a reply's answer flag. Only the thread author may
// mark; marking a new answer bulk-clears any previous one so at most a
// single reply per thread ends up flagged.
func (s *ReplyService) MarkAnswer(ctx context.Context, actor Actor, replyID uint) (*models.Reply, error) {
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, err
	}
	thread, err := s.threadRepo.GetByID(ctx, reply.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.AuthorID != actor.ID {
		return nil, models.NewForbiddenError("Only the thread author can mark an answer")
	}
	if reply.IsDeleted {
		return nil, models.NewConflictError("Cannot mark a deleted reply as the answer")
	}

	if reply.IsAnswer {
		if err := s.replyRepo.SetAnswer(ctx, reply, false); err != nil {
			return nil, err
		}
		reply.IsAnswer = false
		return reply, nil
	}

	if err := s.replyRepo.PromoteAnswer(ctx, reply); err != nil {
		return nil, err
	}
	reply.IsAnswer = true
	return reply, nil
}
