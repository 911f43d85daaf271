package service

import (
	"context"
	"strings"

	"studydeck/internal/models"
	"studydeck/internal/repository"
)

const (
	maxTitleLen   = 200
	maxContentLen = 20000
)

// ThreadService owns the thread lifecycle: creation, content edits,
// lock/pin moderation and explicit cascade deletion.
type ThreadService struct {
	threadRepo   repository.ThreadRepository
	taxonomyRepo repository.TaxonomyRepository
	courseRepo   repository.CourseRepository
	likeRepo     repository.LikeRepository
	notifier     notifier
}

// CreateThreadInput carries the fields for a new thread.
type CreateThreadInput struct {
	CategoryID uint
	CourseID   *uint
	Title      string
	Content    string
	TagIDs     []uint
}

// UpdateThreadInput carries a partial thread edit. Nil fields are left
// untouched; TagIDs replaces the full tag set when non-nil.
type UpdateThreadInput struct {
	Title      *string
	Content    *string
	CategoryID *uint
	TagIDs     []uint
}

// NewThreadService creates a ThreadService.
func NewThreadService(
	threadRepo repository.ThreadRepository,
	taxonomyRepo repository.TaxonomyRepository,
	courseRepo repository.CourseRepository,
	likeRepo repository.LikeRepository,
	n notifier,
) *ThreadService {
	return &ThreadService{
		threadRepo:   threadRepo,
		taxonomyRepo: taxonomyRepo,
		courseRepo:   courseRepo,
		likeRepo:     likeRepo,
		notifier:     n,
	}
}

// CreateThread validates references, persists the thread and scans the
// body for mentions.
func (s *ThreadService) CreateThread(ctx context.Context, actor Actor, in CreateThreadInput) (*models.Thread, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 20000 characters)")
	}

	if _, err := s.taxonomyRepo.GetCategoryByID(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	if in.CourseID != nil {
		if _, err := s.courseRepo.GetByID(ctx, *in.CourseID); err != nil {
			return nil, err
		}
	}

	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	thread := &models.Thread{
		CategoryID: in.CategoryID,
		CourseID:   in.CourseID,
		AuthorID:   actor.ID,
		Title:      title,
		Content:    content,
		Tags:       tags,
	}
	if err := s.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	created, err := s.threadRepo.GetByID(ctx, thread.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyMentions(ctx, created.Content, actor.ID, actor.Username, created)
	}
	return created, nil
}

// GetThread returns a thread with the viewer's liked state filled in.
// viewerID zero means anonymous.
func (s *ThreadService) GetThread(ctx context.Context, id uint, viewerID uint) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewerID != 0 {
		liked, err := s.likeRepo.HasLiked(ctx, viewerID, models.ThreadTarget(id))
		if err == nil {
			thread.Liked = liked
		}
	}
	return thread, nil
}

// ListThreads returns a filtered page of threads plus the total count,
// with per-viewer liked state filled in.
func (s *ThreadService) ListThreads(ctx context.Context, filter repository.ThreadListFilter, viewerID uint) ([]*models.Thread, int64, error) {
	threads, total, err := s.threadRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if viewerID != 0 && len(threads) > 0 {
		ids := make([]uint, len(threads))
		for i, t := range threads {
			ids[i] = t.ID
		}
		likedIDs, err := s.likeRepo.LikedTargetIDs(ctx, viewerID, models.TargetThread, ids)
		if err == nil {
			liked := make(map[uint]struct{}, len(likedIDs))
			for _, id := range likedIDs {
				liked[id] = struct{}{}
			}
			for _, t := range threads {
				_, t.Liked = liked[t.ID]
			}
		}
	}
	return threads, total, nil
}

// UpdateThread applies a partial edit. Only the author or a moderator
// may edit; lock and pin state are not reachable from here.
func (s *ThreadService) UpdateThread(ctx context.Context, actor Actor, threadID uint, in UpdateThreadInput) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.AuthorID != actor.ID && !actor.IsModerator() {
		return nil, models.NewForbiddenError("You can only edit your own threads")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" || len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title must be 1-200 characters")
		}
		thread.Title = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" || len(content) > maxContentLen {
			return nil, models.NewValidationError("Content must be 1-20000 characters")
		}
		thread.Content = content
	}
	if in.CategoryID != nil {
		if _, err := s.taxonomyRepo.GetCategoryByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		thread.CategoryID = *in.CategoryID
	}

	if err := s.threadRepo.Update(ctx, thread); err != nil {
		return nil, err
	}

	if in.TagIDs != nil {
		tags, err := s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		if err := s.threadRepo.ReplaceTags(ctx, thread, tags); err != nil {
			return nil, err
		}
	}

	return s.threadRepo.GetByID(ctx, thread.ID)
}

// DeleteThread removes the thread and everything hanging off it:
// replies, likes on the thread and its replies, reports, tag links.
func (s *ThreadService) DeleteThread(ctx context.Context, actor Actor, threadID uint) error {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	if thread.AuthorID != actor.ID && !actor.IsModerator() {
		return models.NewForbiddenError("You can only delete your own threads")
	}
	return s.threadRepo.Delete(ctx, threadID)
}

// LockThread closes a thread to new replies. Moderator only. There is
// deliberately no unlock operation.
func (s *ThreadService) LockThread(ctx context.Context, actor Actor, threadID uint) (*models.Thread, error) {
	if !actor.IsModerator() {
		return nil, models.NewForbiddenError("Only moderators can lock threads")
	}
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !thread.IsLocked {
		if err := s.threadRepo.SetLocked(ctx, threadID, true); err != nil {
			return nil, err
		}
		thread.IsLocked = true
		if s.notifier != nil {
			s.notifier.NotifyThreadStatus(ctx, thread, "locked", actor.ID, actor.Username)
		}
	}
	return thread, nil
}

// TogglePin flips the pinned flag. Moderator only. Pinning is
// independent of lock state.
func (s *ThreadService) TogglePin(ctx context.Context, actor Actor, threadID uint) (*models.Thread, error) {
	if !actor.IsModerator() {
		return nil, models.NewForbiddenError("Only moderators can pin threads")
	}
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	pinned := !thread.IsPinned
	if err := s.threadRepo.SetPinned(ctx, threadID, pinned); err != nil {
		return nil, err
	}
	thread.IsPinned = pinned

	action := "unpinned"
	if pinned {
		action = "pinned"
	}
	if s.notifier != nil {
		s.notifier.NotifyThreadStatus(ctx, thread, action, actor.ID, actor.Username)
	}
	return thread, nil
}

func (s *ThreadService) resolveTags(ctx context.Context, tagIDs []uint) ([]models.Tag, error) {
	if len(tagIDs) == 0 {
		return nil, nil
	}
	tags, err := s.taxonomyRepo.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(uniqueIDs(tagIDs)) {
		return nil, models.NewValidationError("One or more tags do not exist")
	}
	return tags, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
