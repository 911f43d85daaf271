package service

import (
	"context"
	"testing"

	"studydeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReplyService(replies *replyRepoStub, threads *threadRepoStub, n notifier) *ReplyService {
	return NewReplyService(replies, threads, noopLikeRepo(), n)
}

func TestReplyService_CreateReply_LockedThreadGuard(t *testing.T) {
	t.Parallel()

	threads := noopThreadRepo()
	threads.getByIDFn = func(_ context.Context, id uint) (*models.Thread, error) {
		return &models.Thread{ID: id, AuthorID: 1, IsLocked: true}, nil
	}
	replies := noopReplyRepo()
	replies.createFn = func(_ context.Context, _ *models.Reply) error {
		t.Fatal("Create should not be called on a locked thread")
		return nil
	}
	svc := newReplyService(replies, threads, nil)

	_, err := svc.CreateReply(context.Background(), student, 1, "hello")
	assertAppError(t, err, models.CodeThreadLocked)
}

func TestReplyService_CreateReply_Notifications(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("thread author notified", func(t *testing.T) {
		t.Parallel()
		n := &notifierStub{}
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), n)

		_, err := svc.CreateReply(ctx, student, 1, "interesting @alice")
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, n.replies)
		require.Len(t, n.mentions, 1)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		_, err := svc.CreateReply(ctx, student, 1, "   ")
		assertValidationError(t, err)
	})
}

func TestReplyService_SoftDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-author rejected", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		_, err := svc.SoftDeleteReply(ctx, student, 1)
		assertForbiddenError(t, err)
	})

	t.Run("author soft deletes", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		reply, err := svc.SoftDeleteReply(ctx, author, 1)
		require.NoError(t, err)
		assert.True(t, reply.IsDeleted)
	})

	t.Run("moderator soft deletes someone else's reply", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		reply, err := svc.SoftDeleteReply(ctx, moderator, 1)
		require.NoError(t, err)
		assert.True(t, reply.IsDeleted)
	})

	t.Run("already deleted is a no-op", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, ThreadID: 1, AuthorID: 1, IsDeleted: true}, nil
		}
		replies.softDeleteFn = func(_ context.Context, _ *models.Reply) (bool, error) {
			return false, nil
		}
		svc := newReplyService(replies, noopThreadRepo(), nil)
		reply, err := svc.SoftDeleteReply(ctx, author, 1)
		require.NoError(t, err)
		assert.True(t, reply.IsDeleted)
	})
}

func TestReplyService_RestoreReply_ModeratorOnly(t *testing.T) {
	t.Parallel()

	svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
	_, err := svc.RestoreReply(context.Background(), author, 1)
	assertForbiddenError(t, err)

	reply, err := svc.RestoreReply(context.Background(), moderator, 1)
	require.NoError(t, err)
	assert.False(t, reply.IsDeleted)
}

func TestReplyService_MarkAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("only thread author may mark", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		_, err := svc.MarkAnswer(ctx, moderator, 1)
		assertForbiddenError(t, err)
	})

	t.Run("marking promotes and clears prior answer", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		var promoted *models.Reply
		replies.promoteAnswerFn = func(_ context.Context, r *models.Reply) error {
			promoted = r
			return nil
		}
		svc := newReplyService(replies, noopThreadRepo(), nil)

		reply, err := svc.MarkAnswer(ctx, author, 5)
		require.NoError(t, err)
		assert.True(t, reply.IsAnswer)
		require.NotNil(t, promoted)
		assert.Equal(t, uint(5), promoted.ID)
	})

	t.Run("marking the current answer unsets it", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, ThreadID: 1, AuthorID: 2, IsAnswer: true}, nil
		}
		var unset bool
		replies.setAnswerFn = func(_ context.Context, _ *models.Reply, answer bool) error {
			unset = !answer
			return nil
		}
		svc := newReplyService(replies, noopThreadRepo(), nil)

		reply, err := svc.MarkAnswer(ctx, author, 5)
		require.NoError(t, err)
		assert.False(t, reply.IsAnswer)
		assert.True(t, unset)
	})

	t.Run("deleted reply rejected", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, ThreadID: 1, AuthorID: 2, IsDeleted: true}, nil
		}
		svc := newReplyService(replies, noopThreadRepo(), nil)
		_, err := svc.MarkAnswer(ctx, author, 5)
		assertAppError(t, err, models.CodeConflict)
	})
}

func TestReplyService_UpdateReply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("deleted reply cannot be edited", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return &models.Reply{ID: id, ThreadID: 1, AuthorID: 1, IsDeleted: true}, nil
		}
		svc := newReplyService(replies, noopThreadRepo(), nil)
		_, err := svc.UpdateReply(ctx, author, 1, "new content")
		assertAppError(t, err, models.CodeConflict)
	})

	t.Run("non-author rejected", func(t *testing.T) {
		t.Parallel()
		svc := newReplyService(noopReplyRepo(), noopThreadRepo(), nil)
		_, err := svc.UpdateReply(ctx, student, 1, "new content")
		assertForbiddenError(t, err)
	})
}
