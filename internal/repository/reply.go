package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// ReplyRepository defines the interface for reply data operations.
// Every operation that changes reply visibility keeps the parent
// thread's reply_count consistent inside the same transaction.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id uint) (*models.Reply, error)
	ListByThread(ctx context.Context, threadID uint, includeDeleted bool) ([]*models.Reply, error)
	Update(ctx context.Context, reply *models.Reply) error
	SoftDelete(ctx context.Context, reply *models.Reply) (bool, error)
	Restore(ctx context.Context, reply *models.Reply) (bool, error)
	HardDelete(ctx context.Context, reply *models.Reply) error
	SetAnswer(ctx context.Context, reply *models.Reply, answer bool) error
	PromoteAnswer(ctx context.Context, reply *models.Reply) error
}

type replyRepository struct {
	db *gorm.DB
}

// NewReplyRepository creates a new reply repository.
func NewReplyRepository(db *gorm.DB) ReplyRepository {
	return &replyRepository{db: db}
}

// Create persists the reply and increments the parent reply_count in
// one transaction.
func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		return incrementThreadReplyCount(tx, reply.ThreadID)
	})
}

func (r *replyRepository) GetByID(ctx context.Context, id uint) (*models.Reply, error) {
	var reply models.Reply
	err := r.db.WithContext(ctx).Preload("Author").First(&reply, id).Error
	if err != nil {
		return nil, notFound(err, "reply", id)
	}
	return &reply, nil
}

func (r *replyRepository) ListByThread(ctx context.Context, threadID uint, includeDeleted bool) ([]*models.Reply, error) {
	q := r.db.WithContext(ctx).Preload("Author").Where("thread_id = ?", threadID)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	var replies []*models.Reply
	err := q.Order("is_answer DESC, created_at DESC").Find(&replies).Error
	return replies, err
}

func (r *replyRepository) Update(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Save(reply).Error
}

// SoftDelete hides the reply and decrements the parent count. The
// guarded UPDATE makes it idempotent: a second call affects zero rows
// and skips the decrement. Returns whether the state changed.
func (r *replyRepository) SoftDelete(ctx context.Context, reply *models.Reply) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reply{}).
			Where("id = ? AND is_deleted = ?", reply.ID, false).
			Update("is_deleted", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return decrementThreadReplyCount(tx, reply.ThreadID)
	})
	if changed && err == nil {
		reply.IsDeleted = true
	}
	return changed, err
}

// Restore is the idempotent inverse of SoftDelete.
func (r *replyRepository) Restore(ctx context.Context, reply *models.Reply) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Reply{}).
			Where("id = ? AND is_deleted = ?", reply.ID, true).
			Update("is_deleted", false)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return incrementThreadReplyCount(tx, reply.ThreadID)
	})
	if changed && err == nil {
		reply.IsDeleted = false
	}
	return changed, err
}

// HardDelete removes the row, its likes and its reports. The parent
// count is decremented only when the reply was still visible, so the
// invariant reply_count == visible replies holds whichever delete path
// a caller took first.
func (r *replyRepository) HardDelete(ctx context.Context, reply *models.Reply) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetReply, reply.ID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetReply, reply.ID).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}

		res := tx.Where("id = ?", reply.ID).Delete(&models.Reply{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("reply", reply.ID)
		}
		if reply.IsDeleted {
			return nil
		}
		return decrementThreadReplyCount(tx, reply.ThreadID)
	})
}

// SetAnswer flips the answer flag on a single reply.
func (r *replyRepository) SetAnswer(ctx context.Context, reply *models.Reply, answer bool) error {
	res := r.db.WithContext(ctx).Model(&models.Reply{}).
		Where("id = ?", reply.ID).
		Update("is_answer", answer)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("reply", reply.ID)
	}
	reply.IsAnswer = answer
	return nil
}

// PromoteAnswer clears is_answer on every other reply of the thread and
// sets it on the target, bulk-clear then set in one transaction. The
// final state converges to at most one answer per thread.
func (r *replyRepository) PromoteAnswer(ctx context.Context, reply *models.Reply) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reply{}).
			Where("thread_id = ? AND id <> ?", reply.ThreadID, reply.ID).
			Update("is_answer", false).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Reply{}).Where("id = ?", reply.ID).Update("is_answer", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("reply", reply.ID)
		}
		return nil
	})
	if err == nil {
		reply.IsAnswer = true
	}
	return err
}
