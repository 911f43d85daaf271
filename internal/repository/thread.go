package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// Thread sort orders exposed by listings.
const (
	ThreadSortLatest  = "latest"
	ThreadSortPopular = "popular"
)

// ThreadListFilter narrows and orders a thread listing.
type ThreadListFilter struct {
	CategorySlug string
	TagSlug      string
	Query        string
	Sort         string // ThreadSortLatest or ThreadSortPopular
	Limit        int
	Offset       int
}

// ThreadRepository defines the interface for thread data operations.
// IncrementReplyCount/DecrementReplyCount exist for the reply lifecycle
// only; handlers never call them directly.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id uint) (*models.Thread, error)
	List(ctx context.Context, filter ThreadListFilter) ([]*models.Thread, int64, error)
	Update(ctx context.Context, thread *models.Thread) error
	ReplaceTags(ctx context.Context, thread *models.Thread, tags []models.Tag) error
	Delete(ctx context.Context, id uint) error
	SetLocked(ctx context.Context, id uint, locked bool) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	IncrementReplyCount(ctx context.Context, id uint) error
	DecrementReplyCount(ctx context.Context, id uint) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Course").
		Preload("Tags").
		First(&thread, id).Error
	if err != nil {
		return nil, notFound(err, "thread", id)
	}
	return &thread, nil
}

func (r *threadRepository) List(ctx context.Context, filter ThreadListFilter) ([]*models.Thread, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Thread{})

	if filter.CategorySlug != "" {
		base = base.Joins("JOIN categories ON categories.id = threads.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.TagSlug != "" {
		base = base.
			Joins("JOIN thread_tags ON thread_tags.thread_id = threads.id").
			Joins("JOIN tags ON tags.id = thread_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		base = base.Where("threads.title LIKE ? OR threads.content LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Distinct("threads.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []*models.Thread
	err := r.applySort(base, filter.Sort).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&threads).Error
	if err != nil {
		return nil, 0, err
	}
	return threads, total, nil
}

// applySort appends the ORDER BY clause for the requested sort type.
// The default order keeps pinned threads on top.
func (r *threadRepository) applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case ThreadSortPopular:
		return db.Order("threads.like_count DESC, threads.created_at DESC")
	default: // ThreadSortLatest and anything unrecognized
		return db.Order("threads.is_pinned DESC, threads.created_at DESC")
	}
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(thread).Error
}

func (r *threadRepository) ReplaceTags(ctx context.Context, thread *models.Thread, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(thread).Association("Tags").Replace(tags); err != nil {
		return err
	}
	thread.Tags = tags
	return nil
}

// Delete hard-deletes a thread and explicitly cascades to its replies
// and to every like and report referencing the thread or those replies.
// The cascade is one transaction: a partially deleted thread is a bug,
// not an accepted failure mode.
func (r *threadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var replyIDs []uint
		if err := tx.Model(&models.Reply{}).Where("thread_id = ?", id).Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		if len(replyIDs) > 0 {
			if err := tx.Where("target_kind = ? AND target_id IN ?", models.TargetReply, replyIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("target_kind = ? AND target_id IN ?", models.TargetReply, replyIDs).
				Delete(&models.Report{}).Error; err != nil {
				return err
			}
			if err := tx.Where("thread_id = ?", id).Delete(&models.Reply{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetThread, id).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("target_kind = ? AND target_id = ?", models.TargetThread, id).
			Delete(&models.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM thread_tags WHERE thread_id = ?", id).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.Thread{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("thread", id)
		}
		return nil
	})
}

func (r *threadRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	return r.setFlag(ctx, id, "is_locked", locked)
}

func (r *threadRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.setFlag(ctx, id, "is_pinned", pinned)
}

func (r *threadRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	res := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("thread", id)
	}
	return nil
}

func (r *threadRepository) IncrementReplyCount(ctx context.Context, id uint) error {
	return incrementThreadReplyCount(r.db.WithContext(ctx), id)
}

func (r *threadRepository) DecrementReplyCount(ctx context.Context, id uint) error {
	return decrementThreadReplyCount(r.db.WithContext(ctx), id)
}
