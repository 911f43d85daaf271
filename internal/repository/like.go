package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository is the engagement ledger: one like per (user, target),
// with the target's cached like_count kept in step with the rows.
type LikeRepository interface {
	Toggle(ctx context.Context, userID uint, target models.Target) (liked bool, likeCount int, err error)
	HasLiked(ctx context.Context, userID uint, target models.Target) (bool, error)
	CountForTarget(ctx context.Context, target models.Target) (int64, error)
	LikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) ([]uint, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle deletes the (user, target) like if present, else creates it,
// and applies the matching atomic counter step, all in one transaction.
// The delete-first shape means a single code path decides the outcome;
// the ON CONFLICT DO NOTHING insert plus the unique index guarantees a
// racing duplicate insert cannot double-increment the counter.
func (r *likeRepository) Toggle(ctx context.Context, userID uint, target models.Target) (bool, int, error) {
	var (
		liked bool
		count int
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND target_kind = ? AND target_id = ?",
			userID, target.Kind, target.ID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = false
			if err := adjustLikeCount(tx, target, -1); err != nil {
				return err
			}
		} else {
			like := &models.Like{UserID: userID, TargetKind: target.Kind, TargetID: target.ID}
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like)
			if ins.Error != nil {
				return ins.Error
			}
			liked = true
			if ins.RowsAffected > 0 {
				if err := adjustLikeCount(tx, target, 1); err != nil {
					return err
				}
			}
		}

		return readLikeCount(tx, target, &count)
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

func readLikeCount(tx *gorm.DB, target models.Target, out *int) error {
	switch target.Kind {
	case models.TargetThread:
		var thread models.Thread
		if err := tx.Select("like_count").First(&thread, target.ID).Error; err != nil {
			return err
		}
		*out = thread.LikeCount
	case models.TargetReply:
		var reply models.Reply
		if err := tx.Select("like_count").First(&reply, target.ID).Error; err != nil {
			return err
		}
		*out = reply.LikeCount
	default:
		return models.NewValidationError("target kind must be 'thread' or 'reply'")
	}
	return nil
}

func (r *likeRepository) HasLiked(ctx context.Context, userID uint, target models.Target) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, target.Kind, target.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountForTarget counts the actual like rows for a target, independent
// of the cached counter.
func (r *likeRepository) CountForTarget(ctx context.Context, target models.Target) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Count(&count).Error
	return count, err
}

// LikedTargetIDs returns which of the given ids the user has liked,
// used to mark per-viewer like state on listings in one query.
func (r *likeRepository) LikedTargetIDs(ctx context.Context, userID uint, kind models.TargetKind, ids []uint) ([]uint, error) {
	if userID == 0 || len(ids) == 0 {
		return nil, nil
	}
	var liked []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id IN ?", userID, kind, ids).
		Pluck("target_id", &liked).Error
	return liked, err
}
