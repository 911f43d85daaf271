// Package repository provides the data access layer for the forum core.
package repository

import (
	"studydeck/internal/models"

	"gorm.io/gorm"
)

// Counter mutations are expressed as SQL so two concurrent writers never
// lose an update; the decrement form floors at zero. The CASE expression
// is portable across postgres and the sqlite driver used in tests.

func incrementColumn(tx *gorm.DB, model interface{}, id uint, column string) (int64, error) {
	res := tx.Model(model).Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1"))
	return res.RowsAffected, res.Error
}

func decrementColumn(tx *gorm.DB, model interface{}, id uint, column string) (int64, error) {
	res := tx.Model(model).Where("id = ?", id).
		Update(column, gorm.Expr("CASE WHEN "+column+" > 0 THEN "+column+" - 1 ELSE 0 END"))
	return res.RowsAffected, res.Error
}

func incrementThreadReplyCount(tx *gorm.DB, threadID uint) error {
	affected, err := incrementColumn(tx, &models.Thread{}, threadID, "reply_count")
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("thread", threadID)
	}
	return nil
}

func decrementThreadReplyCount(tx *gorm.DB, threadID uint) error {
	affected, err := decrementColumn(tx, &models.Thread{}, threadID, "reply_count")
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("thread", threadID)
	}
	return nil
}

// adjustLikeCount applies a single floored counter step to the row the
// target points at. A zero-row update means the target does not exist.
func adjustLikeCount(tx *gorm.DB, target models.Target, delta int) error {
	var model interface{}
	switch target.Kind {
	case models.TargetThread:
		model = &models.Thread{}
	case models.TargetReply:
		model = &models.Reply{}
	default:
		return models.NewValidationError("target kind must be 'thread' or 'reply'")
	}

	var (
		affected int64
		err      error
	)
	if delta > 0 {
		affected, err = incrementColumn(tx, model, target.ID, "like_count")
	} else {
		affected, err = decrementColumn(tx, model, target.ID, "like_count")
	}
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError(string(target.Kind), target.ID)
	}
	return nil
}
