package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// CourseRepository defines the interface for course catalogue reads.
type CourseRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	ListActive(ctx context.Context) ([]*models.Course, error)
	Search(ctx context.Context, query string) ([]*models.Course, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, notFound(err, "course", id)
	}
	return &course, nil
}

func (r *courseRepository) ListActive(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code").Find(&courses).Error
	return courses, err
}

// Search matches active courses by code or title substring.
func (r *courseRepository) Search(ctx context.Context, query string) ([]*models.Course, error) {
	like := "%" + query + "%"
	var courses []*models.Course
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("code LIKE ? OR title LIKE ?", like, like).
		Order("code").
		Find(&courses).Error
	return courses, err
}
