package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// TaxonomyRepository covers categories and tags, the reference data
// threads are validated against at create time.
type TaxonomyRepository interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategoryByID(ctx context.Context, id uint) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListTags(ctx context.Context) ([]*models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetTagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error)
}

type taxonomyRepository struct {
	db *gorm.DB
}

// NewTaxonomyRepository creates a new taxonomy repository.
func NewTaxonomyRepository(db *gorm.DB) TaxonomyRepository {
	return &taxonomyRepository{db: db}
}

// ListCategories returns all categories with their thread counts,
// ordered by name.
func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}

	type countRow struct {
		CategoryID uint
		N          int64
	}
	var rows []countRow
	err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Select("category_id, COUNT(*) as n").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.N
	}
	for _, c := range categories {
		c.ThreadCount = counts[c.ID]
	}
	return categories, nil
}

func (r *taxonomyRepository) GetCategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err, "category", id)
	}
	return &category, nil
}

func (r *taxonomyRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, notFound(err, "category", slug)
	}
	return &category, nil
}

func (r *taxonomyRepository) ListTags(ctx context.Context) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (r *taxonomyRepository) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, notFound(err, "tag", slug)
	}
	return &tag, nil
}

func (r *taxonomyRepository) GetTagsByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error
	return tags, err
}
