package repository

import (
	"context"

	"studydeck/internal/models"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations.
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	ListPending(ctx context.Context, limit, offset int) ([]*models.Report, int64, error)
	ListByReporter(ctx context.Context, reporterID uint) ([]*models.Report, error)
	Update(ctx context.Context, report *models.Report) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Moderator").
		First(&report, id).Error
	if err != nil {
		return nil, notFound(err, "report", id)
	}
	return &report, nil
}

func (r *reportRepository) ListPending(ctx context.Context, limit, offset int) ([]*models.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Report{}).
		Where("status = ?", models.ReportStatusPending)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*models.Report
	err := base.Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) ListByReporter(ctx context.Context, reporterID uint) ([]*models.Report, error) {
	var reports []*models.Report
	err := r.db.WithContext(ctx).
		Preload("Moderator").
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

func (r *reportRepository) Update(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Save(report).Error
}
