package service

import (
	"context"
	"strings"
	"time"

	"studydeck/internal/models"
	"studydeck/internal/repository"
)

// ReportService records abuse reports and walks them through the
// resolution state machine.
type ReportService struct {
	reportRepo repository.ReportRepository
	threadRepo repository.ThreadRepository
	replyRepo  repository.ReplyRepository
	now        func() time.Time
}

// CreateReportInput carries the fields for a new report.
type CreateReportInput struct {
	Target models.Target
	Reason string
}

// ResolveReportInput carries a moderator's resolution of a report.
type ResolveReportInput struct {
	ReportID uint
	Status   models.ReportStatus
	Notes    string
}

// NewReportService creates a ReportService.
func NewReportService(
	reportRepo repository.ReportRepository,
	threadRepo repository.ThreadRepository,
	replyRepo repository.ReplyRepository,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		threadRepo: threadRepo,
		replyRepo:  replyRepo,
		now:        time.Now,
	}
}

// CreateReport files a report against an existing thread or reply.
func (s *ReportService) CreateReport(ctx context.Context, actor Actor, in CreateReportInput) (*models.Report, error) {
	if err := in.Target.Validate(); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}

	switch in.Target.Kind {
	case models.TargetThread:
		if _, err := s.threadRepo.GetByID(ctx, in.Target.ID); err != nil {
			return nil, err
		}
	case models.TargetReply:
		if _, err := s.replyRepo.GetByID(ctx, in.Target.ID); err != nil {
			return nil, err
		}
	}

	report := &models.Report{
		ReporterID: actor.ID,
		TargetKind: in.Target.Kind,
		TargetID:   in.Target.ID,
		Reason:     reason,
		Status:     models.ReportStatusPending,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ResolveReport moves a report to a new status. Moderator only. A
// report in a terminal state rejects any further transition with
// Conflict; transitioning to reviewed leaves the report open.
func (s *ReportService) ResolveReport(ctx context.Context, actor Actor, in ResolveReportInput) (*models.Report, error) {
	if !actor.IsModerator() {
		return nil, models.NewForbiddenError("Only moderators can resolve reports")
	}
	if !in.Status.Valid() || in.Status == models.ReportStatusPending {
		return nil, models.NewValidationError("Invalid report status")
	}

	report, err := s.reportRepo.GetByID(ctx, in.ReportID)
	if err != nil {
		return nil, err
	}
	if !report.Status.CanTransitionTo(in.Status) {
		return nil, models.NewConflictError("Report is already " + string(report.Status))
	}

	report.Status = in.Status
	report.ModeratorID = &actor.ID
	report.ResolutionNotes = strings.TrimSpace(in.Notes)
	if in.Status.Terminal() {
		resolvedAt := s.now()
		report.ResolvedAt = &resolvedAt
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ListPendingReports returns the open moderation queue, newest first.
func (s *ReportService) ListPendingReports(ctx context.Context, actor Actor, limit, offset int) ([]*models.Report, int64, error) {
	if !actor.IsModerator() {
		return nil, 0, models.NewForbiddenError("Only moderators can view the report queue")
	}
	return s.reportRepo.ListPending(ctx, limit, offset)
}

// ListMyReports returns every report the actor has filed, any status.
func (s *ReportService) ListMyReports(ctx context.Context, actor Actor) ([]*models.Report, error) {
	return s.reportRepo.ListByReporter(ctx, actor.ID)
}
