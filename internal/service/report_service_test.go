package service

import (
	"context"
	"testing"
	"time"

	"studydeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportService(reports *reportRepoStub) *ReportService {
	return NewReportService(reports, noopThreadRepo(), noopReplyRepo())
}

func TestReportService_CreateReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid report starts pending", func(t *testing.T) {
		t.Parallel()
		reports := noopReportRepo()
		var created *models.Report
		reports.createFn = func(_ context.Context, r *models.Report) error {
			r.ID = 1
			created = r
			return nil
		}
		svc := newReportService(reports)

		_, err := svc.CreateReport(ctx, student, CreateReportInput{
			Target: models.Target{Kind: models.TargetThread, ID: 1},
			Reason: "spam",
		})
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, models.ReportStatusPending, created.Status)
		assert.Equal(t, student.ID, created.ReporterID)
	})

	t.Run("blank reason rejected", func(t *testing.T) {
		t.Parallel()
		svc := newReportService(noopReportRepo())
		_, err := svc.CreateReport(ctx, student, CreateReportInput{
			Target: models.Target{Kind: models.TargetThread, ID: 1},
			Reason: "  ",
		})
		assertValidationError(t, err)
	})

	t.Run("missing target rejected", func(t *testing.T) {
		t.Parallel()
		replies := noopReplyRepo()
		replies.getByIDFn = func(_ context.Context, id uint) (*models.Reply, error) {
			return nil, models.NewNotFoundError("Reply", id)
		}
		svc := NewReportService(noopReportRepo(), noopThreadRepo(), replies)
		_, err := svc.CreateReport(ctx, student, CreateReportInput{
			Target: models.Target{Kind: models.TargetReply, ID: 99},
			Reason: "spam",
		})
		assertAppError(t, err, models.CodeNotFound)
	})
}

func TestReportService_ResolveReport(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("students cannot resolve", func(t *testing.T) {
		t.Parallel()
		svc := newReportService(noopReportRepo())
		_, err := svc.ResolveReport(ctx, student, ResolveReportInput{ReportID: 1, Status: models.ReportStatusResolved})
		assertForbiddenError(t, err)
	})

	t.Run("pending cannot be target status", func(t *testing.T) {
		t.Parallel()
		svc := newReportService(noopReportRepo())
		_, err := svc.ResolveReport(ctx, moderator, ResolveReportInput{ReportID: 1, Status: models.ReportStatusPending})
		assertValidationError(t, err)
	})

	t.Run("resolving stamps moderator and timestamp", func(t *testing.T) {
		t.Parallel()
		reports := noopReportRepo()
		var updated *models.Report
		reports.updateFn = func(_ context.Context, r *models.Report) error {
			updated = r
			return nil
		}
		svc := newReportService(reports)
		fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return fixed }

		_, err := svc.ResolveReport(ctx, moderator, ResolveReportInput{
			ReportID: 1,
			Status:   models.ReportStatusResolved,
			Notes:    "removed the post",
		})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Equal(t, models.ReportStatusResolved, updated.Status)
		require.NotNil(t, updated.ModeratorID)
		assert.Equal(t, moderator.ID, *updated.ModeratorID)
		require.NotNil(t, updated.ResolvedAt)
		assert.Equal(t, fixed, *updated.ResolvedAt)
		assert.Equal(t, "removed the post", updated.ResolutionNotes)
	})

	t.Run("reviewed stays open", func(t *testing.T) {
		t.Parallel()
		reports := noopReportRepo()
		var updated *models.Report
		reports.updateFn = func(_ context.Context, r *models.Report) error {
			updated = r
			return nil
		}
		svc := newReportService(reports)

		_, err := svc.ResolveReport(ctx, moderator, ResolveReportInput{ReportID: 1, Status: models.ReportStatusReviewed})
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.Nil(t, updated.ResolvedAt)
	})

	t.Run("reviewed can still be dismissed", func(t *testing.T) {
		t.Parallel()
		reports := noopReportRepo()
		stored := &models.Report{ID: 1, ReporterID: 1, TargetKind: models.TargetThread, TargetID: 1,
			Reason: "spam", Status: models.ReportStatusReviewed}
		reports.getByIDFn = func(_ context.Context, _ uint) (*models.Report, error) {
			return stored, nil
		}
		svc := newReportService(reports)

		report, err := svc.ResolveReport(ctx, moderator, ResolveReportInput{ReportID: 1, Status: models.ReportStatusDismissed})
		require.NoError(t, err)
		assert.Equal(t, models.ReportStatusDismissed, report.Status)
	})

	t.Run("terminal report rejects further transitions", func(t *testing.T) {
		t.Parallel()
		reports := noopReportRepo()
		reports.getByIDFn = func(_ context.Context, id uint) (*models.Report, error) {
			return &models.Report{ID: id, ReporterID: 1, TargetKind: models.TargetThread, TargetID: 1,
				Reason: "spam", Status: models.ReportStatusDismissed}, nil
		}
		reports.updateFn = func(_ context.Context, _ *models.Report) error {
			t.Fatal("Update should not be called for a terminal report")
			return nil
		}
		svc := newReportService(reports)

		_, err := svc.ResolveReport(ctx, moderator, ResolveReportInput{ReportID: 1, Status: models.ReportStatusResolved})
		assertAppError(t, err, models.CodeConflict)
	})
}

func TestReportService_ListPendingReports(t *testing.T) {
	t.Parallel()

	svc := newReportService(noopReportRepo())
	_, _, err := svc.ListPendingReports(context.Background(), student, 20, 0)
	assertForbiddenError(t, err)

	_, total, err := svc.ListPendingReports(context.Background(), moderator, 20, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}
