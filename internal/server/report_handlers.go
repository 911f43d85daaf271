package server

import (
	"studydeck/internal/models"
	"studydeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReport handles POST /api/reports
func (s *Server) CreateReport(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}

	var req struct {
		TargetKind models.TargetKind `json:"target_kind"`
		TargetID   uint              `json:"target_id"`
		Reason     string            `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.CreateReport(c.Context(), actor, service.CreateReportInput{
		Target: models.Target{Kind: req.TargetKind, ID: req.TargetID},
		Reason: req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetPendingReports handles GET /api/reports/pending (moderator only).
func (s *Server) GetPendingReports(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	reports, total, err := s.reportService.ListPendingReports(c.Context(), actor, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
	})
}

// GetMyReports handles GET /api/reports/me
func (s *Server) GetMyReports(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}

	reports, err := s.reportService.ListMyReports(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// ResolveReport handles PUT /api/reports/:id/resolve (moderator only).
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status models.ReportStatus `json:"status"`
		Notes  string              `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.reportService.ResolveReport(c.Context(), actor, service.ResolveReportInput{
		ReportID: reportID,
		Status:   req.Status,
		Notes:    req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
