package server

import (
	"studydeck/internal/cache"
	"studydeck/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ToggleThreadLike handles POST /api/threads/:id/like
func (s *Server) ToggleThreadLike(c *fiber.Ctx) error {
	return s.toggleLike(c, models.TargetThread)
}

// ToggleReplyLike handles POST /api/replies/:id/like
func (s *Server) ToggleReplyLike(c *fiber.Ctx) error {
	return s.toggleLike(c, models.TargetReply)
}

func (s *Server) toggleLike(c *fiber.Ctx, kind models.TargetKind) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.engagementService.ToggleLike(c.Context(), actor,
		models.Target{Kind: kind, ID: targetID})
	if err != nil {
		return respondError(c, err)
	}

	if kind == models.TargetThread {
		cache.InvalidateThread(c.Context(), targetID)
	} else {
		cache.InvalidateThreadLists(c.Context())
	}
	return c.JSON(result)
}
