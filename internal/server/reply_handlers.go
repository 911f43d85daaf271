package server

import (
	"studydeck/internal/cache"
	"studydeck/internal/models"
	"studydeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateReply handles POST /api/threads/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.CreateReply(c.Context(), actor, threadID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), threadID)
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// GetReplies handles GET /api/threads/:id/replies
func (s *Server) GetReplies(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	actor := service.Actor{ID: s.viewerID(c)}
	if actor.ID != 0 {
		if a, err := s.currentActor(c); err == nil {
			actor = a
		} else {
			return nil
		}
	}

	replies, err := s.replyService.ListReplies(c.Context(), actor, threadID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"replies": replies})
}

// UpdateReply handles PUT /api/replies/:id
func (s *Server) UpdateReply(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.replyService.UpdateReply(c.Context(), actor, replyID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reply)
}

// SoftDeleteReply handles DELETE /api/replies/:id
func (s *Server) SoftDeleteReply(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reply, err := s.replyService.SoftDeleteReply(c.Context(), actor, replyID)
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), reply.ThreadID)
	return c.JSON(reply)
}

// RestoreReply handles POST /api/replies/:id/restore (moderator only).
func (s *Server) RestoreReply(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reply, err := s.replyService.RestoreReply(c.Context(), actor, replyID)
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), reply.ThreadID)
	return c.JSON(reply)
}

// HardDeleteReply handles DELETE /api/replies/:id/hard
func (s *Server) HardDeleteReply(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.replyService.HardDeleteReply(c.Context(), actor, replyID); err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThreadLists(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAnswer handles POST /api/replies/:id/answer (thread author only).
func (s *Server) MarkAnswer(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	reply, err := s.replyService.MarkAnswer(c.Context(), actor, replyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reply)
}
