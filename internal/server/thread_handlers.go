package server

import (
	"fmt"

	"studydeck/internal/cache"
	"studydeck/internal/models"
	"studydeck/internal/repository"
	"studydeck/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateThread handles POST /api/threads
func (s *Server) CreateThread(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}

	var req struct {
		CategoryID uint   `json:"category_id"`
		CourseID   *uint  `json:"course_id"`
		Title      string `json:"title"`
		Content    string `json:"content"`
		TagIDs     []uint `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.CreateThread(c.Context(), actor, service.CreateThreadInput{
		CategoryID: req.CategoryID,
		CourseID:   req.CourseID,
		Title:      req.Title,
		Content:    req.Content,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThreadLists(c.Context())
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// GetThreads handles GET /api/threads with category/tag/search filters
// and latest/popular ordering.
func (s *Server) GetThreads(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	filter := repository.ThreadListFilter{
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Query:        c.Query("q"),
		Sort:         c.Query("sort", repository.ThreadSortLatest),
		Limit:        p.Limit,
		Offset:       p.Offset,
	}

	viewer := s.viewerID(c)

	// Anonymous listings are cacheable; per-viewer liked state is not.
	cacheKey := ""
	if viewer == 0 {
		cacheKey = cache.ThreadListKey(fmt.Sprintf("%s:%s:%s:%s:%d:%d",
			filter.Sort, filter.CategorySlug, filter.TagSlug, filter.Query, filter.Limit, filter.Offset))
		var cached fiber.Map
		if cache.GetJSON(c.Context(), cacheKey, &cached) {
			return c.JSON(cached)
		}
	}

	threads, total, err := s.threadService.ListThreads(c.Context(), filter, viewer)
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{
		"threads": threads,
		"total":   total,
		"limit":   p.Limit,
		"offset":  p.Offset,
	}
	if cacheKey != "" {
		cache.SetJSON(c.Context(), cacheKey, resp, cache.ThreadListTTL)
	}
	return c.JSON(resp)
}

// GetThread handles GET /api/threads/:id
func (s *Server) GetThread(c *fiber.Ctx) error {
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.GetThread(c.Context(), threadID, s.viewerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(thread)
}

// UpdateThread handles PUT /api/threads/:id
func (s *Server) UpdateThread(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      *string `json:"title"`
		Content    *string `json:"content"`
		CategoryID *uint   `json:"category_id"`
		TagIDs     []uint  `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.UpdateThread(c.Context(), actor, threadID, service.UpdateThreadInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), threadID)
	return c.JSON(thread)
}

// DeleteThread handles DELETE /api/threads/:id
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.threadService.DeleteThread(c.Context(), actor, threadID); err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), threadID)
	return c.SendStatus(fiber.StatusNoContent)
}

// LockThread handles POST /api/threads/:id/lock (moderator only).
func (s *Server) LockThread(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.LockThread(c.Context(), actor, threadID)
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), threadID)
	return c.JSON(thread)
}

// TogglePinThread handles POST /api/threads/:id/pin (moderator only).
func (s *Server) TogglePinThread(c *fiber.Ctx) error {
	actor, err := s.currentActor(c)
	if err != nil {
		return nil
	}
	threadID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	thread, err := s.threadService.TogglePin(c.Context(), actor, threadID)
	if err != nil {
		return respondError(c, err)
	}

	cache.InvalidateThread(c.Context(), threadID)
	return c.JSON(thread)
}
