package server

import (
	"studydeck/internal/cache"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories. Category listings change
// rarely and are served cache-aside.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	var cached fiber.Map
	if cache.GetJSON(c.Context(), cache.CategoriesKey, &cached) {
		return c.JSON(cached)
	}

	categories, err := s.taxonomyRepo.ListCategories(c.Context())
	if err != nil {
		return respondError(c, err)
	}

	resp := fiber.Map{"categories": categories}
	cache.SetJSON(c.Context(), cache.CategoriesKey, resp, cache.CategoriesTTL)
	return c.JSON(resp)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.taxonomyRepo.ListTags(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// GetCourses handles GET /api/courses with an optional ?q= search over
// course code and title.
func (s *Server) GetCourses(c *fiber.Ctx) error {
	query := c.Query("q")

	if query != "" {
		courses, err := s.courseRepo.Search(c.Context(), query)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"courses": courses})
	}

	courses, err := s.courseRepo.ListActive(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"courses": courses})
}
