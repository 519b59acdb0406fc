package server

import (
	"network/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GlobalFeed handles GET /
// @Summary Global feed
// @Description Every post, newest first, 10 per page
// @Tags feeds
// @Produce json
// @Param page query int false "1-based page number"
// @Success 200 {object} service.FeedPage
// @Router / [get]
func (s *Server) GlobalFeed(c *fiber.Ctx) error {
	viewerID, _ := s.optionalUserID(c)

	page, err := s.feedService.Global(c.UserContext(), viewerID, pageQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}

// FollowingFeed handles GET /following
// @Summary Following feed
// @Description Posts by the users the caller follows, newest first
// @Tags feeds
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-based page number"
// @Success 200 {object} service.FeedPage
// @Failure 401 {object} models.ErrorResponse
// @Router /following [get]
func (s *Server) FollowingFeed(c *fiber.Ctx) error {
	page, err := s.feedService.Following(c.UserContext(), currentUserID(c), pageQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(page)
}
