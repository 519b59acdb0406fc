package server

import (
	"network/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DeleteMyAccount handles DELETE /users/me
// @Summary Delete account
// @Description Removes the caller with their profile, posts, likes and follow edges
// @Tags users
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.UserContext(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	s.revokeCurrentToken(c)
	return c.SendStatus(fiber.StatusNoContent)
}
