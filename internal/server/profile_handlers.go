package server

import (
	"io"
	"strings"

	"network/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /profile/:username
// @Summary User profile
// @Description Profile feed, follow counts, avatar and whether the caller follows the user
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param page query int false "1-based page number"
// @Success 200 {object} service.ProfileView
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	view, err := s.feedService.ProfileView(c.UserContext(), c.Params("username"), currentUserID(c), pageQuery(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(view)
}

// UpdateProfile handles POST /profile/:username
// @Summary Follow, unfollow or upload an avatar
// @Description With action=follow|unfollow the caller follows or unfollows the user.
// @Description On the caller's own profile a multipart "image" file replaces the avatar.
// @Tags profiles
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param action formData string false "follow or unfollow"
// @Param image formData file false "Avatar image (own profile only)"
// @Success 200 {object} object{following=bool,counts=models.FollowCounts}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /profile/{username} [post]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	target, err := s.userService.GetByUsername(ctx, c.Params("username"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	action := strings.ToLower(strings.TrimSpace(c.FormValue("action")))
	if action == "" && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		var req struct {
			Action string `json:"action"`
		}
		if err := c.BodyParser(&req); err == nil {
			action = strings.ToLower(strings.TrimSpace(req.Action))
		}
	}

	switch {
	case action == "follow":
		err = s.followService.Follow(ctx, userID, target.ID)
	case action == "unfollow":
		err = s.followService.Unfollow(ctx, userID, target.ID)
	case action == "" && target.ID == userID:
		return s.uploadAvatar(c, userID)
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("action must be follow or unfollow"))
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	counts, err := s.followService.Counts(ctx, target.ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"following": action == "follow",
		"counts":    counts,
	})
}

func (s *Server) uploadAvatar(c *fiber.Ctx, userID uint) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required"))
	}

	f, err := fh.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = f.Close() }()

	content, err := io.ReadAll(f)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unable to read uploaded file"))
	}

	profile, err := s.userService.UpdateAvatar(c.UserContext(), userID, fh.Filename, content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"image": profile.Image,
		"url":   "/media/" + profile.Image,
	})
}
