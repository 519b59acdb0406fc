package server

import (
	"strconv"

	"network/internal/models"
	"network/internal/service"

	"github.com/gofiber/fiber/v2"
)

// PostDetail is a single post with the users who like it.
type PostDetail struct {
	Post   *models.Post         `json:"post"`
	Likers []models.UserSummary `json:"likers"`
}

// CreatePost handles POST /
// @Summary Create post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{content=string} true "Post content, at most 600 characters"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router / [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		Content string `json:"content" form:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, userID, req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	created, err := s.postService.GetPost(ctx, post.ID, userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// updatePostError renders /post failures as a bare {error} body.
// Authorization failures keep their 403; everything else the client sent is a 400.
func updatePostError(c *fiber.Ctx, err error) error {
	switch {
	case models.HasCode(err, models.CodeForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case models.HasCode(err, models.CodeNotFound):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Post does not exist."})
	case models.HasCode(err, models.CodeValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return models.RespondWithAppError(c, err)
	}
}

// UpdatePost handles PUT /post
// @Summary Edit or like a post
// @Description Replaces the content when editedpost is set (author only) and toggles the caller's like when clicked is true.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{post_id=int,editedpost=string,clicked=bool} true "Update"
// @Success 201 {object} object{message=string,likes_number=string}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /post [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		PostID     flexibleID `json:"post_id"`
		EditedPost string     `json:"editedpost"`
		Clicked    bool       `json:"clicked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	postID := uint(req.PostID)
	if postID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Post does not exist."})
	}

	if req.EditedPost != "" {
		if _, err := s.postService.EditPost(ctx, service.EditPostInput{
			UserID:  userID,
			PostID:  postID,
			Content: req.EditedPost,
		}); err != nil {
			return updatePostError(c, err)
		}
	}

	var likes int64
	if req.Clicked {
		res, err := s.postService.ToggleLike(ctx, postID, userID)
		if err != nil {
			return updatePostError(c, err)
		}
		likes = res.Likes
	} else {
		count, err := s.postService.LikeCount(ctx, postID)
		if err != nil {
			return updatePostError(c, err)
		}
		likes = count
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "You edit the post successfully",
		"likes_number": strconv.FormatInt(likes, 10),
	})
}

// PostMethodNotAllowed answers every non-PUT request on /post.
func (s *Server) PostMethodNotAllowed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "PUT request required.",
	})
}

// GetPost handles GET /post/:id
// @Summary Get post
// @Description A post with its like count and the users who like it
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostDetail
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(c.UserContext(), postID, viewerID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	likers, err := s.postService.Likers(c.UserContext(), postID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(PostDetail{Post: post, Likers: likers})
}

// DeletePost handles DELETE /post/:id
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
