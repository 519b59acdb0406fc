package server

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"network/internal/middleware"
	"network/internal/models"
	"network/internal/redisclient"
	"network/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenResponse is returned by register and login.
type TokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /register
// @Summary Register
// @Description Create an account with a default profile and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string,confirmation=string} true "Registration form"
// @Success 201 {object} TokenResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req struct {
		Username     string `json:"username" form:"username"`
		Email        string `json:"email" form:"email"`
		Password     string `json:"password" form:"password"`
		Confirmation string `json:"confirmation" form:"confirmation"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Confirmation: req.Confirmation,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(TokenResponse{Token: token, User: user})
}

// Login handles POST /login
// @Summary Login
// @Description Authenticate by username and password and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Credentials"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid username and/or password."))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(TokenResponse{Token: token, User: user})
}

// Logout handles POST /logout
// @Summary Logout
// @Description Revoke the presented token until it expires
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Router /logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	s.revokeCurrentToken(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// revokeCurrentToken blacklists the request's token for its remaining lifetime.
func (s *Server) revokeCurrentToken(c *fiber.Ctx) {
	jti, _ := c.Locals("jti").(string)
	expiry, _ := c.Locals("tokenExpiry").(time.Time)
	if jti == "" || expiry.IsZero() {
		return
	}
	if s.redis == nil {
		middleware.Logger.WarnContext(c.UserContext(), "token revocation skipped: redis unavailable")
		return
	}
	if err := redisclient.RevokeToken(c.UserContext(), s.redis, jti, time.Until(expiry)); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "failed to revoke token", slog.String("error", err.Error()))
	}
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
