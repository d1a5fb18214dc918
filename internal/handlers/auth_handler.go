package handlers

import (
	"errors"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type AuthHandler struct {
	authService *auth.AuthService
}

func NewAuthHandler(authService *auth.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// @Summary Register new user
// @Description Create a new user account with the default agent role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.RegisterRequest true "Registration Data"
// @Success 200 {object} auth.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email, password and name are required",
		})
	}

	user, err := h.authService.Register(input.Email, input.Password, input.Name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		log.Error().Err(err).Msg("Registration failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to register user",
		})
	}

	login, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("Post-registration login failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to issue token",
		})
	}

	return c.JSON(login)
}

// @Summary Login user
// @Description Authenticate credentials and issue a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Login Data"
// @Success 200 {object} auth.LoginResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input auth.LoginRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	login, err := h.authService.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrAccountDisabled) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		// Unknown email and wrong password answer identically
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": auth.ErrInvalidCredentials.Error(),
		})
	}

	return c.JSON(login)
}

// @Summary Logout user
// @Description Revoke the presented session token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims := c.Locals(middleware.LocalsUser).(*auth.Claims)

	if err := h.authService.Logout(claims, c.IP(), c.Get(fiber.HeaderUserAgent)); err != nil {
		log.Error().Err(err).Str("user", claims.UserID).Msg("Logout failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to logout",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// @Summary Logout everywhere
// @Description Revoke every live session of the caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(uint)

	if _, err := h.authService.LogoutAll(userID, ""); err != nil {
		log.Error().Err(err).Uint("user_id", userID).Msg("Logout-all failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to logout",
		})
	}

	return c.JSON(fiber.Map{
		"message": "All sessions revoked",
	})
}

// @Summary Get user profile
// @Description Get current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	userID := c.Locals(middleware.LocalsUserID).(uint)

	user, err := h.authService.GetUserByID(userID)
	if err != nil || user == nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get user",
		})
	}

	return c.JSON(user)
}
