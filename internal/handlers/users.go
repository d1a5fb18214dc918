package handlers

import (
	"strconv"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	userRepo *repository.UserRepository
}

// UserListResponse represents the response for listing users
type UserListResponse struct {
	Users []UserDetails `json:"users"`
}

// UserDetails represents detailed user information
type UserDetails struct {
	ID        uint   `json:"id" example:"42"`
	Email     string `json:"email" example:"agent@example.com"`
	Name      string `json:"name" example:"John Doe"`
	Role      string `json:"role" example:"agent"`
	Active    bool   `json:"active" example:"true"`
	CreatedAt string `json:"createdAt" example:"2025-01-01 12:00:00"`
}

// UserStatusUpdateRequest represents the request to update user status
type UserStatusUpdateRequest struct {
	Active bool `json:"active" example:"true"`
}

func NewUsersHandler(userRepo *repository.UserRepository) *UsersHandler {
	return &UsersHandler{
		userRepo: userRepo,
	}
}

// @Summary List all users
// @Description Get a list of all users in the system (requires admin role)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserListResponse "List of users"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/users [get]
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch users",
		})
	}

	var response []UserDetails
	for _, user := range users {
		roleName := ""
		if user.Role != nil {
			roleName = user.Role.Name
		}
		response = append(response, UserDetails{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Role:      roleName,
			Active:    user.Active,
			CreatedAt: user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return c.JSON(UserListResponse{Users: response})
}

// @Summary Get user by id
// @Description Get a user profile; callers may only read their own unless admin
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [get]
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	user, err := h.userRepo.GetUserByID(uint(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch user",
		})
	}
	if user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	return c.JSON(user)
}

// @Summary Update user status
// @Description Activate or deactivate a user (requires admin role)
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UserStatusUpdateRequest true "Status update"
// @Security BearerAuth
// @Success 200 {object} MessageResponse "Status updated successfully"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /admin/users/{id}/status [put]
func (h *UsersHandler) UpdateUserStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	var input UserStatusUpdateRequest
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	user, err := h.userRepo.GetUserByID(uint(id))
	if err != nil || user == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	user.Active = input.Active
	if err := h.userRepo.UpdateUser(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User status updated successfully",
	})
}
