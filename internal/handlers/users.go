package handlers

import (
	"errors"

	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/middleware"
	"cinevault-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type UsersHandler struct {
	userRepo *repository.UserRepository
}

func NewUsersHandler(userRepo *repository.UserRepository) *UsersHandler {
	return &UsersHandler{userRepo: userRepo}
}

// @Summary Get user profile
// @Description Get a user's profile; only the owner may read it
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	status := middleware.StatusFromCtx(c)

	env := auth.RunIfAuthorized(status, targetID, func() (interface{}, error) {
		user, err := h.userRepo.GetUserByID(targetID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.New("user not found")
		}
		return UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Provider:  user.Provider,
			AvatarURL: user.AvatarURL,
		}, nil
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary Update user profile
// @Description Update name/avatar; only the owner may write it
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 401 {object} ErrorResponse
// @Router /users/{id} [put]
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	targetID := c.Params("id")
	status := middleware.StatusFromCtx(c)

	var input struct {
		Name      string `json:"name"`
		AvatarURL string `json:"avatarUrl"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	env := auth.RunIfAuthorized(status, targetID, func() (interface{}, error) {
		user, err := h.userRepo.GetUserByID(targetID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.New("user not found")
		}

		if input.Name != "" {
			user.Name = input.Name
		}
		if input.AvatarURL != "" {
			user.AvatarURL = input.AvatarURL
		}

		if err := h.userRepo.UpdateUser(user); err != nil {
			return nil, err
		}
		return UserResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			Provider:  user.Provider,
			AvatarURL: user.AvatarURL,
		}, nil
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary List users
// @Description Admin listing of all accounts
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/users [get]
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.userRepo.GetAllUsers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list users",
		})
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Provider:  u.Provider,
			AvatarURL: u.AvatarURL,
		})
	}
	return c.JSON(out)
}

// @Summary Update user status
// @Description Admin toggle for account activation
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Router /admin/users/{id}/status [put]
func (h *UsersHandler) UpdateUserStatus(c *fiber.Ctx) error {
	var input struct {
		IsActive bool `json:"isActive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if err := h.userRepo.SetUserActive(c.Params("id"), input.IsActive); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update user status",
		})
	}

	return c.JSON(fiber.Map{"message": "User status updated"})
}
