package handlers

import (
	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/middleware"
	"cinevault-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type WatchlistHandler struct {
	watchlistRepo *repository.WatchlistRepository
}

func NewWatchlistHandler(watchlistRepo *repository.WatchlistRepository) *WatchlistHandler {
	return &WatchlistHandler{watchlistRepo: watchlistRepo}
}

// @Summary List watchlist
// @Description Get the owner's saved movies
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {array} models.WatchlistEntry
// @Failure 401 {object} ErrorResponse
// @Router /users/{userId}/watchlist [get]
func (h *WatchlistHandler) List(c *fiber.Ctx) error {
	targetID := c.Params("userId")
	status := middleware.StatusFromCtx(c)

	env := auth.RunIfAuthorized(status, targetID, func() (interface{}, error) {
		return h.watchlistRepo.GetEntries(targetID)
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary Save movie
// @Description Add a catalog movie to the owner's watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} models.WatchlistEntry
// @Failure 401 {object} ErrorResponse
// @Router /users/{userId}/watchlist [post]
func (h *WatchlistHandler) Add(c *fiber.Ctx) error {
	targetID := c.Params("userId")
	status := middleware.StatusFromCtx(c)

	var input struct {
		MovieID   string `json:"movieId"`
		Title     string `json:"title"`
		PosterURL string `json:"posterUrl"`
	}
	if err := c.BodyParser(&input); err != nil || input.MovieID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	env := auth.RunIfAuthorized(status, targetID, func() (interface{}, error) {
		return h.watchlistRepo.AddEntry(targetID, input.MovieID, input.Title, input.PosterURL)
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary Remove movie
// @Description Delete a movie from the owner's watchlist
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param movieId path string true "Movie ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} ErrorResponse
// @Router /users/{userId}/watchlist/{movieId} [delete]
func (h *WatchlistHandler) Remove(c *fiber.Ctx) error {
	targetID := c.Params("userId")
	status := middleware.StatusFromCtx(c)

	env := auth.RunIfAuthorized(status, targetID, func() (interface{}, error) {
		if err := h.watchlistRepo.RemoveEntry(targetID, c.Params("movieId")); err != nil {
			return nil, err
		}
		return fiber.Map{"message": "Removed"}, nil
	})

	return c.Status(env.StatusCode).JSON(env)
}
