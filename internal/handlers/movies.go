package handlers

import (
	"encoding/json"
	"fmt"
	"net/url"

	"cinevault-backend/config"
	"cinevault-backend/internal/auth"
	"cinevault-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// MoviesHandler proxies the external movie catalog. The server's API key
// never reaches the client; callers only need a valid access token.
type MoviesHandler struct {
	catalog config.CatalogConfig
}

func NewMoviesHandler(catalog config.CatalogConfig) *MoviesHandler {
	return &MoviesHandler{catalog: catalog}
}

func (h *MoviesHandler) fetch(path string, query url.Values) (interface{}, error) {
	query.Set("api_key", h.catalog.APIKey)
	target := fmt.Sprintf("%s%s?%s", h.catalog.BaseURL, path, query.Encode())

	agent := fiber.Get(target)
	statusCode, body, errs := agent.Bytes()
	if len(errs) > 0 {
		log.Error().Errs("errors", errs).Str("path", path).Msg("Catalog request failed")
		return nil, errs[0]
	}
	if statusCode != fiber.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", statusCode)
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// @Summary Search movies
// @Description Search the external catalog
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param q query string true "Search query"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /movies/search [get]
func (h *MoviesHandler) Search(c *fiber.Ctx) error {
	status := middleware.StatusFromCtx(c)
	q := c.Query("q")

	env := auth.RunIfAuthenticated(status, func() (interface{}, error) {
		return h.fetch("/search/movie", url.Values{"query": {q}})
	})

	return c.Status(env.StatusCode).JSON(env)
}

// @Summary Get movie details
// @Description Fetch one movie from the external catalog
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /movies/{id} [get]
func (h *MoviesHandler) Detail(c *fiber.Ctx) error {
	status := middleware.StatusFromCtx(c)
	movieID := c.Params("id")

	env := auth.RunIfAuthenticated(status, func() (interface{}, error) {
		return h.fetch("/movie/"+movieID, url.Values{})
	})

	return c.Status(env.StatusCode).JSON(env)
}
