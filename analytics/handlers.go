package analytics

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handler serves navigation statistics.
type Handler struct {
	store *Store
	cache *StatsCache
}

func NewHandler(store *Store, cache *StatsCache) *Handler {
	return &Handler{store: store, cache: cache}
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Pages  []PageCount `json:"pages"`
	Recent []Event     `json:"recent,omitempty"`
}

// RegisterRoutes mounts the stats endpoint on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/stats", h.Stats)
}

// Stats returns cached per-page counts; ?recent=N adds the latest N events.
func (h *Handler) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	counts, err := h.cache.Counts(ctx)
	if err != nil {
		return err
	}
	resp := StatsResponse{Pages: counts}
	if raw := c.QueryParam("recent"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			return echo.NewHTTPError(http.StatusBadRequest, "recent must be between 1 and 500")
		}
		recent, err := h.store.Recent(ctx, n)
		if err != nil {
			return err
		}
		resp.Recent = recent
	}
	return c.JSON(http.StatusOK, resp)
}
