package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"osiri-api/internal/service"
	"osiri-api/internal/utils"
)

type FeedHandler struct {
	catalogService *service.CatalogService
}

func NewFeedHandler(catalogService *service.CatalogService) *FeedHandler {
	return &FeedHandler{
		catalogService: catalogService,
	}
}

// BrowseFeeds serves the paginated catalog. Category and page drive fetching;
// the q and language filters narrow the already fetched window.
func (h *FeedHandler) BrowseFeeds(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, utils.NewErrorResponse(400, "Bad Request", "Page must be a positive integer"))
			return
		}
		page = parsed
	}

	result, err := h.catalogService.Browse(userID, service.BrowseParams{
		Category: c.Query("category"),
		Language: c.Query("language"),
		Query:    c.Query("q"),
		Page:     page,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FeedHandler) RegisterRoutes(r *gin.Engine) {
	feedGroup := r.Group("/api/v1/feeds")
	{
		feedGroup.GET("", h.BrowseFeeds)
	}
}
