package handlers

import (
	"net/http"
	"strconv"

	"wikiboard/internal/domain"
	"wikiboard/internal/http/middleware"
	"wikiboard/internal/repository"
	"wikiboard/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchPage serves the dedicated search page: up to 50 results.
func (h *Handler) SearchPage(c *gin.Context) {
	middleware.SearchQueries.WithLabelValues("page").Inc()
	h.search(c, service.PageSearchLimit)
}

// EmbedSearch serves the inline augmentation path for the host wiki,
// through the embed boundary: up to 20 results, no filters.
func (h *Handler) EmbedSearch(c *gin.Context) {
	middleware.SearchQueries.WithLabelValues("embed").Inc()

	results, err := h.Embed.Search(c.Request.Context(), middleware.CurrentUser(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (h *Handler) search(c *gin.Context, limit int) {
	term := c.Query("q")

	var filters repository.SearchFilters
	if v := c.Query("board_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid board_id"})
			return
		}
		filters.BoardID = &id
	}
	if v := c.Query("status"); v != "" {
		filters.Status = &v
	}
	if v := c.Query("priority"); v != "" {
		p := domain.Priority(v)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown priority"})
			return
		}
		filters.Priority = &p
	}

	results, err := h.Search.Search(c.Request.Context(), middleware.CurrentUser(c), term, filters, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// EmbedBoard answers the host renderer: does the board exist, and if the
// caller may view it, its renderable column/card data.
func (h *Handler) EmbedBoard(c *gin.Context) {
	slug := c.Param("slug")

	exists, err := h.Embed.BoardExists(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"exists": false})
		return
	}

	view, err := h.Embed.BoardData(c.Request.Context(), middleware.CurrentUser(c), slug)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": true, "board": view})
}
