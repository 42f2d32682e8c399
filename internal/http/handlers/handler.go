package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"wikiboard/internal/domain"
	"wikiboard/internal/embed"
	"wikiboard/internal/logger"
	"wikiboard/internal/repository"
	"wikiboard/internal/service"
	"wikiboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	Boards *service.BoardService
	Cards  *service.CardService
	Search *service.SearchService
	Users  repository.UserRepository
	Embed  embed.Provider
	Hub    *ws.Hub
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub) *Handler {
	history := repository.NewHistoryRepository(db)
	grants := repository.NewGrantRepository(db)
	boards := repository.NewBoardRepository(db)
	columns := repository.NewColumnRepository(db)
	cards := repository.NewCardRepository(db, history)
	comments := repository.NewCommentRepository(db, history)
	perms := service.NewPermissionResolver(grants)

	boardSvc := service.NewBoardService(boards, columns, cards, grants, perms)
	searchSvc := service.NewSearchService(repository.NewSearchRepository(db))

	return &Handler{
		Boards: boardSvc,
		Cards:  service.NewCardService(boards, columns, cards, comments, history, perms),
		Search: searchSvc,
		Users:  repository.NewUserRepository(db),
		Embed:  embed.NewProvider(boardSvc, searchSvc),
		Hub:    hub,
	}
}

// respondError maps the domain error taxonomy to structured responses.
// Validation and permission errors are recovered here; anything
// unrecognized is a store-level failure: logged with context, surfaced
// as a generic 500, never retried.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		logger.Error("request failed",
			"error", err,
			"path", c.FullPath(),
			"request_id", c.GetString("request_id"),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
