package handlers

import (
	"net/http"

	"wikiboard/internal/domain"
	"wikiboard/internal/http/middleware"
	"wikiboard/internal/ws"

	"github.com/gin-gonic/gin"
)

type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

func (h *Handler) CreateBoard(c *gin.Context) {
	var req boardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	board, err := h.Boards.CreateBoard(c.Request.Context(), user, req.Name, req.Description, domain.Visibility(req.Visibility))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("board_create").Inc()
	c.JSON(http.StatusCreated, board)
}

func (h *Handler) ListBoards(c *gin.Context) {
	boards, err := h.Boards.ListOwned(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *Handler) GetBoard(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := h.Boards.GetBoard(c.Request.Context(), middleware.CurrentUser(c), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) UpdateBoard(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req boardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	board, err := h.Boards.UpdateBoard(c.Request.Context(), user, boardID, req.Name, req.Description, domain.Visibility(req.Visibility))
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("board_update").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventBoardUpdated, BoardID: boardID, ActorID: user.ID})
	c.JSON(http.StatusOK, board)
}

func (h *Handler) DeleteBoard(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Boards.DeleteBoard(c.Request.Context(), middleware.CurrentUser(c), boardID); err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("board_delete").Inc()
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type columnRequest struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	WIPLimit *int   `json:"wip_limit"`
}

func (h *Handler) AddColumn(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req columnRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	col, err := h.Boards.AddColumn(c.Request.Context(), user, boardID, req.Name, req.Color, req.WIPLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("column_create").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventColumnAdded, BoardID: boardID, ColumnID: col.ID, ActorID: user.ID})
	c.JSON(http.StatusCreated, col)
}

func (h *Handler) UpdateColumn(c *gin.Context) {
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req columnRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	col, err := h.Boards.UpdateColumn(c.Request.Context(), user, columnID, req.Name, req.Color, req.WIPLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("column_update").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventColumnUpdated, BoardID: col.BoardID, ColumnID: col.ID, ActorID: user.ID})
	c.JSON(http.StatusOK, col)
}

func (h *Handler) MoveColumn(c *gin.Context) {
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Position int `json:"position"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.Boards.MoveColumn(c.Request.Context(), user, columnID, req.Position); err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("column_move").Inc()
	c.JSON(http.StatusOK, gin.H{"moved": true})
}

type grantRequest struct {
	UserID int64  `json:"user_id"`
	Level  string `json:"level"`
}

func (h *Handler) SetGrant(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req grantRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	level, ok := domain.ParsePermissionLevel(req.Level)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown permission level"})
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.Boards.SetGrant(c.Request.Context(), user, boardID, req.UserID, level); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"granted": true})
}

func (h *Handler) RevokeGrant(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "user_id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.Boards.RevokeGrant(c.Request.Context(), user, boardID, targetID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

func (h *Handler) ListGrants(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	grants, err := h.Boards.ListGrants(c.Request.Context(), middleware.CurrentUser(c), boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"grants": grants})
}
