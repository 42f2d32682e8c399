package handlers

import (
	"net/http"
	"strconv"
	"time"

	"wikiboard/internal/domain"
	"wikiboard/internal/http/middleware"
	"wikiboard/internal/service"
	"wikiboard/internal/ws"

	"github.com/gin-gonic/gin"
)

type cardRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *int64     `json:"assignee_id"`
	Priority    string     `json:"priority"`
	Color       string     `json:"color"`
	DueDate     *time.Time `json:"due_date"`
}

func (r *cardRequest) toInput() service.CardInput {
	return service.CardInput{
		Title:       r.Title,
		Description: r.Description,
		AssigneeID:  r.AssigneeID,
		Priority:    domain.Priority(r.Priority),
		Color:       r.Color,
		DueDate:     r.DueDate,
	}
}

func (h *Handler) AddCard(c *gin.Context) {
	columnID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req cardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	card, err := h.Cards.AddCard(c.Request.Context(), user, middleware.Provenance(c), columnID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("card_create").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventCardCreated, BoardID: card.BoardID, CardID: card.ID, ColumnID: card.ColumnID, ActorID: user.ID})
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) GetCard(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	card, err := h.Cards.GetCard(c.Request.Context(), middleware.CurrentUser(c), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// UpdateCard has replace semantics: the request carries the full field
// set and omitted optional fields are cleared.
func (h *Handler) UpdateCard(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req cardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	card, err := h.Cards.UpdateCard(c.Request.Context(), user, middleware.Provenance(c), cardID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("card_update").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventCardUpdated, BoardID: card.BoardID, CardID: card.ID, ColumnID: card.ColumnID, ActorID: user.ID})
	c.JSON(http.StatusOK, card)
}

func (h *Handler) MoveCard(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ColumnID int64 `json:"column_id"`
		Position int   `json:"position"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	card, err := h.Cards.MoveCard(c.Request.Context(), user, middleware.Provenance(c), cardID, req.ColumnID, req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("card_move").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventCardMoved, BoardID: card.BoardID, CardID: card.ID, ColumnID: card.ColumnID, ActorID: user.ID})
	c.JSON(http.StatusOK, card)
}

func (h *Handler) DeleteCard(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	card, err := h.Cards.GetCard(c.Request.Context(), user, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.Cards.DeleteCard(c.Request.Context(), user, middleware.Provenance(c), cardID); err != nil {
		respondError(c, err)
		return
	}

	middleware.BoardOps.WithLabelValues("card_delete").Inc()
	h.Hub.Broadcast(ws.Event{Type: ws.EventCardDeleted, BoardID: card.BoardID, CardID: card.ID, ColumnID: card.ColumnID, ActorID: user.ID})
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) AddComment(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	user := middleware.CurrentUser(c)
	card, err := h.Cards.GetCard(c.Request.Context(), user, cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	comment, err := h.Cards.AddComment(c.Request.Context(), user, middleware.Provenance(c), cardID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	h.Hub.Broadcast(ws.Event{Type: ws.EventCommentAdded, BoardID: card.BoardID, CardID: cardID, ActorID: user.ID})
	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) ListComments(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	comments, err := h.Cards.Comments(c.Request.Context(), middleware.CurrentUser(c), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// MyActivity returns the authenticated user's own recent ledger entries.
func (h *Handler) MyActivity(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}

	entries, err := h.Cards.ActorActivity(c.Request.Context(), middleware.CurrentUser(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": entries})
}

// CardHistory returns the task's full field-level audit trail, including
// for soft-deleted cards.
func (h *Handler) CardHistory(c *gin.Context) {
	cardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entries, err := h.Cards.History(c.Request.Context(), middleware.CurrentUser(c), cardID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}
