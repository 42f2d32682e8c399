package handlers

import (
	"net/http"
	"os"

	"wikiboard/internal/http/middleware"
	"wikiboard/internal/logger"
	"wikiboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// BoardFeed upgrades the connection and streams change events for one
// board to the client. View permission is checked once at subscribe
// time; visibility changes afterwards only take effect on reconnect.
func (h *Handler) BoardFeed(c *gin.Context) {
	boardID, ok := paramID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.Boards.CanView(c.Request.Context(), user, boardID); err != nil {
		respondError(c, err)
		return
	}

	allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err, "board_id", boardID)
		return
	}

	client := ws.NewClient(user.ID, boardID, conn, h.Hub)
	go client.Run()
}
