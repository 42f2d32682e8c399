package ws

import (
	"time"

	"wikiboard/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Client is one websocket subscriber to a board's event feed.
type Client struct {
	UserID  int64
	BoardID int64
	Conn    *websocket.Conn
	Send    chan []byte
	hub     *Hub
}

func NewClient(userID, boardID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID:  userID,
		BoardID: boardID,
		Conn:    conn,
		Send:    make(chan []byte, 64),
		hub:     hub,
	}
}

// Run registers the client and pumps events until the connection drops.
func (c *Client) Run() {
	c.hub.Subscribe(c)
	go c.writePump()
	c.readPump()
}

// readPump drains inbound frames. The feed is one-way; reads exist only
// to notice the close and answer pings.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c)
		close(c.Send)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("board feed closed", "user_id", c.UserID, "board_id", c.BoardID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
