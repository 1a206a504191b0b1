package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"campmedix-api-server/internal/auth"
	"campmedix-api-server/internal/socket"
)

const (
	// Maximum wait for a message from the client before the connection is closed.
	pongWait = 30 * time.Second
	// Deadline for writing a control frame back to the client.
	writeWait = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Tokens *auth.Manager
}

// ServeWs upgrades a dashboard connection. Browsers cannot set an
// Authorization header on a websocket handshake, so the token travels in the
// query string.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	claims, err := h.Tokens.Parse(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized access"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("failed to upgrade websocket connection")
		return
	}

	h.Hub.Register(claims.Email, conn)

	defer func() {
		h.Hub.Unregister(claims.Email)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	// Overriding the ping handler replaces gorilla's default, which is what
	// replies with a pong, so the pong is written here.
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(writeWait))
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).Warn("unexpected websocket close")
			}
			break
		}
	}
}
