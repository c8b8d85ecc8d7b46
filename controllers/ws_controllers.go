package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/tavolo-app/backend/middlewares"
	"github.com/tavolo-app/backend/realtime"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSController attaches authenticated staff terminals to the realtime hub.
// Clients treat every event as a refetch trigger, never as a diff to apply.
type WSController struct {
	Hub *realtime.Hub
}

func NewWSController(hub *realtime.Hub) *WSController {
	return &WSController{Hub: hub}
}

func (wc *WSController) Attach(c *gin.Context) {
	role := middlewares.CallerRole(c)
	if !role.Valid() {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	wc.Hub.Register(ws, role)

	// Hold the connection open; any read error means the client is gone.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}
	wc.Hub.Unregister(ws)
}
