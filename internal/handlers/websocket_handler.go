package handlers

import (
	"net/http"

	"contacts-manager/internal/utils"
	"contacts-manager/internal/wsnotify"
)

// @Summary Live change events
// @Description Websocket stream of contact, category and data file change events.
// @Tags events
// @Router /ws [get]
func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsnotify.Upgrader().Upgrade(w, r, nil)
	if err != nil {
		utils.LogWarning("Websocket upgrade failed: %v", err)
		return
	}
	wsnotify.Manager.AddClient(conn)
	defer func() {
		wsnotify.Manager.RemoveClient(conn)
		conn.Close()
	}()
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
