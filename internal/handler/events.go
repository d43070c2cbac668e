/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	ws "osiri-api/internal/websocket"
)

// EventsHandler upgrades dashboard clients to WebSocket and keeps the
// connection registered for event delivery until it closes.
type EventsHandler struct {
	manager  *ws.Manager
	upgrader websocket.Upgrader
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(manager *ws.Manager) *EventsHandler {
	return &EventsHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Cross-origin upgrades are allowed; auth happens via the JWT
				// middleware before the upgrade.
				return true
			},
			HandshakeTimeout: 10 * time.Second,
		},
	}
}

// Connect handles WebSocket upgrade requests at /api/v1/ws/events.
func (h *EventsHandler) Connect(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade error is already sent by upgrader
		log.Printf("[ERROR] WebSocket upgrade failed: userID=%s error=%v", userID, err)
		return
	}

	connectionID, err := h.manager.Register(userID, conn)
	if err != nil {
		log.Printf("[ERROR] Connection registration failed: userID=%s error=%v", userID, err)
		_ = conn.Close()
		return
	}

	// Read until the connection closes. Clients do not send application
	// messages; reading is how disconnects and control frames surface.
	h.readLoop(userID, connectionID, conn)

	h.manager.Unregister(userID, connectionID)
}

func (h *EventsHandler) readLoop(userID, connectionID string, conn *websocket.Conn) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERROR] Panic in WebSocket read loop: userID=%s connectionID=%s panic=%v",
				userID, connectionID, r)
		}
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ERROR] WebSocket read error: userID=%s connectionID=%s error=%v",
					userID, connectionID, err)
			}
			return
		}
	}
}

// RegisterRoutes registers WebSocket routes with the router
func (h *EventsHandler) RegisterRoutes(r *gin.Engine) {
	wsGroup := r.Group("/api/v1/ws")
	{
		wsGroup.GET("/events", h.Connect)
	}
}
