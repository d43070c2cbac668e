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

package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Event is the envelope delivered to dashboard clients.
type Event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// client is one dashboard WebSocket connection owned by a user.
// Writes are serialized through writeMu; gorilla connections do not
// allow concurrent writers.
type client struct {
	connectionID string
	userID       string
	conn         *websocket.Conn

	writeMu sync.Mutex
	closed  bool
}

func (c *client) send(message []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return fmt.Errorf("connection %s is closed", c.connectionID)
	}
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

func (c *client) close(code int, reason string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	closeMessage := websocket.FormatCloseMessage(code, reason)
	_ = c.conn.WriteMessage(websocket.CloseMessage, closeMessage)
	return c.conn.Close()
}

// Manager handles the lifecycle of dashboard WebSocket connections and
// fans server-side events out to the owning user's open browser tabs.
//
// A user can hold several connections at once (multiple tabs); the registry
// maps user IDs to connection slices for that reason.
type Manager struct {
	// connections maps userID -> []*client
	connections sync.Map

	// mu protects connectionCount
	mu sync.RWMutex

	connectionCount int
	maxConnections  int

	heartbeatInterval time.Duration
	heartbeatTimeout  time.Duration

	shutdownCtx context.Context
	shutdownFn  context.CancelFunc

	wg sync.WaitGroup
}

// ManagerConfig contains configuration parameters for the connection manager
type ManagerConfig struct {
	MaxConnections    int           // Maximum concurrent connections (default 1000)
	HeartbeatInterval time.Duration // Ping interval (default 20s)
	HeartbeatTimeout  time.Duration // Pong timeout (default 30s)
}

// DefaultManagerConfig returns sensible default configuration values
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxConnections:    1000,
		HeartbeatInterval: 20 * time.Second,
		HeartbeatTimeout:  30 * time.Second,
	}
}

// NewManager creates a new connection manager with the provided configuration
func NewManager(config ManagerConfig) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		maxConnections:    config.MaxConnections,
		heartbeatInterval: config.HeartbeatInterval,
		heartbeatTimeout:  config.HeartbeatTimeout,
		shutdownCtx:       ctx,
		shutdownFn:        cancel,
	}
}

// Register adds a new connection for the user and starts heartbeat
// monitoring. Returns an error if the global connection limit is reached.
// The returned connection ID is used for Unregister.
func (m *Manager) Register(userID string, conn *websocket.Conn) (string, error) {
	m.mu.Lock()
	if m.connectionCount >= m.maxConnections {
		m.mu.Unlock()
		return "", fmt.Errorf("maximum connection limit reached (%d)", m.maxConnections)
	}
	m.connectionCount++
	m.mu.Unlock()

	cl := &client{
		connectionID: uuid.New().String(),
		userID:       userID,
		conn:         conn,
	}

	clientsInterface, _ := m.connections.LoadOrStore(userID, []*client{})
	clients := clientsInterface.([]*client)
	clients = append(clients, cl)
	m.connections.Store(userID, clients)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.monitorHeartbeat(cl)
	}()

	log.Printf("[INFO] Dashboard client connected: userID=%s connectionID=%s totalConnections=%d",
		userID, cl.connectionID, m.GetConnectionCount())

	return cl.connectionID, nil
}

// Unregister removes a connection from the registry and closes it gracefully.
// Calling it multiple times for the same connection is safe.
func (m *Manager) Unregister(userID, connectionID string) {
	clientsInterface, ok := m.connections.Load(userID)
	if !ok {
		return
	}

	clients := clientsInterface.([]*client)
	var updated []*client
	var removed *client

	for _, cl := range clients {
		if cl.connectionID == connectionID {
			removed = cl
		} else {
			updated = append(updated, cl)
		}
	}

	if removed == nil {
		return
	}

	if len(updated) == 0 {
		m.connections.Delete(userID)
	} else {
		m.connections.Store(userID, updated)
	}

	if err := removed.close(websocket.CloseNormalClosure, "normal closure"); err != nil {
		log.Printf("[ERROR] Failed to close connection: userID=%s connectionID=%s error=%v",
			userID, connectionID, err)
	}

	m.mu.Lock()
	m.connectionCount--
	m.mu.Unlock()

	log.Printf("[INFO] Dashboard client disconnected: userID=%s connectionID=%s totalConnections=%d",
		userID, connectionID, m.GetConnectionCount())
}

// Publish delivers an event to every open connection of the user. Users with
// no open connection simply miss the event; the dashboard re-reads state on
// load, so delivery is best effort.
func (m *Manager) Publish(userID, event string, payload interface{}) {
	clientsInterface, ok := m.connections.Load(userID)
	if !ok {
		return
	}

	message, err := json.Marshal(Event{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		log.Printf("[ERROR] Failed to encode event %q for userID=%s: %v", event, userID, err)
		return
	}

	for _, cl := range clientsInterface.([]*client) {
		if err := cl.send(message); err != nil {
			log.Printf("[WARN] Failed to deliver event %q: userID=%s connectionID=%s error=%v",
				event, userID, cl.connectionID, err)
			m.Unregister(userID, cl.connectionID)
		}
	}
}

// GetConnectionCount returns the total number of active connections
func (m *Manager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connectionCount
}

// monitorHeartbeat periodically sends ping frames and drops dead
// connections. Runs in a background goroutine per connection.
func (m *Manager) monitorHeartbeat(cl *client) {
	ticker := time.NewTicker(m.heartbeatInterval)
	defer ticker.Stop()

	var hbMu sync.Mutex
	lastHeartbeat := time.Now()

	cl.conn.SetPongHandler(func(appData string) error {
		hbMu.Lock()
		lastHeartbeat = time.Now()
		hbMu.Unlock()
		return nil
	})

	for {
		select {
		case <-m.shutdownCtx.Done():
			return

		case <-ticker.C:
			hbMu.Lock()
			last := lastHeartbeat
			hbMu.Unlock()

			if time.Since(last) > m.heartbeatTimeout {
				log.Printf("[WARN] Heartbeat timeout detected: userID=%s connectionID=%s lastHeartbeat=%v",
					cl.userID, cl.connectionID, last)
				m.Unregister(cl.userID, cl.connectionID)
				return
			}

			cl.writeMu.Lock()
			closed := cl.closed
			var err error
			if !closed {
				err = cl.conn.WriteMessage(websocket.PingMessage, []byte{})
			}
			cl.writeMu.Unlock()

			if closed {
				return
			}
			if err != nil {
				log.Printf("[ERROR] Failed to send ping: userID=%s connectionID=%s error=%v",
					cl.userID, cl.connectionID, err)
				m.Unregister(cl.userID, cl.connectionID)
				return
			}
		}
	}
}

// Shutdown gracefully closes all connections and stops heartbeat monitoring.
// Waits for all connection handler goroutines to exit before returning.
func (m *Manager) Shutdown() {
	log.Println("[INFO] Shutting down WebSocket manager...")

	m.shutdownFn()

	m.connections.Range(func(key, value interface{}) bool {
		userID := key.(string)
		for _, cl := range value.([]*client) {
			if err := cl.close(websocket.CloseNormalClosure, "server shutdown"); err != nil {
				log.Printf("[ERROR] Failed to close connection during shutdown: userID=%s connectionID=%s error=%v",
					userID, cl.connectionID, err)
			}
		}
		return true
	})

	m.wg.Wait()

	log.Println("[INFO] WebSocket manager shutdown complete")
}
