package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/dropdeck-dev/dropdeck/internal/types"
	"github.com/dropdeck-dev/dropdeck/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var (
	userClients   = make(map[string]map[*wsClient]bool)
	userClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// wsClient serializes all writes to one connection. gorilla/websocket allows
// only a single writer at a time, and both the broadcaster and the per-conn
// pinger write here.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

// BroadcastRefresh tells every open connection of a user to reload its
// project list.
func BroadcastRefresh(username string) {
	userClientsMu.RLock()
	clients, exists := userClients[username]
	if !exists || len(clients) == 0 {
		userClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*wsClient, 0, len(clients))
	for client := range clients {
		clientsCopy = append(clientsCopy, client)
	}
	userClientsMu.RUnlock()

	for _, client := range clientsCopy {
		err := client.writeJSON(map[string]string{
			"type":     "refresh",
			"message":  "Project list updated",
			"username": username,
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			unregisterClient(username, client)
			client.conn.Close()
		}
	}
}

func registerClient(username string, client *wsClient) {
	userClientsMu.Lock()
	if userClients[username] == nil {
		userClients[username] = make(map[*wsClient]bool)
	}
	userClients[username][client] = true
	userClientsMu.Unlock()
}

func unregisterClient(username string, client *wsClient) {
	userClientsMu.Lock()

	if clients, exists := userClients[username]; exists {
		delete(clients, client)

		if len(clients) == 0 {
			delete(userClients, username)
		}
	}

	userClientsMu.Unlock()
}

func WebSocket(c *gin.Context) {
	currentUser, err := utils.GetCurrentUser(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	username := currentUser.Username

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins() {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	client := &wsClient{conn: conn}

	registerClient(username, client)

	done := make(chan struct{})

	defer func() {
		close(done)
		unregisterClient(username, client)
		conn.Close()

		log.Printf("WebSocket connection closed for user %s", username)
	}()

	err = client.writeJSON(map[string]string{
		"type":     "connected",
		"message":  "WebSocket connection established",
		"username": username,
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := client.ping(); err != nil {
					log.Printf("Ping failed for user %s: %v", username, err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline for user %s: %v", username, err)
			break
		}

		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %s: %v", username, err)
			}
			break
		}
	}
}
