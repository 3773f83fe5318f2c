package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnPair upgrades a real connection through an httptest server and
// returns the server side wrapped in a wsClient plus the raw client side.
func newTestConnPair(t *testing.T) (*wsClient, *websocket.Conn) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	serverConns := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	clientSide, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSide.Close() })

	select {
	case conn := <-serverConns:
		t.Cleanup(func() { conn.Close() })
		return &wsClient{conn: conn}, clientSide
	case <-time.After(2 * time.Second):
		t.Fatal("server connection was not established")
		return nil, nil
	}
}

func TestWSClientSerializesConcurrentWriters(t *testing.T) {
	client, clientSide := newTestConnPair(t)

	// Drain everything the server writes, pings included.
	go func() {
		for {
			if _, _, err := clientSide.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Broadcast writes and keepalive pings race on the same connection;
	// gorilla panics if two writers ever overlap.
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if (n+j)%2 == 0 {
					_ = client.writeJSON(map[string]string{"type": "refresh"})
				} else {
					_ = client.ping()
				}
			}
		}(i)
	}

	wg.Wait()
}

func TestBroadcastRefreshDeliversToRegisteredClient(t *testing.T) {
	client, clientSide := newTestConnPair(t)

	registerClient("broadcast-test-user", client)
	defer unregisterClient("broadcast-test-user", client)

	BroadcastRefresh("broadcast-test-user")

	require.NoError(t, clientSide.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg map[string]string
	require.NoError(t, clientSide.ReadJSON(&msg))
	assert.Equal(t, "refresh", msg["type"])
	assert.Equal(t, "broadcast-test-user", msg["username"])
}

func TestBroadcastRefreshIgnoresUnknownUser(t *testing.T) {
	// Must not panic or block when nobody is connected.
	BroadcastRefresh("nobody-here")
}
