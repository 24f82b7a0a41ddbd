package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sightline/server/domain/entities"
	"github.com/sightline/server/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Viewers only send
	// control frames, so this stays small.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The console is served from arbitrary dev origins
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// WriteData is one outbound websocket frame.
type WriteData struct {
	// Type is websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Hub maintains the set of connected viewers and broadcasts thought
// updates and narration audio to all of them. It implements
// usecase.NarrationSink so the narrator can stream straight into it.
type Hub struct {
	// Registered viewer clients, keyed by client ID.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outbound frames for every connected viewer.
	broadcast chan WriteData

	// Mutex for thread-safe access to the clients map
	mu sync.RWMutex

	logger *zap.Logger
}

// Ensure the hub can act as the narrator's audio sink
var _ usecase.NarrationSink = (*Hub)(nil)

// NewHub creates a new viewer hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan WriteData, 64),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Viewer connected", zap.String("clientID", client.id))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Viewer disconnected", zap.String("clientID", client.id))

		case frame := <-h.broadcast:
			h.mu.Lock()
			for id, client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// Slow viewer, drop the connection
					delete(h.clients, id)
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// ViewerCount returns the number of connected viewers
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastThought pushes a freshly polled thought to all viewers
func (h *Hub) BroadcastThought(thought *entities.Thought) {
	h.broadcast <- WriteData{
		Type:    websocket.TextMessage,
		Payload: marshalThoughtMessage(thought),
	}
}

// SpeakingStart implements usecase.NarrationSink
func (h *Hub) SpeakingStart(text string, tone entities.Tone) {
	h.broadcast <- WriteData{
		Type:    websocket.TextMessage,
		Payload: marshalSpeakingStartMessage(text, tone),
	}
}

// AudioChunk implements usecase.NarrationSink
func (h *Hub) AudioChunk(chunk []byte) {
	h.broadcast <- WriteData{
		Type:    websocket.BinaryMessage,
		Payload: chunk,
	}
}

// SpeakingEnd implements usecase.NarrationSink
func (h *Hub) SpeakingEnd() {
	h.broadcast <- WriteData{
		Type:    websocket.TextMessage,
		Payload: marshalSpeakingEndMessage(),
	}
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound frames.
	send chan WriteData

	// Client ID for this viewer
	id string

	// Logger
	logger *zap.Logger
}

// HandleWebSocket upgrades a viewer connection and attaches it to the hub
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan WriteData, 256),
		id:     uuid.New().String(),
		logger: logger,
	}

	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump drains the connection so close frames and pongs are noticed.
// Viewers do not send application messages; control is REST-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(frame.Type, frame.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
