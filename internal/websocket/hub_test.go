package websocket

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/sightline/server/domain/entities"
)

func setupTestHub(t testing.TB) *Hub {
	logger := zap.NewNop() // No-op logger for tests
	hub := NewHub(logger)
	go hub.Run()
	return hub
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zap.NewNop())

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	if hub.clients == nil {
		t.Error("Hub clients map not initialized")
	}

	if hub.register == nil {
		t.Error("Hub register channel not initialized")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel not initialized")
	}

	if hub.broadcast == nil {
		t.Error("Hub broadcast channel not initialized")
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := setupTestHub(t)

	client := &Client{
		hub:    hub,
		id:     "viewer-1",
		send:   make(chan WriteData, 256),
		logger: zap.NewNop(),
	}

	hub.register <- client
	waitForViewerCount(t, hub, 1)

	hub.unregister <- client
	waitForViewerCount(t, hub, 0)
}

func TestHubBroadcastReachesClients(t *testing.T) {
	hub := setupTestHub(t)

	client := &Client{
		hub:    hub,
		id:     "viewer-1",
		send:   make(chan WriteData, 256),
		logger: zap.NewNop(),
	}
	hub.register <- client
	waitForViewerCount(t, hub, 1)

	thought := entities.NewThought("A cat on the windowsill", 0.1, entities.RiskLevelLow, []string{"cat"})
	hub.BroadcastThought(thought)

	select {
	case frame := <-client.send:
		if frame.Type != websocket.TextMessage {
			t.Errorf("Expected text frame, got type %d", frame.Type)
		}

		var msg ThoughtMessage
		if err := json.Unmarshal(frame.Payload, &msg); err != nil {
			t.Fatalf("Failed to decode thought message: %v", err)
		}

		if msg.Type != MessageTypeThought {
			t.Errorf("Expected message type %s, got %s", MessageTypeThought, msg.Type)
		}

		if msg.Thought.Summary != thought.Summary {
			t.Errorf("Expected summary %q, got %q", thought.Summary, msg.Thought.Summary)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for broadcast frame")
	}
}

func TestHubNarrationSinkSequence(t *testing.T) {
	hub := setupTestHub(t)

	client := &Client{
		hub:    hub,
		id:     "viewer-1",
		send:   make(chan WriteData, 256),
		logger: zap.NewNop(),
	}
	hub.register <- client
	waitForViewerCount(t, hub, 1)

	hub.SpeakingStart("hello", entities.ToneCalm)
	hub.AudioChunk([]byte{0x01, 0x02})
	hub.SpeakingEnd()

	frames := make([]WriteData, 0, 3)
	for len(frames) < 3 {
		select {
		case frame := <-client.send:
			frames = append(frames, frame)
		case <-time.After(time.Second):
			t.Fatalf("Timed out after %d frames", len(frames))
		}
	}

	var start SpeakingStartMessage
	if err := json.Unmarshal(frames[0].Payload, &start); err != nil || start.Type != MessageTypeSpeakingStart {
		t.Errorf("Expected speaking_start first, got %s", frames[0].Payload)
	}

	if start.Tone != entities.ToneCalm {
		t.Errorf("Expected calm tone, got %s", start.Tone)
	}

	if frames[1].Type != websocket.BinaryMessage || len(frames[1].Payload) != 2 {
		t.Errorf("Expected binary audio frame second, got type %d", frames[1].Type)
	}

	var end SpeakingEndMessage
	if err := json.Unmarshal(frames[2].Payload, &end); err != nil || end.Type != MessageTypeSpeakingEnd {
		t.Errorf("Expected speaking_end last, got %s", frames[2].Payload)
	}
}

func TestHandleWebSocketEndToEnd(t *testing.T) {
	logger := zaptest.NewLogger(t)
	hub := NewHub(logger)
	go hub.Run()

	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(hub, c, logger)
	})

	server := httptest.NewServer(e)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	waitForViewerCount(t, hub, 1)

	thought := entities.NewThought("A person entered the room", 0.4, entities.RiskLevelModerate, []string{"person"})
	hub.BroadcastThought(thought)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	messageType, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}

	if messageType != websocket.TextMessage {
		t.Errorf("Expected text message, got type %d", messageType)
	}

	var msg ThoughtMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("Failed to decode message: %v", err)
	}

	if msg.Thought.Summary != thought.Summary {
		t.Errorf("Expected summary %q, got %q", thought.Summary, msg.Thought.Summary)
	}

	// Disconnect before the test returns so the hub's "Viewer disconnected"
	// log does not hit the zaptest logger after the test has completed.
	conn.Close()
	waitForViewerCount(t, hub, 0)
}

func waitForViewerCount(t *testing.T, hub *Hub, expected int) {
	t.Helper()

	deadline := time.After(time.Second)
	for hub.ViewerCount() != expected {
		select {
		case <-deadline:
			t.Fatalf("Timed out waiting for viewer count %d, have %d", expected, hub.ViewerCount())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
