package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chromamaze/chromamaze/game/engine"
	"github.com/gorilla/websocket"
)

func testState() *engine.GameState {
	return &engine.GameState{
		ActorPos:   engine.Position{X: 1, Y: 0},
		ActorColor: engine.ColorNeutral,
		Moves:      3,
		Phase:      engine.PhasePlaying,
		LevelName:  "first-steps",
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.sessions == nil {
		t.Error("sessions map not initialized")
	}
	if hub.broadcast == nil {
		t.Error("broadcast channel not initialized")
	}
	if hub.register == nil {
		t.Error("register channel not initialized")
	}
	if hub.unregister == nil {
		t.Error("unregister channel not initialized")
	}
}

func TestStateUpdate(t *testing.T) {
	state := testState()
	msg := StateUpdate("reset", state)

	if msg.Event != "reset" {
		t.Errorf("expected event reset, got %s", msg.Event)
	}
	if msg.GameState != state {
		t.Error("message must carry the given state")
	}
	if msg.Outcome != nil {
		t.Error("state update must not carry an outcome")
	}
}

func TestOutcomeUpdate(t *testing.T) {
	outcome := engine.MoveOutcome{
		Kind: engine.Continued,
		From: engine.Position{X: 0, Y: 0},
		To:   engine.Position{X: 1, Y: 0},
	}
	msg := OutcomeUpdate(outcome, testState())

	if msg.Event != string(engine.Continued) {
		t.Errorf("event must be the outcome kind, got %s", msg.Event)
	}
	if msg.Outcome == nil || msg.Outcome.Kind != engine.Continued {
		t.Errorf("message must carry the outcome, got %+v", msg.Outcome)
	}
	if msg.GameState == nil {
		t.Error("message must carry the resulting state")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{
		hub:       hub,
		sessionID: "ab12",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	clients, ok := hub.sessions["ab12"]
	if !ok {
		t.Fatal("session not created on register")
	}
	if !clients[client] {
		t.Error("client not registered in session")
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()
	client := &Client{
		hub:       hub,
		sessionID: "ab12",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, ok := hub.sessions["ab12"]; ok {
		t.Error("empty session must be removed on unregister")
	}
	if _, open := <-client.send; open {
		t.Error("send channel must be closed on unregister")
	}
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	first := &Client{hub: hub, sessionID: "ab12", send: make(chan []byte, 256)}
	second := &Client{hub: hub, sessionID: "ab12", send: make(chan []byte, 256)}

	hub.registerClient(first)
	hub.registerClient(second)

	if len(hub.sessions["ab12"]) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(hub.sessions["ab12"]))
	}

	hub.unregisterClient(first)

	if len(hub.sessions["ab12"]) != 1 {
		t.Errorf("expected 1 client after unregister, got %d", len(hub.sessions["ab12"]))
	}
	if !hub.sessions["ab12"][second] {
		t.Error("remaining client must stay registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "ab12", send: make(chan []byte, 256)}
	hub.registerClient(client)

	outcome := engine.MoveOutcome{
		Kind: engine.Continued,
		From: engine.Position{X: 0, Y: 0},
		To:   engine.Position{X: 1, Y: 0},
	}
	hub.BroadcastToSession("ab12", OutcomeUpdate(outcome, testState()))

	select {
	case data := <-client.send:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("failed to decode broadcast: %v", err)
		}
		if msg.SessionID != "ab12" {
			t.Errorf("expected session ab12, got %s", msg.SessionID)
		}
		if msg.Event != string(engine.Continued) {
			t.Errorf("expected continued event, got %s", msg.Event)
		}
		if msg.Outcome == nil || msg.Outcome.To != (engine.Position{X: 1, Y: 0}) {
			t.Errorf("unexpected outcome payload: %+v", msg.Outcome)
		}
		if msg.GameState == nil || msg.GameState.Moves != 3 {
			t.Errorf("unexpected state payload: %+v", msg.GameState)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no message received within 100ms")
	}
}

func TestHubBroadcastToOtherSession(t *testing.T) {
	hub := NewHub()
	client := &Client{hub: hub, sessionID: "ab12", send: make(chan []byte, 256)}
	hub.registerClient(client)

	hub.BroadcastToSession("cd34", StateUpdate("reset", testState()))

	select {
	case <-client.send:
		t.Fatal("client must not receive another session's broadcast")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()

	received := make(chan *Message, 1)
	go func() {
		received <- <-hub.broadcast
	}()

	hub.BroadcastEvent("ab12", "session_deleted", map[string]string{"reason": "expired"})

	select {
	case msg := <-received:
		if msg.SessionID != "ab12" {
			t.Errorf("expected session ab12, got %s", msg.SessionID)
		}
		if msg.Event != "session_deleted" {
			t.Errorf("expected session_deleted event, got %s", msg.Event)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("no event received within 100ms")
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ab12"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	// Give the hub time to process the registration.
	time.Sleep(50 * time.Millisecond)

	if len(hub.sessions["ab12"]) != 1 {
		t.Errorf("expected 1 registered client, got %d", len(hub.sessions["ab12"]))
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ab12"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	hub.BroadcastToSession("ab12", StateUpdate("undo", testState()))

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}
	if msg.Event != "undo" {
		t.Errorf("expected undo event, got %s", msg.Event)
	}
	if msg.GameState == nil || msg.GameState.LevelName != "first-steps" {
		t.Errorf("unexpected state payload: %+v", msg.GameState)
	}
}
