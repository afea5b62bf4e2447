package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mazehack/quizmaze/game/engine"
	"github.com/mazehack/quizmaze/game/store"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.games == nil {
		t.Error("Hub games map is nil")
	}
	if hub.broadcast == nil {
		t.Error("Hub broadcast channel is nil")
	}
	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}
	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		gameID: "game-1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)

	if _, exists := hub.games["game-1"]; !exists {
		t.Error("game group was not created")
	}
	if !hub.games["game-1"][client] {
		t.Error("client was not registered under its game")
	}
	if len(hub.games["game-1"]) != 1 {
		t.Errorf("expected 1 client, got %d", len(hub.games["game-1"]))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:    hub,
		gameID: "game-1",
		send:   make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.games["game-1"]; exists {
		t.Error("game group should have been cleaned up after last client left")
	}
}

func TestHubMultipleClientsPerGame(t *testing.T) {
	hub := NewHub()
	gameID := "game-shared"

	client1 := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if len(hub.games[gameID]) != 2 {
		t.Errorf("expected 2 clients, got %d", len(hub.games[gameID]))
	}

	hub.unregisterClient(client1)

	if len(hub.games[gameID]) != 1 {
		t.Errorf("expected 1 client remaining, got %d", len(hub.games[gameID]))
	}
	if !hub.games[gameID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastView(t *testing.T) {
	hub := NewHub()
	gameID := "game-broadcast"

	client := &Client{hub: hub, gameID: gameID, send: make(chan []byte, 256)}
	hub.registerClient(client)
	go hub.Run()

	view := &engine.View{
		Pos:            store.Pos{Row: 1, Col: 2},
		CellTitle:      "Relay Junction",
		AvailableMoves: []string{"E", "S"},
		MoveCount:      3,
	}

	hub.BroadcastView(gameID, view, []string{"Correct."})

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("unmarshal message: %v", err)
		}
		if message.GameID != gameID {
			t.Errorf("game id = %q, want %q", message.GameID, gameID)
		}
		if message.Event != "view_update" {
			t.Errorf("event = %q, want view_update", message.Event)
		}
		if message.View == nil || message.View.Pos.Row != 1 || message.View.Pos.Col != 2 {
			t.Errorf("view not transmitted: %+v", message.View)
		}
		if len(message.Messages) != 1 || message.Messages[0] != "Correct." {
			t.Errorf("messages = %v", message.Messages)
		}

	case <-time.After(100 * time.Millisecond):
		t.Error("no message received within timeout")
	}
}

func TestHubBroadcastViewConcurrentWithRegistrations(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	const n = 200

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			hub.register <- &Client{
				hub:    hub,
				gameID: "game-race",
				send:   make(chan []byte, 1),
			}
		}
	}()

	go func() {
		defer wg.Done()
		view := &engine.View{CellTitle: "Entry Node"}
		for i := 0; i < n; i++ {
			hub.BroadcastView("game-race", view, nil)
		}
	}()

	wg.Wait()
}

func TestWebSocketUpgradeAndReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("gameId"))
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?gameId=game-ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	view := &engine.View{CellTitle: "Root Shell", IsComplete: true, MoveCount: 4}
	hub.BroadcastView("game-ws", view, nil)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if message.GameID != "game-ws" {
		t.Errorf("game id = %q, want game-ws", message.GameID)
	}
	if message.View == nil || !message.View.IsComplete || message.View.MoveCount != 4 {
		t.Errorf("view not received: %+v", message.View)
	}
}
