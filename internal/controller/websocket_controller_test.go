package controller

import (
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
)

// startServer serves the routes on a loopback port and returns the service
// behind them with the base websocket URL.
func startServer(t *testing.T) (*service.GameService, string) {
	t.Helper()
	cfg := config.Default()
	cfg.AIDepth = 1
	gm := service.NewGameManager(cfg)
	t.Cleanup(gm.Close)
	gs := service.NewGameService(gm)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	SetupRoutes(app, gs)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	go app.Listener(ln)
	t.Cleanup(func() { app.Shutdown() })

	return gs, "ws://" + ln.Addr().String()
}

func dial(t *testing.T, base, gameID, playerID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(base+"/ws/game/"+gameID+"?playerId="+playerID, nil)
	if err != nil {
		t.Fatalf("dial as %s: %v", playerID, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func isTimeout(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// lastState reads game states until the socket has been quiet for a while.
func lastState(t *testing.T, conn *websocket.Conn) model.GameState {
	t.Helper()
	var last *model.GameState
	for {
		conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if isTimeout(err) && last != nil {
				return *last
			}
			t.Fatalf("read: %v", err)
		}
		if msg.Type != ws.MessageTypeGameState {
			continue
		}
		var state model.GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		last = &state
	}
}

func TestWebSocketPushesLatestState(t *testing.T) {
	gs, base := startServer(t)
	gameID, err := gs.CreateGame(service.CreateGameRequest{Mode: model.ModeNormal})
	if err != nil {
		t.Fatal(err)
	}
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")
	conn := dial(t, base, gameID, "alice")

	moves := []struct {
		player string
		move   model.WSMove
	}{
		{"alice", model.WSMove{From: model.Position{X: 6, Y: 4}, To: model.Position{X: 4, Y: 4}}},
		{"bob", model.WSMove{From: model.Position{X: 1, Y: 4}, To: model.Position{X: 3, Y: 4}}},
		{"alice", model.WSMove{From: model.Position{X: 7, Y: 6}, To: model.Position{X: 5, Y: 5}}},
		{"bob", model.WSMove{From: model.Position{X: 0, Y: 1}, To: model.Position{X: 2, Y: 2}}},
	}
	for _, m := range moves {
		if err := gs.HandleMove(gameID, m.player, m.move); err != nil {
			t.Fatalf("%s %s%s: %v", m.player, m.move.From, m.move.To, err)
		}
	}

	state := lastState(t, conn)
	final := moves[len(moves)-1].move
	if state.Turn.LastMove == nil || state.Turn.LastMove.From != final.From || state.Turn.LastMove.To != final.To {
		t.Fatalf("last pushed move = %+v, want %s%s", state.Turn.LastMove, final.From, final.To)
	}
	if state.Turn.ToMove != model.White {
		t.Fatalf("toMove = %s, want white", state.Turn.ToMove)
	}
}

func TestWebSocketRejectsMalformedMessage(t *testing.T) {
	gs, base := startServer(t)
	gameID, _ := gs.CreateGame(service.CreateGameRequest{})
	gs.JoinGame(gameID, "alice")
	conn := dial(t, base, gameID, "alice")

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	for {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if msg.Type == ws.MessageTypeError {
			var payload ws.ErrorPayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Error == "" {
				t.Fatalf("error payload %s: %v", msg.Payload, err)
			}
			return
		}
	}
}

func TestWebSocketRejectsOutsiderWhenSeatsAreTaken(t *testing.T) {
	gs, base := startServer(t)
	gameID, _ := gs.CreateGame(service.CreateGameRequest{})
	gs.JoinGame(gameID, "alice")
	gs.JoinGame(gameID, "bob")

	conn := dial(t, base, gameID, "carol")
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	if err == nil || isTimeout(err) {
		t.Fatalf("outsider connection stayed open: err = %v", err)
	}
}
