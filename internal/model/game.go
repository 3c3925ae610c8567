package model

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/benbeisheim/chess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/maps"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex
}

// The Game struct focuses on a single game's state and its observers
type Game struct {
	ID          string
	mu          sync.Mutex
	mode        Mode
	engine      Color
	board       *Board
	turn        TurnState
	players     map[Color]ClientPlayer
	captured    CapturedPieces
	sound       string
	connections *GameConnections // Connections just for this game
}

type GameOptions struct {
	Mode Mode
	// EngineColor is the side the engine plays in ModeAI.
	EngineColor Color
	// Board and ToMove override the standard start position when Board is set.
	Board  *Board
	ToMove Color
}

type GameState struct {
	Sound          string         `json:"sound"`
	Mode           Mode           `json:"mode"`
	EngineColor    *Color         `json:"aiColor,omitempty"` // set in ModeAI only
	Board          *Board         `json:"boardState"`
	Turn           TurnState      `json:"turn"`
	CapturedPieces CapturedPieces `json:"capturedPieces"`
	Players        struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

func NewGame(id string, opts GameOptions) *Game {
	board := opts.Board
	toMove := opts.ToMove
	if board == nil {
		board = NewStandardBoard()
		toMove = White
	}
	if !toMove.Valid() {
		toMove = White
	}
	mode := opts.Mode
	if !mode.Valid() {
		mode = ModeNormal
	}
	engine := opts.EngineColor
	if !engine.Valid() {
		engine = Black
	}

	g := &Game{
		ID:          id,
		mode:        mode,
		engine:      engine,
		board:       board,
		turn:        NewTurnState(toMove).Evaluate(board),
		players:     make(map[Color]ClientPlayer),
		captured:    newCapturedPieces(),
		connections: NewGameConnections(),
	}
	if mode == ModeAI {
		g.players[engine] = ClientPlayer{ID: "engine", Color: engine, Engine: true}
	}
	return g
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

func newCapturedPieces() CapturedPieces {
	return CapturedPieces{
		White: make([]Piece, 0),
		Black: make([]Piece, 0),
	}
}

func (g *Game) Mode() Mode {
	return g.mode
}

func (g *Game) EngineColor() Color {
	return g.engine
}

func (g *Game) AddPlayer(playerID string) (Color, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []Color{White, Black} {
		if _, taken := g.players[color]; !taken {
			g.players[color] = ClientPlayer{ID: playerID, Color: color}
			log.Infof("game %s: player %s joined as %s", g.ID, playerID, color)
			return color, nil
		}
	}
	return "", ErrGameFull
}

func (g *Game) colorOf(playerID string) (Color, bool) {
	for color, p := range g.players {
		if p.ID == playerID && !p.Engine {
			return color, true
		}
	}
	return "", false
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.colorOf(playerID)
	return ok
}

// hasOpenSeat reports whether a newcomer could still take a side.
func (g *Game) hasOpenSeat() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return len(g.players) < 2
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.snapshot()
}

func (g *Game) snapshot() GameState {
	state := GameState{
		Sound:          g.sound,
		Mode:           g.mode,
		Board:          g.board.Clone(),
		Turn:           g.turn,
		CapturedPieces: g.captured,
	}
	state.Players.White = g.players[White]
	state.Players.Black = g.players[Black]
	if g.mode == ModeAI {
		engine := g.engine
		state.EngineColor = &engine
	}
	return state
}

// Position returns a private copy of the board and the current turn state.
func (g *Game) Position() (*Board, TurnState) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Clone(), g.turn
}

// AwaitingEngine reports whether the engine is the side to move.
func (g *Game) AwaitingEngine() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.mode == ModeAI && g.turn.ToMove == g.engine && !g.turn.IsOver()
}

func (g *Game) LegalMoves(pos Position) []Position {
	g.mu.Lock()
	defer g.mu.Unlock()

	piece := g.board.PieceAt(pos)
	if piece == nil {
		return []Position{}
	}
	return g.board.GetLegalMoves(piece)
}

// SelectSquare highlights the legal moves of the piece at pos. Invalid
// selections are ignored.
func (g *Game) SelectSquare(playerID string, pos Position) GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok && color == g.turn.ToMove {
		g.turn = Select(g.board, g.turn, pos)
	}
	go g.broadcastState()
	return g.snapshot()
}

func (g *Game) MakeMove(playerID string, move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, ErrNotYourTurn)
	}
	if color != g.turn.ToMove {
		return ErrNotYourTurn
	}
	return g.executeMove(move)
}

// ApplyEngineMove plays a move for the engine side.
func (g *Game) ApplyEngineMove(move WSMove) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.mode != ModeAI || g.turn.ToMove != g.engine {
		return ErrNotYourTurn
	}
	return g.executeMove(move)
}

func (g *Game) executeMove(move WSMove) error {
	mover := g.turn.ToMove
	target := g.board.PieceAt(move.To)

	next, err := Advance(g.board, g.turn, move.From, move.To)
	if err != nil {
		return err
	}
	g.turn = next

	g.sound = "move"
	if target != nil {
		g.sound = "capture"
		switch mover {
		case White:
			g.captured.White = append(g.captured.White, *target)
		case Black:
			g.captured.Black = append(g.captured.Black, *target)
		}
	}
	if next.Check != nil {
		g.sound = "check"
	}
	if next.Outcome != nil {
		g.sound = string(next.Outcome.Kind)
		log.Infof("game %s: %s after %s", g.ID, next.Outcome.Kind, next.Notation)
	}

	go g.broadcastState()
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	if !g.IsPlayerInGame(playerID) && !g.hasOpenSeat() {
		return fmt.Errorf("player %s: not authorized to join game %s", playerID, g.ID)
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the existing connection and reject the new one
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Debugf("game %s: registered connection %p for player %s", g.ID, conn, playerID)

	go g.broadcastState()
	return nil
}

func (g *Game) UnregisterConnection(playerID string) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		log.Debugf("game %s: unregistering connection for player %s", g.ID, playerID)
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) broadcastState() {
	// Holding writeMu across snapshot and write keeps pushes in state order
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()

	g.mu.Lock()
	state := g.snapshot()
	g.mu.Unlock()

	jsonGameState, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	// Snapshot connections so no lock is held while writing
	g.connections.mu.RLock()
	active := make(map[string]*websocket.Conn, len(g.connections.connections))
	for _, playerID := range maps.Keys(g.connections.connections) {
		active[playerID] = g.connections.connections[playerID]
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(jsonGameState),
		}); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID)
		}
	}
}
