// service/game_manager.go
package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chess-backend/internal/config"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/search"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrNoMatch      = errors.New("no match yet")
	ErrNotQueued    = errors.New("player is not in the matchmaking queue")
)

// Match is the game a queued player was paired into.
type Match struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

type GameManager struct {
	games   map[string]*model.Game
	queue   *model.Queue
	matches map[string]Match // playerID -> match
	cfg     config.Config
	mu      sync.RWMutex
	done    chan struct{}
	once    sync.Once
}

func NewGameManager(cfg config.Config) *GameManager {
	gm := &GameManager{
		games:   make(map[string]*model.Game),
		queue:   model.NewQueue(),
		matches: make(map[string]Match),
		cfg:     cfg,
		done:    make(chan struct{}),
	}

	// Start matchmaking processor
	go gm.processMatchmaking()

	return gm
}

// Close stops the matchmaking processor.
func (gm *GameManager) Close() {
	gm.once.Do(func() { close(gm.done) })
}

func (gm *GameManager) processMatchmaking() {
	ticker := time.NewTicker(gm.cfg.MatchmakingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			gm.matchQueuedPlayers()
		}
	}
}

func (gm *GameManager) matchQueuedPlayers() {
	for {
		player1, player2, ok := gm.queue.GetNextPair()
		if !ok {
			return
		}

		gameID := uuid.New().String()
		game := model.NewGame(gameID, model.GameOptions{Mode: model.ModeNormal})
		p1Color, err1 := game.AddPlayer(player1.Player.ID)
		p2Color, err2 := game.AddPlayer(player2.Player.ID)
		if err := errors.Join(err1, err2); err != nil {
			// Put both back in front and retry on the next tick
			log.Errorf("matchmaking: seating %s and %s in %s: %v", player1.Player.ID, player2.Player.ID, gameID, err)
			gm.queue.Requeue(player1, player2)
			return
		}

		gm.mu.Lock()
		gm.games[gameID] = game
		gm.matches[player1.Player.ID] = Match{GameID: gameID, Color: p1Color}
		gm.matches[player2.Player.ID] = Match{GameID: gameID, Color: p2Color}
		gm.mu.Unlock()
		log.Infof("matchmaking: paired %s and %s in game %s after %s",
			player1.Player.ID, player2.Player.ID, gameID, time.Since(player1.JoinedAt).Round(time.Millisecond))
	}
}

func (gm *GameManager) CreateGame(gameID string, opts model.GameOptions) error {
	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return fmt.Errorf("%s: %w", gameID, ErrGameExists)
	}
	game := model.NewGame(gameID, opts)
	gm.games[gameID] = game
	gm.mu.Unlock()

	if game.Mode() == model.ModeAI {
		log.Infof("game %s created (mode %s, engine plays %s)", gameID, game.Mode(), game.EngineColor())
	} else {
		log.Infof("game %s created (mode %s)", gameID, game.Mode())
	}
	// The engine may be first to move
	gm.scheduleEngine(game)
	return nil
}

func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("%s: %w", gameID, ErrGameNotFound)
	}

	return game, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		log.Warnf("matchmaking: %v", err)
		return err
	}
	log.Debugf("matchmaking: %s queued, %d waiting", playerID, gm.queue.Size())
	return nil
}

// LeaveMatchmaking takes playerID out of the queue. It reports false when the
// player was not waiting, for example because they were already paired.
func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	if !gm.queue.Remove(playerID) {
		return false
	}
	log.Debugf("matchmaking: %s left, %d waiting", playerID, gm.queue.Size())
	return true
}

func (gm *GameManager) MatchmakingStatus(playerID string) (Match, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	match, ok := gm.matches[playerID]
	if !ok {
		return Match{}, ErrNoMatch
	}
	return match, nil
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

func (gm *GameManager) LegalMoves(gameID string, pos model.Position) ([]model.Position, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(pos), nil
}

func (gm *GameManager) SelectSquare(gameID string, playerID string, pos model.Position) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.SelectSquare(playerID, pos), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if err := game.MakeMove(playerID, move); err != nil {
		return err
	}
	gm.scheduleEngine(game)
	return nil
}

// scheduleEngine queues the engine's reply after AIDelay when it is the
// engine's turn.
func (gm *GameManager) scheduleEngine(game *model.Game) {
	if !game.AwaitingEngine() {
		return
	}
	time.AfterFunc(gm.cfg.AIDelay, func() {
		gm.playEngineMove(game)
	})
}

func (gm *GameManager) playEngineMove(game *model.Game) {
	board, turn := game.Position()
	searcher := search.NewSearcher()
	result, ok := searcher.GenerateAIMove(board, gm.cfg.AIDepth, turn.ToMove == model.White)
	stats := searcher.Stats()
	if !ok {
		log.Warnf("game %s: engine has no legal move", game.ID)
		return
	}

	move := model.WSMove{From: result.Piece.Position, To: result.Move}
	log.Infof("game %s: engine plays %s%s (score %.1f, %d nodes, %d cutoffs, %s)",
		game.ID, move.From, move.To, result.Score, stats.Nodes, stats.Cutoffs, stats.Elapsed)
	if err := game.ApplyEngineMove(move); err != nil {
		log.Errorf("game %s: applying engine move %s%s: %v", game.ID, move.From, move.To, err)
	}
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}
	game.UnregisterConnection(playerID)
}
