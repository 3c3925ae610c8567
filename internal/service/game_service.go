package service

import (
	"fmt"

	"github.com/benbeisheim/chess-backend/internal/fen"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

// CreateGameRequest describes a new game. FEN is optional.
type CreateGameRequest struct {
	Mode        model.Mode  `json:"mode"`
	EngineColor model.Color `json:"aiColor"`
	FEN         string      `json:"fen"`
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame(req CreateGameRequest) (string, error) {
	opts := model.GameOptions{
		Mode:        req.Mode,
		EngineColor: req.EngineColor,
	}
	if req.FEN != "" {
		board, toMove, err := fen.Parse(req.FEN)
		if err != nil {
			return "", err
		}
		opts.Board, opts.ToMove = board, toMove
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.CreateGame(gameID, opts); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) error {
	if !gs.gameManager.LeaveMatchmaking(playerID) {
		return ErrNotQueued
	}
	return nil
}

func (gs *GameService) MatchmakingStatus(playerID string) (Match, error) {
	return gs.gameManager.MatchmakingStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) GetFEN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	board, turn := game.Position()
	return fen.Encode(board, turn.ToMove), nil
}

func (gs *GameService) LegalMoves(gameID string, pos model.Position) ([]model.Position, error) {
	return gs.gameManager.LegalMoves(gameID, pos)
}

func (gs *GameService) HandleSelect(gameID string, playerID string, sel model.WSSelect) (model.GameState, error) {
	return gs.gameManager.SelectSquare(gameID, playerID, sel.Square)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.WSMove) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string) {
	gs.gameManager.UnregisterConnection(gameID, playerID)
}
