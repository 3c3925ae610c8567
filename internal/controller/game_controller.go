package controller

import (
	"errors"
	"strconv"

	"github.com/benbeisheim/chess-backend/internal/fen"
	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound), errors.Is(err, service.ErrNoMatch),
		errors.Is(err, service.ErrNotQueued):
		return fiber.StatusNotFound
	case errors.Is(err, model.ErrGameFull), errors.Is(err, service.ErrGameExists):
		return fiber.StatusConflict
	case errors.Is(err, fen.ErrInvalidFEN), errors.Is(err, model.ErrOutOfBounds):
		return fiber.StatusBadRequest
	case errors.Is(err, model.ErrIllegalMove), errors.Is(err, model.ErrNotYourTurn),
		errors.Is(err, model.ErrNoPiece), errors.Is(err, model.ErrGameOver):
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

func errorJSON(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req service.CreateGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}
	if req.Mode == "" {
		req.Mode = model.ModeNormal
	}
	if !req.Mode.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "mode must be normal or ai",
		})
	}
	if req.EngineColor != "" && !req.EngineColor.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "aiColor must be white or black",
		})
	}

	gameID, err := gc.gameService.CreateGame(req)
	if err != nil {
		log.Warnf("create game: %v", err)
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetFEN(c *fiber.Ctx) error {
	s, err := gc.gameService.GetFEN(c.Params("gameId"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"fen": s})
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "x and y query parameters are required",
		})
	}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), model.Position{X: x, Y: y})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"legalMoves": moves})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.JoinMatchmaking(playerID); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	if err := gc.gameService.LeaveMatchmaking(playerID); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	playerID := c.Locals("playerID").(string)

	match, err := gc.gameService.MatchmakingStatus(playerID)
	if errors.Is(err, service.ErrNoMatch) {
		return c.JSON(fiber.Map{"status": "queued"})
	}
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"match":  match,
	})
}
