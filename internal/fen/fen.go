// Package fen converts between FEN strings and model boards using
// dragontoothmg's parser. Castling and en passant fields are read but have
// no effect on play.
package fen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/dylhunn/dragontoothmg"
)

// StartPos is the standard initial position.
const StartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1"

const emptyPos = "8/8/8/8/8/8/8/8 w - - 0 1"

var ErrInvalidFEN = errors.New("invalid FEN string")

type bitboardSet struct {
	t  model.PieceType
	bb func(b *dragontoothmg.Bitboards) *uint64
}

var pieceBitboards = []bitboardSet{
	{model.Pawn, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Pawns }},
	{model.Knight, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Knights }},
	{model.Bishop, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Bishops }},
	{model.Rook, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Rooks }},
	{model.Queen, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Queens }},
	{model.King, func(b *dragontoothmg.Bitboards) *uint64 { return &b.Kings }},
}

// square maps a board position to dragontoothmg's a1=0 .. h8=63 index.
func square(pos model.Position) uint {
	return uint((7-pos.X)*8 + pos.Y)
}

func position(sq uint) model.Position {
	return model.Position{X: 7 - int(sq/8), Y: int(sq % 8)}
}

func validate(s string) error {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return fmt.Errorf("%q: want placement and side to move: %w", s, ErrInvalidFEN)
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%q: want 8 ranks, got %d: %w", s, len(ranks), ErrInvalidFEN)
	}
	for _, rank := range ranks {
		width := 0
		for _, r := range rank {
			switch {
			case r >= '1' && r <= '8':
				width += int(r - '0')
			case strings.ContainsRune("pnbrqkPNBRQK", r):
				width++
			default:
				return fmt.Errorf("%q: unexpected %q: %w", s, r, ErrInvalidFEN)
			}
		}
		if width != 8 {
			return fmt.Errorf("%q: rank %q is %d squares wide: %w", s, rank, width, ErrInvalidFEN)
		}
	}
	if fields[1] != "w" && fields[1] != "b" {
		return fmt.Errorf("%q: side to move %q: %w", s, fields[1], ErrInvalidFEN)
	}
	return nil
}

// complete fills in the optional trailing fields dragontoothmg expects.
func complete(s string) string {
	fields := strings.Fields(s)
	defaults := []string{"", "", "-", "-", "0", "1"}
	for len(fields) < len(defaults) {
		fields = append(fields, defaults[len(fields)])
	}
	return strings.Join(fields, " ")
}

// Parse builds a board from s. Each side must have exactly one king. Pawns
// standing on their home row keep their double step.
func Parse(s string) (board *model.Board, toMove model.Color, err error) {
	if err := validate(s); err != nil {
		return nil, "", err
	}
	defer func() {
		if r := recover(); r != nil {
			board, toMove = nil, ""
			err = fmt.Errorf("%q: %v: %w", s, r, ErrInvalidFEN)
		}
	}()

	db := dragontoothmg.ParseFen(complete(s))
	board = model.NewBoard()
	kings := map[model.Color]int{}
	for _, side := range []struct {
		color model.Color
		bbs   *dragontoothmg.Bitboards
	}{{model.White, &db.White}, {model.Black, &db.Black}} {
		for _, set := range pieceBitboards {
			bits := *set.bb(side.bbs)
			for sq := uint(0); sq < 64; sq++ {
				if bits&(1<<sq) == 0 {
					continue
				}
				pos := position(sq)
				piece := model.NewPiece(set.t, side.color, pos.X, pos.Y)
				if set.t == model.Pawn {
					piece.FirstTurn = onHomeRow(piece)
				}
				board.Place(piece)
			}
		}
	}

	for _, c := range []model.Color{model.White, model.Black} {
		if kings[c] != 1 {
			return nil, "", fmt.Errorf("%q: %s has %d kings, want 1: %w", s, c, kings[c], ErrInvalidFEN)
		}
	}

	toMove = model.Black
	if db.Wtomove {
		toMove = model.White
	}
	return board, toMove, nil
}

func onHomeRow(p *model.Piece) bool {
	if p.Color == model.White {
		return p.Position.X == 6
	}
	return p.Position.X == 1
}

// Encode renders board with toMove to play. Castling and en passant are
// always "-".
func Encode(board *model.Board, toMove model.Color) string {
	db := dragontoothmg.ParseFen(emptyPos)
	db.Wtomove = toMove == model.White
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			p := board.Grid[x][y]
			if p == nil {
				continue
			}
			bbs := &db.Black
			if p.Color == model.White {
				bbs = &db.White
			}
			bit := uint64(1) << square(p.Position)
			for _, set := range pieceBitboards {
				if set.t == p.Type {
					*set.bb(bbs) |= bit
				}
			}
			bbs.All |= bit
		}
	}
	return db.ToFen()
}
