package model

import "fmt"

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return "?"
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) Valid() bool {
	return c == White || c == Black
}

// Position is a board coordinate: X is the row (0 is black's back rank),
// Y is the column (0 is the a-file).
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%c%d", p.Y+97, 8-p.X)
}

func (p Position) String() string {
	return p.getSquareNotation()
}

type Piece struct {
	Type     PieceType `json:"type"`
	Color    Color     `json:"color"`
	Position Position  `json:"position"`
	// FirstTurn is only meaningful for pawns; it enables the double step.
	FirstTurn bool `json:"firstTurn"`
}

func NewPiece(t PieceType, c Color, x, y int) *Piece {
	return &Piece{
		Type:      t,
		Color:     c,
		Position:  Position{X: x, Y: y},
		FirstTurn: t == Pawn,
	}
}

// pawnDirection is the row delta of a forward pawn step.
func pawnDirection(c Color) int {
	if c == Black {
		return 1
	}
	return -1
}

func (p *Piece) clone() *Piece {
	cp := *p
	return &cp
}

func isOutside(x, y int) bool {
	return !(x >= 0 && x < 8 && y >= 0 && y < 8)
}

var (
	rookDirs   = []Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}
	bishopDirs = []Position{{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	queenDirs  = []Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	kingDirs   = []Position{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}, {X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1}}
	knightDirs = []Position{{X: 2, Y: 1}, {X: 2, Y: -1}, {X: -2, Y: 1}, {X: -2, Y: -1}, {X: 1, Y: 2}, {X: 1, Y: -2}, {X: -1, Y: 2}, {X: -1, Y: -2}}
)

type moveGenerator func(b *Board, piece *Piece) []Position

var moveGenerators = map[PieceType]moveGenerator{
	Pawn:   pawnMoves,
	Knight: stepper(knightDirs),
	King:   stepper(kingDirs),
	Rook:   slider(rookDirs),
	Bishop: slider(bishopDirs),
	Queen:  slider(queenDirs),
}

// PossibleMoves returns the geometric moves of piece, captures included,
// without considering whether its own king would be left in check.
func (b *Board) PossibleMoves(piece *Piece) []Position {
	gen, ok := moveGenerators[piece.Type]
	if !ok {
		return []Position{}
	}
	return gen(b, piece)
}

// isValidTarget reports whether (x, y) holds a piece capturable by piece.
func (b *Board) isValidTarget(piece *Piece, x, y int) bool {
	if isOutside(x, y) {
		return false
	}
	target := b.Grid[x][y]
	return target != nil && target.Color != piece.Color
}

func stepper(offsets []Position) moveGenerator {
	return func(b *Board, piece *Piece) []Position {
		moves := []Position{}
		for _, dir := range offsets {
			x, y := piece.Position.X+dir.X, piece.Position.Y+dir.Y
			if isOutside(x, y) {
				continue
			}
			if b.Grid[x][y] == nil || b.isValidTarget(piece, x, y) {
				moves = append(moves, Position{X: x, Y: y})
			}
		}
		return moves
	}
}

func slider(dirs []Position) moveGenerator {
	return func(b *Board, piece *Piece) []Position {
		moves := []Position{}
		for _, dir := range dirs {
			for n := 1; n < 8; n++ {
				x, y := piece.Position.X+n*dir.X, piece.Position.Y+n*dir.Y
				if isOutside(x, y) {
					break
				}
				if b.Grid[x][y] != nil {
					if b.isValidTarget(piece, x, y) {
						moves = append(moves, Position{X: x, Y: y})
					}
					break
				}
				moves = append(moves, Position{X: x, Y: y})
			}
		}
		return moves
	}
}

func pawnMoves(b *Board, piece *Piece) []Position {
	moves := []Position{}
	dir := pawnDirection(piece.Color)
	x, y := piece.Position.X, piece.Position.Y
	one, two := x+dir, x+2*dir

	// Forward 1, then forward 2 on the pawn's first turn
	if !isOutside(one, y) && b.Grid[one][y] == nil {
		moves = append(moves, Position{X: one, Y: y})
		if piece.FirstTurn && !isOutside(two, y) && b.Grid[two][y] == nil {
			moves = append(moves, Position{X: two, Y: y})
		}
	}
	// Captures left and right
	if b.isValidTarget(piece, one, y-1) {
		moves = append(moves, Position{X: one, Y: y - 1})
	}
	if b.isValidTarget(piece, one, y+1) {
		moves = append(moves, Position{X: one, Y: y + 1})
	}
	return moves
}
