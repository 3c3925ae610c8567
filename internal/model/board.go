package model

import "strings"

// Board is the 8x8 grid; Grid[x][y] is row x, column y.
type Board struct {
	Grid [8][8]*Piece `json:"board"`
}

func NewBoard() *Board {
	return &Board{}
}

// NewStandardBoard returns a board with the standard starting position.
func NewStandardBoard() *Board {
	b := NewBoard()
	b.SetupPieces()
	return b
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

func (b *Board) SetupPieces() {
	b.Grid = [8][8]*Piece{}
	for i, t := range backRank {
		b.Grid[0][i] = NewPiece(t, Black, 0, i)
		b.Grid[1][i] = NewPiece(Pawn, Black, 1, i)
		b.Grid[6][i] = NewPiece(Pawn, White, 6, i)
		b.Grid[7][i] = NewPiece(t, White, 7, i)
	}
}

func (b *Board) PieceAt(pos Position) *Piece {
	if isOutside(pos.X, pos.Y) {
		return nil
	}
	return b.Grid[pos.X][pos.Y]
}

// Place puts piece on the square named by its Position, replacing any occupant.
func (b *Board) Place(piece *Piece) {
	b.Grid[piece.Position.X][piece.Position.Y] = piece
}

func (b *Board) Remove(pos Position) *Piece {
	if isOutside(pos.X, pos.Y) {
		return nil
	}
	piece := b.Grid[pos.X][pos.Y]
	b.Grid[pos.X][pos.Y] = nil
	return piece
}

// GetPieces returns the pieces of color in row-major order.
func (b *Board) GetPieces(color Color) []*Piece {
	pieces := []*Piece{}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if b.Grid[x][y] != nil && b.Grid[x][y].Color == color {
				pieces = append(pieces, b.Grid[x][y])
			}
		}
	}
	return pieces
}

func (b *Board) FindKing(color Color) (*Piece, bool) {
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if p := b.Grid[x][y]; p != nil && p.Type == King && p.Color == color {
				return p, true
			}
		}
	}
	return nil, false
}

// Clone returns a deep copy sharing no pieces with b.
func (b *Board) Clone() *Board {
	nb := &Board{}
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			if b.Grid[x][y] != nil {
				nb.Grid[x][y] = b.Grid[x][y].clone()
			}
		}
	}
	return nb
}

// Move relocates piece to target and returns whatever was captured there.
// It performs no legality checks; callers validate with GetLegalMoves first.
func (b *Board) Move(piece *Piece, target Position) *Piece {
	captured := b.Grid[target.X][target.Y]
	b.Grid[piece.Position.X][piece.Position.Y] = nil
	b.Grid[target.X][target.Y] = piece
	piece.Position = target
	if piece.Type == Pawn {
		piece.FirstTurn = false
	}
	return captured
}

// probe records what undo needs to reverse a Move exactly.
type probe struct {
	piece     *Piece
	from      Position
	captured  *Piece
	firstTurn bool
}

func (b *Board) apply(piece *Piece, target Position) probe {
	pr := probe{piece: piece, from: piece.Position, firstTurn: piece.FirstTurn}
	pr.captured = b.Move(piece, target)
	return pr
}

func (b *Board) undo(pr probe) {
	to := pr.piece.Position
	b.Grid[to.X][to.Y] = pr.captured
	b.Grid[pr.from.X][pr.from.Y] = pr.piece
	pr.piece.Position = pr.from
	pr.piece.FirstTurn = pr.firstTurn
}

// String renders the board with white pieces uppercase, rank 8 first.
func (b *Board) String() string {
	var sb strings.Builder
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			p := b.Grid[x][y]
			if p == nil {
				sb.WriteByte('.')
				continue
			}
			n := p.Type.getPieceNotation()
			if p.Color == Black {
				n = strings.ToLower(n)
			}
			sb.WriteString(n)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
