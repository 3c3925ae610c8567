package model

// MoveCandidate is one legal move of one piece.
type MoveCandidate struct {
	Piece *Piece
	To    Position
}

// IsKingInCheck reports whether any opposing piece can reach color's king.
// A missing king is never in check.
func (b *Board) IsKingInCheck(color Color) bool {
	king, ok := b.FindKing(color)
	if !ok {
		return false
	}
	for _, piece := range b.GetPieces(color.Opponent()) {
		for _, move := range b.PossibleMoves(piece) {
			if move == king.Position {
				return true
			}
		}
	}
	return false
}

// IsValidMove simulates the move on a clone and reports whether the mover's
// king is safe afterwards.
func (b *Board) IsValidMove(piece *Piece, move Position) bool {
	sim := b.Clone()
	simPiece := sim.PieceAt(piece.Position)
	if simPiece == nil {
		return false
	}
	sim.Move(simPiece, move)
	return !sim.IsKingInCheck(piece.Color)
}

func (b *Board) GetLegalMoves(piece *Piece) []Position {
	legalMoves := []Position{}
	for _, move := range b.PossibleMoves(piece) {
		if b.IsValidMove(piece, move) {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// AllLegalMoves returns every legal move of color, pieces in row-major order.
func (b *Board) AllLegalMoves(color Color) []MoveCandidate {
	candidates := []MoveCandidate{}
	for _, piece := range b.GetPieces(color) {
		for _, to := range b.GetLegalMoves(piece) {
			candidates = append(candidates, MoveCandidate{Piece: piece, To: to})
		}
	}
	return candidates
}

func (b *Board) HasLegalMoves(color Color) bool {
	for _, piece := range b.GetPieces(color) {
		if len(b.GetLegalMoves(piece)) > 0 {
			return true
		}
	}
	return false
}

// IsCheckmated reports whether color is in check with no escaping move.
// Every probe is made and undone on a single clone.
func (b *Board) IsCheckmated(color Color) bool {
	if !b.IsKingInCheck(color) {
		return false
	}
	sim := b.Clone()
	for _, piece := range sim.GetPieces(color) {
		for _, move := range sim.PossibleMoves(piece) {
			pr := sim.apply(piece, move)
			escaped := !sim.IsKingInCheck(color)
			sim.undo(pr)
			if escaped {
				return false
			}
		}
	}
	return true
}

// IsStalemate reports whether color is not in check and has no legal move.
func (b *Board) IsStalemate(color Color) bool {
	if b.IsKingInCheck(color) {
		return false
	}
	return !b.HasLegalMoves(color)
}
