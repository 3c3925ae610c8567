package model

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type Phase string

const (
	PhaseSelecting Phase = "selecting"
	PhaseShowing   Phase = "showing"
	PhaseOver      Phase = "over"
)

type OutcomeKind string

const (
	OutcomeCheckmate OutcomeKind = "checkmate"
	OutcomeStalemate OutcomeKind = "stalemate"
)

type Outcome struct {
	Kind   OutcomeKind `json:"kind"`
	Winner *Color      `json:"winner"` // nil on stalemate
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// TurnState is the per-turn state machine. It is a plain value: Select and
// Advance return the next state instead of mutating shared flags.
type TurnState struct {
	ToMove     Color       `json:"toMove"`
	Phase      Phase       `json:"phase"`
	Selected   *Position   `json:"selectedSquare"`
	LegalMoves []Position  `json:"legalMoves"`
	Check      *Position   `json:"check"` // king square of ToMove while in check
	Outcome    *Outcome    `json:"outcome"`
	LastMove   *SimpleMove `json:"lastMove"`
	Notation   string      `json:"notation"`
}

func NewTurnState(toMove Color) TurnState {
	return TurnState{
		ToMove:     toMove,
		Phase:      PhaseSelecting,
		LegalMoves: make([]Position, 0),
	}
}

// Evaluate recomputes check and terminal status for the side to move.
func (s TurnState) Evaluate(b *Board) TurnState {
	s.Check = nil
	if b.IsKingInCheck(s.ToMove) {
		if king, ok := b.FindKing(s.ToMove); ok {
			pos := king.Position
			s.Check = &pos
		}
	}
	switch {
	case b.IsCheckmated(s.ToMove):
		winner := s.ToMove.Opponent()
		s.Outcome = &Outcome{Kind: OutcomeCheckmate, Winner: &winner}
		s.Phase = PhaseOver
	case b.IsStalemate(s.ToMove):
		s.Outcome = &Outcome{Kind: OutcomeStalemate}
		s.Phase = PhaseOver
	}
	return s
}

func (s TurnState) IsOver() bool {
	return s.Phase == PhaseOver
}

// Select shows the legal moves of the piece at pos. Empty squares, the
// opponent's pieces and finished games leave the state unchanged.
func Select(b *Board, s TurnState, pos Position) TurnState {
	if s.IsOver() {
		return s
	}
	piece := b.PieceAt(pos)
	if piece == nil || piece.Color != s.ToMove {
		return s
	}
	s.Selected = &pos
	s.LegalMoves = b.GetLegalMoves(piece)
	s.Phase = PhaseShowing
	return s
}

// Advance validates and applies from->to, flips the turn and evaluates the
// position for the new side to move.
func Advance(b *Board, s TurnState, from, to Position) (TurnState, error) {
	if s.IsOver() {
		return s, ErrGameOver
	}
	if isOutside(from.X, from.Y) || isOutside(to.X, to.Y) {
		return s, fmt.Errorf("%s -> %v: %w", from, to, ErrOutOfBounds)
	}
	piece := b.PieceAt(from)
	if piece == nil {
		return s, fmt.Errorf("%s: %w", from, ErrNoPiece)
	}
	if piece.Color != s.ToMove {
		return s, ErrNotYourTurn
	}
	if !slices.Contains(b.GetLegalMoves(piece), to) {
		return s, fmt.Errorf("%s%s: %w", from, to, ErrIllegalMove)
	}

	notation := moveNotation(b, piece, to)
	b.Move(piece, to)

	next := NewTurnState(s.ToMove.Opponent())
	next.LastMove = &SimpleMove{From: from, To: to}
	next = next.Evaluate(b)
	switch {
	case next.Outcome != nil && next.Outcome.Kind == OutcomeCheckmate:
		notation += "#"
	case next.Check != nil:
		notation += "+"
	}
	next.Notation = notation
	return next, nil
}

// moveNotation must run before the move is applied.
func moveNotation(b *Board, piece *Piece, to Position) string {
	prefix := piece.Type.getPieceNotation()
	if piece.Type == Pawn {
		prefix = ""
	}
	capture := ""
	if b.PieceAt(to) != nil {
		capture = "x"
		if piece.Type == Pawn {
			capture = fmt.Sprintf("%cx", piece.Position.Y+97)
		}
	}
	return fmt.Sprintf("%s%s%s", prefix, capture, to.getSquareNotation())
}
