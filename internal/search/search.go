package search

import (
	"math"
	"time"

	"github.com/benbeisheim/chess-backend/internal/model"
)

// MateScore is the magnitude of a checkmate found at the horizon; mates found
// with more depth remaining score higher so shorter mates are preferred.
const MateScore = 100000.0

// Node is one search branch: a clone with a single move applied.
type Node struct {
	Board *model.Board
	From  model.Position
	Move  model.Position
}

// Result is the move chosen for the live board.
type Result struct {
	Piece *model.Piece
	Move  model.Position
	Score float64
}

type Stats struct {
	Nodes      int
	Cutoffs    int
	Candidates int
	Elapsed    time.Duration
}

// Searcher runs one search at a time and keeps the stats of the last one.
type Searcher struct {
	stats Stats
}

func NewSearcher() *Searcher {
	return &Searcher{}
}

func (s *Searcher) Stats() Stats {
	return s.stats
}

func colorFor(maximizing bool) model.Color {
	if maximizing {
		return model.White
	}
	return model.Black
}

// GeneratePossibleBoards returns one node per legal move of color, pieces in
// row-major order.
func GeneratePossibleBoards(b *model.Board, color model.Color) []Node {
	nodes := []Node{}
	for _, candidate := range b.AllLegalMoves(color) {
		clone := b.Clone()
		clone.Move(clone.PieceAt(candidate.Piece.Position), candidate.To)
		nodes = append(nodes, Node{
			Board: clone,
			From:  candidate.Piece.Position,
			Move:  candidate.To,
		})
	}
	return nodes
}

// Minimax scores b with white maximizing and alpha-beta pruning.
func Minimax(b *model.Board, depth int, maximizing bool, alpha, beta float64) float64 {
	return NewSearcher().Minimax(b, depth, maximizing, alpha, beta)
}

func (s *Searcher) Minimax(b *model.Board, depth int, maximizing bool, alpha, beta float64) float64 {
	s.stats.Nodes++
	if depth <= 0 {
		return EvaluateBoard(b)
	}

	nodes := GeneratePossibleBoards(b, colorFor(maximizing))
	if len(nodes) == 0 {
		return terminalScore(b, depth, maximizing)
	}

	if maximizing {
		best := math.Inf(-1)
		for _, node := range nodes {
			best = math.Max(best, s.Minimax(node.Board, depth-1, false, alpha, beta))
			alpha = math.Max(alpha, best)
			if beta <= alpha {
				s.stats.Cutoffs++
				break
			}
		}
		return best
	}

	best := math.Inf(1)
	for _, node := range nodes {
		best = math.Min(best, s.Minimax(node.Board, depth-1, true, alpha, beta))
		beta = math.Min(beta, best)
		if beta <= alpha {
			s.stats.Cutoffs++
			break
		}
	}
	return best
}

// terminalScore scores a side to move with no legal move: mated or stalemated.
func terminalScore(b *model.Board, depth int, maximizing bool) float64 {
	if !b.IsKingInCheck(colorFor(maximizing)) {
		return 0
	}
	score := MateScore + float64(depth)
	if maximizing {
		return -score
	}
	return score
}

// GenerateAIMove picks a move for white when maximizing, black otherwise.
// Ties go to the later candidate. It reports false when there is no legal move.
func GenerateAIMove(b *model.Board, depth int, maximizing bool) (Result, bool) {
	return NewSearcher().GenerateAIMove(b, depth, maximizing)
}

func (s *Searcher) GenerateAIMove(b *model.Board, depth int, maximizing bool) (Result, bool) {
	start := time.Now()
	s.stats = Stats{}
	defer func() { s.stats.Elapsed = time.Since(start) }()

	if depth < 1 {
		depth = 1
	}
	nodes := GeneratePossibleBoards(b, colorFor(maximizing))
	s.stats.Candidates = len(nodes)
	if len(nodes) == 0 {
		return Result{}, false
	}

	var best *Node
	bestScore := math.Inf(1)
	if maximizing {
		bestScore = math.Inf(-1)
	}
	for i := range nodes {
		score := s.Minimax(nodes[i].Board, depth-1, !maximizing, math.Inf(-1), math.Inf(1))
		if (maximizing && score >= bestScore) || (!maximizing && score <= bestScore) {
			bestScore = score
			best = &nodes[i]
		}
	}

	return Result{
		Piece: b.PieceAt(best.From),
		Move:  best.Move,
		Score: bestScore,
	}, true
}
