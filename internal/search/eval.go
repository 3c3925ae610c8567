package search

import "github.com/benbeisheim/chess-backend/internal/model"

var pieceValues = map[model.PieceType]float64{
	model.Pawn:   10,
	model.Knight: 30,
	model.Bishop: 30,
	model.Rook:   50,
	model.Queen:  90,
	model.King:   900,
}

type table [8][8]float64

// Tables are written from white's side: row 0 is black's back rank.
var (
	pawnEvalWhite = table{
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{5.0, 5.0, 5.0, 5.0, 5.0, 5.0, 5.0, 5.0},
		{1.0, 1.0, 2.0, 3.0, 3.0, 2.0, 1.0, 1.0},
		{0.5, 0.5, 1.0, 2.5, 2.5, 1.0, 0.5, 0.5},
		{0.0, 0.0, 0.0, 2.0, 2.0, 0.0, 0.0, 0.0},
		{0.5, -0.5, -1.0, 0.0, 0.0, -1.0, -0.5, 0.5},
		{0.5, 1.0, 1.0, -2.0, -2.0, 1.0, 1.0, 0.5},
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
	}

	knightEval = table{
		{-5.0, -4.0, -3.0, -3.0, -3.0, -3.0, -4.0, -5.0},
		{-4.0, -2.0, 0.0, 0.0, 0.0, 0.0, -2.0, -4.0},
		{-3.0, 0.0, 1.0, 1.5, 1.5, 1.0, 0.0, -3.0},
		{-3.0, 0.5, 1.5, 2.0, 2.0, 1.5, 0.5, -3.0},
		{-3.0, 0.0, 1.5, 2.0, 2.0, 1.5, 0.0, -3.0},
		{-3.0, 0.5, 1.0, 1.5, 1.5, 1.0, 0.5, -3.0},
		{-4.0, -2.0, 0.0, 0.5, 0.5, 0.0, -2.0, -4.0},
		{-5.0, -4.0, -3.0, -3.0, -3.0, -3.0, -4.0, -5.0},
	}

	bishopEvalWhite = table{
		{-2.0, -1.0, -1.0, -1.0, -1.0, -1.0, -1.0, -2.0},
		{-1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -1.0},
		{-1.0, 0.0, 0.5, 1.0, 1.0, 0.5, 0.0, -1.0},
		{-1.0, 0.5, 0.5, 1.0, 1.0, 0.5, 0.5, -1.0},
		{-1.0, 0.0, 1.0, 1.0, 1.0, 1.0, 0.0, -1.0},
		{-1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, -1.0},
		{-1.0, 0.5, 0.0, 0.0, 0.0, 0.0, 0.5, -1.0},
		{-2.0, -1.0, -1.0, -1.0, -1.0, -1.0, -1.0, -2.0},
	}

	rookEvalWhite = table{
		{0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0},
		{0.5, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 0.5},
		{-0.5, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -0.5},
		{-0.5, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -0.5},
		{-0.5, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -0.5},
		{-0.5, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -0.5},
		{-0.5, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -0.5},
		{0.0, 0.0, 0.0, 0.5, 0.5, 0.0, 0.0, 0.0},
	}

	evalQueen = table{
		{-2.0, -1.0, -1.0, -0.5, -0.5, -1.0, -1.0, -2.0},
		{-1.0, 0.0, 0.0, 0.0, 0.0, 0.0, 0.0, -1.0},
		{-1.0, 0.0, 0.5, 0.5, 0.5, 0.5, 0.0, -1.0},
		{-0.5, 0.0, 0.5, 0.5, 0.5, 0.5, 0.0, -0.5},
		{0.0, 0.0, 0.5, 0.5, 0.5, 0.5, 0.0, -0.5},
		{-1.0, 0.5, 0.5, 0.5, 0.5, 0.5, 0.0, -1.0},
		{-1.0, 0.0, 0.5, 0.0, 0.0, 0.0, 0.0, -1.0},
		{-2.0, -1.0, -1.0, -0.5, -0.5, -1.0, -1.0, -2.0},
	}

	kingEvalWhite = table{
		{-3.0, -4.0, -4.0, -5.0, -5.0, -4.0, -4.0, -3.0},
		{-3.0, -4.0, -4.0, -5.0, -5.0, -4.0, -4.0, -3.0},
		{-3.0, -4.0, -4.0, -5.0, -5.0, -4.0, -4.0, -3.0},
		{-3.0, -4.0, -4.0, -5.0, -5.0, -4.0, -4.0, -3.0},
		{-2.0, -3.0, -3.0, -4.0, -4.0, -3.0, -3.0, -2.0},
		{-1.0, -2.0, -2.0, -2.0, -2.0, -2.0, -2.0, -1.0},
		{2.0, 2.0, 0.0, 0.0, 0.0, 0.0, 2.0, 2.0},
		{2.0, 3.0, 1.0, 0.0, 0.0, 1.0, 3.0, 2.0},
	}
)

var whiteTables = map[model.PieceType]*table{
	model.Pawn:   &pawnEvalWhite,
	model.Knight: &knightEval,
	model.Bishop: &bishopEvalWhite,
	model.Rook:   &rookEvalWhite,
	model.Queen:  &evalQueen,
	model.King:   &kingEvalWhite,
}

var blackTables = func() map[model.PieceType]*table {
	m := make(map[model.PieceType]*table, len(whiteTables))
	for t, wt := range whiteTables {
		m[t] = reverseRows(wt)
	}
	return m
}()

func reverseRows(t *table) *table {
	var r table
	for i := range t {
		r[i] = t[len(t)-1-i]
	}
	return &r
}

func pieceScore(p *model.Piece) float64 {
	tables := whiteTables
	if p.Color == model.Black {
		tables = blackTables
	}
	return pieceValues[p.Type] + tables[p.Type][p.Position.X][p.Position.Y]
}

// EvaluateBoard scores the position from white's side: positive favours white.
func EvaluateBoard(b *model.Board) float64 {
	score := 0.0
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			p := b.Grid[x][y]
			if p == nil {
				continue
			}
			if p.Color == model.White {
				score += pieceScore(p)
			} else {
				score -= pieceScore(p)
			}
		}
	}
	return score
}
