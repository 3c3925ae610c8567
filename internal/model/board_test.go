package model

import (
	"testing"

	"github.com/benbeisheim/chess-backend/internal/testutil"
)

func TestSetupPiecesCounts(t *testing.T) {
	b := NewStandardBoard()
	want := map[PieceType]int{Pawn: 8, Rook: 2, Knight: 2, Bishop: 2, Queen: 1, King: 1}

	for _, color := range []Color{White, Black} {
		pieces := b.GetPieces(color)
		if len(pieces) != 16 {
			t.Fatalf("%s: got %d pieces, want 16", color, len(pieces))
		}
		got := map[PieceType]int{}
		for _, p := range pieces {
			got[p.Type]++
		}
		testutil.AssertEqual(t, got, want, "%s piece counts", color)
	}
}

func TestSetupPiecesPositions(t *testing.T) {
	b := NewStandardBoard()
	checks := []struct {
		pos   Position
		typ   PieceType
		color Color
	}{
		{Position{0, 0}, Rook, Black},
		{Position{0, 3}, Queen, Black},
		{Position{0, 4}, King, Black},
		{Position{7, 4}, King, White},
		{Position{7, 6}, Knight, White},
		{Position{1, 5}, Pawn, Black},
	}
	for _, c := range checks {
		p := b.PieceAt(c.pos)
		if p == nil || p.Type != c.typ || p.Color != c.color {
			t.Errorf("%v: got %+v, want %s %s", c.pos, p, c.color, c.typ)
			continue
		}
		if p.Position != c.pos {
			t.Errorf("%v: piece believes it is on %v", c.pos, p.Position)
		}
	}
	for _, p := range b.GetPieces(White) {
		if p.Type == Pawn && (p.Position.X != 6 || !p.FirstTurn) {
			t.Errorf("white pawn %+v not on row 6 with its double step", p)
		}
	}
}

func TestGetPiecesRowMajor(t *testing.T) {
	b := NewStandardBoard()
	black := b.GetPieces(Black)
	if first := black[0].Position; first != (Position{0, 0}) {
		t.Fatalf("first black piece on %v", first)
	}
	if last := black[len(black)-1].Position; last != (Position{1, 7}) {
		t.Fatalf("last black piece on %v", last)
	}
}

func TestFindKing(t *testing.T) {
	b := NewStandardBoard()
	for _, color := range []Color{White, Black} {
		king, ok := b.FindKing(color)
		if !ok || king.Type != King || king.Color != color {
			t.Fatalf("FindKing(%s) = %+v, %v", color, king, ok)
		}
	}

	if king, ok := NewBoard().FindKing(White); ok || king != nil {
		t.Fatalf("empty board: FindKing = %+v, %v", king, ok)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewStandardBoard()
	clone := b.Clone()
	testutil.AssertEqual(t, clone, b)

	orig := b.PieceAt(Position{6, 0})
	cp := clone.PieceAt(Position{6, 0})
	if orig == cp {
		t.Fatal("clone shares piece pointers with the original")
	}

	clone.Move(cp, Position{4, 0})
	if orig.Position != (Position{6, 0}) || !orig.FirstTurn {
		t.Fatalf("moving the clone's pawn changed the original: %+v", orig)
	}
	if b.PieceAt(Position{4, 0}) != nil || b.PieceAt(Position{6, 0}) != orig {
		t.Fatal("moving on the clone changed the original grid")
	}
}

func TestMoveToEmptySquare(t *testing.T) {
	b := NewStandardBoard()
	pawn := b.PieceAt(Position{6, 4})

	captured := b.Move(pawn, Position{5, 4})
	if captured != nil {
		t.Fatalf("captured %+v moving to an empty square", captured)
	}
	if b.PieceAt(Position{6, 4}) != nil || b.PieceAt(Position{5, 4}) != pawn {
		t.Fatal("pawn not relocated")
	}
	if pawn.Position != (Position{5, 4}) || pawn.FirstTurn {
		t.Fatalf("pawn state after move: %+v", pawn)
	}
}

func TestMoveCaptures(t *testing.T) {
	b := NewBoard()
	white := place(b, Pawn, White, 6, 4)
	black := place(b, Pawn, Black, 5, 4)

	if captured := b.Move(white, Position{5, 4}); captured != black {
		t.Fatalf("captured %+v, want the black pawn", captured)
	}
	if b.PieceAt(Position{5, 4}) != white || b.PieceAt(Position{6, 4}) != nil {
		t.Fatal("capture did not replace the occupant")
	}
	if len(b.GetPieces(Black)) != 0 {
		t.Fatal("captured piece still on the board")
	}
}

func TestApplyUndoRestoresBoard(t *testing.T) {
	b := NewStandardBoard()
	place(b, Knight, Black, 5, 3)
	before := b.Clone()

	for _, piece := range b.GetPieces(White) {
		for _, move := range b.PossibleMoves(piece) {
			pr := b.apply(piece, move)
			b.undo(pr)
			testutil.AssertEqual(t, b, before, "after probing %s%s", pr.from, move)
		}
	}
}

func TestPlaceAndRemove(t *testing.T) {
	b := NewBoard()
	q := place(b, Queen, White, 2, 2)
	if b.PieceAt(Position{2, 2}) != q {
		t.Fatal("Place did not store the piece")
	}
	if got := b.Remove(Position{2, 2}); got != q {
		t.Fatalf("Remove returned %+v", got)
	}
	if b.PieceAt(Position{2, 2}) != nil {
		t.Fatal("square not empty after Remove")
	}
	if b.PieceAt(Position{9, 0}) != nil || b.Remove(Position{-1, 0}) != nil {
		t.Fatal("out of bounds access returned a piece")
	}
}

func TestBoardString(t *testing.T) {
	want := "rnbqkbnr\npppppppp\n........\n........\n........\n........\nPPPPPPPP\nRNBQKBNR\n"
	testutil.AssertEqual(t, NewStandardBoard().String(), want)
}
