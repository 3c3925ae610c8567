package fen

import (
	"errors"
	"strings"
	"testing"

	"github.com/benbeisheim/chess-backend/internal/model"
	"github.com/benbeisheim/chess-backend/internal/testutil"
)

func TestParseStartPos(t *testing.T) {
	b, toMove, err := Parse(StartPos)
	testutil.AssertNoError(t, err)
	if toMove != model.White {
		t.Fatalf("toMove = %s", toMove)
	}
	testutil.AssertEqual(t, b, model.NewStandardBoard())
}

func TestParseShortFEN(t *testing.T) {
	b, toMove, err := Parse("7k/6Q1/5K2/8/8/8/8/8 b")
	testutil.AssertNoError(t, err)
	if toMove != model.Black {
		t.Fatalf("toMove = %s", toMove)
	}
	if king := b.PieceAt(model.Position{X: 0, Y: 7}); king == nil || king.Type != model.King || king.Color != model.Black {
		t.Fatalf("h8 = %+v", king)
	}
	if !b.IsCheckmated(model.Black) {
		t.Fatalf("expected black to be mated\n%s", b)
	}
}

func TestParsePawnFirstTurn(t *testing.T) {
	b, _, err := Parse("4k3/3p4/8/8/4P3/8/6P1/4K3 w - - 0 1")
	testutil.AssertNoError(t, err)

	tests := []struct {
		pos  model.Position
		want bool
	}{
		{model.Position{X: 1, Y: 3}, true},  // d7
		{model.Position{X: 4, Y: 4}, false}, // e4
		{model.Position{X: 6, Y: 6}, true},  // g2
	}
	for _, tt := range tests {
		p := b.PieceAt(tt.pos)
		if p == nil || p.Type != model.Pawn {
			t.Fatalf("%s: no pawn", tt.pos)
		}
		if p.FirstTurn != tt.want {
			t.Errorf("%s: FirstTurn = %v, want %v", tt.pos, p.FirstTurn, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{
		"",
		"8/8/8 w",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w - - 0 1",
		"8/8/8/8/8/8/8/8 x - - 0 1",
		"9/8/8/8/8/8/8/8 w - - 0 1",
		"ppppppppp/8/8/8/8/8/8/8 w - - 0 1",
		"8/8/8/8/8/8/8/8 w",
		"4k3/8/8/8/8/8/8/K6K w - - 0 1",
		"4k3/8/8/8/8/8/8/8 w - - 0 1",
		"kk6/8/8/8/8/8/8/7K b - - 0 1",
	}
	for _, s := range tests {
		if _, _, err := Parse(s); !errors.Is(err, ErrInvalidFEN) {
			t.Errorf("Parse(%q): err = %v, want ErrInvalidFEN", s, err)
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	b := model.NewStandardBoard()
	b.Move(b.PieceAt(model.Position{X: 6, Y: 4}), model.Position{X: 4, Y: 4})

	s := Encode(b, model.Black)
	fields := strings.Fields(s)
	if len(fields) < 2 {
		t.Fatalf("Encode = %q", s)
	}
	testutil.AssertEqual(t, fields[0], "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR")
	testutil.AssertEqual(t, fields[1], "b")

	back, toMove, err := Parse(s)
	testutil.AssertNoError(t, err)
	if toMove != model.Black {
		t.Fatalf("toMove = %s", toMove)
	}
	testutil.AssertEqual(t, back, b)
}
