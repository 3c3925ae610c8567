package model

import "testing"

func TestQueuePairsInArrivalOrder(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "a"}); err == nil {
		t.Fatal("duplicate player was queued")
	}

	p1, p2, ok := q.GetNextPair()
	if !ok || p1.Player.ID != "a" || p2.Player.ID != "b" {
		t.Fatalf("pair = %s, %s, %v", p1.Player.ID, p2.Player.ID, ok)
	}
	if p1.JoinedAt.IsZero() || p2.JoinedAt.Before(p1.JoinedAt) {
		t.Fatalf("join times %v, %v", p1.JoinedAt, p2.JoinedAt)
	}
	if _, _, ok := q.GetNextPair(); ok {
		t.Fatal("paired a lone player")
	}
	if !q.Remove("c") || q.Size() != 0 {
		t.Fatalf("remove: size %d", q.Size())
	}
	if q.Remove("c") {
		t.Fatal("removed a player twice")
	}
}

func TestQueueRequeueKeepsPriority(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"a", "b", "c"} {
		q.AddPlayer(Player{ID: id})
	}
	p1, p2, _ := q.GetNextPair()
	q.Requeue(p1, p2)

	if q.Size() != 3 {
		t.Fatalf("size = %d, want 3", q.Size())
	}
	again1, again2, ok := q.GetNextPair()
	if !ok || again1 != p1 || again2 != p2 {
		t.Fatalf("requeued pair = %s, %s", again1.Player.ID, again2.Player.ID)
	}
}
