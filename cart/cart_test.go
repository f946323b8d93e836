package cart

import "testing"

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		name   string
		ops    [][2]any // itemID, delta
		item   string
		want   int
		exists bool
	}{
		{"single add", [][2]any{{"101", 1}}, "101", 1, true},
		{"merge adds", [][2]any{{"101", 1}, {"101", 2}}, "101", 3, true},
		{"remove to zero deletes entry", [][2]any{{"101", 2}, {"101", -2}}, "101", 0, false},
		{"clamp below zero", [][2]any{{"101", 1}, {"101", -5}}, "101", 0, false},
		{"negative on empty is no-op", [][2]any{{"101", -1}}, "101", 0, false},
		{"independent items", [][2]any{{"101", 2}, {"202", 1}, {"101", -1}}, "101", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := map[string]int{}
			for _, op := range tt.ops {
				ApplyDelta(m, op[0].(string), op[1].(int))
			}
			q, ok := m[tt.item]
			if ok != tt.exists {
				t.Fatalf("entry present = %v, want %v (map: %v)", ok, tt.exists, m)
			}
			if q != tt.want {
				t.Errorf("quantity = %d, want %d", q, tt.want)
			}
		})
	}
}

func TestApplyDeltaNetSum(t *testing.T) {
	// The persisted quantity equals the net sum of deltas, clamped at zero.
	m := map[string]int{}
	deltas := []int{3, -1, 2, -10, 4, 1}
	for _, d := range deltas {
		ApplyDelta(m, "x", d)
	}
	// 3-1+2 = 4, clamped to 0 by -10, then 4+1 = 5
	if m["x"] != 5 {
		t.Errorf("net quantity = %d, want 5", m["x"])
	}
	for id, q := range m {
		if q == 0 {
			t.Errorf("zero quantity entry %q should not be present", id)
		}
	}
}

func TestSubscribeReceivesMutations(t *testing.T) {
	s := NewStore(nil)
	ch := s.Subscribe()

	s.notify(Event{UserID: "u1", ItemCount: 3})

	select {
	case ev := <-ch:
		if ev.UserID != "u1" || ev.ItemCount != 3 {
			t.Errorf("event = %+v, want {u1 3}", ev)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestSubscribeDropsWhenFull(t *testing.T) {
	s := NewStore(nil)
	ch := s.Subscribe()

	// Overfill the buffer; notify must not block.
	for i := 0; i < 40; i++ {
		s.notify(Event{UserID: "u1", ItemCount: i})
	}
	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered events = %d, want %d", got, cap(ch))
	}
}

func TestTotalItems(t *testing.T) {
	m := map[string]int{"101": 2, "202": 1}
	if got := TotalItems(m); got != 3 {
		t.Errorf("TotalItems = %d, want 3", got)
	}
	if got := TotalItems(map[string]int{}); got != 0 {
		t.Errorf("TotalItems(empty) = %d, want 0", got)
	}
}
