package ringbuf

import "testing"

func TestCapacityMustBePowerOfTwo(t *testing.T) {
	for _, c := range []int{-1, 0, 3, 6, 100} {
		if _, err := New[int](c); err == nil {
			t.Errorf("New(%d) accepted a non-power-of-two capacity", c)
		}
	}
	for _, c := range []int{1, 2, 4, 8192} {
		if _, err := New[int](c); err != nil {
			t.Errorf("New(%d): %v", c, err)
		}
	}
}

func TestOfferUntilFull(t *testing.T) {
	r, err := New[string](4)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"A", "B", "C", "D"} {
		if !r.Offer(s) {
			t.Fatalf("Offer(%s) = false before capacity reached", s)
		}
	}
	if r.Offer("E") {
		t.Error("Offer on a full buffer must signal backpressure")
	}

	if v, ok := r.Poll(); !ok || v != "A" {
		t.Errorf("Poll = %q, %v; want A", v, ok)
	}
	if v, ok := r.Poll(); !ok || v != "B" {
		t.Errorf("Poll = %q, %v; want B", v, ok)
	}
}

func TestPollEmpty(t *testing.T) {
	r, _ := New[int](2)
	if _, ok := r.Poll(); ok {
		t.Error("Poll on empty buffer must report empty")
	}
}

func TestFIFOAcrossWrap(t *testing.T) {
	r, _ := New[int](4)
	next := 0
	// Cycle well past the capacity so the cursors wrap.
	for round := 0; round < 5; round++ {
		for i := 0; i < 4; i++ {
			if !r.Offer(next + i) {
				t.Fatalf("round %d: Offer(%d) failed", round, next+i)
			}
		}
		for i := 0; i < 4; i++ {
			v, ok := r.Poll()
			if !ok || v != next+i {
				t.Fatalf("round %d: Poll = %d, %v; want %d", round, v, ok, next+i)
			}
		}
		next += 4
	}
}

func TestLenCap(t *testing.T) {
	r, _ := New[int](8)
	if r.Cap() != 8 {
		t.Errorf("Cap = %d, want 8", r.Cap())
	}
	r.Offer(1)
	r.Offer(2)
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
	r.Poll()
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}
