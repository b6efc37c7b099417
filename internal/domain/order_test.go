package domain

import (
	"testing"
	"time"
)

func TestStatusAt(t *testing.T) {
	o := Order{StartTime: at(10, 0), EndTime: at(11, 0)}

	if got := o.StatusAt(at(9, 59)); got != StatusWaiting {
		t.Fatalf("before start: %s", got)
	}
	if got := o.StatusAt(at(10, 0)); got != StatusGoing {
		t.Fatalf("at start: %s", got)
	}
	if got := o.StatusAt(at(10, 59)); got != StatusGoing {
		t.Fatalf("mid interval: %s", got)
	}
	if got := o.StatusAt(at(11, 0)); got != StatusDone {
		t.Fatalf("at end: %s", got)
	}
}

// Status only ever advances as the clock moves forward.
func TestStatusMonotonic(t *testing.T) {
	o := Order{StartTime: at(10, 0), EndTime: at(11, 0)}
	rank := map[OrderStatus]int{StatusWaiting: 0, StatusGoing: 1, StatusDone: 2}

	prev := StatusWaiting
	for now := at(9, 0); now.Before(at(12, 0)); now = now.Add(7 * time.Minute) {
		cur := o.StatusAt(now)
		if rank[cur] < rank[prev] {
			t.Fatalf("status went backwards: %s -> %s at %v", prev, cur, now)
		}
		prev = cur
	}
}

func TestCost(t *testing.T) {
	// 1.5h at 100/hr
	if got := Cost(at(9, 0), at(10, 30), 100); got != 150 {
		t.Fatalf("got %v, want 150", got)
	}
	// fractional hours bill proportionally, not rounded up
	if got := Cost(at(9, 0), at(9, 10), 60); got != 10 {
		t.Fatalf("got %v, want 10", got)
	}
	if got := Cost(at(9, 0), at(10, 0), 0); got != 0 {
		t.Fatalf("free court should cost 0, got %v", got)
	}
}

// Equal inputs always produce equal cost.
func TestCostDeterministic(t *testing.T) {
	a := Cost(at(9, 0), at(10, 30), 99.5)
	b := Cost(at(9, 0), at(10, 30), 99.5)
	if a != b {
		t.Fatalf("cost not deterministic: %v vs %v", a, b)
	}
}
