package inventory

import (
	"testing"

	"github.com/google/uuid"

	"tradepost.gg/internal/shop/attach"
)

func TestInsertAndCount(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	if !s.Insert(p, Item{ID: "STONE"}, 100, 64) {
		t.Fatalf("insert failed")
	}
	if got := s.CountHeld(p, "STONE"); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestInsertAllOrNothing(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	// Fill the whole grid.
	if !s.Insert(p, Item{ID: "DIRT"}, SlotCount*64, 64) {
		t.Fatalf("fill failed")
	}
	if s.Insert(p, Item{ID: "STONE"}, 1, 64) {
		t.Fatalf("insert into a full grid should fail")
	}
	if got := s.CountHeld(p, "STONE"); got != 0 {
		t.Fatalf("failed insert must not leave partial stock, got %d", got)
	}
}

func TestInsertRespectsMaxStack(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	// 36 slots x 4 per stack = 144 capacity.
	if !s.Insert(p, Item{ID: "BATTERY"}, 144, 4) {
		t.Fatalf("insert to capacity failed")
	}
	if s.Insert(p, Item{ID: "BATTERY"}, 1, 4) {
		t.Fatalf("over-capacity insert should fail")
	}
}

func TestCustomItemsDoNotMergeWithPlain(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	if !s.Insert(p, Item{ID: "BATTERY"}, 1, 64) {
		t.Fatalf("plain insert failed")
	}
	named := Item{ID: "BATTERY", Name: &attach.RichText{Text: "Charged Battery"}}
	if !s.Insert(p, named, 1, 64) {
		t.Fatalf("named insert failed")
	}
	if got := s.CountHeld(p, "BATTERY"); got != 2 {
		t.Fatalf("expected 2 held, got %d", got)
	}
}

func TestRemoveUpToSpansStacks(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	// 3 stacks of 64 plus a remainder.
	if !s.Insert(p, Item{ID: "LOG"}, 200, 64) {
		t.Fatalf("insert failed")
	}
	if got := s.RemoveUpTo(p, "LOG", 130); got != 130 {
		t.Fatalf("expected to remove 130, got %d", got)
	}
	if got := s.CountHeld(p, "LOG"); got != 70 {
		t.Fatalf("expected 70 left, got %d", got)
	}
	// Asking for more than held removes only what is there.
	if got := s.RemoveUpTo(p, "LOG", 1000); got != 70 {
		t.Fatalf("expected 70 removed, got %d", got)
	}
	if got := s.CountHeld(p, "LOG"); got != 0 {
		t.Fatalf("expected empty, got %d", got)
	}
}

func TestRemoveUnknownItem(t *testing.T) {
	s := NewStacks()
	p := uuid.New()
	if got := s.RemoveUpTo(p, "GHOST", 5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
