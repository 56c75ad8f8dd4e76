package chat

import (
	"fmt"
	"testing"
)

func TestHistoryNavigateEmpty(t *testing.T) {
	h := NewHistory()
	if _, ok := h.Navigate(-1, "draft"); ok {
		t.Error("Expected navigation on empty history to be a no-op")
	}
	if h.Navigating() {
		t.Error("Expected cursor to stay reset")
	}
}

func TestHistoryDraftRestore(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Push("b")

	steps := []struct {
		dir  int
		want string
	}{
		{-1, "b"},
		{-1, "a"},
		{-1, "a"}, // clamped at oldest
		{+1, "b"},
		{+1, "x"}, // draft
		{+1, "x"}, // clamped at draft slot
	}

	for i, s := range steps {
		got, ok := h.Navigate(s.dir, "x")
		if !ok {
			t.Fatalf("step %d: expected navigation to succeed", i)
		}
		if got != s.want {
			t.Errorf("step %d: expected %q, got %q", i, s.want, got)
		}
	}
}

func TestHistoryDraftCapturedOnce(t *testing.T) {
	h := NewHistory()
	h.Push("a")

	h.Navigate(-1, "typed")
	got, _ := h.Navigate(+1, "a")
	if got != "typed" {
		t.Errorf("Expected draft from first navigation, got %q", got)
	}
}

func TestHistoryPushDedupesConsecutive(t *testing.T) {
	h := NewHistory()
	h.Push("x")
	h.Push("x")
	h.Push("y")
	h.Push("x")

	entries := h.Entries()
	want := []string{"x", "y", "x"}
	if len(entries) != len(want) {
		t.Fatalf("Expected %v, got %v", want, entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, entries)
		}
	}
}

func TestHistoryCapacity(t *testing.T) {
	h := NewHistory()
	for i := 0; i < 61; i++ {
		h.Push(fmt.Sprintf("m%d", i))
	}

	entries := h.Entries()
	if len(entries) != HistoryCapacity {
		t.Fatalf("Expected %d entries, got %d", HistoryCapacity, len(entries))
	}
	if entries[0] != "m1" || entries[len(entries)-1] != "m60" {
		t.Errorf("Expected m1..m60, got %s..%s", entries[0], entries[len(entries)-1])
	}
}

func TestHistoryPushResetsCursor(t *testing.T) {
	h := NewHistory()
	h.Push("a")
	h.Navigate(-1, "")
	h.Push("b")
	if h.Navigating() {
		t.Error("Expected push to reset the cursor")
	}
}
